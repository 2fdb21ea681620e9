package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	cwerrors "cloudwright/internal/errors"
	"cloudwright/core/registry"
	"cloudwright/core/spec"
)

const schema = `
CREATE TABLE IF NOT EXISTS providers (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS regions (
    id TEXT PRIMARY KEY,
    provider_id TEXT NOT NULL,
    code TEXT NOT NULL,
    name TEXT NOT NULL,
    normalized TEXT NOT NULL,
    UNIQUE(provider_id, code)
);

CREATE TABLE IF NOT EXISTS instance_types (
    id TEXT PRIMARY KEY,
    provider_id TEXT NOT NULL,
    name TEXT NOT NULL,
    family TEXT,
    family_normalized TEXT,
    vcpus INTEGER NOT NULL,
    memory_gb REAL NOT NULL,
    storage_desc TEXT,
    gpu_count INTEGER DEFAULT 0,
    network_bandwidth TEXT,
    arch TEXT DEFAULT 'x86_64',
    generation TEXT,
    description TEXT
);

CREATE TABLE IF NOT EXISTS pricing (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    instance_type_id TEXT NOT NULL,
    region_id TEXT NOT NULL,
    os TEXT NOT NULL DEFAULT 'linux',
    price_per_hour REAL NOT NULL,
    price_type TEXT NOT NULL DEFAULT 'on_demand',
    UNIQUE(instance_type_id, region_id, os, price_type)
);

CREATE TABLE IF NOT EXISTS equivalences (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    instance_a_id TEXT NOT NULL,
    instance_b_id TEXT NOT NULL,
    confidence REAL NOT NULL DEFAULT 0.8,
    match_type TEXT NOT NULL DEFAULT 'spec',
    UNIQUE(instance_a_id, instance_b_id)
);

CREATE TABLE IF NOT EXISTS managed_services (
    id TEXT PRIMARY KEY,
    provider_id TEXT NOT NULL,
    service TEXT NOT NULL,
    tier_name TEXT NOT NULL,
    price_per_hour REAL NOT NULL DEFAULT 0,
    price_per_month REAL NOT NULL DEFAULT 0,
    vcpus INTEGER DEFAULT 0,
    memory_gb REAL DEFAULT 0,
    notes TEXT DEFAULT ''
);

CREATE TABLE IF NOT EXISTS catalog_metadata (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS service_definitions (
    id TEXT PRIMARY KEY,
    provider_id TEXT NOT NULL,
    service_key TEXT NOT NULL,
    category TEXT NOT NULL,
    name TEXT NOT NULL,
    pricing_formula TEXT NOT NULL DEFAULT 'per_hour',
    default_config TEXT DEFAULT '{}',
    UNIQUE(provider_id, service_key)
);

CREATE TABLE IF NOT EXISTS service_equivalences (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    service_a TEXT NOT NULL,
    provider_a TEXT NOT NULL,
    service_b TEXT NOT NULL,
    provider_b TEXT NOT NULL,
    UNIQUE(service_a, provider_a, service_b, provider_b)
);

CREATE INDEX IF NOT EXISTS idx_instance_provider ON instance_types(provider_id);
CREATE INDEX IF NOT EXISTS idx_instance_vcpus ON instance_types(vcpus);
CREATE INDEX IF NOT EXISTS idx_instance_memory ON instance_types(memory_gb);
CREATE INDEX IF NOT EXISTS idx_pricing_instance ON pricing(instance_type_id);
CREATE INDEX IF NOT EXISTS idx_pricing_region ON pricing(region_id);
CREATE INDEX IF NOT EXISTS idx_managed_service ON managed_services(provider_id, service);
`

// pricingMultipliers maps a pricing commitment tier to its discount off
// the on-demand rate.
var pricingMultipliers = map[string]float64{
	"on_demand":    1.0,
	"reserved_1yr": 0.6,
	"reserved_3yr": 0.4,
	"spot":         0.3,
}

type regionInfo struct {
	code       string
	normalized string
	name       string
}

// regionMap is the catalog's known region set, grouped by normalized
// zone so cross-provider instance search can compare like-for-like.
var regionMap = map[string][]regionInfo{
	"aws": {
		{"us-east-1", "us_east", "US East (Virginia)"},
		{"us-west-2", "us_west", "US West (Oregon)"},
		{"eu-west-1", "eu_west", "EU (Ireland)"},
		{"ap-southeast-1", "ap_southeast", "Asia Pacific (Singapore)"},
	},
	"gcp": {
		{"us-central1", "us_east", "US Central (Iowa)"},
		{"us-west1", "us_west", "US West (Oregon)"},
		{"europe-west1", "eu_west", "EU (Belgium)"},
		{"asia-southeast1", "ap_southeast", "Asia SE (Singapore)"},
	},
	"azure": {
		{"eastus", "us_east", "East US"},
		{"westus2", "us_west", "West US 2"},
		{"westeurope", "eu_west", "West Europe"},
		{"southeastasia", "ap_southeast", "Southeast Asia"},
	},
}

// InstanceRow is a catalog instance_types row joined with its on-demand
// Linux, us_east price, if one exists.
type InstanceRow struct {
	ID               string
	Provider         string
	Name             string
	Family           string
	VCPUs            int
	MemoryGB         float64
	StorageDesc      string
	GPUCount         int
	NetworkBandwidth string
	Arch             string
	PricePerHour     *float64
	PriceType        string
	RegionCode       string
}

// PricePerMonth returns the 730-hour monthly projection of the hourly
// price, or nil if no price is known.
func (r InstanceRow) PricePerMonth() *float64 {
	if r.PricePerHour == nil {
		return nil
	}
	m := round2(*r.PricePerHour * 730)
	return &m
}

// Store is the embedded, SQLite-backed service catalog.
type Store struct {
	db *sql.DB
}

// Open opens (creating and seeding if necessary) the catalog at path.
// Pass ":memory:" for an ephemeral, process-local catalog (tests use
// this). Seeding runs whenever the instance_types table is empty,
// regardless of path — a deliberate simplification over the original's
// bundled-vs-caller-managed distinction, recorded in DESIGN.md.
func Open(ctx context.Context, path string, reg *registry.Registry) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, cwerrors.CatalogIO("opening catalog database", err)
	}
	db.SetMaxOpenConns(1) // modernc.org/sqlite + WAL: single writer keeps this simple

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, cwerrors.CatalogIO("enabling WAL journaling", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, cwerrors.CatalogIO("applying catalog schema", err)
	}

	s := &Store{db: db}

	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM instance_types").Scan(&count); err != nil {
		db.Close()
		return nil, cwerrors.CatalogIO("counting instance_types", err)
	}
	if count == 0 {
		if err := s.seed(ctx, reg); err != nil {
			db.Close()
			return nil, err
		}
	}

	return s, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) seed(ctx context.Context, reg *registry.Registry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return cwerrors.CatalogIO("beginning seed transaction", err)
	}
	defer tx.Rollback()

	providers := []struct{ id, name string }{
		{"aws", "Amazon Web Services"},
		{"gcp", "Google Cloud"},
		{"azure", "Microsoft Azure"},
	}
	for _, p := range providers {
		if _, err := tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO providers (id, name) VALUES (?, ?)", p.id, p.name); err != nil {
			return cwerrors.CatalogIO("seeding providers", err)
		}
	}

	for provider, regions := range regionMap {
		for _, r := range regions {
			rid := provider + ":" + r.code
			if _, err := tx.ExecContext(ctx,
				`INSERT OR IGNORE INTO regions (id, provider_id, code, name, normalized)
				 VALUES (?, ?, ?, ?, ?)`, rid, provider, r.code, r.name, r.normalized); err != nil {
				return cwerrors.CatalogIO("seeding regions", err)
			}
		}
	}

	for _, inst := range seedInstances {
		instID := inst.provider + ":" + inst.name
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO instance_types
			 (id, provider_id, name, family, family_normalized, vcpus, memory_gb,
			  storage_desc, gpu_count, network_bandwidth, arch, generation, description)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			instID, inst.provider, inst.name, inst.family, inst.familyNorm, inst.vcpus, inst.memoryGB,
			inst.storageDesc, 0, inst.networkBW, "x86_64", inst.generation, inst.description,
		); err != nil {
			return cwerrors.CatalogIO("seeding instance_types", err)
		}
		for _, region := range regionMap[inst.provider] {
			regionID := inst.provider + ":" + region.code
			if _, err := tx.ExecContext(ctx,
				`INSERT OR IGNORE INTO pricing (instance_type_id, region_id, os, price_per_hour, price_type)
				 VALUES (?, ?, 'linux', ?, 'on_demand')`,
				instID, regionID, inst.priceUSEast*regionMultiplier(region.normalized)); err != nil {
				return cwerrors.CatalogIO("seeding pricing", err)
			}
		}
	}

	for _, ms := range seedManagedServices {
		id := ms.provider + ":" + ms.service + ":" + ms.tier
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO managed_services
			 (id, provider_id, service, tier_name, price_per_hour, price_per_month, notes)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			id, ms.provider, ms.service, ms.tier, ms.pricePerHour, ms.pricePerMonth, ms.notes); err != nil {
			return cwerrors.CatalogIO("seeding managed_services", err)
		}
	}

	for _, eq := range seedInstanceEquivalences {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO equivalences (instance_a_id, instance_b_id, confidence, match_type)
			 VALUES (?, ?, ?, 'spec')`, eq.a, eq.b, eq.confidence); err != nil {
			return cwerrors.CatalogIO("seeding instance equivalences", err)
		}
	}

	if err := syncFromRegistryTx(ctx, tx, reg); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT OR REPLACE INTO catalog_metadata (key, value) VALUES ('seeded_at', ?)",
		time.Now().UTC().Format(time.RFC3339)); err != nil {
		return cwerrors.CatalogIO("recording seed metadata", err)
	}

	if err := tx.Commit(); err != nil {
		return cwerrors.CatalogIO("committing seed transaction", err)
	}
	return nil
}

// regionMultiplier nudges base us_east pricing for other zones, since
// the seed set carries only one observed price point per instance.
func regionMultiplier(normalized string) float64 {
	switch normalized {
	case "us_west":
		return 1.0
	case "eu_west":
		return 1.08
	case "ap_southeast":
		return 1.12
	default:
		return 1.0
	}
}

// FindInstance looks up one instance by bare name (tried against every
// provider) or fully-qualified "provider:name" id.
func (s *Store) FindInstance(ctx context.Context, name string) (*InstanceRow, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT i.id, i.provider_id, i.name, i.family, i.vcpus, i.memory_gb,
		       i.storage_desc, i.gpu_count, i.network_bandwidth, i.arch,
		       p.price_per_hour, p.price_type, r.code
		FROM instance_types i
		LEFT JOIN pricing p ON p.instance_type_id = i.id AND p.os = 'linux' AND p.price_type = 'on_demand'
		LEFT JOIN regions r ON r.id = p.region_id AND r.normalized = 'us_east'
		WHERE i.name = ? OR i.id = ?
		LIMIT 1`, name, name)
	return scanInstanceRow(row)
}

// Compare returns catalog rows for each named instance, trying the bare
// name first and then each provider prefix, matching the original's
// best-effort cross-provider lookup.
func (s *Store) Compare(ctx context.Context, names ...string) ([]InstanceRow, error) {
	var out []InstanceRow
	for _, name := range names {
		id := name
		if !strings.Contains(name, ":") {
			id = "aws:" + name
		}
		row := s.db.QueryRowContext(ctx, `
			SELECT i.id, i.provider_id, i.name, i.family, i.vcpus, i.memory_gb,
			       i.storage_desc, i.gpu_count, i.network_bandwidth, i.arch,
			       p.price_per_hour, p.price_type, r.code
			FROM instance_types i
			LEFT JOIN pricing p ON p.instance_type_id = i.id AND p.os = 'linux' AND p.price_type = 'on_demand'
			LEFT JOIN regions r ON r.id = p.region_id AND r.normalized = 'us_east'
			WHERE i.name = ? OR i.id = ?
			LIMIT 1`, name, id)
		inst, err := scanInstanceRow(row)
		if err != nil {
			return nil, err
		}
		if inst != nil {
			out = append(out, *inst)
			continue
		}
		for _, prefix := range []string{"gcp:", "azure:"} {
			row := s.db.QueryRowContext(ctx, `
				SELECT i.id, i.provider_id, i.name, i.family, i.vcpus, i.memory_gb,
				       i.storage_desc, i.gpu_count, i.network_bandwidth, i.arch,
				       p.price_per_hour, p.price_type, r.code
				FROM instance_types i
				LEFT JOIN pricing p ON p.instance_type_id = i.id AND p.os = 'linux' AND p.price_type = 'on_demand'
				LEFT JOIN regions r ON r.id = p.region_id AND r.normalized = 'us_east'
				WHERE i.id = ?
				LIMIT 1`, prefix+name)
			inst, err := scanInstanceRow(row)
			if err != nil {
				return nil, err
			}
			if inst != nil {
				out = append(out, *inst)
				break
			}
		}
	}
	return out, nil
}

// SearchOptions narrows a catalog instance search. Zero values are
// treated as "no constraint" for that field.
type SearchOptions struct {
	Query           string
	VCPUs           int
	MemoryGB        float64
	Provider        string
	MaxPricePerHour float64
	Limit           int
}

// Search looks up instances by spec constraints and/or a free-text
// query, ordered by ascending on-demand price (instances with no known
// price sort last). Every filter is either a hardcoded SQL fragment or
// a parameterized placeholder — no user input is ever interpolated
// into the query text.
func (s *Store) Search(ctx context.Context, opts SearchOptions) ([]InstanceRow, error) {
	var conditions []string
	var params []any

	if opts.Provider != "" {
		conditions = append(conditions, "i.provider_id = ?")
		params = append(params, opts.Provider)
	}
	if opts.VCPUs > 0 {
		conditions = append(conditions, "i.vcpus >= ?")
		params = append(params, opts.VCPUs)
	}
	if opts.MemoryGB > 0 {
		conditions = append(conditions, "i.memory_gb >= ?")
		params = append(params, opts.MemoryGB)
	}
	if opts.MaxPricePerHour > 0 {
		conditions = append(conditions, "p.price_per_hour <= ?")
		params = append(params, opts.MaxPricePerHour)
	}
	if opts.Query != "" {
		conditions = append(conditions, "(i.name LIKE ? OR i.family LIKE ? OR i.description LIKE ?)")
		like := "%" + opts.Query + "%"
		params = append(params, like, like, like)
	}

	where := "1=1"
	if len(conditions) > 0 {
		where = strings.Join(conditions, " AND ")
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = 20
	}
	params = append(params, limit)

	query := fmt.Sprintf(`
		SELECT DISTINCT i.id, i.provider_id, i.name, i.family, i.vcpus, i.memory_gb,
		       i.storage_desc, i.gpu_count, i.network_bandwidth, i.arch,
		       p.price_per_hour, p.price_type, r.code
		FROM instance_types i
		LEFT JOIN pricing p ON p.instance_type_id = i.id AND p.os = 'linux' AND p.price_type = 'on_demand'
		LEFT JOIN regions r ON r.id = p.region_id AND r.normalized = 'us_east'
		WHERE %s
		ORDER BY COALESCE(p.price_per_hour, 999999) ASC
		LIMIT ?`, where)

	rows, err := s.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, cwerrors.CatalogIO("searching instance catalog", err)
	}
	defer rows.Close()

	var out []InstanceRow
	for rows.Next() {
		inst, err := scanInstanceRowFromRows(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *inst)
	}
	return out, rows.Err()
}

func scanInstanceRow(row *sql.Row) (*InstanceRow, error) {
	var r InstanceRow
	var family, storageDesc, networkBW, regionCode sql.NullString
	var priceHour sql.NullFloat64
	var priceType sql.NullString
	err := row.Scan(&r.ID, &r.Provider, &r.Name, &family, &r.VCPUs, &r.MemoryGB,
		&storageDesc, &r.GPUCount, &networkBW, &r.Arch, &priceHour, &priceType, &regionCode)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, cwerrors.CatalogIO("scanning instance row", err)
	}
	r.Family = family.String
	r.StorageDesc = storageDesc.String
	r.NetworkBandwidth = networkBW.String
	r.RegionCode = regionCode.String
	r.PriceType = priceType.String
	if priceHour.Valid {
		v := priceHour.Float64
		r.PricePerHour = &v
	}
	return &r, nil
}

func scanInstanceRowFromRows(rows *sql.Rows) (*InstanceRow, error) {
	var r InstanceRow
	var family, storageDesc, networkBW, regionCode sql.NullString
	var priceHour sql.NullFloat64
	var priceType sql.NullString
	err := rows.Scan(&r.ID, &r.Provider, &r.Name, &family, &r.VCPUs, &r.MemoryGB,
		&storageDesc, &r.GPUCount, &networkBW, &r.Arch, &priceHour, &priceType, &regionCode)
	if err != nil {
		return nil, cwerrors.CatalogIO("scanning instance row", err)
	}
	r.Family = family.String
	r.StorageDesc = storageDesc.String
	r.NetworkBandwidth = networkBW.String
	r.RegionCode = regionCode.String
	r.PriceType = priceType.String
	if priceHour.Valid {
		v := priceHour.Float64
		r.PricePerHour = &v
	}
	return &r, nil
}

// GetServicePricing is the Tier 1 catalog lookup: monthly pricing for a
// service from catalog-backed data, discounted by pricingTier. Returns
// nil when the catalog has no data to price this service from — the
// caller (Cost Engine) falls through to Tier 2/3 in that case.
func (s *Store) GetServicePricing(ctx context.Context, service, provider string, cfg spec.Config, pricingTier string) (*float64, error) {
	base, err := s.getBasePrice(ctx, service, provider, cfg)
	if err != nil {
		return nil, err
	}
	if base == nil {
		return nil, nil
	}
	mult, ok := pricingMultipliers[pricingTier]
	if !ok {
		mult = 1.0
	}
	v := round2(*base * mult)
	return &v, nil
}

func (s *Store) getBasePrice(ctx context.Context, service, provider string, cfg spec.Config) (*float64, error) {
	if cfg == nil {
		cfg = spec.Config{}
	}

	switch service {
	case "ec2", "compute_engine", "virtual_machines":
		instanceType := cfg.GetString("instance_type", cfg.GetString("machine_type", cfg.GetString("vm_size", "")))
		if instanceType == "" {
			return nil, nil
		}
		inst, err := s.FindInstance(ctx, instanceType)
		if err != nil {
			return nil, err
		}
		if inst != nil && inst.PricePerHour != nil {
			count := cfg.GetNumber("count", 1)
			v := round2(*inst.PricePerHour * 730 * count)
			return &v, nil
		}
		return nil, nil
	}

	if v, handled, err := s.basePriceManaged(ctx, service, provider, cfg); handled {
		return v, err
	}

	return nil, nil
}

// basePriceManaged handles every managed-service branch of Tier 1
// resolution. Returns handled=false when service doesn't match any
// managed-service family this method prices, signaling the caller to
// move on to Tier 2.
func (s *Store) basePriceManaged(ctx context.Context, service, provider string, cfg spec.Config) (v *float64, handled bool, err error) {
	switch service {
	case "rds", "aurora", "cloud_sql", "azure_sql":
		handled = true
		instanceClass := cfg.GetString("instance_class", cfg.GetString("tier", ""))
		if instanceClass != "" {
			lookupService := service
			if service == "aurora" {
				lookupService = "rds"
			}
			var hourly float64
			var notes string
			row := s.db.QueryRowContext(ctx,
				"SELECT price_per_hour, notes FROM managed_services WHERE provider_id = ? AND service = ? AND tier_name = ?",
				provider, lookupService, instanceClass)
			scanErr := row.Scan(&hourly, &notes)
			if scanErr == nil {
				monthly := round2(hourly * 730)
				storageGB := cfg.GetNumber("storage_gb", 20)
				storageRate := parseStorageRate(notes, 0.115)
				monthly += round2(storageGB * storageRate)
				if cfg.GetBool("multi_az", false) {
					monthly = round2(monthly + hourly*730)
				}
				return &monthly, true, nil
			}
			if scanErr != sql.ErrNoRows {
				return nil, true, cwerrors.CatalogIO("querying managed database pricing", scanErr)
			}
		}
		d := DefaultManagedPrice(service, cfg)
		return &d, true, nil

	case "s3", "cloud_storage", "blob_storage":
		handled = true
		storageGB := cfg.GetNumber("storage_gb", 50)
		var notes string
		row := s.db.QueryRowContext(ctx,
			"SELECT notes FROM managed_services WHERE provider_id = ? AND service = ?", provider, service)
		perGB := 0.023
		if scanErr := row.Scan(&notes); scanErr == nil && notes != "" {
			var svcData map[string]any
			if json.Unmarshal([]byte(notes), &svcData) == nil {
				if rate, ok := numFromAny(svcData["per_gb_month"]); ok {
					perGB = rate
				} else if rate, ok := numFromAny(svcData["standard_per_gb"]); ok {
					perGB = rate
				}
			}
		}
		d := round2(storageGB * perGB)
		return &d, true, nil

	case "alb", "nlb", "app_gateway", "azure_lb", "cloud_load_balancing":
		handled = true
		var monthly float64
		row := s.db.QueryRowContext(ctx,
			"SELECT price_per_month FROM managed_services WHERE provider_id = ? AND service = ?", provider, service)
		if scanErr := row.Scan(&monthly); scanErr == nil && monthly > 0 {
			m := round2(monthly)
			return &m, true, nil
		}
		d := DefaultManagedPrice(service, cfg)
		return &d, true, nil

	case "cloudfront", "cloud_cdn", "azure_cdn":
		handled = true
		estimatedGB := cfg.GetNumber("estimated_gb", 100)
		var notes string
		rate := 0.085
		row := s.db.QueryRowContext(ctx,
			"SELECT notes FROM managed_services WHERE provider_id = ? AND service = ?", provider, service)
		if scanErr := row.Scan(&notes); scanErr == nil && notes != "" {
			var svcData map[string]any
			if json.Unmarshal([]byte(notes), &svcData) == nil {
				if r, ok := numFromAny(svcData["per_gb"]); ok {
					rate = r
				}
				if tiers, ok := svcData["data_transfer_out_per_gb"].(map[string]any); ok {
					if r, ok := numFromAny(tiers["first_10tb"]); ok {
						rate = r
					}
				} else if r, ok := numFromAny(svcData["data_transfer_out_per_gb"]); ok {
					rate = r
				}
			}
		}
		d := round2(estimatedGB * rate)
		return &d, true, nil

	case "elasticache", "memorystore", "azure_cache":
		handled = true
		nodeType := cfg.GetString("node_type", cfg.GetString("tier", ""))
		if nodeType != "" {
			var hourly float64
			row := s.db.QueryRowContext(ctx,
				"SELECT price_per_hour FROM managed_services WHERE provider_id = ? AND tier_name = ?", provider, nodeType)
			if scanErr := row.Scan(&hourly); scanErr == nil {
				m := round2(hourly * 730)
				return &m, true, nil
			}
		}
		d := DefaultManagedPrice(service, cfg)
		return &d, true, nil

	case "lambda", "cloud_functions", "azure_functions":
		handled = true
		monthlyRequests := cfg.GetNumber("monthly_requests", 1_000_000)
		avgDurationMS := cfg.GetNumber("avg_duration_ms", 200)
		memoryMB := cfg.GetNumber("memory_mb", 512)
		requestCost := (monthlyRequests / 1_000_000) * 0.20
		gbSeconds := (monthlyRequests * avgDurationMS / 1000) * (memoryMB / 1024)
		computeCost := gbSeconds * 0.0000166667
		d := round2(requestCost + computeCost)
		return &d, true, nil

	case "sqs", "pub_sub", "service_bus":
		handled = true
		monthlyRequests := cfg.GetNumber("monthly_requests", 10_000_000)
		perMillion := 0.60
		if service == "sqs" {
			perMillion = 0.40
		}
		d := round2((monthlyRequests / 1_000_000) * perMillion)
		return &d, true, nil

	case "dynamodb", "firestore", "cosmos_db":
		handled = true
		if cfg.GetString("billing_mode", "") == "provisioned" {
			rcu := cfg.GetNumber("read_capacity", 5)
			wcu := cfg.GetNumber("write_capacity", 5)
			d := round2(wcu*0.00065*730 + rcu*0.00013*730)
			return &d, true, nil
		}
		d := 25.0
		return &d, true, nil
	}

	return nil, false, nil
}

// MapInstanceType finds the equivalent instance name in toProvider for
// an instance currently named instanceName under fromProvider, via the
// equivalences table. Returns ok=false if no equivalence row covers it.
func (s *Store) MapInstanceType(ctx context.Context, instanceName, fromProvider, toProvider string) (string, bool, error) {
	srcID := fromProvider + ":" + instanceName
	toPrefix := toProvider + ":%"
	row := s.db.QueryRowContext(ctx, `
		SELECT CASE WHEN e.instance_a_id = ? THEN e.instance_b_id ELSE e.instance_a_id END AS equiv_id
		FROM equivalences e
		WHERE (e.instance_a_id = ? OR e.instance_b_id = ?)
		AND (e.instance_a_id LIKE ? OR e.instance_b_id LIKE ?)`,
		srcID, srcID, srcID, toPrefix, toPrefix)
	var equivID string
	if err := row.Scan(&equivID); err != nil {
		if err == sql.ErrNoRows {
			return "", false, nil
		}
		return "", false, cwerrors.CatalogIO("mapping instance type", err)
	}
	if idx := strings.Index(equivID, ":"); idx >= 0 {
		return equivID[idx+1:], true, nil
	}
	return equivID, true, nil
}

func parseStorageRate(notes string, def float64) float64 {
	const marker = "storage_per_gb="
	idx := strings.Index(notes, marker)
	if idx < 0 {
		return def
	}
	rest := notes[idx+len(marker):]
	if comma := strings.Index(rest, ","); comma >= 0 {
		rest = rest[:comma]
	}
	var f float64
	if _, err := fmt.Sscanf(rest, "%f", &f); err != nil {
		return def
	}
	return f
}

func numFromAny(x any) (float64, bool) {
	switch t := x.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	default:
		return 0, false
	}
}

// GetServiceDefinition returns the synced service_definitions row for
// (provider, serviceKey), or nil if not present.
func (s *Store) GetServiceDefinition(ctx context.Context, provider, serviceKey string) (*registry.ServiceDef, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT category, name, pricing_formula, default_config
		 FROM service_definitions WHERE provider_id = ? AND service_key = ?`, provider, serviceKey)
	var category, name, formula, cfgJSON string
	if err := row.Scan(&category, &name, &formula, &cfgJSON); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, cwerrors.CatalogIO("reading service definition", err)
	}
	var raw map[string]any
	_ = json.Unmarshal([]byte(cfgJSON), &raw)
	cfg := make(spec.Config, len(raw))
	for k, v := range raw {
		cfg[k] = spec.FromNative(v)
	}
	return &registry.ServiceDef{
		ServiceKey:     serviceKey,
		Provider:       provider,
		Category:       category,
		Name:           name,
		PricingFormula: formula,
		DefaultConfig:  cfg,
	}, nil
}

// SyncFromRegistry populates service_definitions and service_equivalences
// from a loaded Registry. Idempotent: safe to call repeatedly.
func (s *Store) SyncFromRegistry(ctx context.Context, reg *registry.Registry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return cwerrors.CatalogIO("beginning sync transaction", err)
	}
	defer tx.Rollback()
	if err := syncFromRegistryTx(ctx, tx, reg); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return cwerrors.CatalogIO("committing sync transaction", err)
	}
	return nil
}

func syncFromRegistryTx(ctx context.Context, tx *sql.Tx, reg *registry.Registry) error {
	for _, category := range reg.ListCategories() {
		for _, svc := range reg.GetCategory(category) {
			id := svc.Provider + ":" + svc.ServiceKey
			cfgJSON, err := json.Marshal(configToNative(svc.DefaultConfig))
			if err != nil {
				return cwerrors.CatalogIO("marshaling default config", err)
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT OR REPLACE INTO service_definitions
				 (id, provider_id, service_key, category, name, pricing_formula, default_config)
				 VALUES (?, ?, ?, ?, ?, ?, ?)`,
				id, svc.Provider, svc.ServiceKey, svc.Category, svc.Name, svc.PricingFormula, string(cfgJSON)); err != nil {
				return cwerrors.CatalogIO("syncing service_definitions", err)
			}
		}
	}

	for _, eq := range reg.AllEquivalences() {
		pairs := eq.Members()
		providers := make([]string, 0, len(pairs))
		for p := range pairs {
			providers = append(providers, p)
		}
		for i, pa := range providers {
			for _, pb := range providers[i+1:] {
				if _, err := tx.ExecContext(ctx,
					`INSERT OR IGNORE INTO service_equivalences (service_a, provider_a, service_b, provider_b)
					 VALUES (?, ?, ?, ?)`, pairs[pa], pa, pairs[pb], pb); err != nil {
					return cwerrors.CatalogIO("syncing service_equivalences", err)
				}
			}
		}
	}
	return nil
}

func configToNative(cfg spec.Config) map[string]any {
	out := make(map[string]any, len(cfg))
	for k, v := range cfg {
		out[k] = v.Native()
	}
	return out
}
