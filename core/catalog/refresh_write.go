package catalog

import (
	"context"
	"database/sql"
	"strconv"

	cwerrors "cloudwright/internal/errors"
	"cloudwright/core/pricing"
)

// UpsertInstancePricing writes a batch of live instance prices for one
// provider/region into the catalog, creating the provider and region
// rows if they don't exist yet. Unknown regions fall back to the
// region code itself for both name and normalized zone.
func (s *Store) UpsertInstancePricing(ctx context.Context, provider, region string, prices []pricing.InstancePrice) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return cwerrors.CatalogIO("beginning instance pricing refresh transaction", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"INSERT OR IGNORE INTO providers (id, name) VALUES (?, ?)", provider, upperProviderName(provider)); err != nil {
		return cwerrors.CatalogIO("upserting provider", err)
	}

	regionID, err := upsertRegionTx(ctx, tx, provider, region)
	if err != nil {
		return err
	}

	for _, inst := range prices {
		instID := provider + ":" + inst.InstanceType
		if _, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO instance_types
			 (id, provider_id, name, vcpus, memory_gb, storage_desc, network_bandwidth, arch)
			 VALUES (?, ?, ?, ?, ?, ?, ?, 'x86_64')`,
			instID, provider, inst.InstanceType, inst.VCPUs, inst.MemoryGB, inst.StorageDesc, inst.NetworkBandwidth,
		); err != nil {
			return cwerrors.CatalogIO("upserting instance_types", err)
		}
		os := inst.OS
		if os == "" {
			os = "linux"
		}
		priceType := inst.PriceType
		if priceType == "" {
			priceType = "on_demand"
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO pricing (instance_type_id, region_id, os, price_per_hour, price_type)
			 VALUES (?, ?, ?, ?, ?)`,
			instID, regionID, os, inst.PricePerHour, priceType,
		); err != nil {
			return cwerrors.CatalogIO("upserting pricing", err)
		}
	}

	if err := setMetadataTx(ctx, tx, "refresh:"+provider+":instances", strconv.Itoa(len(prices))); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return cwerrors.CatalogIO("committing instance pricing refresh", err)
	}
	return nil
}

// UpsertManagedServicePricing writes a batch of live managed-service
// pricing tiers for one provider/service into the catalog.
func (s *Store) UpsertManagedServicePricing(ctx context.Context, provider, service string, prices []pricing.ManagedServicePrice) error {
	if len(prices) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return cwerrors.CatalogIO("beginning managed service pricing refresh transaction", err)
	}
	defer tx.Rollback()

	for _, tier := range prices {
		id := provider + ":" + service + ":" + tier.TierName
		if _, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO managed_services
			 (id, provider_id, service, tier_name, price_per_hour, price_per_month, vcpus, memory_gb, notes)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id, provider, service, tier.TierName, tier.PricePerHour, tier.PricePerMonth,
			tier.VCPUs, tier.MemoryGB, tier.Description,
		); err != nil {
			return cwerrors.CatalogIO("upserting managed_services", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return cwerrors.CatalogIO("committing managed service pricing refresh", err)
	}
	return nil
}

// SetMetadata records a single catalog_metadata key/value, stamped with
// the current time.
func (s *Store) SetMetadata(ctx context.Context, key, value string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return cwerrors.CatalogIO("beginning metadata update", err)
	}
	defer tx.Rollback()
	if err := setMetadataTx(ctx, tx, key, value); err != nil {
		return err
	}
	return tx.Commit()
}

func setMetadataTx(ctx context.Context, tx *sql.Tx, key, value string) error {
	if _, err := tx.ExecContext(ctx,
		"INSERT OR REPLACE INTO catalog_metadata (key, value, updated_at) VALUES (?, ?, datetime('now'))",
		key, value,
	); err != nil {
		return cwerrors.CatalogIO("upserting catalog_metadata", err)
	}
	return nil
}

func upsertRegionTx(ctx context.Context, tx *sql.Tx, provider, region string) (string, error) {
	name := region
	normalized := region
	if known, ok := regionMap[provider]; ok {
		for _, r := range known {
			if r.code == region {
				name = r.name
				normalized = r.normalized
				break
			}
		}
	}
	regionID := provider + ":" + region
	if _, err := tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO regions (id, provider_id, code, name, normalized) VALUES (?, ?, ?, ?, ?)`,
		regionID, provider, region, name, normalized,
	); err != nil {
		return "", cwerrors.CatalogIO("upserting region", err)
	}
	return regionID, nil
}

func upperProviderName(provider string) string {
	switch provider {
	case "aws":
		return "Amazon Web Services"
	case "gcp":
		return "Google Cloud"
	case "azure":
		return "Microsoft Azure"
	default:
		return provider
	}
}
