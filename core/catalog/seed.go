package catalog

// seedInstance is the shape of one representative compute instance
// loaded into the catalog on first open. Prices are the us_east (or
// equivalent) on-demand Linux hourly rate; other regions are derived
// with a flat multiplier in regionMultiplier.
type seedInstance struct {
	provider    string
	name        string
	family      string
	familyNorm  string
	vcpus       int
	memoryGB    float64
	storageDesc string
	networkBW   string
	generation  string
	description string
	priceUSEast float64
}

var seedInstances = []seedInstance{
	{"aws", "t3.micro", "t3", "burstable_small", 2, 1, "EBS only", "Up to 5 Gigabit", "3", "Burstable general purpose", 0.0104},
	{"aws", "t3.medium", "t3", "burstable_small", 2, 4, "EBS only", "Up to 5 Gigabit", "3", "Burstable general purpose", 0.0416},
	{"aws", "m5.large", "m5", "general_medium", 2, 8, "EBS only", "Up to 10 Gigabit", "5", "General purpose", 0.096},
	{"aws", "m5.xlarge", "m5", "general_medium", 4, 16, "EBS only", "Up to 10 Gigabit", "5", "General purpose", 0.192},
	{"aws", "m5.2xlarge", "m5", "general_large", 8, 32, "EBS only", "Up to 10 Gigabit", "5", "General purpose", 0.384},
	{"aws", "c5.xlarge", "c5", "compute_optimized", 4, 8, "EBS only", "Up to 10 Gigabit", "5", "Compute optimized", 0.17},
	{"aws", "r5.xlarge", "r5", "memory_optimized", 4, 32, "EBS only", "Up to 10 Gigabit", "5", "Memory optimized", 0.252},
	{"aws", "m5.16xlarge", "m5", "general_xl", 64, 256, "EBS only", "20 Gigabit", "5", "General purpose", 3.072},

	{"gcp", "e2-micro", "e2", "burstable_small", 2, 1, "PD only", "Up to 4 Gbps", "2", "Cost-optimized", 0.0084},
	{"gcp", "e2-medium", "e2", "burstable_small", 2, 4, "PD only", "Up to 4 Gbps", "2", "Cost-optimized", 0.0335},
	{"gcp", "n2-standard-2", "n2", "general_medium", 2, 8, "PD only", "Up to 10 Gbps", "2", "General purpose", 0.0971},
	{"gcp", "n2-standard-4", "n2", "general_medium", 4, 16, "PD only", "Up to 10 Gbps", "2", "General purpose", 0.1942},
	{"gcp", "n2-standard-8", "n2", "general_large", 8, 32, "PD only", "Up to 16 Gbps", "2", "General purpose", 0.3885},
	{"gcp", "c2-standard-4", "c2", "compute_optimized", 4, 16, "PD only", "Up to 10 Gbps", "2", "Compute optimized", 0.2088},
	{"gcp", "n2-highmem-4", "n2", "memory_optimized", 4, 32, "PD only", "Up to 10 Gbps", "2", "Memory optimized", 0.2620},

	{"azure", "B1ms", "Bs", "burstable_small", 1, 2, "Standard SSD", "Moderate", "v1", "Burstable", 0.0207},
	{"azure", "D2s_v5", "Ds", "general_medium", 2, 8, "Premium SSD", "Up to 12500 Mbps", "v5", "General purpose", 0.096},
	{"azure", "D4s_v5", "Ds", "general_medium", 4, 16, "Premium SSD", "Up to 12500 Mbps", "v5", "General purpose", 0.192},
	{"azure", "D8s_v5", "Ds", "general_large", 8, 32, "Premium SSD", "Up to 12500 Mbps", "v5", "General purpose", 0.384},
	{"azure", "F4s_v2", "Fs", "compute_optimized", 4, 8, "Premium SSD", "Up to 12500 Mbps", "v2", "Compute optimized", 0.169},
	{"azure", "E4s_v5", "Es", "memory_optimized", 4, 32, "Premium SSD", "Up to 12500 Mbps", "v5", "Memory optimized", 0.252},
}

// seedManagedService is one managed_services row loaded on first open,
// standing in for the per-provider pricing JSON files the catalog
// would otherwise ingest from an external pricing feed.
type seedManagedService struct {
	provider     string
	service      string
	tier         string
	pricePerHour float64
	pricePerMonth float64
	notes        string
}

var seedManagedServices = []seedManagedService{
	// Relational database tiers
	{"aws", "rds", "db.t3.micro", 0.017, 0, "storage_per_gb=0.115, multi_az_mult=2.0"},
	{"aws", "rds", "db.m5.large", 0.171, 0, "storage_per_gb=0.115, multi_az_mult=2.0"},
	{"gcp", "cloud_sql", "db-f1-micro", 0.0150, 0, "storage_per_gb=0.17, multi_az_mult=2.0"},
	{"gcp", "cloud_sql", "db-n1-standard-2", 0.1505, 0, "storage_per_gb=0.17, multi_az_mult=2.0"},
	{"azure", "azure_sql", "GP_Gen5_2", 0.1842, 0, "storage_per_gb=0.115, multi_az_mult=2.0"},

	// Cache tiers
	{"aws", "elasticache", "cache.t3.micro", 0.017, 0, ""},
	{"aws", "elasticache", "cache.m5.large", 0.156, 0, ""},
	{"gcp", "memorystore", "basic-1gb", 0.049, 0, ""},
	{"azure", "azure_cache", "C1", 0.055, 0, ""},

	// Load balancers (flat monthly)
	{"aws", "alb", "default", 0.0225, 16.43, ""},
	{"aws", "nlb", "default", 0.0225, 16.43, ""},
	{"gcp", "cloud_load_balancing", "default", 0.025, 18.25, ""},
	{"azure", "app_gateway", "default", 0.025, 18.25, ""},
	{"azure", "azure_lb", "default", 0.025, 18.25, ""},

	// CDN (rate expressed via notes JSON)
	{"aws", "cloudfront", "default", 0, 0, `{"per_gb": 0.085}`},
	{"gcp", "cloud_cdn", "default", 0, 0, `{"per_gb": 0.08}`},
	{"azure", "azure_cdn", "default", 0, 0, `{"per_gb": 0.087}`},

	// Object storage (rate expressed via notes JSON)
	{"aws", "s3", "default", 0, 0, `{"per_gb_month": 0.023}`},
	{"gcp", "cloud_storage", "default", 0, 0, `{"per_gb_month": 0.020}`},
	{"azure", "blob_storage", "default", 0, 0, `{"per_gb_month": 0.0184}`},
}

// seedInstanceEquivalence pairs instance types across providers with
// roughly matching vCPU/memory specs, for cross-cloud instance_type
// remapping during provider comparison.
type seedInstanceEquivalence struct {
	a, b       string
	confidence float64
}

var seedInstanceEquivalences = []seedInstanceEquivalence{
	{"aws:t3.medium", "gcp:e2-medium", 0.85},
	{"aws:t3.medium", "azure:B1ms", 0.75},
	{"aws:m5.large", "gcp:n2-standard-2", 0.9},
	{"aws:m5.large", "azure:D2s_v5", 0.9},
	{"aws:m5.xlarge", "gcp:n2-standard-4", 0.9},
	{"aws:m5.xlarge", "azure:D4s_v5", 0.9},
	{"aws:m5.2xlarge", "gcp:n2-standard-8", 0.9},
	{"aws:m5.2xlarge", "azure:D8s_v5", 0.9},
	{"aws:c5.xlarge", "gcp:c2-standard-4", 0.85},
	{"aws:c5.xlarge", "azure:F4s_v2", 0.85},
	{"aws:r5.xlarge", "gcp:n2-highmem-4", 0.85},
	{"aws:r5.xlarge", "azure:E4s_v5", 0.85},
	{"gcp:n2-standard-2", "azure:D2s_v5", 0.85},
	{"gcp:n2-standard-4", "azure:D4s_v5", 0.85},
	{"gcp:n2-standard-8", "azure:D8s_v5", 0.85},
}
