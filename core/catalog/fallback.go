package catalog

import "cloudwright/core/spec"

// fallbackPrices is the Tier 3 static price table, used only when a
// service has no catalog row (Tier 1) and no registry pricing_formula
// resolves a usable number (Tier 2). Values are conservative monthly
// US-region estimates, not live pricing.
var fallbackPrices = map[string]float64{
	// Compute
	"ec2": 150.0, "compute_engine": 150.0, "virtual_machines": 150.0,
	"ecs": 400.0, "eks": 400.0, "gke": 400.0, "aks": 400.0,
	"fargate": 120.0, "cloud_run": 50.0, "container_apps": 50.0,
	"app_engine": 60.0, "app_service": 55.0,
	// Databases
	"rds": 200.0, "aurora": 250.0, "cloud_sql": 180.0, "azure_sql": 180.0,
	"elasticache": 180.0, "memorystore": 180.0, "azure_cache": 180.0,
	"dynamodb": 75.0, "cosmos_db": 100.0, "firestore": 40.0, "spanner": 200.0,
	// Storage
	"s3": 10.0, "cloud_storage": 10.0, "blob_storage": 10.0,
	// CDN
	"cloudfront": 85.0, "cloud_cdn": 85.0, "azure_cdn": 85.0,
	// Load balancers
	"alb": 25.0, "nlb": 25.0, "app_gateway": 25.0,
	"azure_lb": 20.0, "cloud_load_balancing": 20.0,
	// Messaging
	"sqs": 10.0, "pub_sub": 10.0, "service_bus": 15.0, "sns": 5.0,
	"event_hubs": 15.0, "kinesis": 50.0, "msk": 250.0, "confluent_kafka": 250.0,
	// Analytics
	"redshift": 500.0, "bigquery": 25.0, "synapse": 500.0,
	// ML
	"sagemaker": 200.0, "vertex_ai": 200.0, "azure_ml": 200.0,
	// Serverless
	"lambda": 15.0, "cloud_functions": 15.0, "azure_functions": 15.0,
	// Security
	"waf": 15.0, "cloud_armor": 15.0, "azure_waf": 15.0,
	// API
	"api_gateway": 15.0, "api_management": 15.0,
	// Networking
	"nat_gateway": 35.0, "cloud_nat": 35.0,
	// Virtual/meta components (no billing)
	"users": 0.0, "internet": 0.0, "external": 0.0, "client": 0.0,
	"browser": 0.0, "mobile": 0.0, "vpc": 0.0, "vnet": 0.0, "iam": 0.0,
	// Low-cost services
	"route53": 1.0, "cloud_dns": 1.0, "azure_dns": 1.0,
	"cognito": 0.0, "firebase_auth": 0.0, "azure_ad": 0.0,
	"cloudwatch": 5.0, "cloud_logging": 3.0, "cloud_monitoring": 5.0, "azure_monitor": 5.0,
	"kms": 1.0, "cloud_kms": 1.0, "key_vault": 1.0,
	"secrets_manager": 1.0, "secret_manager": 1.0,
	"ecr": 2.0, "gcr": 0.0, "acr": 5.0, "artifact_registry": 0.0,
	"codecommit": 0.0, "codebuild": 3.0, "codepipeline": 3.0, "cloud_build": 0.0,
	"shield": 0.0, "guardduty": 5.0, "security_hub": 0.0,
	"config": 3.0, "cloudtrail": 3.0, "audit_log": 0.0,
	"step_functions": 5.0, "workflows": 3.0, "logic_apps": 5.0,
	"eventbridge": 2.0, "event_grid": 3.0, "dataflow": 25.0,
	"elasticbeanstalk": 0.0, "elastic_beanstalk": 0.0, "amplify": 0.0,
	"ses": 1.0, "sendgrid": 0.0,
}

// DefaultManagedPrice is the Tier 3 fallback: a static per-service base
// price, scaled by whatever count-like config key is present and nudged
// by storage size. Always returns a number — Tier 3 never fails.
func DefaultManagedPrice(service string, cfg spec.Config) float64 {
	base, ok := fallbackPrices[service]
	if !ok {
		base = 10.0
	}

	count := cfg.GetNumber("count", cfg.GetNumber("instance_count",
		cfg.GetNumber("desired_count", cfg.GetNumber("min_tasks",
			cfg.GetNumber("min_instances", 1)))))
	if count > 1 {
		base *= count
	}

	if storageGB := cfg.GetNumber("storage_gb", 0); storageGB > 0 {
		base += storageGB * 0.10
	}

	if nodeCount := cfg.GetNumber("node_count", cfg.GetNumber("num_nodes", 0)); nodeCount > 1 {
		base *= nodeCount
	}

	return round2(base)
}
