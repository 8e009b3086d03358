package storage

import (
	"os"
	"strconv"
)

// DynamoMode represents the DynamoDB connection mode
type DynamoMode string

const (
	DynamoModeLocal DynamoMode = "local"
	DynamoModeAWS   DynamoMode = "aws"
	DynamoModeNone  DynamoMode = "none"
)

// DynamoConfig holds DynamoDB configuration
type DynamoConfig struct {
	Mode           DynamoMode
	Endpoint       string // for local mode
	Region         string
	DashboardTable string
	SeedOnStart    bool // write the fixture datasets at startup
}

// LoadDynamoConfig loads DynamoDB config from environment
func LoadDynamoConfig() DynamoConfig {
	mode := DynamoMode(getEnv("DYNAMO_MODE", "none"))
	if mode != DynamoModeLocal && mode != DynamoModeAWS {
		mode = DynamoModeNone
	}

	seed, _ := strconv.ParseBool(getEnv("DYNAMO_SEED", "false"))

	return DynamoConfig{
		Mode:           mode,
		Endpoint:       getEnv("DYNAMO_ENDPOINT", "http://localhost:8000"),
		Region:         getEnv("DYNAMO_REGION", "af-south-1"),
		DashboardTable: getEnv("DYNAMO_DASHBOARD_TABLE", "qoe-dashboard-data"),
		SeedOnStart:    seed,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
