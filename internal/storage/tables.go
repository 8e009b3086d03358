package storage

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	dbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/rs/zerolog"
)

const (
	partitionKey = "Dataset"
	sortKey      = "ItemKey"
)

// CreateTableIfNotExist creates the dashboard table for local development
func CreateTableIfNotExist(ctx context.Context, client *dynamodb.Client, config DynamoConfig, logger zerolog.Logger) error {
	_, err := client.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(config.DashboardTable),
	})
	if err == nil {
		logger.Info().Str("table", config.DashboardTable).Msg("table already exists")
		return nil
	}

	_, err = client.CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName: aws.String(config.DashboardTable),
		KeySchema: []dbtypes.KeySchemaElement{
			{AttributeName: aws.String(partitionKey), KeyType: dbtypes.KeyTypeHash},
			{AttributeName: aws.String(sortKey), KeyType: dbtypes.KeyTypeRange},
		},
		AttributeDefinitions: []dbtypes.AttributeDefinition{
			{AttributeName: aws.String(partitionKey), AttributeType: dbtypes.ScalarAttributeTypeS},
			{AttributeName: aws.String(sortKey), AttributeType: dbtypes.ScalarAttributeTypeS},
		},
		BillingMode: dbtypes.BillingModePayPerRequest,
	})
	if err != nil {
		return fmt.Errorf("failed to create table %s: %w", config.DashboardTable, err)
	}
	logger.Info().Str("table", config.DashboardTable).Msg("table created")

	return nil
}
