package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	dbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/dennisdiepolder/qoe-admin/backend/internal/types"
	"github.com/rs/zerolog"
)

// Dataset partition names
const (
	datasetComplaints = "complaints"
	datasetNetwork    = "network_metrics"
	datasetLocations  = "locations"
	datasetFeedback   = "feedback"
	datasetReports    = "reports"

	singletonKey = "summary"
	batchSize    = 25

	// Attempts per batch while DynamoDB returns UnprocessedItems
	maxBatchAttempts = 8
)

// batchRetryDelay is the base backoff between unprocessed-item retries
var batchRetryDelay = 100 * time.Millisecond

// dynamoAPI is the part of the DynamoDB client the store reads and writes with
type dynamoAPI interface {
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
}

// item is the stored shape of every dataset row. Ordered datasets use a
// zero-padded ItemKey so a query returns rows in their original order.
type item struct {
	Dataset  string `dynamodbav:"Dataset"`
	ItemKey  string `dynamodbav:"ItemKey"`
	ReportID string `dynamodbav:"ReportID,omitempty"`
	Payload  string `dynamodbav:"Payload"`
}

func orderedKey(i int) string {
	return fmt.Sprintf("%04d", i)
}

// DynamoDBStore implements Store using AWS DynamoDB
type DynamoDBStore struct {
	client dynamoAPI
	config DynamoConfig
	logger zerolog.Logger
}

// NewDynamoDBStore creates a new DynamoDB store
func NewDynamoDBStore(ctx context.Context, cfg DynamoConfig, logger zerolog.Logger) (*DynamoDBStore, error) {
	var client *dynamodb.Client

	if cfg.Mode == DynamoModeLocal {
		// Build the client directly: LoadDefaultConfig queries the EC2 IMDS
		// endpoint, which hangs when static credentials are intended.
		client = dynamodb.New(dynamodb.Options{
			Region:       cfg.Region,
			BaseEndpoint: aws.String(cfg.Endpoint),
			Credentials:  credentials.NewStaticCredentialsProvider("local", "local", ""),
		})
	} else {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}
		client = dynamodb.NewFromConfig(awsCfg)
	}

	store := &DynamoDBStore{
		client: client,
		config: cfg,
		logger: logger.With().Str("component", "dynamodb_store").Logger(),
	}

	if cfg.Mode == DynamoModeLocal {
		if err := CreateTableIfNotExist(ctx, client, cfg, logger); err != nil {
			return nil, err
		}
	}

	logger.Info().
		Str("mode", string(cfg.Mode)).
		Str("region", cfg.Region).
		Str("table", cfg.DashboardTable).
		Msg("DynamoDB store initialized")

	return store, nil
}

func (s *DynamoDBStore) ComplaintsByDay(ctx context.Context) ([]types.ComplaintDay, error) {
	var out []types.ComplaintDay
	if err := queryList(ctx, s, datasetComplaints, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *DynamoDBStore) NetworkMetrics(ctx context.Context) (types.NetworkMetrics, error) {
	var out types.NetworkMetrics
	if err := s.getSingleton(ctx, datasetNetwork, &out); err != nil {
		return types.NetworkMetrics{}, err
	}
	return out, nil
}

func (s *DynamoDBStore) Locations(ctx context.Context) ([]types.LocationComplaints, error) {
	var out []types.LocationComplaints
	if err := queryList(ctx, s, datasetLocations, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *DynamoDBStore) Feedback(ctx context.Context) (types.FeedbackSummary, error) {
	var out types.FeedbackSummary
	if err := s.getSingleton(ctx, datasetFeedback, &out); err != nil {
		return types.FeedbackSummary{}, err
	}
	return out, nil
}

func (s *DynamoDBStore) Reports(ctx context.Context) ([]types.Report, error) {
	var out []types.Report
	if err := queryList(ctx, s, datasetReports, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *DynamoDBStore) Report(ctx context.Context, id string) (types.Report, error) {
	keyCond := expression.Key(partitionKey).Equal(expression.Value(datasetReports))
	filter := expression.Name("ReportID").Equal(expression.Value(id))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).WithFilter(filter).Build()
	if err != nil {
		return types.Report{}, fmt.Errorf("failed to build expression: %w", err)
	}

	items, err := s.query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(s.config.DashboardTable),
		KeyConditionExpression:    expr.KeyCondition(),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		return types.Report{}, fmt.Errorf("failed to query report: %w", err)
	}
	if len(items) == 0 {
		return types.Report{}, fmt.Errorf("report %q: %w", id, ErrNotFound)
	}

	var report types.Report
	if err := json.Unmarshal([]byte(items[0].Payload), &report); err != nil {
		return types.Report{}, fmt.Errorf("failed to decode report %q: %w", id, err)
	}
	return report, nil
}

// Seed replaces every dataset in the table with the snapshot contents
func (s *DynamoDBStore) Seed(ctx context.Context, snapshot *types.Snapshot) error {
	rows, err := snapshotItems(snapshot)
	if err != nil {
		return err
	}

	for _, dataset := range []string{datasetComplaints, datasetNetwork, datasetLocations, datasetFeedback, datasetReports} {
		if err := s.clearDataset(ctx, dataset); err != nil {
			return fmt.Errorf("failed to clear %s: %w", dataset, err)
		}
	}

	requests := make([]dbtypes.WriteRequest, 0, len(rows))
	for _, row := range rows {
		av, err := attributevalue.MarshalMap(row)
		if err != nil {
			return fmt.Errorf("failed to marshal %s item: %w", row.Dataset, err)
		}
		requests = append(requests, dbtypes.WriteRequest{PutRequest: &dbtypes.PutRequest{Item: av}})
	}

	if err := s.batchWrite(ctx, requests); err != nil {
		return fmt.Errorf("failed to seed dashboard table: %w", err)
	}

	s.logger.Info().Int("items", len(rows)).Msg("dashboard table seeded")
	return nil
}

func snapshotItems(snapshot *types.Snapshot) ([]item, error) {
	var rows []item

	add := func(dataset, key, reportID string, v any) error {
		payload, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to encode %s payload: %w", dataset, err)
		}
		rows = append(rows, item{Dataset: dataset, ItemKey: key, ReportID: reportID, Payload: string(payload)})
		return nil
	}

	for i, c := range snapshot.ComplaintsByDay {
		if err := add(datasetComplaints, orderedKey(i), "", c); err != nil {
			return nil, err
		}
	}
	if err := add(datasetNetwork, singletonKey, "", snapshot.NetworkMetrics); err != nil {
		return nil, err
	}
	for i, l := range snapshot.Locations {
		if err := add(datasetLocations, orderedKey(i), "", l); err != nil {
			return nil, err
		}
	}
	if err := add(datasetFeedback, singletonKey, "", snapshot.Feedback); err != nil {
		return nil, err
	}
	for i, r := range snapshot.Reports {
		if err := add(datasetReports, orderedKey(i), r.ID, r); err != nil {
			return nil, err
		}
	}

	return rows, nil
}

// queryList decodes every row of an ordered dataset into out
func queryList[T any](ctx context.Context, s *DynamoDBStore, dataset string, out *[]T) error {
	keyCond := expression.Key(partitionKey).Equal(expression.Value(dataset))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return fmt.Errorf("failed to build expression: %w", err)
	}

	items, err := s.query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(s.config.DashboardTable),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ScanIndexForward:          aws.Bool(true),
	})
	if err != nil {
		return fmt.Errorf("failed to query %s: %w", dataset, err)
	}

	result := make([]T, 0, len(items))
	for _, it := range items {
		var v T
		if err := json.Unmarshal([]byte(it.Payload), &v); err != nil {
			return fmt.Errorf("failed to decode %s item %s: %w", dataset, it.ItemKey, err)
		}
		result = append(result, v)
	}
	*out = result
	return nil
}

func (s *DynamoDBStore) getSingleton(ctx context.Context, dataset string, out any) error {
	key, err := attributevalue.MarshalMap(map[string]string{
		partitionKey: dataset,
		sortKey:      singletonKey,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal key: %w", err)
	}

	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.config.DashboardTable),
		Key:       key,
	})
	if err != nil {
		return fmt.Errorf("failed to get %s: %w", dataset, err)
	}
	if result.Item == nil {
		return fmt.Errorf("%s: %w", dataset, ErrNotFound)
	}

	var it item
	if err := attributevalue.UnmarshalMap(result.Item, &it); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", dataset, err)
	}
	if err := json.Unmarshal([]byte(it.Payload), out); err != nil {
		return fmt.Errorf("failed to decode %s: %w", dataset, err)
	}
	return nil
}

// query runs a query to completion, following LastEvaluatedKey
func (s *DynamoDBStore) query(ctx context.Context, input *dynamodb.QueryInput) ([]item, error) {
	var items []item

	for {
		result, err := s.client.Query(ctx, input)
		if err != nil {
			return nil, err
		}

		var page []item
		if err := attributevalue.UnmarshalListOfMaps(result.Items, &page); err != nil {
			return nil, fmt.Errorf("failed to unmarshal items: %w", err)
		}
		items = append(items, page...)

		if result.LastEvaluatedKey == nil {
			break
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}

	return items, nil
}

// clearDataset deletes all rows of a dataset (query keys + batch delete)
func (s *DynamoDBStore) clearDataset(ctx context.Context, dataset string) error {
	keyCond := expression.Key(partitionKey).Equal(expression.Value(dataset))
	proj := expression.NamesList(expression.Name(partitionKey), expression.Name(sortKey))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).WithProjection(proj).Build()
	if err != nil {
		return fmt.Errorf("failed to build expression: %w", err)
	}

	items, err := s.query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(s.config.DashboardTable),
		KeyConditionExpression:    expr.KeyCondition(),
		ProjectionExpression:      expr.Projection(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		return err
	}

	requests := make([]dbtypes.WriteRequest, 0, len(items))
	for _, it := range items {
		requests = append(requests, dbtypes.WriteRequest{
			DeleteRequest: &dbtypes.DeleteRequest{
				Key: map[string]dbtypes.AttributeValue{
					partitionKey: &dbtypes.AttributeValueMemberS{Value: it.Dataset},
					sortKey:      &dbtypes.AttributeValueMemberS{Value: it.ItemKey},
				},
			},
		})
	}

	return s.batchWrite(ctx, requests)
}

// batchWrite sends write requests in groups of 25
func (s *DynamoDBStore) batchWrite(ctx context.Context, requests []dbtypes.WriteRequest) error {
	for i := 0; i < len(requests); i += batchSize {
		end := i + batchSize
		if end > len(requests) {
			end = len(requests)
		}

		pending := map[string][]dbtypes.WriteRequest{
			s.config.DashboardTable: requests[i:end],
		}
		for attempt := 1; len(pending) > 0; attempt++ {
			if attempt > maxBatchAttempts {
				return fmt.Errorf("%d items still unprocessed after %d attempts",
					len(pending[s.config.DashboardTable]), maxBatchAttempts)
			}
			if attempt > 1 {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(time.Duration(attempt-1) * batchRetryDelay):
				}
			}

			out, err := s.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
				RequestItems: pending,
			})
			if err != nil {
				return err
			}
			pending = out.UnprocessedItems
		}
	}
	return nil
}

// NewStore creates the appropriate store based on configuration
func NewStore(ctx context.Context, logger zerolog.Logger) (Store, error) {
	cfg := LoadDynamoConfig()

	switch cfg.Mode {
	case DynamoModeLocal, DynamoModeAWS:
		return NewDynamoDBStore(ctx, cfg, logger)
	default:
		logger.Info().Msg("DynamoDB disabled (DYNAMO_MODE=none), serving fixture data")
		return NewFixtureStore(), nil
	}
}
