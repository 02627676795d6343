package services

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// DynamoAPI is the slice of the DynamoDB client the engine actually uses.
// Services take this instead of *dynamodb.Client so store behavior can be
// tested without AWS.
type DynamoAPI interface {
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
}

var (
	// ErrStoreRead covers scan failures during template load or the
	// delete-phase walk.
	ErrStoreRead = errors.New("store read failed")

	// ErrStoreWrite covers delete and bulk-insert failures.
	ErrStoreWrite = errors.New("store write failed")

	// ErrUnprocessedItems is returned when a batch write still reports
	// unprocessed items after the retry budget is spent.
	ErrUnprocessedItems = errors.New("unprocessed items remain after retries")
)
