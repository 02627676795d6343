package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"

	"pacelineAPI/internal/types/challenge"
)

const (
	// DynamoDB caps BatchWriteItem at 25 items per call.
	maxBatchSize = 25

	// Attempts per chunk before leftover unprocessed items become an error.
	maxBatchAttempts = 3

	baseBackoff = 100 * time.Millisecond
)

type ChallengeService struct {
	db              DynamoAPI
	table           string
	templateService *TemplateService
	newID           IDSource
}

func NewChallengeService(db DynamoAPI, table string, templateService *TemplateService) *ChallengeService {
	return &ChallengeService{
		db:              db,
		table:           table,
		templateService: templateService,
		newID:           uuid.NewString,
	}
}

// ReplaceSeason runs one full generation cycle: delete every existing
// challenge, load the template catalog, generate the new set, write it in
// batches. The two store phases are not atomic: a reader can observe an
// empty or partially written table while a cycle is in flight, and
// overlapping cycles interleave freely. Invocations must be serialized by
// the caller's scheduling.
func (s *ChallengeService) ReplaceSeason(ctx context.Context, seasonID string, startDate time.Time, buckets []challenge.Bucket) (int, error) {
	if err := s.DeleteAllChallenges(ctx); err != nil {
		return 0, err
	}

	templates, err := s.templateService.GetAll(ctx)
	if err != nil {
		return 0, err
	}

	generated := GenerateChallenges(seasonID, startDate, buckets, templates, s.newID)

	if err := s.CreateChallengeEntries(ctx, generated); err != nil {
		return 0, err
	}

	challengesGenerated.Add(float64(len(generated)))
	return len(generated), nil
}

// DeleteAllChallenges walks the table page by page and deletes each record
// by its (user_id, challenge_id) key, in scan order.
func (s *ChallengeService) DeleteAllChallenges(ctx context.Context) error {
	var startKey map[string]types.AttributeValue

	for {
		out, err := s.db.Scan(ctx, &dynamodb.ScanInput{
			TableName:            aws.String(s.table),
			ProjectionExpression: aws.String("user_id, challenge_id"),
			ExclusiveStartKey:    startKey,
		})
		if err != nil {
			return fmt.Errorf("%w: scan %s: %v", ErrStoreRead, s.table, err)
		}

		for _, item := range out.Items {
			_, err := s.db.DeleteItem(ctx, &dynamodb.DeleteItemInput{
				TableName: aws.String(s.table),
				Key: map[string]types.AttributeValue{
					"user_id":      item["user_id"],
					"challenge_id": item["challenge_id"],
				},
			})
			if err != nil {
				return fmt.Errorf("%w: delete from %s: %v", ErrStoreWrite, s.table, err)
			}
		}

		if len(out.LastEvaluatedKey) == 0 {
			return nil
		}
		startKey = out.LastEvaluatedKey
	}
}

// CreateChallengeEntries writes the generated records in consecutive chunks
// of at most 25, preserving generation order across chunk boundaries.
func (s *ChallengeService) CreateChallengeEntries(ctx context.Context, entries []challenge.Challenge) error {
	requests := make([]types.WriteRequest, 0, len(entries))
	for _, entry := range entries {
		item, err := attributevalue.MarshalMap(entry)
		if err != nil {
			return fmt.Errorf("%w: marshal challenge %s: %v", ErrStoreWrite, entry.ChallengeID, err)
		}
		requests = append(requests, types.WriteRequest{
			PutRequest: &types.PutRequest{Item: item},
		})
	}

	for start := 0; start < len(requests); start += maxBatchSize {
		end := min(start+maxBatchSize, len(requests))
		if err := s.writeBatch(ctx, requests[start:end]); err != nil {
			return err
		}
	}
	return nil
}

// writeBatch issues one BatchWriteItem and re-submits any unprocessed items
// with backoff until they drain or the attempt budget runs out.
func (s *ChallengeService) writeBatch(ctx context.Context, batch []types.WriteRequest) error {
	backoff := baseBackoff

	for attempt := 1; ; attempt++ {
		out, err := s.db.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
			RequestItems: map[string][]types.WriteRequest{s.table: batch},
		})
		batchWrites.Inc()
		if err != nil {
			return fmt.Errorf("%w: batch write to %s: %v", ErrStoreWrite, s.table, err)
		}

		leftover := out.UnprocessedItems[s.table]
		if len(leftover) == 0 {
			return nil
		}
		if attempt >= maxBatchAttempts {
			return fmt.Errorf("%w: %d items for %s", ErrUnprocessedItems, len(leftover), s.table)
		}

		unprocessedRetries.Inc()
		log.Printf("Batch write to %s left %d unprocessed items, retrying (attempt %d/%d)", s.table, len(leftover), attempt, maxBatchAttempts)
		time.Sleep(backoff)
		backoff *= 2
		batch = leftover
	}
}
