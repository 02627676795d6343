package services

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// fakeDynamo routes scan pages by table name and records every write so
// tests can assert call shapes without AWS.
type fakeDynamo struct {
	scanPages map[string][]*dynamodb.ScanOutput
	scanErr   error
	scanCalls int

	deleteInputs []*dynamodb.DeleteItemInput
	deleteErr    error

	batchInputs []*dynamodb.BatchWriteItemInput
	batchErr    error

	// unprocessed is consumed one entry per BatchWriteItem call; when
	// alwaysUnprocessed is set the first request of every batch is
	// reported back instead.
	unprocessed       []map[string][]types.WriteRequest
	alwaysUnprocessed bool
}

func (f *fakeDynamo) Scan(ctx context.Context, in *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	f.scanCalls++
	if f.scanErr != nil {
		return nil, f.scanErr
	}

	table := ""
	if in.TableName != nil {
		table = *in.TableName
	}
	pages := f.scanPages[table]
	if len(pages) == 0 {
		return &dynamodb.ScanOutput{}, nil
	}
	page := pages[0]
	f.scanPages[table] = pages[1:]
	return page, nil
}

func (f *fakeDynamo) DeleteItem(ctx context.Context, in *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	f.deleteInputs = append(f.deleteInputs, in)
	if f.deleteErr != nil {
		return nil, f.deleteErr
	}
	return &dynamodb.DeleteItemOutput{}, nil
}

func (f *fakeDynamo) BatchWriteItem(ctx context.Context, in *dynamodb.BatchWriteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error) {
	f.batchInputs = append(f.batchInputs, in)
	if f.batchErr != nil {
		return nil, f.batchErr
	}

	if f.alwaysUnprocessed {
		leftover := map[string][]types.WriteRequest{}
		for table, reqs := range in.RequestItems {
			leftover[table] = reqs[:1]
		}
		return &dynamodb.BatchWriteItemOutput{UnprocessedItems: leftover}, nil
	}

	var leftover map[string][]types.WriteRequest
	if len(f.unprocessed) > 0 {
		leftover = f.unprocessed[0]
		f.unprocessed = f.unprocessed[1:]
	}
	return &dynamodb.BatchWriteItemOutput{UnprocessedItems: leftover}, nil
}
