package payload

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

// Static batch errors.
var (
	ErrUnsupportedOperationType = errors.New("unsupported operation type")
	ErrInvalidOperationData     = errors.New("invalid data for operation")
	ErrBatchFailed              = errors.New("batch completed with failures")
)

// Batch operation types.
const (
	BatchOperationCreate = "create"
	BatchOperationUpdate = "update"
	BatchOperationDelete = "delete"
	BatchOperationGet    = "get"
)

// BatchOperation describes one document operation in a batch.
type BatchOperation struct {
	// ID correlates the operation with its result.
	ID string
	// Type is one of the BatchOperation* constants.
	Type string
	// Collection is the target collection slug.
	Collection string
	// DocumentID is required for update, delete, and get operations.
	DocumentID string
	// Data carries the document body for create and update operations.
	Data interface{}
}

// BatchResult is the outcome of one operation.
type BatchResult struct {
	ID      string
	Success bool
	Data    interface{}
	Error   error
}

// BatchExecutor runs document operations concurrently against a collections
// client.
type BatchExecutor struct {
	collections CollectionsClient
	concurrency int
}

// NewBatchExecutor creates an executor with the given worker count. A
// concurrency below one falls back to serial execution.
func NewBatchExecutor(collections CollectionsClient, concurrency int) *BatchExecutor {
	if concurrency < 1 {
		concurrency = 1
	}

	return &BatchExecutor{collections: collections, concurrency: concurrency}
}

// Execute runs all operations and returns a result per operation, in the
// order the operations were given. Individual failures do not stop the
// batch.
func (e *BatchExecutor) Execute(ctx context.Context, operations []BatchOperation) []BatchResult {
	results := make([]BatchResult, len(operations))

	var waitGroup sync.WaitGroup

	semaphore := make(chan struct{}, e.concurrency)

	for i, operation := range operations {
		waitGroup.Add(1)

		go func(index int, op BatchOperation) {
			defer waitGroup.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			results[index] = e.run(ctx, op)
		}(i, operation)
	}

	waitGroup.Wait()

	return results
}

// ExecuteAll is like Execute but returns an error when any operation failed.
func (e *BatchExecutor) ExecuteAll(ctx context.Context, operations []BatchOperation) ([]BatchResult, error) {
	results := e.Execute(ctx, operations)

	failed := 0

	for _, result := range results {
		if !result.Success {
			failed++
		}
	}

	if failed > 0 {
		return results, fmt.Errorf("%w: %d of %d operations failed", ErrBatchFailed, failed, len(operations))
	}

	return results, nil
}

func (e *BatchExecutor) run(ctx context.Context, operation BatchOperation) BatchResult {
	result := BatchResult{ID: operation.ID}

	if operation.Collection == "" {
		result.Error = ErrCollectionRequired

		return result
	}

	var (
		data interface{}
		err  error
	)

	switch operation.Type {
	case BatchOperationCreate:
		if operation.Data == nil {
			err = fmt.Errorf("%w: create needs a document body", ErrInvalidOperationData)

			break
		}

		data, err = e.collections.Create(ctx, operation.Collection, operation.Data)

	case BatchOperationUpdate:
		if operation.DocumentID == "" || operation.Data == nil {
			err = fmt.Errorf("%w: update needs a document ID and body", ErrInvalidOperationData)

			break
		}

		data, err = e.collections.Update(ctx, operation.Collection, operation.DocumentID, operation.Data)

	case BatchOperationDelete:
		if operation.DocumentID == "" {
			err = fmt.Errorf("%w: delete needs a document ID", ErrInvalidOperationData)

			break
		}

		data, err = e.collections.Delete(ctx, operation.Collection, operation.DocumentID)

	case BatchOperationGet:
		if operation.DocumentID == "" {
			err = fmt.Errorf("%w: get needs a document ID", ErrInvalidOperationData)

			break
		}

		var doc json.RawMessage

		doc, err = e.collections.FindByID(ctx, operation.Collection, operation.DocumentID, nil)
		data = doc

	default:
		err = fmt.Errorf("%w: %s", ErrUnsupportedOperationType, operation.Type)
	}

	result.Success = err == nil
	result.Data = data
	result.Error = err

	return result
}
