package battles

import (
	"context"
	"sort"
	"sync"

	"github.com/KirkDiggler/arena/internal/errors"
)

// InMemoryRepository implements Repository using in-memory storage
type InMemoryRepository struct {
	mu    sync.RWMutex
	store map[string]*Record
}

// NewInMemory creates a new in-memory repository
func NewInMemory() *InMemoryRepository {
	return &InMemoryRepository{
		store: make(map[string]*Record),
	}
}

// Save stores a copy of the record
func (r *InMemoryRepository) Save(_ context.Context, input *SaveInput) (*SaveOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument(errInputNil)
	}
	if err := validateRecord(input.Record); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.store[input.Record.ID] = input.Record.Clone()

	return &SaveOutput{}, nil
}

// Get retrieves a record by ID
func (r *InMemoryRepository) Get(_ context.Context, input *GetInput) (*GetOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument(errInputNil)
	}
	if input.ID == "" {
		return nil, errors.InvalidArgument(errIDRequired)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	record, exists := r.store[input.ID]
	if !exists {
		return nil, notFound(input.ID)
	}

	// Return a copy to prevent external modification
	return &GetOutput{Record: record.Clone()}, nil
}

// List returns records newest first. Records created at the same instant
// are ordered by descending ID.
func (r *InMemoryRepository) List(_ context.Context, input *ListInput) (*ListOutput, error) {
	limit := listLimit(input)

	r.mu.RLock()
	records := make([]*Record, 0, len(r.store))
	for _, record := range r.store {
		records = append(records, record.Clone())
	}
	r.mu.RUnlock()

	sort.Slice(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})

	if len(records) > limit {
		records = records[:limit]
	}
	return &ListOutput{Records: records}, nil
}
