// Package scenariorepo provides storage for generated scenarios so
// they can be listed and fetched by record id later. The repository
// never participates in generation itself; it only stores finished
// output.
package scenariorepo

import (
	"context"
	"time"

	"github.com/KirkDiggler/scenario-gen/internal/scenario"
)

//go:generate mockgen -destination=mock/mock_repository.go -package=scenariorepomock github.com/KirkDiggler/scenario-gen/internal/repositories/scenario Repository

// Record is a stored generation result.
type Record struct {
	// Unique identifier of the stored record
	ID string

	// Template the scenario was generated from
	TemplateName string

	// Generation inputs, enough to reproduce the scenario
	Seed uint32
	Size int

	// The generated map
	Snapshot *scenario.Snapshot

	// When this record was created
	CreatedAt time.Time
}

// SaveInput contains parameters for storing a scenario
type SaveInput struct {
	Record *Record

	// Optional expiry; zero keeps the record forever
	TTL time.Duration
}

// SaveOutput contains the result of storing a scenario
type SaveOutput struct {
	Record *Record
}

// GetInput contains parameters for fetching a scenario
type GetInput struct {
	ID string
}

// GetOutput contains the fetched scenario
type GetOutput struct {
	Record *Record
}

// ListInput contains parameters for listing stored scenarios
type ListInput struct {
	// Optional filter by template name
	TemplateName string
}

// ListEntry is a stored scenario without its snapshot payload.
type ListEntry struct {
	ID           string
	TemplateName string
	Seed         uint32
	Size         int
	CreatedAt    time.Time
}

// ListOutput contains the listing result
type ListOutput struct {
	Records []ListEntry
}

// DeleteInput contains parameters for deleting a stored scenario
type DeleteInput struct {
	ID string
}

// DeleteOutput contains the result of deleting a stored scenario
type DeleteOutput struct {
	Deleted bool
}

// Repository defines the interface for scenario storage operations
type Repository interface {
	// Save stores a generated scenario
	Save(ctx context.Context, input SaveInput) (*SaveOutput, error)

	// Get retrieves a stored scenario by record id
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// List enumerates stored scenarios without their payloads
	List(ctx context.Context, input ListInput) (*ListOutput, error)

	// Delete removes a stored scenario
	Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error)
}
