// Package archive records solved searches so they can be listed, inspected
// and re-rendered later.
//
// A [Run] captures the input boxes, the options that shaped the search and
// the winning [stack.Solution]. Runs are identified by a random UUID.
//
// Backends:
//   - [MemoryStore]: bounded in-process history (HTTP server default)
//   - [FileStore]: one JSON file per run under ~/.config/boxtower/runs (CLI)
//   - [MongoStore]: a MongoDB collection for shared deployments
package archive

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/boxtower/pkg/box"
	"github.com/matzehuels/boxtower/pkg/errors"
	"github.com/matzehuels/boxtower/pkg/stack"
)

// DefaultListLimit caps List when the caller passes a non-positive limit.
const DefaultListLimit = 20

// Run is one archived search.
type Run struct {
	ID             string          `json:"id" bson:"_id"`
	CreatedAt      time.Time       `json:"created_at" bson:"created_at"`
	Source         string          `json:"source" bson:"source"`
	Boxes          []box.Box       `json:"boxes" bson:"boxes"`
	MaxCorrections int             `json:"max_corrections" bson:"max_corrections"`
	Solution       *stack.Solution `json:"solution" bson:"solution"`
}

// NewRun creates a run with a fresh ID stamped with the current time.
func NewRun(source string, boxes []box.Box, maxCorrections int, sol *stack.Solution) *Run {
	return &Run{
		ID:             uuid.NewString(),
		CreatedAt:      time.Now().UTC(),
		Source:         source,
		Boxes:          boxes,
		MaxCorrections: maxCorrections,
		Solution:       sol,
	}
}

// Store persists runs.
type Store interface {
	// Save inserts run. Saving an ID twice replaces the earlier record.
	Save(ctx context.Context, run *Run) error

	// Get returns the run with id, or an error with code NOT_FOUND.
	Get(ctx context.Context, id string) (*Run, error)

	// List returns up to limit runs, newest first.
	List(ctx context.Context, limit int) ([]*Run, error)

	// Close releases backend resources.
	Close() error
}

// ValidID reports whether id is a well-formed run ID.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func notFound(id string) error {
	return errors.New(errors.ErrCodeNotFound, "run %s not found", id)
}

func listLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}
