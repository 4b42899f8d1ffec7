package domain

import (
	"context"
	"fmt"
	"strings"
)

// Person is a row in the input store. IDs are assigned by the store on
// insert and are local to that store.
type Person struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Nickname string `json:"nickname"`
	Gender   string `json:"gender"`
	Age      int    `json:"age"`
}

// OutputPerson is a row in the output store: the input fields plus the
// is_cool flag set by the pipeline's classifier at load time.
type OutputPerson struct {
	Person
	IsCool bool `json:"is_cool"`
}

// FirstName returns the first whitespace-delimited token of a full name.
// It is computed at serialization time and never stored. A name with no
// tokens fails with ErrDataShape.
func FirstName(name string) (string, error) {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return "", fmt.Errorf("first name of %q: %w", name, ErrDataShape)
	}
	return fields[0], nil
}

// SourceStore holds pre-processing person records.
type SourceStore interface {
	CreateSchema(ctx context.Context) error
	DropSchema(ctx context.Context) error
	Insert(ctx context.Context, p *Person) error
	InsertMany(ctx context.Context, people []Person) error
	QueryAll(ctx context.Context) ([]Person, error)
	Close() error
}

// DestinationStore holds post-processing person records. Its content is
// fully replaced on every pipeline run.
type DestinationStore interface {
	CreateSchema(ctx context.Context) error
	DropSchema(ctx context.Context) error
	Insert(ctx context.Context, p *OutputPerson) error
	InsertMany(ctx context.Context, people []OutputPerson) error
	QueryAll(ctx context.Context) ([]OutputPerson, error)
	Close() error
}
