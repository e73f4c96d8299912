// Package store persists the book collection.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/readlog/internal/config"
	"github.com/verte-zerg/readlog/internal/model"
)

// ErrNotFound is returned when a book id does not exist.
var ErrNotFound = errors.New("book not found")

// Store is the persistence contract shared by all backends.
// List returns books in creation order.
type Store interface {
	List(ctx context.Context) ([]model.Book, error)
	Get(ctx context.Context, id string) (model.Book, error)
	Create(ctx context.Context, in model.BookInput) (model.Book, error)
	Update(ctx context.Context, id string, in model.BookInput) (model.Book, error)
	Delete(ctx context.Context, id string) error
	ReplaceAll(ctx context.Context, books []model.Book) error
	Close() error
}

// Open opens the backend selected by cfg.
func Open(cfg config.Storage) (Store, error) {
	switch cfg.Backend {
	case "", config.BackendJSON:
		return OpenJSON(cfg.Path)
	case config.BackendSQLite:
		return OpenSQLite(cfg.Path)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

var now = func() time.Time {
	return time.Now().UTC()
}

func newID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("failed to generate book id: %w", err)
	}
	return id.String(), nil
}

func newBook(in model.BookInput) (model.Book, error) {
	id, err := newID()
	if err != nil {
		return model.Book{}, err
	}
	ts := now()
	b := model.Book{ID: id, CreatedAt: ts, UpdatedAt: ts}
	in.Apply(&b)
	return b, nil
}

// fillMissing assigns an id and timestamps to imported records that lack them.
func fillMissing(b *model.Book) error {
	if b.ID == "" {
		id, err := newID()
		if err != nil {
			return err
		}
		b.ID = id
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now()
	}
	if b.UpdatedAt.IsZero() {
		b.UpdatedAt = b.CreatedAt
	}
	return nil
}

func cloneBook(b model.Book) model.Book {
	b.Genre = clonePtr(b.Genre)
	b.Rating = clonePtr(b.Rating)
	b.DateCompleted = clonePtr(b.DateCompleted)
	b.PageCount = clonePtr(b.PageCount)
	b.Notes = clonePtr(b.Notes)
	return b
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneBooks(books []model.Book) []model.Book {
	out := make([]model.Book, len(books))
	for i, b := range books {
		out[i] = cloneBook(b)
	}
	return out
}
