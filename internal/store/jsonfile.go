package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	jsoniter "github.com/json-iterator/go"

	"github.com/verte-zerg/readlog/internal/model"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// JSONFile keeps the collection in memory and mirrors it to a single JSON file.
type JSONFile struct {
	mu    sync.Mutex
	path  string
	books []model.Book
}

// OpenJSON loads the book file at path, creating its directory if needed.
func OpenJSON(path string) (*JSONFile, error) {
	if path == "" {
		return nil, fmt.Errorf("books path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}
	s := &JSONFile{path: path}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("failed to read books: %w", err)
	}
	if len(data) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(data, &s.books); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return s, nil
}

// Path returns the backing file path.
func (s *JSONFile) Path() string {
	return s.path
}

// List returns a copy of every book.
func (s *JSONFile) List(ctx context.Context) ([]model.Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneBooks(s.books), nil
}

// Get returns one book by id.
func (s *JSONFile) Get(ctx context.Context, id string) (model.Book, error) {
	if err := ctx.Err(); err != nil {
		return model.Book{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexOf(id)
	if idx < 0 {
		return model.Book{}, ErrNotFound
	}
	return cloneBook(s.books[idx]), nil
}

// Create stores a new book.
func (s *JSONFile) Create(ctx context.Context, in model.BookInput) (model.Book, error) {
	if err := ctx.Err(); err != nil {
		return model.Book{}, err
	}
	b, err := newBook(in)
	if err != nil {
		return model.Book{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	next := append(cloneBooks(s.books), b)
	if err := s.persist(next); err != nil {
		return model.Book{}, err
	}
	s.books = next
	return cloneBook(b), nil
}

// Update replaces the editable fields of an existing book.
func (s *JSONFile) Update(ctx context.Context, id string, in model.BookInput) (model.Book, error) {
	if err := ctx.Err(); err != nil {
		return model.Book{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexOf(id)
	if idx < 0 {
		return model.Book{}, ErrNotFound
	}
	next := cloneBooks(s.books)
	in.Apply(&next[idx])
	next[idx].UpdatedAt = now()
	if err := s.persist(next); err != nil {
		return model.Book{}, err
	}
	s.books = next
	return cloneBook(next[idx]), nil
}

// Delete removes a book.
func (s *JSONFile) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexOf(id)
	if idx < 0 {
		return ErrNotFound
	}
	next := make([]model.Book, 0, len(s.books)-1)
	next = append(next, s.books[:idx]...)
	next = append(next, s.books[idx+1:]...)
	if err := s.persist(next); err != nil {
		return err
	}
	s.books = next
	return nil
}

// ReplaceAll swaps the whole collection.
func (s *JSONFile) ReplaceAll(ctx context.Context, books []model.Book) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	next := cloneBooks(books)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.persist(next); err != nil {
		return err
	}
	s.books = next
	return nil
}

// Close is a no-op; every write is already on disk.
func (s *JSONFile) Close() error {
	return nil
}

func (s *JSONFile) indexOf(id string) int {
	for i, b := range s.books {
		if b.ID == id {
			return i
		}
	}
	return -1
}

func (s *JSONFile) persist(books []model.Book) error {
	if books == nil {
		books = []model.Book{}
	}
	data, err := json.MarshalIndent(books, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode books: %w", err)
	}
	data = append(data, '\n')
	return writeFileAtomic(s.path, data)
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() {
		if rerr := os.Remove(tmpName); rerr != nil && !os.IsNotExist(rerr) {
			// Best-effort temp cleanup.
			_ = rerr
		}
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
