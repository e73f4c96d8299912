package store

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/verte-zerg/readlog/internal/model"
)

// ImportMode selects how imported books combine with the existing collection.
type ImportMode string

// Import modes.
const (
	ImportReplace ImportMode = "replace"
	ImportMerge   ImportMode = "merge"
)

// ParseImportMode parses a mode name; empty means replace.
func ParseImportMode(s string) (ImportMode, error) {
	switch ImportMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ImportReplace:
		return ImportReplace, nil
	case ImportMerge:
		return ImportMerge, nil
	default:
		return "", fmt.Errorf("unknown import mode %q (use replace or merge)", s)
	}
}

// Export writes the collection as an indented JSON array.
func Export(ctx context.Context, s Store, w io.Writer) error {
	books, err := s.List(ctx)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(books, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode books: %w", err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}

// Import reads a JSON array of books and stores it according to mode.
// Ids must be unique within the payload. It returns the number of books read from r.
func Import(ctx context.Context, s Store, r io.Reader, mode ImportMode) (int, error) {
	var incoming []model.Book
	if err := json.NewDecoder(r).Decode(&incoming); err != nil {
		return 0, fmt.Errorf("failed to decode import: %w", err)
	}
	seen := make(map[string]struct{}, len(incoming))
	for i := range incoming {
		b := &incoming[i]
		b.Title = strings.TrimSpace(b.Title)
		b.Author = strings.TrimSpace(b.Author)
		if b.Title == "" || b.Author == "" {
			return 0, fmt.Errorf("book %d: title and author are required", i+1)
		}
		if err := fillMissing(b); err != nil {
			return 0, err
		}
		if _, dup := seen[b.ID]; dup {
			return 0, fmt.Errorf("book %d: duplicate id %q", i+1, b.ID)
		}
		seen[b.ID] = struct{}{}
	}

	books := incoming
	if mode == ImportMerge {
		existing, err := s.List(ctx)
		if err != nil {
			return 0, err
		}
		books = mergeBooks(existing, incoming)
	}
	if err := s.ReplaceAll(ctx, books); err != nil {
		return 0, err
	}
	return len(incoming), nil
}

// mergeBooks overlays incoming on existing by id. Existing order is kept and
// new ids are appended in input order.
func mergeBooks(existing, incoming []model.Book) []model.Book {
	out := make([]model.Book, len(existing), len(existing)+len(incoming))
	copy(out, existing)
	index := make(map[string]int, len(out))
	for i, b := range out {
		index[b.ID] = i
	}
	for _, b := range incoming {
		if i, ok := index[b.ID]; ok {
			out[i] = b
			continue
		}
		index[b.ID] = len(out)
		out = append(out, b)
	}
	return out
}

// Backup writes a timestamped snapshot into dir and returns its path.
func Backup(ctx context.Context, s Store, dir string) (string, error) {
	if dir == "" {
		return "", fmt.Errorf("backup dir is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create backup dir: %w", err)
	}
	path := filepath.Join(dir, "books-"+now().Format("20060102-150405")+".json")
	var buf strings.Builder
	if err := Export(ctx, s, &buf); err != nil {
		return "", err
	}
	if err := writeFileAtomic(path, []byte(buf.String())); err != nil {
		return "", err
	}
	return path, nil
}
