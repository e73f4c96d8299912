package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/verte-zerg/readlog/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// timeLayout has a fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

const bookColumns = `id, title, author, genre, rating, date_completed, page_count, notes, created_at, updated_at`

// SQLite stores books in a SQLite database.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens or creates the SQLite database and applies migrations.
func OpenSQLite(path string) (*SQLite, error) {
	if path == "" {
		return nil, fmt.Errorf("database path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

// Close closes the underlying database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS books (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			author TEXT NOT NULL,
			genre TEXT,
			rating INTEGER,
			date_completed TEXT,
			page_count INTEGER,
			notes TEXT,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_books_created_at ON books(created_at);`,
		`CREATE INDEX IF NOT EXISTS idx_books_genre ON books(genre);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBook(row rowScanner) (model.Book, error) {
	var (
		b                       model.Book
		genre, completed, notes sql.NullString
		rating, pages           sql.NullInt64
		createdAt, updatedAt    string
	)
	if err := row.Scan(&b.ID, &b.Title, &b.Author, &genre, &rating, &completed, &pages, &notes, &createdAt, &updatedAt); err != nil {
		return model.Book{}, err
	}
	b.Genre = nullString(genre)
	b.DateCompleted = nullString(completed)
	b.Notes = nullString(notes)
	b.Rating = nullInt(rating)
	b.PageCount = nullInt(pages)
	var err error
	if b.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return model.Book{}, fmt.Errorf("invalid created_at for %s: %w", b.ID, err)
	}
	if b.UpdatedAt, err = time.Parse(timeLayout, updatedAt); err != nil {
		return model.Book{}, fmt.Errorf("invalid updated_at for %s: %w", b.ID, err)
	}
	return b, nil
}

func nullString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	return &v.String
}

func nullInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}

func bookArgs(b model.Book) []any {
	return []any{
		b.ID,
		b.Title,
		b.Author,
		b.Genre,
		b.Rating,
		b.DateCompleted,
		b.PageCount,
		b.Notes,
		b.CreatedAt.UTC().Format(timeLayout),
		b.UpdatedAt.UTC().Format(timeLayout),
	}
}

// List returns all books in creation order.
func (s *SQLite) List(ctx context.Context) ([]model.Book, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+bookColumns+` FROM books ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	books := []model.Book{}
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return books, nil
}

// Get returns one book by id.
func (s *SQLite) Get(ctx context.Context, id string) (model.Book, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+bookColumns+` FROM books WHERE id = ?`, id)
	b, err := scanBook(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Book{}, ErrNotFound
	}
	if err != nil {
		return model.Book{}, fmt.Errorf("failed to get book: %w", err)
	}
	return b, nil
}

// Create inserts a new book.
func (s *SQLite) Create(ctx context.Context, in model.BookInput) (model.Book, error) {
	b, err := newBook(in)
	if err != nil {
		return model.Book{}, err
	}
	if err := insertBook(ctx, s.db, b); err != nil {
		return model.Book{}, err
	}
	return b, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertBook(ctx context.Context, db execer, b model.Book) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO books (`+bookColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		bookArgs(b)...,
	)
	if err != nil {
		return fmt.Errorf("failed to insert book: %w", err)
	}
	return nil
}

// Update replaces the editable fields of an existing book.
func (s *SQLite) Update(ctx context.Context, id string, in model.BookInput) (model.Book, error) {
	b, err := s.Get(ctx, id)
	if err != nil {
		return model.Book{}, err
	}
	in.Apply(&b)
	b.UpdatedAt = now()
	res, err := s.db.ExecContext(ctx,
		`UPDATE books SET title = ?, author = ?, genre = ?, rating = ?, date_completed = ?, page_count = ?, notes = ?, updated_at = ?
		 WHERE id = ?`,
		b.Title, b.Author, b.Genre, b.Rating, b.DateCompleted, b.PageCount, b.Notes,
		b.UpdatedAt.Format(timeLayout), b.ID,
	)
	if err != nil {
		return model.Book{}, fmt.Errorf("failed to update book: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return model.Book{}, ErrNotFound
	}
	return b, nil
}

// Delete removes a book.
func (s *SQLite) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM books WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete book: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete book: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ReplaceAll swaps the whole collection inside one transaction.
func (s *SQLite) ReplaceAll(ctx context.Context, books []model.Book) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM books`); err != nil {
		return fmt.Errorf("failed to clear books: %w", err)
	}
	for _, b := range books {
		if err = insertBook(ctx, tx, b); err != nil {
			return err
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit import: %w", err)
	}
	return nil
}
