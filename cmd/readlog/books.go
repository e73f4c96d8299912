package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/readlog/internal/library"
	"github.com/verte-zerg/readlog/internal/model"
	"github.com/verte-zerg/readlog/internal/stats"
	"github.com/verte-zerg/readlog/internal/store"
	"github.com/verte-zerg/readlog/internal/validate"
)

// bookFlags holds the editable book fields shared by add and edit.
type bookFlags struct {
	title  string
	author string
	genre  string
	rating int
	date   string
	pages  int
	notes  string
}

func (f *bookFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.title, "title", "", "book title")
	cmd.Flags().StringVar(&f.author, "author", "", "book author")
	cmd.Flags().StringVar(&f.genre, "genre", "", "genre (empty clears it)")
	cmd.Flags().IntVar(&f.rating, "rating", 0, "rating from 1 to 5")
	cmd.Flags().StringVar(&f.date, "date", "", "completion date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&f.pages, "pages", 0, "page count")
	cmd.Flags().StringVar(&f.notes, "notes", "", "free-form notes")
}

// apply overlays the flags the user set onto in.
func (f *bookFlags) apply(cmd *cobra.Command, in model.BookInput) model.BookInput {
	changed := cmd.Flags().Changed
	if changed("title") {
		in.Title = f.title
	}
	if changed("author") {
		in.Author = f.author
	}
	if changed("genre") {
		in.Genre = model.String(f.genre)
	}
	if changed("rating") {
		in.Rating = model.Int(f.rating)
	}
	if changed("date") {
		in.DateCompleted = model.String(f.date)
	}
	if changed("pages") {
		in.PageCount = model.Int(f.pages)
	}
	if changed("notes") {
		in.Notes = model.String(f.notes)
	}
	return in.Normalize()
}

var (
	addFlags  bookFlags
	editFlags bookFlags

	listQuery model.Query
)

func newAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a book",
		Args:  cobra.NoArgs,
		RunE:  runAddCmd,
	}
	addFlags.register(cmd)
	return cmd
}

func runAddCmd(cmd *cobra.Command, _ []string) error {
	in := addFlags.apply(cmd, model.BookInput{})
	if err := validate.Book(in); err != nil {
		return err
	}
	_, st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer closeStore(st)

	b, err := st.Create(context.Background(), in)
	if err != nil {
		return fmt.Errorf("failed to add book: %w", err)
	}
	logErrf("Added %q by %s\n", b.Title, b.Author)
	_, err = fmt.Fprintln(cmd.OutOrStdout(), b.ID)
	return err
}

func newEditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a book",
		Args:  cobra.ExactArgs(1),
		RunE:  runEditCmd,
	}
	editFlags.register(cmd)
	return cmd
}

func runEditCmd(cmd *cobra.Command, args []string) error {
	_, st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer closeStore(st)

	ctx := context.Background()
	current, err := st.Get(ctx, args[0])
	if err != nil {
		return bookLookupError(args[0], err)
	}
	in := editFlags.apply(cmd, model.InputFromBook(current))
	if err := validate.Book(in); err != nil {
		return err
	}
	b, err := st.Update(ctx, current.ID, in)
	if err != nil {
		return bookLookupError(args[0], err)
	}
	logErrf("Updated %q\n", b.Title)
	return nil
}

func newRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"remove"},
		Short:   "Remove a book",
		Args:    cobra.ExactArgs(1),
		RunE:    runRemoveCmd,
	}
}

func runRemoveCmd(cmd *cobra.Command, args []string) error {
	_, st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer closeStore(st)

	if err := st.Delete(context.Background(), args[0]); err != nil {
		return bookLookupError(args[0], err)
	}
	logErrf("Removed %s\n", args[0])
	return nil
}

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List books",
		Args:  cobra.NoArgs,
		RunE:  runListCmd,
	}
	cmd.Flags().StringVar(&listQuery.Search, "q", "", "search title, author, genre and notes")
	cmd.Flags().StringVar(&listQuery.Genre, "genre", "", "genre filter")
	cmd.Flags().IntVar(&listQuery.MinRating, "min-rating", 0, "minimum rating")
	cmd.Flags().IntVar(&listQuery.Year, "year", 0, "completion year filter")
	cmd.Flags().StringVar(&listQuery.Sort, "sort", "", "sort field (title, author, rating, dateCompleted, pageCount, createdAt)")
	cmd.Flags().BoolVar(&listQuery.Desc, "desc", false, "sort descending")
	cmd.Flags().IntVar(&listQuery.Page, "page", 1, "page number")
	cmd.Flags().IntVar(&listQuery.PageSize, "size", library.DefaultPageSize, "page size")
	return cmd
}

func runListCmd(cmd *cobra.Command, _ []string) error {
	if err := validate.Pagination(listQuery.Page, listQuery.PageSize); err != nil {
		return err
	}
	_, st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer closeStore(st)

	books, err := st.List(context.Background())
	if err != nil {
		return err
	}
	page, err := library.Apply(books, listQuery)
	if err != nil {
		return err
	}
	return writeBookPage(cmd.OutOrStdout(), page)
}

func writeBookPage(w io.Writer, page model.BookPage) error {
	if page.Total == 0 {
		_, err := fmt.Fprintln(w, "No books found.")
		return err
	}
	rows := make([][]string, 0, len(page.Books))
	for _, b := range page.Books {
		rows = append(rows, []string{
			b.ID,
			b.Title,
			b.Author,
			optionalString(b.Genre),
			optionalInt(b.Rating),
			optionalString(b.DateCompleted),
		})
	}
	headers := []string{"ID", "Title", "Author", "Genre", "Rating", "Completed"}
	for _, line := range stats.FormatTable(headers, rows, map[int]bool{4: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "\n%d books, page %d of %d\n", page.Total, page.Page, page.TotalPages)
	return err
}

func optionalString(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

func optionalInt(n *int) string {
	if n == nil {
		return "-"
	}
	return strconv.Itoa(*n)
}

func bookLookupError(id string, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("no book with id %s", id)
	}
	return err
}
