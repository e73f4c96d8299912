package stats

import "testing"

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Genre", "Books", "Share"}
	rows := [][]string{
		{"Fantasy", "12", "60.0%"},
		{"Sci-Fi", "8", "40.0%"},
	}
	rightAlign := map[int]bool{1: true, 2: true}

	lines := FormatTable(headers, rows, rightAlign)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Genre   Books Share" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "Fantasy    12 60.0%" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "Sci-Fi      8 40.0%" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestFormatTableWideRunes(t *testing.T) {
	lines := FormatTable([]string{"Genre", "Books"}, [][]string{
		{"小説", "3"},
		{"Drama", "1"},
	}, map[int]bool{1: true})
	if lines[1] != "小説      3" {
		t.Fatalf("unexpected wide row: %q", lines[1])
	}
	if lines[2] != "Drama     1" {
		t.Fatalf("unexpected row: %q", lines[2])
	}
}
