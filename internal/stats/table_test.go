package stats

import "testing"

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Rank", "Name", "Score"}
	rows := [][]string{
		{"#1", "ace", "12840"},
		{"#2", "Anonymous", "950"},
	}
	rightAlign := map[int]bool{2: true}

	lines := formatTable(headers, rows, rightAlign)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Rank Name      Score" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "#1   ace       12840" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "#2   Anonymous   950" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestFormatTableWideRunes(t *testing.T) {
	lines := formatTable([]string{"Name", "Score"}, [][]string{{"홍길동", "1"}, {"ab", "22"}}, map[int]bool{1: true})
	if lines[1] != "홍길동     1" {
		t.Fatalf("unexpected wide row: %q", lines[1])
	}
	if lines[2] != "ab        22" {
		t.Fatalf("unexpected narrow row: %q", lines[2])
	}
}
