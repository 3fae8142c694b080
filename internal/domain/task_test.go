package domain

import (
	"errors"
	"testing"
)

func TestParseColumn(t *testing.T) {
	tests := []struct {
		in      string
		want    Column
		wantErr bool
	}{
		{"todo", ColumnTodo, false},
		{"inProgress", ColumnInProgress, false},
		{"done", ColumnDone, false},
		{"Done", "", true},
		{"in_progress", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseColumn(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidColumn) {
				t.Fatalf("ParseColumn(%q): expected ErrInvalidColumn, got %v", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Fatalf("ParseColumn(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestColumnTitles(t *testing.T) {
	want := []string{"To Do", "In Progress", "Done"}
	for i, c := range Columns() {
		if c.Title() != want[i] {
			t.Fatalf("column %s: got title %q want %q", c, c.Title(), want[i])
		}
	}
}
