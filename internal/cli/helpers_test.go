package cli

import (
	"testing"

	"github.com/juju/errors"

	"github.com/andy/oficina/internal/service"
)

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		in      string
		id      int64
		qty     int
		wantErr bool
	}{
		{"3:2", 3, 2, false},
		{"7", 7, 1, false},
		{" 4 : 0 ", 4, 0, false},
		{"x:1", 0, 0, true},
		{"1:y", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			id, qty, err := parseQuantity(tt.in)
			if tt.wantErr {
				if !errors.IsNotValid(err) {
					t.Fatalf("expected not valid, got %v", err)
				}
				return
			}
			if err != nil || id != tt.id || qty != tt.qty {
				t.Fatalf("parseQuantity(%q) = %d, %d, %v", tt.in, id, qty, err)
			}
		})
	}
}

func TestParseIDs(t *testing.T) {
	ids, err := parseIDs([]string{"1", " 22"})
	if err != nil || len(ids) != 2 || ids[1] != 22 {
		t.Fatalf("unexpected ids: %v %v", ids, err)
	}
	if _, err := parseIDs([]string{"a"}); !errors.IsNotValid(err) {
		t.Fatalf("expected not valid, got %v", err)
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, 0},
		{errors.NotValidf("x"), 2},
		{errors.NotFoundf("x"), 3},
		{errors.Forbiddenf("x"), 4},
		{errors.New("x"), 1},
	}
	for _, tt := range tests {
		if got := ExitCode(tt.err); got != tt.want {
			t.Errorf("ExitCode(%v) = %d, want %d (%s)", tt.err, got, tt.want, service.ErrorKind(tt.err))
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("Oficina Mecânica Central", 10); len([]rune(got)) != 10 {
		t.Fatalf("unexpected truncation %q", got)
	}
}
