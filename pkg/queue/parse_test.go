package queue

import (
	"errors"
	"os"
	"slices"
	"strings"
	"testing"

	perrors "github.com/matzehuels/printqueue/pkg/errors"
)

func loadExample(t testing.TB) *Manual {
	t.Helper()
	data, err := os.ReadFile("testdata/example.txt")
	if err != nil {
		t.Fatalf("read example: %v", err)
	}
	m, err := Parse(string(data))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return m
}

func TestParseExample(t *testing.T) {
	m := loadExample(t)
	if len(m.Updates) != 6 {
		t.Errorf("len(Updates) = %d, want 6", len(m.Updates))
	}
	if len(m.Rules) != 21 {
		t.Errorf("len(Rules) = %d, want 21", len(m.Rules))
	}
	if m.Rules[0] != (Rule{Before: 47, After: 53}) {
		t.Errorf("Rules[0] = %+v", m.Rules[0])
	}
	if !slices.Equal(m.Updates[2], Update{75, 29, 13}) {
		t.Errorf("Updates[2] = %v", m.Updates[2])
	}
}

func TestParseTolerances(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"crlf", "1|2\r\n3|4\r\n\r\n1,2\r\n"},
		{"trailing blank lines", "1|2\n3|4\n\n1,2\n\n\n"},
		{"spaces around tokens", "1 | 2\n3|4\n\n 1, 2 \n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if len(m.Rules) != 2 || len(m.Updates) != 1 {
				t.Errorf("got %d rules, %d updates", len(m.Rules), len(m.Updates))
			}
			if !slices.Equal(m.Updates[0], Update{1, 2}) {
				t.Errorf("Updates[0] = %v", m.Updates[0])
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		code     perrors.Code
		sentinel error
		contains string
	}{
		{"no separator", "1|2\n1,2\n", perrors.ErrCodeMissingSeparator, ErrNoSeparator, ""},
		{"rule without pipe", "1|2\n3-4\n\n1,2", perrors.ErrCodeInvalidRule, ErrMalformedRule, "line 2"},
		{"non-numeric rule", "1|x\n\n1,2", perrors.ErrCodeInvalidPage, ErrInvalidPage, "line 1"},
		{"non-numeric page", "1|2\n3|4\n\n1,2\n1,a", perrors.ErrCodeInvalidPage, ErrInvalidPage, "line 5"},
		{"negative page", "1|2\n\n-1,2", perrors.ErrCodeInvalidPage, ErrInvalidPage, "line 3"},
		{"empty field", "1|2\n\n1,,2", perrors.ErrCodeInvalidPage, ErrInvalidPage, ""},
		{"overflow", "1|2\n\n4294967296", perrors.ErrCodeInvalidPage, ErrInvalidPage, ""},
		{"no updates", "1|2\n\n\n", perrors.ErrCodeEmptyInput, ErrNoUpdates, ""},
		{"no rules", "\n\n1,2", perrors.ErrCodeEmptyInput, ErrNoRules, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			if err == nil {
				t.Fatal("Parse() should fail")
			}
			if !perrors.Is(err, tt.code) {
				t.Errorf("code = %v, want %v", perrors.GetCode(err), tt.code)
			}
			if !errors.Is(err, tt.sentinel) {
				t.Errorf("err = %v, want wrapping %v", err, tt.sentinel)
			}
			if tt.contains != "" && !strings.Contains(err.Error(), tt.contains) {
				t.Errorf("err = %q, want it to mention %q", err, tt.contains)
			}
		})
	}
}

func TestRead(t *testing.T) {
	m, err := Read(strings.NewReader("5|6\n\n6,5\n"))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(m.Updates) != 1 || m.IsCorrect(m.Updates[0]) {
		t.Errorf("unexpected manual: %+v", m)
	}
}
