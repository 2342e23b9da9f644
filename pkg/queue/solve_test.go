package queue

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/matzehuels/printqueue/pkg/dag"
	perrors "github.com/matzehuels/printqueue/pkg/errors"
)

func TestPart1Example(t *testing.T) {
	if got := loadExample(t).Part1(); got != 143 {
		t.Errorf("Part1() = %d, want 143", got)
	}
}

func TestPart2Example(t *testing.T) {
	m := loadExample(t)
	for _, s := range dag.Strategies() {
		if got := m.Part2(s); got != 123 {
			t.Errorf("Part2(%s) = %d, want 123", s, got)
		}
	}
}

func TestSingleElementUpdate(t *testing.T) {
	m, err := Parse("1|2\n\n7\n2,1\n")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := m.Part1(); got != 7 {
		t.Errorf("Part1() = %d, want 7", got)
	}
	// 2,1 reorders to 1,2 whose middle (index 1) is 2.
	if got := m.Part2(dag.Stack); got != 2 {
		t.Errorf("Part2() = %d, want 2", got)
	}
}

func TestClassifyPartitionsUpdates(t *testing.T) {
	m := loadExample(t)
	verdicts := m.Classify(dag.Stack)
	wantMiddles := []Page{61, 53, 29, 47, 29, 47}
	for i, v := range verdicts {
		if v.Index != i {
			t.Errorf("verdict %d has index %d", i, v.Index)
		}
		if v.Part != 1 && v.Part != 2 {
			t.Errorf("verdict %d: part = %d", i, v.Part)
		}
		if v.Correct != (v.Part == 1) {
			t.Errorf("verdict %d: correct = %v but part = %d", i, v.Correct, v.Part)
		}
		if v.Middle != wantMiddles[i] {
			t.Errorf("verdict %d: middle = %d, want %d", i, v.Middle, wantMiddles[i])
		}
	}
}

func TestReorder(t *testing.T) {
	m := loadExample(t)
	tests := []struct {
		index int
		want  Update
	}{
		{0, Update{75, 47, 61, 53, 29}},
		{3, Update{97, 75, 47, 61, 53}},
		{4, Update{61, 29, 13}},
		{5, Update{97, 75, 47, 29, 13}},
	}
	for _, tt := range tests {
		got, err := m.Reorder(tt.index, dag.Stack)
		if err != nil {
			t.Fatalf("Reorder(%d): %v", tt.index, err)
		}
		if !slices.Equal(got, tt.want) {
			t.Errorf("Reorder(%d) = %v, want %v", tt.index, got, tt.want)
		}
		if !m.IsCorrect(got) {
			t.Errorf("Reorder(%d) result is not correct", tt.index)
		}
	}
	if _, err := m.Reorder(6, dag.Stack); !perrors.Is(err, perrors.ErrCodeNotFound) {
		t.Errorf("Reorder(6) err = %v, want NOT_FOUND", err)
	}
}

func TestSolve(t *testing.T) {
	m := loadExample(t)
	for _, workers := range []int{0, 1, 4} {
		res, err := Solve(context.Background(), m, Options{Strategy: dag.Queue, Workers: workers})
		if err != nil {
			t.Fatalf("workers=%d: Solve: %v", workers, err)
		}
		if res.Part1 != 143 || res.Part2 != 123 {
			t.Errorf("workers=%d: got (%d, %d), want (143, 123)", workers, res.Part1, res.Part2)
		}
		if got := res.Correct(); !slices.Equal(got, []int{0, 1, 2}) {
			t.Errorf("workers=%d: Correct() = %v", workers, got)
		}
	}
}

func TestSolveUnresolvable(t *testing.T) {
	// 3,2,1 violates 1|2, and the three rules form a cycle.
	m, err := Parse("1|2\n2|3\n3|1\n\n3,2,1\n")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	for _, workers := range []int{1, 3} {
		_, err = Solve(context.Background(), m, Options{Workers: workers})
		if !perrors.Is(err, perrors.ErrCodeUnresolvable) {
			t.Fatalf("workers=%d: err = %v, want UNRESOLVABLE", workers, err)
		}
		if !errors.Is(err, dag.ErrExhausted) {
			t.Errorf("workers=%d: err = %v, want wrapping ErrExhausted", workers, err)
		}
	}
	if _, err := m.Reorder(0, dag.Stack); !errors.Is(err, dag.ErrGraphHasCycle) {
		t.Errorf("Reorder err = %v, want ErrGraphHasCycle", err)
	}
}

func TestSolveCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Solve(ctx, loadExample(t), Options{}); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
