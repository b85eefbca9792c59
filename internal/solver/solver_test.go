package solver

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestSolveEquation_Linear(t *testing.T) {
	t.Parallel()

	s := New(zap.NewNop())

	tests := []struct {
		equation string
		want     string
	}{
		{"x + 2 = 5", "x = 3"},
		{"x + 5 = 2", "x = -3"},
		{"2 * x = 5", "x = 2.5"},
		{"x / 2 = 3", "x = 6"},
		{"2 * y - 4 = 10", "y = 7"},
		{"10 = x + 4", "x = 6"},
	}

	for _, tt := range tests {
		t.Run(tt.equation, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, s.SolveEquation(tt.equation))
		})
	}
}

func TestSolveEquation_Quadratic(t *testing.T) {
	t.Parallel()

	s := New(zap.NewNop())

	tests := []struct {
		equation string
		want     string
	}{
		{"x * x - 4 = 0", "x = -2 or x = 2"},
		{"x * x - 5 * x + 6 = 0", "x = 2 or x = 3"},
		// Negative leading coefficient still orders roots ascending
		{"4 - x * x = 0", "x = -2 or x = 2"},
		{"x * x - 2 * x + 1 = 0", "x = 1"},
	}

	for _, tt := range tests {
		t.Run(tt.equation, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, s.SolveEquation(tt.equation))
		})
	}
}

func TestSolveEquation_NoRealSolution(t *testing.T) {
	t.Parallel()

	s := New(zap.NewNop())

	assert.Equal(t, "No real solution found", s.SolveEquation("x * x + 1 = 0"))
}

func TestSolveEquation_Constant(t *testing.T) {
	t.Parallel()

	s := New(zap.NewNop())

	assert.Equal(t, "The equation is always true", s.SolveEquation("2 + 2 = 4"))
	assert.Equal(t, "No solution found", s.SolveEquation("2 + 2 = 5"))
}

func TestSolveEquation_VariableCancelsOut(t *testing.T) {
	t.Parallel()

	s := New(zap.NewNop())

	assert.Equal(t, "The equation is always true", s.SolveEquation("x = x"))
	assert.Equal(t, "No solution found", s.SolveEquation("x - x = 3"))
}

func TestSolveEquation_MultipleUnknowns(t *testing.T) {
	t.Parallel()

	s := New(zap.NewNop())

	got := s.SolveEquation("x + y = 5")
	assert.Contains(t, got, "multiple unknowns are not supported")
	assert.Contains(t, got, "x, y")
}

func TestSolveEquation_CubicUnsupported(t *testing.T) {
	t.Parallel()

	s := New(zap.NewNop())

	got := s.SolveEquation("x * x * x = 8")
	assert.Equal(t, "Error solving equation: only linear and quadratic equations are supported", got)
}

func TestSolveEquation_DivisionByUnknownUnsupported(t *testing.T) {
	t.Parallel()

	s := New(zap.NewNop())

	// 1/x is not polynomial; the sample at x=0 breaks the fit
	got := s.SolveEquation("1 / x = 2")
	assert.True(t, strings.HasPrefix(got, "Error solving equation:"), "got %q", got)
}

func TestSolveEquation_Malformed(t *testing.T) {
	t.Parallel()

	s := New(zap.NewNop())

	tests := []struct {
		name     string
		equation string
	}{
		{"dangling operator", "x + = 5"},
		{"empty side", "x ="},
		{"two equals", "a = b = c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := s.SolveEquation(tt.equation)
			assert.True(t, strings.HasPrefix(got, "Error solving equation:"), "got %q", got)
		})
	}
}

func TestEvaluateCondition_True(t *testing.T) {
	t.Parallel()

	s := New(zap.NewNop())

	assert.Equal(t, "The condition '5 == 5' is true", s.EvaluateCondition("5 == 5"))
}

func TestEvaluateCondition_False(t *testing.T) {
	t.Parallel()

	s := New(zap.NewNop())

	assert.Equal(t, "The condition '3 == 5' is false", s.EvaluateCondition("3 == 5"))
}

func TestEvaluateCondition_Arithmetic(t *testing.T) {
	t.Parallel()

	s := New(zap.NewNop())

	assert.Equal(t, "The condition '2 + 2 == 4' is true", s.EvaluateCondition("2 + 2 == 4"))
}

func TestEvaluateCondition_Boolean(t *testing.T) {
	t.Parallel()

	s := New(nil)

	assert.Equal(t, "The condition '5 == 5 && 3 == 3' is true", s.EvaluateCondition("5 == 5 && 3 == 3"))
	assert.Equal(t, "The condition '5 == 4 || 3 == 3' is true", s.EvaluateCondition("5 == 4 || 3 == 3"))
}

func TestEvaluateCondition_ParseError(t *testing.T) {
	t.Parallel()

	s := New(zap.NewNop())

	got := s.EvaluateCondition("5 ==")
	assert.True(t, strings.HasPrefix(got, "Error evaluating condition:"), "got %q", got)
}

func TestEvaluateCondition_UnknownVariable(t *testing.T) {
	t.Parallel()

	s := New(zap.NewNop())

	got := s.EvaluateCondition("x == 5")
	assert.True(t, strings.HasPrefix(got, "Error evaluating condition:"), "got %q", got)
}
