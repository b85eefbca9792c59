// Package solver evaluates inline math typed at the prompt: equations
// with a single unknown and boolean condition expressions.
//
// Input parses against a constrained arithmetic/comparison grammar
// rather than a general interpreter, so evaluating a condition never
// executes anything beyond numeric and boolean operators. Both entry
// points always answer with a string; parse and evaluation failures
// become descriptive messages, never error values.
package solver

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/Knetic/govaluate"
	"go.uber.org/zap"
)

// epsilon absorbs float64 noise when fitting coefficients and
// comparing sampled values.
const epsilon = 1e-9

// Solver evaluates equations and conditions.
type Solver struct {
	logger *zap.Logger
}

// New creates a solver.
func New(logger *zap.Logger) *Solver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Solver{logger: logger}
}

// SolveEquation solves "<lhs>=<rhs>" for a single unknown.
//
// The difference lhs−rhs is sampled at five points and fitted to a
// polynomial of degree two or less. The fit is verified against the
// outer samples, so anything non-polynomial (or of higher degree) is
// reported as unsupported rather than mis-solved. Linear equations
// yield one root, quadratics up to two with the smaller root first.
// An equation with no unknown is checked outright.
func (s *Solver) SolveEquation(equation string) string {
	parts := strings.Split(equation, "=")
	if len(parts) != 2 {
		return "Error solving equation: expected exactly one '='"
	}

	lhs, err := govaluate.NewEvaluableExpression(strings.TrimSpace(parts[0]))
	if err != nil {
		return fmt.Sprintf("Error solving equation: %v", err)
	}
	rhs, err := govaluate.NewEvaluableExpression(strings.TrimSpace(parts[1]))
	if err != nil {
		return fmt.Sprintf("Error solving equation: %v", err)
	}

	vars := unionVars(lhs, rhs)
	switch len(vars) {
	case 0:
		return s.checkConstant(lhs, rhs)
	case 1:
		return s.solveFor(vars[0], lhs, rhs)
	default:
		return fmt.Sprintf("Error solving equation: multiple unknowns are not supported (%s)",
			strings.Join(vars, ", "))
	}
}

// EvaluateCondition evaluates a boolean or comparison expression with
// no unknowns and renders the outcome.
func (s *Solver) EvaluateCondition(condition string) string {
	expr, err := govaluate.NewEvaluableExpression(condition)
	if err != nil {
		return fmt.Sprintf("Error evaluating condition: %v", err)
	}

	result, err := expr.Evaluate(nil)
	if err != nil {
		return fmt.Sprintf("Error evaluating condition: %v", err)
	}

	return fmt.Sprintf("The condition '%s' is %v", condition, result)
}

// checkConstant handles equations with no unknown at all.
func (s *Solver) checkConstant(lhs, rhs *govaluate.EvaluableExpression) string {
	lv, err := evalConstant(lhs)
	if err != nil {
		return fmt.Sprintf("Error solving equation: %v", err)
	}
	rv, err := evalConstant(rhs)
	if err != nil {
		return fmt.Sprintf("Error solving equation: %v", err)
	}

	if math.Abs(lv-rv) <= epsilon {
		return "The equation is always true"
	}
	return "No solution found"
}

// solveFor solves for the single unknown name.
func (s *Solver) solveFor(name string, lhs, rhs *govaluate.EvaluableExpression) string {
	samples := []float64{-2, -1, 0, 1, 2}
	f := make([]float64, len(samples))
	for i, t := range samples {
		lv, err := evalAt(lhs, name, t)
		if err != nil {
			return fmt.Sprintf("Error solving equation: %v", err)
		}
		rv, err := evalAt(rhs, name, t)
		if err != nil {
			return fmt.Sprintf("Error solving equation: %v", err)
		}
		f[i] = lv - rv
	}

	// Fit f(t) = a*t² + b*t + c from the inner three samples
	c := f[2]
	a := (f[3] + f[1] - 2*c) / 2
	b := (f[3] - f[1]) / 2

	// Verify at the outer samples. A mismatch means the difference is
	// not a polynomial of degree <= 2 (cubic terms, division by the
	// unknown, and so on).
	if !closeTo(4*a+2*b+c, f[4]) || !closeTo(4*a-2*b+c, f[0]) {
		return "Error solving equation: only linear and quadratic equations are supported"
	}

	s.logger.Debug("equation fitted",
		zap.String("variable", name),
		zap.Float64("a", a),
		zap.Float64("b", b),
		zap.Float64("c", c))

	switch {
	case math.Abs(a) <= epsilon && math.Abs(b) <= epsilon:
		if math.Abs(c) <= epsilon {
			return "The equation is always true"
		}
		return "No solution found"
	case math.Abs(a) <= epsilon:
		return fmt.Sprintf("%s = %s", name, formatNumber(-c/b))
	}

	disc := b*b - 4*a*c
	switch {
	case disc < -epsilon:
		return "No real solution found"
	case disc <= epsilon:
		return fmt.Sprintf("%s = %s", name, formatNumber(-b/(2*a)))
	}

	sq := math.Sqrt(disc)
	r1 := (-b - sq) / (2 * a)
	r2 := (-b + sq) / (2 * a)
	if r1 > r2 {
		r1, r2 = r2, r1
	}
	return fmt.Sprintf("%s = %s or %s = %s", name, formatNumber(r1), name, formatNumber(r2))
}

// unionVars returns the deduplicated, sorted unknowns across both sides.
func unionVars(exprs ...*govaluate.EvaluableExpression) []string {
	seen := make(map[string]struct{})
	for _, expr := range exprs {
		for _, v := range expr.Vars() {
			seen[v] = struct{}{}
		}
	}

	vars := make([]string, 0, len(seen))
	for v := range seen {
		vars = append(vars, v)
	}
	sort.Strings(vars)
	return vars
}

// evalConstant evaluates an expression with no parameters to a number.
func evalConstant(expr *govaluate.EvaluableExpression) (float64, error) {
	result, err := expr.Evaluate(nil)
	if err != nil {
		return 0, err
	}
	v, ok := result.(float64)
	if !ok {
		return 0, fmt.Errorf("expression is not numeric")
	}
	return v, nil
}

// evalAt evaluates an expression with the unknown bound to value.
func evalAt(expr *govaluate.EvaluableExpression, name string, value float64) (float64, error) {
	result, err := expr.Evaluate(map[string]interface{}{name: value})
	if err != nil {
		return 0, err
	}
	v, ok := result.(float64)
	if !ok {
		return 0, fmt.Errorf("expression is not numeric")
	}
	return v, nil
}

// closeTo compares with combined absolute and relative tolerance.
// NaN or infinite inputs never compare close, which is what rejects
// division by the unknown at a sample point.
func closeTo(x, y float64) bool {
	if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
		return false
	}
	scale := math.Max(1, math.Max(math.Abs(x), math.Abs(y)))
	return math.Abs(x-y) <= epsilon*scale
}

// formatNumber renders a root, snapping float noise to integers.
func formatNumber(v float64) string {
	if r := math.Round(v); math.Abs(v-r) <= epsilon {
		v = r
	}
	if v == 0 {
		v = math.Abs(v) // normalize -0
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
