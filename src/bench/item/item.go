// Package item defines the transaction types exchanged between the
// generator, the agents and the checkers, together with the golden
// determinant arithmetic.
package item

import (
	"fmt"
	"math/rand"
	"strings"
)

// MatrixItem is the input transaction: an N x N grid of signed values and a
// same-shaped grid of per-element pre-delays (idle bus cycles inserted
// before presenting the element). Immutable once randomized.
type MatrixItem struct {
	Values    [][]int64
	PreDelays [][]int
}

func NewMatrixItem(n int) *MatrixItem {
	values := make([][]int64, n)
	delays := make([][]int, n)
	for i := 0; i < n; i++ {
		values[i] = make([]int64, n)
		delays[i] = make([]int, n)
	}
	return &MatrixItem{Values: values, PreDelays: delays}
}

// Size returns the matrix dimension N.
func (m *MatrixItem) Size() int {
	return len(m.Values)
}

// Randomize fills the matrix with values drawn uniformly from [min, max] and
// pre-delays from [0, maxDelay].
func (m *MatrixItem) Randomize(rng *rand.Rand, min, max int64, maxDelay int) {
	for i := range m.Values {
		for j := range m.Values[i] {
			m.Values[i][j] = min + rng.Int63n(max-min+1)
			if maxDelay > 0 {
				m.PreDelays[i][j] = rng.Intn(maxDelay + 1)
			} else {
				m.PreDelays[i][j] = 0
			}
		}
	}
}

// Determinant computes the exact signed determinant at full precision.
func (m *MatrixItem) Determinant() int64 {
	return Determinant(m.Values)
}

// TotalDelay sums every per-element pre-delay.
func (m *MatrixItem) TotalDelay() int {
	total := 0
	for _, row := range m.PreDelays {
		for _, d := range row {
			total += d
		}
	}
	return total
}

func (m *MatrixItem) String() string {
	var sb strings.Builder
	sb.WriteString("matrix=")
	for i, row := range m.Values {
		if i > 0 {
			sb.WriteString(";")
		}
		fmt.Fprintf(&sb, "%v", row)
	}
	fmt.Fprintf(&sb, " delays=%v det=%d", m.PreDelays, m.Determinant())
	return sb.String()
}

// DeterminantItem is the output transaction: the scalar result, the overflow
// flag and the observed (or expected) delay in cycles.
type DeterminantItem struct {
	Value    int64
	Overflow bool
	Delay    int
}

func (d *DeterminantItem) String() string {
	return fmt.Sprintf("det=%d overflow=%t delay=%d", d.Value, d.Overflow, d.Delay)
}

// Determinant evaluates the closed-form cofactor expansion along the first
// row, recursing on minors, with no intermediate truncation.
func Determinant(values [][]int64) int64 {
	n := len(values)
	switch n {
	case 0:
		return 1
	case 1:
		return values[0][0]
	case 2:
		return values[0][0]*values[1][1] - values[0][1]*values[1][0]
	}

	var det int64
	sign := int64(1)
	for col := 0; col < n; col++ {
		det += sign * values[0][col] * Determinant(minor(values, col))
		sign = -sign
	}
	return det
}

// Saturate clamps raw into [min, max] and reports whether clamping occurred.
func Saturate(raw, min, max int64) (int64, bool) {
	if raw < min {
		return min, true
	}
	if raw > max {
		return max, true
	}
	return raw, false
}

func minor(values [][]int64, skipCol int) [][]int64 {
	n := len(values)
	out := make([][]int64, 0, n-1)
	for i := 1; i < n; i++ {
		row := make([]int64, 0, n-1)
		for j := 0; j < n; j++ {
			if j == skipCol {
				continue
			}
			row = append(row, values[i][j])
		}
		out = append(out, row)
	}
	return out
}
