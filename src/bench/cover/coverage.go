// Package cover classifies observed transactions into coverage bins. The
// classifiers are stateless; the Collector is a single owned aggregator with
// no concurrent writers, passed explicitly to whoever drains transactions.
package cover

import (
	"log/slog"

	"detbench/src/bench/bus"
	"detbench/src/bench/item"
)

// Classification is the single structural label assigned to a matrix.
type Classification string

const (
	ClassIdentity        Classification = "identity"
	ClassDiagonal        Classification = "diagonal"
	ClassUpperTriangular Classification = "triangular_upper"
	ClassLowerTriangular Classification = "triangular_lower"
	ClassGeneral         Classification = "general"
)

// classifiers are evaluated in priority order and the first match wins.
// Every identity matrix is also diagonal, and every diagonal matrix is both
// triangular forms, so the order is what makes the reported label unique.
var classifiers = []struct {
	label Classification
	match func([][]int64) bool
}{
	{ClassIdentity, isIdentity},
	{ClassDiagonal, isDiagonal},
	{ClassUpperTriangular, isUpperTriangular},
	{ClassLowerTriangular, isLowerTriangular},
}

// ClassifyMatrix returns the single active structural label for a matrix.
func ClassifyMatrix(values [][]int64) Classification {
	for _, c := range classifiers {
		if c.match(values) {
			return c.label
		}
	}
	return ClassGeneral
}

func isIdentity(values [][]int64) bool {
	for i, row := range values {
		for j, v := range row {
			want := int64(0)
			if i == j {
				want = 1
			}
			if v != want {
				return false
			}
		}
	}
	return true
}

func isDiagonal(values [][]int64) bool {
	for i, row := range values {
		for j, v := range row {
			if i != j && v != 0 {
				return false
			}
		}
	}
	return true
}

func isUpperTriangular(values [][]int64) bool {
	for i, row := range values {
		for j := 0; j < i; j++ {
			if row[j] != 0 {
				return false
			}
		}
	}
	return true
}

func isLowerTriangular(values [][]int64) bool {
	for i, row := range values {
		for j := i + 1; j < len(row); j++ {
			if row[j] != 0 {
				return false
			}
		}
	}
	return true
}

// Collector aggregates the coverage bins for one run. Bins are monotonically
// incremented, never reset mid-run, and reported once at run end.
type Collector struct {
	cfg    bus.Config
	logger *slog.Logger

	MatrixValueBins      map[string]int
	DeterminantValueBins map[string]int
	OverflowBins         map[string]int
	DelayBins            map[string]int
	MatrixTypeBins       map[Classification]int
}

func NewCollector(cfg bus.Config, logger *slog.Logger) *Collector {
	return &Collector{
		cfg:                  cfg,
		logger:               logger.With("component", "coverage"),
		MatrixValueBins:      make(map[string]int),
		DeterminantValueBins: make(map[string]int),
		OverflowBins:         map[string]int{"true": 0, "false": 0},
		DelayBins:            map[string]int{"short": 0, "medium": 0, "long": 0},
		MatrixTypeBins: map[Classification]int{
			ClassIdentity:        0,
			ClassDiagonal:        0,
			ClassUpperTriangular: 0,
			ClassLowerTriangular: 0,
			ClassGeneral:         0,
		},
	}
}

// ValueBin categorizes a value against the output bus sentinels: an exact
// match to the saturation floor or ceiling gets its own bin, otherwise the
// magnitude decides.
func (c *Collector) ValueBin(v int64) string {
	switch {
	case v == c.cfg.DetMin():
		return "min"
	case v == c.cfg.DetMax():
		return "max"
	case v >= -1000 && v <= 1000:
		return "small"
	case v >= -10000 && v <= 10000:
		return "medium"
	default:
		return "large"
	}
}

// DelayBin categorizes a transaction's total pre-delay.
func (c *Collector) DelayBin(total int) string {
	switch {
	case total <= 5:
		return "short"
	case total <= 20:
		return "medium"
	default:
		return "long"
	}
}

// CollectInput updates the matrix-side bins for one observed transaction.
func (c *Collector) CollectInput(it *item.MatrixItem) {
	for _, row := range it.Values {
		for _, v := range row {
			c.MatrixValueBins[c.ValueBin(v)]++
		}
	}
	c.DelayBins[c.DelayBin(it.TotalDelay())]++
	c.MatrixTypeBins[ClassifyMatrix(it.Values)]++
}

// CollectOutput updates the result-side bins for one observed transaction.
func (c *Collector) CollectOutput(it *item.DeterminantItem) {
	c.DeterminantValueBins[c.ValueBin(it.Value)]++
	if it.Overflow {
		c.OverflowBins["true"]++
	} else {
		c.OverflowBins["false"]++
	}
}

// Report logs the full bin contents.
func (c *Collector) Report() {
	c.logger.Info("coverage report begin")
	for bin, count := range c.MatrixValueBins {
		c.logger.Info("matrix value coverage", "bin", bin, "count", count)
	}
	for bin, count := range c.DeterminantValueBins {
		c.logger.Info("determinant value coverage", "bin", bin, "count", count)
	}
	for bin, count := range c.OverflowBins {
		c.logger.Info("overflow coverage", "bin", bin, "count", count)
	}
	for bin, count := range c.DelayBins {
		c.logger.Info("delay coverage", "bin", bin, "count", count)
	}
	for bin, count := range c.MatrixTypeBins {
		c.logger.Info("matrix type coverage", "bin", string(bin), "count", count)
	}
	c.logger.Info("coverage report end")
}
