package profile

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Correlation method names.
const (
	MethodPearson  = "pearson"
	MethodSpearman = "spearman"
	MethodCramers  = "cramers"
)

func correlations(cols []*series, vars []Variable, cfg Config) []Correlation {
	var numeric, nominal []*series
	for i, s := range cols {
		v := vars[i]
		switch s.typ {
		case TypeNumeric:
			if v.Numeric != nil && v.Numeric.Std > 0 {
				numeric = append(numeric, s)
			}
		case TypeCategorical, TypeBoolean:
			if v.Distinct > 1 && v.Distinct <= cfg.CardinalityThreshold {
				nominal = append(nominal, s)
			}
		}
	}

	var out []Correlation
	if len(numeric) >= 2 {
		out = append(out, matrix(MethodPearson, numeric, pearson))
		if cfg.Explorative {
			out = append(out, matrix(MethodSpearman, numeric, spearman))
		}
	}
	if cfg.Explorative && len(nominal) >= 2 {
		out = append(out, matrix(MethodCramers, nominal, cramersV))
	}
	return out
}

func matrix(method string, cols []*series, fn func(a, b *series) float64) Correlation {
	c := Correlation{Method: method, Columns: make([]string, len(cols)), Matrix: make([][]float64, len(cols))}
	for i, s := range cols {
		c.Columns[i] = s.name
		c.Matrix[i] = make([]float64, len(cols))
		c.Matrix[i][i] = 1
	}
	for i := range cols {
		for j := i + 1; j < len(cols); j++ {
			r := finite(fn(cols[i], cols[j]))
			c.Matrix[i][j] = r
			c.Matrix[j][i] = r
		}
	}
	return c
}

// paired returns the numeric values of rows present in both series.
func paired(a, b *series) (xs, ys []float64) {
	for i := range a.nums {
		if a.missing[i] || b.missing[i] {
			continue
		}
		xs = append(xs, a.nums[i])
		ys = append(ys, b.nums[i])
	}
	return xs, ys
}

func pearson(a, b *series) float64 {
	xs, ys := paired(a, b)
	if len(xs) < 2 {
		return math.NaN()
	}
	return stat.Correlation(xs, ys, nil)
}

func spearman(a, b *series) float64 {
	xs, ys := paired(a, b)
	if len(xs) < 2 {
		return math.NaN()
	}
	return stat.Correlation(ranks(xs), ranks(ys), nil)
}

// ranks assigns 1-based ranks, averaging ties.
func ranks(xs []float64) []float64 {
	idx := make([]int, len(xs))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool { return xs[idx[i]] < xs[idx[j]] })

	out := make([]float64, len(xs))
	for i := 0; i < len(idx); {
		j := i
		for j+1 < len(idx) && xs[idx[j+1]] == xs[idx[i]] {
			j++
		}
		avg := float64(i+j)/2 + 1
		for k := i; k <= j; k++ {
			out[idx[k]] = avg
		}
		i = j + 1
	}
	return out
}

// cramersV measures association between two nominal series from the
// chi-squared statistic of their contingency table.
func cramersV(a, b *series) float64 {
	table := make(map[[2]string]int)
	rowTotals := make(map[string]int)
	colTotals := make(map[string]int)
	n := 0
	for i := range a.keys {
		if a.missing[i] || b.missing[i] {
			continue
		}
		ka, kb := a.keys[i], b.keys[i]
		table[[2]string{ka, kb}]++
		rowTotals[ka]++
		colTotals[kb]++
		n++
	}
	k := min(len(rowTotals), len(colTotals))
	if n == 0 || k < 2 {
		return math.NaN()
	}

	var chi2 float64
	for r, rt := range rowTotals {
		for c, ct := range colTotals {
			expected := float64(rt) * float64(ct) / float64(n)
			diff := float64(table[[2]string{r, c}]) - expected
			chi2 += diff * diff / expected
		}
	}
	return math.Sqrt(chi2 / float64(n) / float64(k-1))
}
