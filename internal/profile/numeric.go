package profile

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

var quantilePoints = []struct {
	label string
	p     float64
}{
	{"5%", 0.05},
	{"25%", 0.25},
	{"50%", 0.50},
	{"75%", 0.75},
	{"95%", 0.95},
}

// numericStats computes moments, quantiles and a histogram over the
// present values of s.
func numericStats(s *series, distinct, maxBins int) *NumericStats {
	xs := s.presentNums()
	n := len(xs)
	if n == 0 {
		return &NumericStats{Monotonicity: "not monotonic"}
	}

	sorted := make([]float64, n)
	copy(sorted, xs)
	sort.Float64s(sorted)

	// Finite inputs near the float64 limits can still overflow sums and
	// differences; overflowed statistics are reported as 0.
	ns := &NumericStats{
		Mean: finite(stat.Mean(xs, nil)),
		Min:  floats.Min(xs),
		Max:  floats.Max(xs),
		Sum:  finite(floats.Sum(xs)),
	}
	ns.Range = finite(ns.Max - ns.Min)
	if n > 1 {
		ns.Variance = finite(stat.Variance(xs, nil))
		ns.Std = finite(math.Sqrt(ns.Variance))
	}
	if n > 2 {
		ns.Skewness = finite(stat.Skew(xs, nil))
	}
	if n > 3 {
		ns.Kurtosis = finite(stat.ExKurtosis(xs, nil))
	}
	if ns.Mean != 0 {
		ns.CV = finite(ns.Std / ns.Mean)
	}

	for _, x := range xs {
		if x == 0 {
			ns.Zeros++
		}
		if x < 0 {
			ns.Negatives++
		}
	}
	ns.ZerosPct = percent(ns.Zeros, n)
	ns.NegativesPct = percent(ns.Negatives, n)

	for _, q := range quantilePoints {
		ns.Quantiles = append(ns.Quantiles, Quantile{Label: q.label, P: q.p, Value: quantileSorted(sorted, q.p)})
	}
	ns.IQR = finite(quantileSorted(sorted, 0.75) - quantileSorted(sorted, 0.25))
	ns.MAD = finite(medianAbsDeviation(sorted))
	ns.Monotonicity = monotonicity(xs)
	ns.Histogram = histogram(sorted, binCount(distinct, maxBins))
	return ns
}

// quantileSorted returns the p-quantile of sorted data using linear
// interpolation between closest ranks (h = (n-1)p).
func quantileSorted(sorted []float64, p float64) float64 {
	n := len(sorted)
	switch {
	case n == 0:
		return math.NaN()
	case n == 1 || p <= 0:
		return sorted[0]
	case p >= 1:
		return sorted[n-1]
	}
	h := float64(n-1) * p
	lo := math.Floor(h)
	i := int(lo)
	if i+1 >= n {
		return sorted[n-1]
	}
	f := h - lo
	return sorted[i]*(1-f) + sorted[i+1]*f
}

func medianAbsDeviation(sorted []float64) float64 {
	med := quantileSorted(sorted, 0.5)
	dev := make([]float64, len(sorted))
	for i, x := range sorted {
		dev[i] = math.Abs(x - med)
	}
	sort.Float64s(dev)
	return quantileSorted(dev, 0.5)
}

func monotonicity(xs []float64) string {
	if len(xs) < 2 {
		return "not monotonic"
	}
	inc, dec, strictInc, strictDec := true, true, true, true
	for i := 1; i < len(xs); i++ {
		switch {
		case xs[i] > xs[i-1]:
			dec, strictDec = false, false
		case xs[i] < xs[i-1]:
			inc, strictInc = false, false
		default:
			strictInc, strictDec = false, false
		}
	}
	switch {
	case strictInc:
		return "strictly increasing"
	case strictDec:
		return "strictly decreasing"
	case inc && dec:
		return "constant"
	case inc:
		return "increasing"
	case dec:
		return "decreasing"
	}
	return "not monotonic"
}

func binCount(distinct, maxBins int) int {
	if distinct < 1 {
		return 1
	}
	if distinct < maxBins {
		return distinct
	}
	return maxBins
}

// histogram buckets sorted values into equal-width bins.
func histogram(sorted []float64, bins int) []Bin {
	if len(sorted) == 0 {
		return nil
	}
	lo, hi := sorted[0], sorted[len(sorted)-1]
	width := (hi - lo) / float64(bins)
	if lo == hi || bins < 2 || math.IsInf(width, 0) || math.IsNaN(width) {
		return []Bin{{Lower: lo, Upper: hi, Count: len(sorted)}}
	}

	out := make([]Bin, bins)
	for i := range out {
		out[i].Lower = lo + float64(i)*width
		out[i].Upper = lo + float64(i+1)*width
	}
	out[bins-1].Upper = hi

	for _, x := range sorted {
		i := int((x - lo) / width)
		i = max(0, min(i, bins-1))
		out[i].Count++
	}
	return out
}

func finite(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return x
}

func percent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}
