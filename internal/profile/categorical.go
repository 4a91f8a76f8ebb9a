package profile

import (
	"sort"
	"strconv"
	"time"
	"unicode"
	"unicode/utf8"
)

// valueCounts counts present keys, most frequent first, ties by value.
func valueCounts(s *series) []ValueCount {
	counts := make(map[string]int)
	n := 0
	for i, k := range s.keys {
		if s.missing[i] {
			continue
		}
		counts[k]++
		n++
	}

	out := make([]ValueCount, 0, len(counts))
	for v, c := range counts {
		out = append(out, ValueCount{Value: v, Count: c, Percent: percent(c, n)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Value < out[j].Value
	})
	return out
}

func categoricalStats(s *series, topN int, explorative bool) *CategoricalStats {
	vc := valueCounts(s)
	cs := &CategoricalStats{}
	if len(vc) > topN {
		for _, v := range vc[topN:] {
			cs.OtherCount += v.Count
		}
		vc = vc[:topN]
	}
	cs.Top = vc

	var lengths []float64
	var classes map[string]int
	if explorative {
		classes = make(map[string]int)
	}
	for i, str := range s.strs {
		if s.missing[i] {
			continue
		}
		lengths = append(lengths, float64(utf8.RuneCountInString(str)))
		if classes != nil {
			for _, r := range str {
				classes[charClass(r)]++
			}
		}
	}
	cs.CharClasses = classes

	if len(lengths) == 0 {
		return cs
	}
	sort.Float64s(lengths)
	cs.MinLength = int(lengths[0])
	cs.MaxLength = int(lengths[len(lengths)-1])
	var total float64
	for _, l := range lengths {
		total += l
	}
	cs.MeanLength = total / float64(len(lengths))
	cs.MedianLength = quantileSorted(lengths, 0.5)
	return cs
}

func charClass(r rune) string {
	switch {
	case unicode.IsUpper(r):
		return "Uppercase Letter"
	case unicode.IsLetter(r):
		return "Lowercase Letter"
	case unicode.IsDigit(r):
		return "Decimal Number"
	case unicode.IsSpace(r):
		return "Space Separator"
	case unicode.IsPunct(r):
		return "Punctuation"
	case unicode.IsSymbol(r):
		return "Symbol"
	}
	return "Other"
}

func booleanStats(s *series) *BooleanStats {
	return &BooleanStats{Counts: valueCounts(s)}
}

func dateTimeStats(s *series, distinct, maxBins int) *DateTimeStats {
	var secs []float64
	ds := &DateTimeStats{}
	first := true
	for i, t := range s.times {
		if s.missing[i] {
			continue
		}
		if first || t.Before(ds.Min) {
			ds.Min = t
		}
		if first || t.After(ds.Max) {
			ds.Max = t
		}
		first = false
		secs = append(secs, float64(t.Unix()))
	}
	if first {
		return ds
	}
	ds.Range = ds.Max.Sub(ds.Min)
	sort.Float64s(secs)
	ds.Histogram = histogram(secs, binCount(distinct, maxBins))
	return ds
}

// FormatBinLabel renders a histogram bound for display. Timestamp
// histograms store Unix seconds.
func FormatBinLabel(v float64, t VariableType) string {
	if t == TypeDateTime {
		return time.Unix(int64(v), 0).UTC().Format(time.DateOnly)
	}
	return strconv.FormatFloat(v, 'g', 4, 64)
}
