package profile

import (
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/leapstack-labs/leapprofile/internal/frame"
)

var timeLayouts = []string{
	time.RFC3339Nano,
	time.DateTime,
	"2006-01-02T15:04:05",
	time.DateOnly,
}

var boolWords = map[string]bool{
	"true": true, "false": false,
	"t": true, "f": false,
	"yes": true, "no": false,
	"y": true, "n": false,
}

// series is one column converted to its inferred type. All slices are
// row-aligned; missing[i] marks absent cells.
type series struct {
	name    string
	dbType  string
	typ     VariableType
	missing []bool
	keys    []string
	nums    []float64
	bools   []bool
	times   []time.Time
	strs    []string
}

func (s *series) count() int {
	n := 0
	for _, m := range s.missing {
		if !m {
			n++
		}
	}
	return n
}

// present returns the non-missing numeric values.
func (s *series) presentNums() []float64 {
	out := make([]float64, 0, len(s.nums))
	for i, v := range s.nums {
		if !s.missing[i] {
			out = append(out, v)
		}
	}
	return out
}

// infer classifies raw column values and converts them.
func infer(col frame.Column, values []any) *series {
	n := len(values)
	s := &series{
		name:    col.Name,
		dbType:  col.DatabaseType,
		missing: make([]bool, n),
		keys:    make([]string, n),
	}

	var nBool, nNum, nTime, nStr, present int
	for i, v := range values {
		switch x := v.(type) {
		case nil:
			s.missing[i] = true
		case float64:
			if math.IsNaN(x) || math.IsInf(x, 0) {
				s.missing[i] = true
			} else {
				nNum++
			}
		case int64:
			nNum++
		case bool:
			nBool++
		case time.Time:
			nTime++
		default:
			nStr++
		}
		if !s.missing[i] {
			present++
		}
	}

	switch {
	case present == 0:
		s.typ = TypeUnsupported
	case nNum == present:
		s.toNumeric(values)
	case nBool == present:
		s.toBoolean(values)
	case nTime == present:
		s.toDateTime(values)
	default:
		s.fromStrings(values)
	}

	if s.typ == TypeUnsupported {
		for i, v := range values {
			if !s.missing[i] {
				s.keys[i] = frame.FormatValue(v)
			}
		}
	}
	return s
}

func (s *series) toNumeric(values []any) {
	s.typ = TypeNumeric
	s.nums = make([]float64, len(values))
	for i, v := range values {
		if s.missing[i] {
			s.nums[i] = math.NaN()
			continue
		}
		switch x := v.(type) {
		case int64:
			s.nums[i] = float64(x)
		case float64:
			s.nums[i] = x
		}
		s.keys[i] = strconv.FormatFloat(s.nums[i], 'g', -1, 64)
	}
}

func (s *series) toBoolean(values []any) {
	s.typ = TypeBoolean
	s.bools = make([]bool, len(values))
	for i, v := range values {
		if s.missing[i] {
			continue
		}
		b, _ := v.(bool)
		s.bools[i] = b
		s.keys[i] = strconv.FormatBool(b)
	}
}

func (s *series) toDateTime(values []any) {
	s.typ = TypeDateTime
	s.times = make([]time.Time, len(values))
	for i, v := range values {
		if s.missing[i] {
			continue
		}
		t, _ := v.(time.Time)
		s.times[i] = t
		s.keys[i] = t.Format(time.RFC3339Nano)
	}
}

// fromStrings formats every present value as text and then tries the
// narrower types in order: boolean, numeric, datetime.
func (s *series) fromStrings(values []any) {
	strs := make([]string, len(values))
	for i, v := range values {
		if s.missing[i] {
			continue
		}
		if str, ok := v.(string); ok {
			strs[i] = str
		} else {
			strs[i] = frame.FormatValue(v)
		}
	}

	if bools, ok := parseAll(strs, s.missing, parseBool); ok {
		s.toBoolean(bools)
		return
	}
	if nums, ok := parseAll(strs, s.missing, parseNumber); ok {
		s.toNumeric(nums)
		return
	}
	if times, ok := parseAll(strs, s.missing, parseTime); ok {
		s.toDateTime(times)
		return
	}

	s.strs = strs
	distinct := make(map[string]struct{})
	var totalLen, present int
	for i, str := range strs {
		if s.missing[i] {
			continue
		}
		s.keys[i] = str
		distinct[str] = struct{}{}
		totalLen += utf8.RuneCountInString(str)
		present++
	}

	s.typ = TypeCategorical
	if present > 0 {
		ratio := float64(len(distinct)) / float64(present)
		avgLen := float64(totalLen) / float64(present)
		if ratio > 0.5 && avgLen > 20 {
			s.typ = TypeText
		}
	}
}

func parseAll(strs []string, missing []bool, parse func(string) (any, bool)) ([]any, bool) {
	out := make([]any, len(strs))
	for i, str := range strs {
		if missing[i] {
			continue
		}
		v, ok := parse(strings.TrimSpace(str))
		if !ok {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}

func parseBool(s string) (any, bool) {
	b, ok := boolWords[strings.ToLower(s)]
	return b, ok
}

func parseNumber(s string) (any, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, false
	}
	return f, true
}

func parseTime(s string) (any, bool) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return nil, false
}
