package profile

import (
	"time"
)

// VariableType is the inferred semantic type of a column.
type VariableType string

// Variable types.
const (
	TypeNumeric     VariableType = "Numeric"
	TypeBoolean     VariableType = "Boolean"
	TypeDateTime    VariableType = "DateTime"
	TypeCategorical VariableType = "Categorical"
	TypeText        VariableType = "Text"
	TypeUnsupported VariableType = "Unsupported"
)

// AllTypes lists variable types in display order.
var AllTypes = []VariableType{
	TypeNumeric, TypeCategorical, TypeText, TypeBoolean, TypeDateTime, TypeUnsupported,
}

// Report is the result of profiling one frame.
type Report struct {
	Title        string        `json:"title" yaml:"title"`
	Table        string        `json:"table,omitempty" yaml:"table,omitempty"`
	Overview     Overview      `json:"overview" yaml:"overview"`
	Variables    []Variable    `json:"variables" yaml:"variables"`
	Correlations []Correlation `json:"correlations,omitempty" yaml:"correlations,omitempty"`
	Missing      []MissingInfo `json:"missing" yaml:"missing"`
	Alerts       []Alert       `json:"alerts" yaml:"alerts"`
	Sample       Sample        `json:"sample" yaml:"sample"`
}

// Overview summarizes the whole dataset.
type Overview struct {
	Rows             int                  `json:"rows" yaml:"rows"`
	Columns          int                  `json:"columns" yaml:"columns"`
	MissingCells     int                  `json:"missing_cells" yaml:"missing_cells"`
	MissingCellsPct  float64              `json:"missing_cells_pct" yaml:"missing_cells_pct"`
	DuplicateRows    int                  `json:"duplicate_rows" yaml:"duplicate_rows"`
	DuplicateRowsPct float64              `json:"duplicate_rows_pct" yaml:"duplicate_rows_pct"`
	TypeCounts       map[VariableType]int `json:"type_counts" yaml:"type_counts"`
	Start            time.Time            `json:"start" yaml:"start"`
	End              time.Time            `json:"end" yaml:"end"`
	Duration         time.Duration        `json:"duration_ns" yaml:"duration"`
}

// Variable holds the statistics of one column.
type Variable struct {
	Name         string       `json:"name" yaml:"name"`
	Type         VariableType `json:"type" yaml:"type"`
	DatabaseType string       `json:"database_type,omitempty" yaml:"database_type,omitempty"`

	Count       int     `json:"count" yaml:"count"`
	Missing     int     `json:"missing" yaml:"missing"`
	MissingPct  float64 `json:"missing_pct" yaml:"missing_pct"`
	Distinct    int     `json:"distinct" yaml:"distinct"`
	DistinctPct float64 `json:"distinct_pct" yaml:"distinct_pct"`
	Unique      int     `json:"unique" yaml:"unique"`
	IsUnique    bool    `json:"is_unique" yaml:"is_unique"`

	Numeric     *NumericStats     `json:"numeric,omitempty" yaml:"numeric,omitempty"`
	Categorical *CategoricalStats `json:"categorical,omitempty" yaml:"categorical,omitempty"`
	Boolean     *BooleanStats     `json:"boolean,omitempty" yaml:"boolean,omitempty"`
	DateTime    *DateTimeStats    `json:"datetime,omitempty" yaml:"datetime,omitempty"`
}

// NumericStats describes a numeric column.
type NumericStats struct {
	Mean         float64    `json:"mean" yaml:"mean"`
	Std          float64    `json:"std" yaml:"std"`
	Variance     float64    `json:"variance" yaml:"variance"`
	Min          float64    `json:"min" yaml:"min"`
	Max          float64    `json:"max" yaml:"max"`
	Range        float64    `json:"range" yaml:"range"`
	Sum          float64    `json:"sum" yaml:"sum"`
	Zeros        int        `json:"zeros" yaml:"zeros"`
	ZerosPct     float64    `json:"zeros_pct" yaml:"zeros_pct"`
	Negatives    int        `json:"negatives" yaml:"negatives"`
	NegativesPct float64    `json:"negatives_pct" yaml:"negatives_pct"`
	Quantiles    []Quantile `json:"quantiles" yaml:"quantiles"`
	IQR          float64    `json:"iqr" yaml:"iqr"`
	CV           float64    `json:"cv" yaml:"cv"`
	Skewness     float64    `json:"skewness" yaml:"skewness"`
	Kurtosis     float64    `json:"kurtosis" yaml:"kurtosis"`
	MAD          float64    `json:"mad" yaml:"mad"`
	Monotonicity string     `json:"monotonicity" yaml:"monotonicity"`
	Histogram    []Bin      `json:"histogram" yaml:"histogram"`
}

// Quantile is one point of the distribution.
type Quantile struct {
	Label string  `json:"label" yaml:"label"`
	P     float64 `json:"p" yaml:"p"`
	Value float64 `json:"value" yaml:"value"`
}

// Bin is a histogram bucket covering [Lower, Upper).
// The last bin also includes Upper.
type Bin struct {
	Lower float64 `json:"lower" yaml:"lower"`
	Upper float64 `json:"upper" yaml:"upper"`
	Count int     `json:"count" yaml:"count"`
}

// ValueCount is a value with its frequency.
type ValueCount struct {
	Value   string  `json:"value" yaml:"value"`
	Count   int     `json:"count" yaml:"count"`
	Percent float64 `json:"percent" yaml:"percent"`
}

// CategoricalStats describes a categorical or text column.
type CategoricalStats struct {
	Top          []ValueCount   `json:"top" yaml:"top"`
	OtherCount   int            `json:"other_count" yaml:"other_count"`
	MinLength    int            `json:"min_length" yaml:"min_length"`
	MaxLength    int            `json:"max_length" yaml:"max_length"`
	MeanLength   float64        `json:"mean_length" yaml:"mean_length"`
	MedianLength float64        `json:"median_length" yaml:"median_length"`
	CharClasses  map[string]int `json:"char_classes,omitempty" yaml:"char_classes,omitempty"`
}

// BooleanStats describes a boolean column.
type BooleanStats struct {
	Counts []ValueCount `json:"counts" yaml:"counts"`
}

// DateTimeStats describes a timestamp column.
// Histogram bounds are Unix seconds.
type DateTimeStats struct {
	Min       time.Time     `json:"min" yaml:"min"`
	Max       time.Time     `json:"max" yaml:"max"`
	Range     time.Duration `json:"range_ns" yaml:"range"`
	Histogram []Bin         `json:"histogram" yaml:"histogram"`
}

// Correlation is a square matrix over the listed columns.
type Correlation struct {
	Method  string      `json:"method" yaml:"method"`
	Columns []string    `json:"columns" yaml:"columns"`
	Matrix  [][]float64 `json:"matrix" yaml:"matrix"`
}

// MissingInfo is the missing-value summary of one column.
type MissingInfo struct {
	Column  string  `json:"column" yaml:"column"`
	Count   int     `json:"count" yaml:"count"`
	Percent float64 `json:"percent" yaml:"percent"`
}

// Sample holds formatted leading and trailing rows.
type Sample struct {
	Columns []string   `json:"columns" yaml:"columns"`
	Head    [][]string `json:"head" yaml:"head"`
	Tail    [][]string `json:"tail" yaml:"tail"`
}

// Variable returns the named variable, or nil.
func (r *Report) Variable(name string) *Variable {
	for i := range r.Variables {
		if r.Variables[i].Name == name {
			return &r.Variables[i]
		}
	}
	return nil
}

// HasAlert reports whether an alert of the given type exists for column.
// An empty column matches dataset-level alerts.
func (r *Report) HasAlert(t AlertType, column string) bool {
	for _, a := range r.Alerts {
		if a.Type == t && a.Column == column {
			return true
		}
	}
	return false
}
