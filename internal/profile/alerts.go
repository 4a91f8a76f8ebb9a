package profile

import (
	"fmt"
	"math"
)

// AlertType classifies a data-quality warning.
type AlertType string

// Alert types.
const (
	AlertConstant        AlertType = "CONSTANT"
	AlertUnique          AlertType = "UNIQUE"
	AlertHighCardinality AlertType = "HIGH_CARDINALITY"
	AlertHighCorrelation AlertType = "HIGH_CORRELATION"
	AlertMissing         AlertType = "MISSING"
	AlertZeros           AlertType = "ZEROS"
	AlertSkewed          AlertType = "SKEWED"
	AlertDuplicates      AlertType = "DUPLICATES"
	AlertEmpty           AlertType = "EMPTY"
)

// Alert is a warning about one column, or the dataset when Column is empty.
type Alert struct {
	Type    AlertType `json:"type" yaml:"type"`
	Column  string    `json:"column,omitempty" yaml:"column,omitempty"`
	Message string    `json:"message" yaml:"message"`
}

func alerts(rep *Report, cfg Config) []Alert {
	var out []Alert
	ov := rep.Overview

	if ov.Rows == 0 || ov.Columns == 0 {
		out = append(out, Alert{Type: AlertEmpty, Message: fmt.Sprintf("Dataset is empty (%d rows, %d columns)", ov.Rows, ov.Columns)})
	}
	if ov.DuplicateRows > 0 {
		out = append(out, Alert{
			Type:    AlertDuplicates,
			Message: fmt.Sprintf("Dataset has %d (%.1f%%) duplicate rows", ov.DuplicateRows, ov.DuplicateRowsPct),
		})
	}

	for _, v := range rep.Variables {
		if v.Count == 0 {
			continue
		}
		if v.Distinct == 1 {
			out = append(out, Alert{Type: AlertConstant, Column: v.Name, Message: fmt.Sprintf("%s has constant value", v.Name)})
		}
		if v.IsUnique && v.Count > 1 {
			out = append(out, Alert{Type: AlertUnique, Column: v.Name, Message: fmt.Sprintf("%s has unique values", v.Name)})
		}
		if (v.Type == TypeCategorical || v.Type == TypeText) && !v.IsUnique && v.Distinct > cfg.CardinalityThreshold {
			out = append(out, Alert{
				Type:    AlertHighCardinality,
				Column:  v.Name,
				Message: fmt.Sprintf("%s has a high cardinality: %d distinct values", v.Name, v.Distinct),
			})
		}
		if v.MissingPct > cfg.MissingThreshold {
			out = append(out, Alert{
				Type:    AlertMissing,
				Column:  v.Name,
				Message: fmt.Sprintf("%s has %d (%.1f%%) missing values", v.Name, v.Missing, v.MissingPct),
			})
		}
		if ns := v.Numeric; ns != nil {
			if ns.ZerosPct > cfg.ZerosThreshold {
				out = append(out, Alert{
					Type:    AlertZeros,
					Column:  v.Name,
					Message: fmt.Sprintf("%s has %d (%.1f%%) zeros", v.Name, ns.Zeros, ns.ZerosPct),
				})
			}
			if math.Abs(ns.Skewness) > cfg.SkewThreshold {
				out = append(out, Alert{
					Type:    AlertSkewed,
					Column:  v.Name,
					Message: fmt.Sprintf("%s is highly skewed (γ1 = %.2f)", v.Name, ns.Skewness),
				})
			}
		}
	}

	seen := make(map[[2]string]bool)
	for _, c := range rep.Correlations {
		for i := range c.Columns {
			for j := i + 1; j < len(c.Columns); j++ {
				pair := [2]string{c.Columns[i], c.Columns[j]}
				if seen[pair] || math.Abs(c.Matrix[i][j]) <= cfg.CorrelationThreshold {
					continue
				}
				seen[pair] = true
				out = append(out, Alert{
					Type:    AlertHighCorrelation,
					Column:  pair[0],
					Message: fmt.Sprintf("%s is highly overall correlated with %s (%s %.2f)", pair[0], pair[1], c.Method, c.Matrix[i][j]),
				})
			}
		}
	}
	return out
}
