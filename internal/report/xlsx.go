package report

import (
	"fmt"
	"io"

	"github.com/leapstack-labs/leapprofile/internal/profile"
	"github.com/xuri/excelize/v2"
)

// Sheet names of the XLSX workbook.
const (
	SheetOverview     = "Overview"
	SheetVariables    = "Variables"
	SheetAlerts       = "Alerts"
	SheetCorrelations = "Correlations"
	SheetSample       = "Sample"
)

// XLSX writes rep as a workbook with one sheet per report section.
func XLSX(w io.Writer, rep *profile.Report) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SheetOverview); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	for _, name := range []string{SheetVariables, SheetAlerts, SheetCorrelations, SheetSample} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", name, err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4CAF50"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	sw := &sheetWriter{f: f, headerStyle: headerStyle}
	ov := rep.Overview
	sw.table(SheetOverview, []string{"Statistic", "Value"}, [][]any{
		{"Title", rep.Title},
		{"Table", rep.Table},
		{"Number of variables", ov.Columns},
		{"Number of observations", ov.Rows},
		{"Missing cells", ov.MissingCells},
		{"Missing cells (%)", ov.MissingCellsPct},
		{"Duplicate rows", ov.DuplicateRows},
		{"Duplicate rows (%)", ov.DuplicateRowsPct},
		{"Started", ov.Start},
		{"Finished", ov.End},
		{"Duration (s)", ov.Duration.Seconds()},
	})

	varRows := make([][]any, 0, len(rep.Variables))
	for _, v := range rep.Variables {
		row := []any{v.Name, string(v.Type), v.Count, v.Missing, v.MissingPct, v.Distinct, v.DistinctPct, v.IsUnique}
		if ns := v.Numeric; ns != nil {
			row = append(row, ns.Mean, ns.Std, ns.Min, ns.Max, ns.Skewness, ns.Kurtosis)
		}
		varRows = append(varRows, row)
	}
	sw.table(SheetVariables, []string{
		"Variable", "Type", "Count", "Missing", "Missing (%)", "Distinct", "Distinct (%)", "Unique",
		"Mean", "Std", "Min", "Max", "Skewness", "Kurtosis",
	}, varRows)

	alertRows := make([][]any, 0, len(rep.Alerts))
	for _, a := range rep.Alerts {
		alertRows = append(alertRows, []any{string(a.Type), a.Column, a.Message})
	}
	sw.table(SheetAlerts, []string{"Type", "Variable", "Message"}, alertRows)

	row := 1
	for _, c := range rep.Correlations {
		sw.cell(SheetCorrelations, 1, row, c.Method)
		for j, name := range c.Columns {
			sw.header(SheetCorrelations, j+2, row, name)
		}
		for i, name := range c.Columns {
			sw.header(SheetCorrelations, 1, row+i+1, name)
			for j, r := range c.Matrix[i] {
				sw.cell(SheetCorrelations, j+2, row+i+1, r)
			}
		}
		row += len(c.Columns) + 3
	}

	sampleRows := make([][]any, 0, len(rep.Sample.Head)+len(rep.Sample.Tail))
	for _, r := range append(append([][]string{}, rep.Sample.Head...), rep.Sample.Tail...) {
		vals := make([]any, len(r))
		for i, s := range r {
			vals[i] = s
		}
		sampleRows = append(sampleRows, vals)
	}
	sw.table(SheetSample, rep.Sample.Columns, sampleRows)

	if sw.err != nil {
		return sw.err
	}
	f.SetActiveSheet(0)
	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// sheetWriter keeps the first error from a run of cell writes.
type sheetWriter struct {
	f           *excelize.File
	headerStyle int
	err         error
}

func (s *sheetWriter) cell(sheet string, col, row int, v any) {
	if s.err != nil {
		return
	}
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		s.err = err
		return
	}
	if err := s.f.SetCellValue(sheet, name, v); err != nil {
		s.err = fmt.Errorf("failed to set %s!%s: %w", sheet, name, err)
	}
}

func (s *sheetWriter) header(sheet string, col, row int, v string) {
	s.cell(sheet, col, row, v)
	if s.err != nil {
		return
	}
	name, _ := excelize.CoordinatesToCellName(col, row)
	if err := s.f.SetCellStyle(sheet, name, name, s.headerStyle); err != nil {
		s.err = err
	}
}

func (s *sheetWriter) table(sheet string, headers []string, rows [][]any) {
	for i, h := range headers {
		s.header(sheet, i+1, 1, h)
	}
	for r, vals := range rows {
		for c, v := range vals {
			s.cell(sheet, c+1, r+2, v)
		}
	}
	if s.err == nil && len(headers) > 0 {
		last, _ := excelize.ColumnNumberToName(len(headers))
		s.err = s.f.SetColWidth(sheet, "A", last, 16)
	}
}
