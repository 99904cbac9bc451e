// =============================================================================
// Transcript Parser - XLSX Workbook Writer
// =============================================================================
//
// Writes a parsed transcript as an Excel workbook for registrar staff who
// review transcripts in a spreadsheet.
//
// WORKBOOK LAYOUT:
//   | Sheet          | Rows                                    |
//   |----------------|-----------------------------------------|
//   | Courses        | report.CourseRows                       |
//   | Term Totals    | report.TermTotalsRows                   |
//   | Career Totals  | report.CareerTotalsRows                 |
//   | Warnings       | one row per parser warning, classified  |
//
// Every sheet has a bold header row. Units, points and GPA are written as
// numbers with three decimals; values the parser could not recover are left
// as empty cells.
//
// =============================================================================

package xlsxwriter

import (
	"fmt"

	"github.com/ginjaninja78/transcript-parser/internal/report"
	"github.com/ginjaninja78/transcript-parser/internal/types"
	"github.com/ginjaninja78/transcript-parser/internal/validation"
	"github.com/xuri/excelize/v2"
)

// Sheet names.
const (
	SheetCourses      = "Courses"
	SheetTermTotals   = "Term Totals"
	SheetCareerTotals = "Career Totals"
	SheetWarnings     = "Warnings"
)

// warningHeaders are the columns of the Warnings sheet.
var warningHeaders = []string{"#", "Course", "Kind", "Message"}

// Write saves the workbook for doc at path.
//
// RETURNS:
//   - An error if the workbook cannot be built or saved.
func Write(path string, doc *types.TranscriptDocument) error {
	f, err := Build(doc)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", path, err)
	}
	return nil
}

// Build creates the workbook in memory. The caller closes it.
func Build(doc *types.TranscriptDocument) (*excelize.File, error) {
	f := excelize.NewFile()

	w := &workbook{f: f}
	if err := w.init(); err != nil {
		f.Close()
		return nil, err
	}

	steps := []func(*types.TranscriptDocument) error{
		w.writeCourses,
		w.writeTermTotals,
		w.writeCareerTotals,
		w.writeWarnings,
	}
	for _, step := range steps {
		if err := step(doc); err != nil {
			f.Close()
			return nil, err
		}
	}

	// The default sheet is replaced by ours.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to remove default sheet: %w", err)
	}
	if idx, err := f.GetSheetIndex(SheetCourses); err == nil {
		f.SetActiveSheet(idx)
	}

	return f, nil
}

// =============================================================================
// SHEET WRITERS
// =============================================================================

type workbook struct {
	f           *excelize.File
	headerStyle int
	unitsStyle  int
}

func (w *workbook) init() error {
	var err error

	w.headerStyle, err = w.f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#E5E7EB"}},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	units := "0.000"
	w.unitsStyle, err = w.f.NewStyle(&excelize.Style{CustomNumFmt: &units})
	if err != nil {
		return fmt.Errorf("failed to create number style: %w", err)
	}

	return nil
}

func (w *workbook) writeCourses(doc *types.TranscriptDocument) error {
	rows := report.CourseRows(doc)

	data := make([][]interface{}, len(rows))
	for i, r := range rows {
		data[i] = []interface{}{
			r.StudentName, r.StudentID, r.Term, r.Program, r.Plan,
			r.Code, r.Title,
			number(r.Attempted), number(r.Earned), r.Grade, number(r.Points),
		}
	}

	// Attempted, Earned and Points columns.
	return w.writeSheet(SheetCourses, report.CourseHeaders(), data, []string{"H", "I", "K"})
}

func (w *workbook) writeTermTotals(doc *types.TranscriptDocument) error {
	return w.writeTotals(SheetTermTotals, report.TermTotalsRows(doc))
}

func (w *workbook) writeCareerTotals(doc *types.TranscriptDocument) error {
	return w.writeTotals(SheetCareerTotals, report.CareerTotalsRows(doc))
}

func (w *workbook) writeTotals(sheet string, rows []report.TotalsRow) error {
	data := make([][]interface{}, len(rows))
	for i, r := range rows {
		data[i] = []interface{}{
			r.Scope, string(r.Kind), number(r.GPA),
			r.Attempted, r.Earned, r.GPAUnits, r.Points,
		}
	}
	return w.writeSheet(sheet, report.TotalsHeaders(), data, []string{"C", "D", "E", "F", "G"})
}

func (w *workbook) writeWarnings(doc *types.TranscriptDocument) error {
	data := make([][]interface{}, len(doc.Raw.Warnings))
	for i, msg := range doc.Raw.Warnings {
		issue := validation.Classify(msg)
		data[i] = []interface{}{i + 1, issue.Course, string(issue.Kind), msg}
	}
	return w.writeSheet(SheetWarnings, warningHeaders, data, nil)
}

// writeSheet creates a sheet with a styled header row and the data rows.
// unitCols are column letters formatted as three-decimal numbers.
func (w *workbook) writeSheet(sheet string, headers []string, rows [][]interface{}, unitCols []string) error {
	if _, err := w.f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}

	header := make([]interface{}, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	if err := w.f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header of %s: %w", sheet, err)
	}
	if err := w.f.SetRowStyle(sheet, 1, 1, w.headerStyle); err != nil {
		return fmt.Errorf("failed to style header of %s: %w", sheet, err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := w.f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d of %s: %w", i+2, sheet, err)
		}
	}

	if len(rows) > 0 {
		last := len(rows) + 1
		for _, col := range unitCols {
			if err := w.f.SetCellStyle(sheet, col+"2", fmt.Sprintf("%s%d", col, last), w.unitsStyle); err != nil {
				return fmt.Errorf("failed to style %s column %s: %w", sheet, col, err)
			}
		}
	}

	lastCol, err := excelize.ColumnNumberToName(len(headers))
	if err != nil {
		return err
	}
	if err := w.f.SetColWidth(sheet, "A", lastCol, 16); err != nil {
		return fmt.Errorf("failed to size columns of %s: %w", sheet, err)
	}

	return nil
}

// number converts an optional value to a cell value. Nil becomes an empty
// cell.
func number(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
