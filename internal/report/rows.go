// =============================================================================
// Transcript Parser - Tabular Projections
// =============================================================================
//
// The document is a tree (terms own courses and totals). Spreadsheets, CSV
// files and terminal tables want flat rows, so this module derives them:
//
//   CourseRows        one row per course, with the student and term repeated
//   TermTotalsRows    one row per (term, totals kind)
//   CareerTotalsRows  one row per career totals kind
//
// Rows are derived on demand and never stored back on the document. Totals
// rows follow types.AllTotalsKinds order so output is deterministic even
// though totals are kept in maps.
//
// =============================================================================

package report

import (
	"strconv"

	"github.com/ginjaninja78/transcript-parser/internal/types"
)

// CareerScope is the Scope of career totals rows.
const CareerScope = "Career"

// CourseRow is one course with its context.
type CourseRow struct {
	StudentName string
	StudentID   string
	Term        string
	Program     string
	Plan        string
	Code        string
	Title       string
	Attempted   *float64
	Earned      *float64
	Grade       string
	Points      *float64
}

// CourseHeaders are the column names matching CourseRow.Values.
func CourseHeaders() []string {
	return []string{
		"Student Name", "Student ID", "Term", "Program", "Plan",
		"Course", "Title", "Attempted", "Earned", "Grade", "Points",
	}
}

// Values renders the row as strings. Missing values are empty.
func (r CourseRow) Values() []string {
	return []string{
		r.StudentName, r.StudentID, r.Term, r.Program, r.Plan,
		r.Code, r.Title,
		FormatUnits(r.Attempted), FormatUnits(r.Earned), r.Grade, FormatUnits(r.Points),
	}
}

// TotalsRow is one totals record with the scope it belongs to.
type TotalsRow struct {
	// Scope is the term label, or CareerScope.
	Scope     string
	Kind      types.TotalsKind
	GPA       *float64
	Attempted float64
	Earned    float64
	GPAUnits  float64
	Points    float64
}

// TotalsHeaders are the column names matching TotalsRow.Values.
func TotalsHeaders() []string {
	return []string{"Scope", "Kind", "GPA", "Attempted", "Earned", "GPA Units", "Points"}
}

// Values renders the row as strings.
func (r TotalsRow) Values() []string {
	return []string{
		r.Scope, string(r.Kind), FormatUnits(r.GPA),
		FormatUnits(&r.Attempted), FormatUnits(&r.Earned),
		FormatUnits(&r.GPAUnits), FormatUnits(&r.Points),
	}
}

// CourseRows flattens every course of every term, in document order.
func CourseRows(doc *types.TranscriptDocument) []CourseRow {
	rows := make([]CourseRow, 0, doc.CourseCount())

	name := types.StringValue(doc.Student.Name)
	id := types.StringValue(doc.Student.StudentID)

	for _, term := range doc.Terms {
		for _, c := range term.Courses {
			rows = append(rows, CourseRow{
				StudentName: name,
				StudentID:   id,
				Term:        term.Label,
				Program:     types.StringValue(term.Program),
				Plan:        types.StringValue(term.Plan),
				Code:        c.Code,
				Title:       c.Title,
				Attempted:   c.AttemptedUnits,
				Earned:      c.EarnedUnits,
				Grade:       types.StringValue(c.Grade),
				Points:      c.Points,
			})
		}
	}

	return rows
}

// TermTotalsRows lists every term's totals, terms in document order and
// kinds in AllTotalsKinds order.
func TermTotalsRows(doc *types.TranscriptDocument) []TotalsRow {
	var rows []TotalsRow
	for _, term := range doc.Terms {
		rows = appendTotals(rows, term.Label, term.Totals)
	}
	return rows
}

// CareerTotalsRows lists the career totals in AllTotalsKinds order.
func CareerTotalsRows(doc *types.TranscriptDocument) []TotalsRow {
	return appendTotals(nil, CareerScope, doc.CareerTotals)
}

func appendTotals(rows []TotalsRow, scope string, totals map[types.TotalsKind]types.TotalsRecord) []TotalsRow {
	for _, kind := range types.AllTotalsKinds() {
		rec, ok := totals[kind]
		if !ok {
			continue
		}
		rows = append(rows, TotalsRow{
			Scope:     scope,
			Kind:      kind,
			GPA:       rec.GPA,
			Attempted: rec.Attempted,
			Earned:    rec.Earned,
			GPAUnits:  rec.GPAUnits,
			Points:    rec.Points,
		})
	}
	return rows
}

// FormatUnits renders a units/points/GPA value the way transcripts print
// them, with three decimals. Nil renders as "".
func FormatUnits(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 3, 64)
}
