// =============================================================================
// Transcript Parser - Shared Types
// =============================================================================
//
// This package contains the academic-record data model shared across the
// parser and every presentation writer. Keeping it separate avoids import
// cycles between:
//   - transcript   (builds the tree)
//   - validation   (audits the warnings)
//   - report       (flattens the tree into rows)
//   - xmlwriter / xlsxwriter / csvwriter (render the tree)
//
// OWNERSHIP:
//   Every entity is owned by exactly one TranscriptDocument. Nothing here is
//   shared between two parse invocations.
//
// OPTIONAL FIELDS:
//   Values the parser could not recover are nil pointers, which encode as
//   null in JSON/YAML. An empty string always means "parsed as empty".
//
// =============================================================================

package types

// =============================================================================
// TOTALS KINDS
// =============================================================================

// TotalsKind is the category of a GPA/units summary line.
type TotalsKind string

const (
	// TotalsTerm is a per-term "Term GPA" line.
	TotalsTerm TotalsKind = "term"

	// TotalsCombined is a "Combined GPA" line.
	TotalsCombined TotalsKind = "combined"

	// TotalsCumulative is a "Cum GPA" line.
	TotalsCumulative TotalsKind = "cumulative"

	// TotalsTransferCumulative is a "Transfer Cum GPA" line.
	TotalsTransferCumulative TotalsKind = "transfer_cumulative"

	// TotalsCombinedCumulative is a "Combined Cum GPA" line.
	TotalsCombinedCumulative TotalsKind = "combined_cumulative"
)

// AllTotalsKinds returns every totals kind in presentation order.
// Writers iterate this instead of ranging over the totals maps so that
// output is stable.
func AllTotalsKinds() []TotalsKind {
	return []TotalsKind{
		TotalsTerm,
		TotalsCombined,
		TotalsCumulative,
		TotalsTransferCumulative,
		TotalsCombinedCumulative,
	}
}

// =============================================================================
// DOCUMENT TYPES
// =============================================================================

// TranscriptDocument is the result of parsing one transcript.
type TranscriptDocument struct {
	// Student holds the identity fields found before the first term.
	Student Student `json:"student" yaml:"student"`

	// Terms holds every term in document order.
	Terms []Term `json:"terms" yaml:"terms"`

	// CareerTotals holds the totals found after the career-totals header.
	CareerTotals map[TotalsKind]TotalsRecord `json:"career_totals" yaml:"career_totals"`

	// Raw holds audit data that is not part of the academic record itself.
	Raw RawData `json:"raw" yaml:"raw"`
}

// RawData carries the parse audit trail.
type RawData struct {
	// Warnings lists soft anomalies in the order they were found.
	Warnings []string `json:"warnings" yaml:"warnings"`
}

// NewTranscriptDocument returns an empty document with non-nil collections,
// so that an empty parse encodes as [] / {} rather than null.
func NewTranscriptDocument() *TranscriptDocument {
	return &TranscriptDocument{
		Terms:        []Term{},
		CareerTotals: make(map[TotalsKind]TotalsRecord),
		Raw:          RawData{Warnings: []string{}},
	}
}

// Student holds the identity block of the transcript.
type Student struct {
	Name      *string `json:"name" yaml:"name"`
	StudentID *string `json:"student_id" yaml:"student_id"`
	PrintDate *string `json:"print_date" yaml:"print_date"`
}

// Term is one academic enrollment period.
type Term struct {
	// Label is the verbatim header line, e.g. "Fall 2021".
	Label string `json:"term" yaml:"term"`

	Program *string `json:"program" yaml:"program"`
	Plan    *string `json:"plan" yaml:"plan"`

	// Courses holds the course records in document order.
	Courses []Course `json:"courses" yaml:"courses"`

	// Totals holds at most one record per kind. A later line of the same
	// kind overwrites the earlier one.
	Totals map[TotalsKind]TotalsRecord `json:"totals" yaml:"totals"`
}

// NewTerm opens a term with the given header label.
func NewTerm(label string) Term {
	return Term{
		Label:   label,
		Courses: []Course{},
		Totals:  make(map[TotalsKind]TotalsRecord),
	}
}

// Course is a single course record.
type Course struct {
	// Code is "<SUBJ> <NNN>", e.g. "CHEM 101".
	Code string `json:"code" yaml:"code"`

	// Title may have been assembled from several wrapped lines.
	Title string `json:"title" yaml:"title"`

	AttemptedUnits *float64 `json:"attempted_units" yaml:"attempted_units"`
	EarnedUnits    *float64 `json:"earned_units" yaml:"earned_units"`
	Grade          *string  `json:"grade" yaml:"grade"`
	Points         *float64 `json:"points" yaml:"points"`
}

// TotalsRecord is one parsed totals line.
type TotalsRecord struct {
	Kind      TotalsKind `json:"kind" yaml:"kind"`
	GPA       *float64   `json:"gpa" yaml:"gpa"`
	Attempted float64    `json:"attempted" yaml:"attempted"`
	Earned    float64    `json:"earned" yaml:"earned"`
	GPAUnits  float64    `json:"gpa_units" yaml:"gpa_units"`
	Points    float64    `json:"points" yaml:"points"`

	// RawLine is the verbatim source line, kept for audit.
	RawLine string `json:"raw_line" yaml:"raw_line"`
}

// =============================================================================
// COUNTING HELPERS
// =============================================================================

// CourseCount returns the number of courses across all terms.
func (d *TranscriptDocument) CourseCount() int {
	count := 0
	for _, term := range d.Terms {
		count += len(term.Courses)
	}
	return count
}

// StringValue dereferences an optional string, returning "" for nil.
func StringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
