// =============================================================================
// Transcript Parser - Structural Scanner
// =============================================================================
//
// The scanner walks the normalized lines with a single forward cursor and
// builds the nested TranscriptDocument. It runs four phases in order and never
// returns to an earlier one:
//
//   1. HEADER        Name / Student ID / Print Date, up to the first
//                    "Beginning of ... Record" marker or term header
//   2. TERMS         one Term per term header: Program/Plan, course table,
//                    courses, then zero or more totals blocks
//   3. CAREER TOTALS totals lines after the career-totals header, up to
//                    "End of ..."
//
// TERMINATION:
//   The cursor only moves forward and every loop either advances it or exits,
//   so a parse finishes in a small constant number of steps per line, even
//   on input truncated mid-course or mid-totals-block.
//
// CONCURRENCY:
//   A parse owns its lines, cursor and output tree. Independent calls can run
//   in parallel without coordination.
//
// =============================================================================

package transcript

import (
	"regexp"
	"strings"

	"github.com/ginjaninja78/transcript-parser/internal/types"
	"github.com/rs/zerolog"
)

var (
	namePattern      = regexp.MustCompile(`^Name:\s*(.+)$`)
	studentIDPattern = regexp.MustCompile(`^Student ID:\s*(\d+)$`)
	printDatePattern = regexp.MustCompile(`^Print Date:\s*(\d{2}/\d{2}/\d{4})$`)
)

// =============================================================================
// SCANNER
// =============================================================================

// Scanner parses transcript text. It is stateless between calls; the logger
// only receives debug traces of phase boundaries.
type Scanner struct {
	logger zerolog.Logger
}

// NewScanner creates a Scanner that traces to the given logger.
func NewScanner(logger zerolog.Logger) *Scanner {
	return &Scanner{logger: logger}
}

// Parse normalizes raw transcript text and scans it into a document.
func Parse(raw string) *types.TranscriptDocument {
	return NewScanner(zerolog.Nop()).Parse(raw)
}

// ParseLines scans lines that were already produced by NormalizeLines.
func ParseLines(lines []string) *types.TranscriptDocument {
	return NewScanner(zerolog.Nop()).ParseLines(lines)
}

// Parse normalizes raw transcript text and scans it into a document.
func (s *Scanner) Parse(raw string) *types.TranscriptDocument {
	return s.ParseLines(NormalizeLines(raw))
}

// ParseLines scans lines that were already produced by NormalizeLines.
func (s *Scanner) ParseLines(lines []string) *types.TranscriptDocument {
	c := &cursor{
		lines:  lines,
		doc:    types.NewTranscriptDocument(),
		logger: s.logger,
	}

	c.scanHeader()
	c.scanTerms()
	c.scanCareerTotals()

	s.logger.Debug().
		Int("lines", len(lines)).
		Int("terms", len(c.doc.Terms)).
		Int("courses", c.doc.CourseCount()).
		Int("warnings", len(c.doc.Raw.Warnings)).
		Msg("transcript scanned")

	return c.doc
}

// =============================================================================
// CURSOR
// =============================================================================

// cursor is the per-parse state: the line sequence, the position, and the
// partially built document.
type cursor struct {
	lines  []string
	i      int
	doc    *types.TranscriptDocument
	logger zerolog.Logger
}

func (c *cursor) done() bool {
	return c.i >= len(c.lines)
}

func (c *cursor) line() string {
	return c.lines[c.i]
}

// =============================================================================
// PHASE 1: HEADER
// =============================================================================

// scanHeader collects the labeled student fields. Each pattern is tried on
// every line independently, so the fields may appear in any order and
// unrelated lines are skipped.
func (c *cursor) scanHeader() {
	student := &c.doc.Student

	for ; !c.done(); c.i++ {
		line := c.line()

		if IsBeginningOfRecord(line) || IsTermHeader(line) {
			break
		}

		if m := namePattern.FindStringSubmatch(line); m != nil {
			name := strings.TrimSpace(m[1])
			student.Name = &name
		}
		if m := studentIDPattern.FindStringSubmatch(line); m != nil {
			id := m[1]
			student.StudentID = &id
		}
		if m := printDatePattern.FindStringSubmatch(line); m != nil {
			date := m[1]
			student.PrintDate = &date
		}
	}

	if !c.done() && IsBeginningOfRecord(c.line()) {
		c.i++
	}

	c.logger.Debug().Int("line", c.i).Msg("header phase complete")
}

// =============================================================================
// PHASE 2: TERMS
// =============================================================================

// scanTerms opens a term at every term header until the career totals begin.
// Lines between terms (page furniture, repeated headers) are skipped.
func (c *cursor) scanTerms() {
	for !c.done() {
		line := c.line()

		if IsCareerTotalsHeader(line) {
			break
		}

		if !IsTermHeader(line) {
			c.i++
			continue
		}

		c.i++
		term := types.NewTerm(line)

		c.scanProgramAndPlan(&term)
		c.skipToCourseTable()
		c.scanCourses(&term)
		c.scanTermTotals(&term)

		c.doc.Terms = append(c.doc.Terms, term)
		c.logger.Debug().
			Str("term", term.Label).
			Int("courses", len(term.Courses)).
			Int("totals", len(term.Totals)).
			Msg("term closed")
	}
}

// scanProgramAndPlan consumes the Program: and Plan: lines directly after a
// term header, in either order.
func (c *cursor) scanProgramAndPlan(term *types.Term) {
	for !c.done() {
		line := c.line()

		switch {
		case strings.HasPrefix(line, "Program:"):
			program := strings.TrimSpace(strings.TrimPrefix(line, "Program:"))
			term.Program = &program
		case strings.HasPrefix(line, "Plan:"):
			plan := strings.TrimSpace(strings.TrimPrefix(line, "Plan:"))
			term.Plan = &plan
		default:
			return
		}

		c.i++
	}
}

// skipToCourseTable advances to the course-table header and consumes it. It
// stops without consuming anything at a term or career-totals header, which
// means the term has no course table.
func (c *cursor) skipToCourseTable() {
	for !c.done() && !IsCourseTableHeader(c.line()) {
		if IsTermHeader(c.line()) || IsCareerTotalsHeader(c.line()) {
			return
		}
		c.i++
	}

	if !c.done() && IsCourseTableHeader(c.line()) {
		c.i++
	}
}

// scanCourses extracts a course at every course-code line until a section
// boundary. Other lines are skipped.
func (c *cursor) scanCourses(term *types.Term) {
	for !c.done() {
		line := c.line()

		if isSectionBoundary(line) {
			return
		}

		if IsCourseCodeLine(line) {
			course, next, warnings := ExtractCourse(c.lines, c.i)
			term.Courses = append(term.Courses, course)
			c.addWarnings(warnings)
			c.i = next
			continue
		}

		c.i++
	}
}

// scanTermTotals consumes contiguous totals blocks. Each block is a totals
// header followed by totals lines; unrecognized lines inside a block are
// dropped.
func (c *cursor) scanTermTotals(term *types.Term) {
	for !c.done() && IsTotalsHeader(c.line()) {
		c.i++

		for !c.done() {
			line := c.line()

			if isSectionBoundary(line) {
				break
			}

			if record, ok := ExtractTotals(line); ok {
				term.Totals[record.Kind] = record
			}

			c.i++
		}
	}
}

// =============================================================================
// PHASE 3: CAREER TOTALS
// =============================================================================

// scanCareerTotals parses the totals lines after the career-totals header,
// stopping at "End of ..." or end of input.
func (c *cursor) scanCareerTotals() {
	if c.done() || !IsCareerTotalsHeader(c.line()) {
		return
	}
	c.i++

	for ; !c.done(); c.i++ {
		line := c.line()

		if IsEndOfRecord(line) {
			break
		}

		if record, ok := ExtractTotals(line); ok {
			c.doc.CareerTotals[record.Kind] = record
		}
	}

	c.logger.Debug().Int("career_totals", len(c.doc.CareerTotals)).Msg("career totals phase complete")
}

// addWarnings appends a course's warning delta in order and traces each one.
func (c *cursor) addWarnings(warnings []string) {
	for _, w := range warnings {
		c.logger.Debug().Str("warning", w).Msg("course anomaly")
	}
	c.doc.Raw.Warnings = append(c.doc.Raw.Warnings, warnings...)
}
