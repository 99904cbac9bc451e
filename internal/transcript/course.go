// =============================================================================
// Transcript Parser - Course Extractor
// =============================================================================
//
// A course record starts at a course-code line and comes in one of two
// layouts, often mixed within the same document:
//
//   SAME-LINE:
//     CHEM 101 General Chemistry 4.000 4.000 A 16.000
//
//   WRAPPED TITLE:
//     MATH 250 Intro to Differential
//     Equations and Linear Algebra
//     4.000 4.000 B+ 13.200
//
// Renderers wrap long titles without any marker, so the only signal is the
// absence of the numeric tail on the code line. The extractor first tries the
// same-line layout and falls back to accumulating continuation lines until a
// numeric-only line appears.
//
// WARNINGS:
//   The extractor never fails. Anomalies are returned as warning strings
//   alongside the (possibly incomplete) course:
//     - "terminated early"                : a section header cut the record off
//     - "next course before numeric line" : another course started first
//     - "missing numeric data"            : no numeric line was ever matched
//
// =============================================================================

package transcript

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ginjaninja78/transcript-parser/internal/types"
)

// numericTailPattern matches the remainder of a code line when the numeric
// columns sit on the same line as the title. The title group is lazy so the
// numeric columns bind as far right as possible.
var numericTailPattern = regexp.MustCompile(
	`^(.*?)` +
		`\s+(\d+\.\d{3})` + // attempted
		`\s+(\d+\.\d{3})` + // earned
		`(?:\s+([A-F][+-]?))?` + // grade
		`(?:\s+(\d+\.\d{3}))?$`, // points
)

// numericLinePattern matches a line carrying only the numeric columns of a
// wrapped course.
var numericLinePattern = regexp.MustCompile(
	`^(\d+\.\d{3})` +
		`\s+(\d+\.\d{3})` +
		`(?:\s+([A-F][+-]?))?` +
		`(?:\s+(\d+\.\d{3}))?$`,
)

// Warning conditions, appended to "Course <code>: ".
const (
	conditionTerminatedEarly = "terminated early."
	conditionNextCourse      = "next course before numeric line."
	conditionMissingNumeric  = "missing numeric data."
)

// ExtractCourse parses the course record starting at lines[i], which must be
// a course-code line.
//
// RETURNS:
//   - The course. Numeric fields are nil when they could not be recovered.
//   - The index of the first line not consumed by this course.
//   - The warnings raised for this course, in order. Callers append these to
//     the document's warning list; nothing is mutated here.
func ExtractCourse(lines []string, i int) (types.Course, int, []string) {
	m := courseStartPattern.FindStringSubmatch(lines[i])
	if m == nil {
		// The scanner only calls in on IsCourseCodeLine, so this is a caller bug.
		panic(fmt.Sprintf("transcript: line %d is not a course-code line: %q", i, lines[i]))
	}
	subject, number, rest := m[1], m[2], m[3]
	code := subject + " " + number

	course := types.Course{Code: code}
	var warnings []string

	// =========================================================================
	// CASE 1: NUMERIC TAIL ON THE CODE LINE
	// =========================================================================

	if tail := numericTailPattern.FindStringSubmatch(rest); tail != nil {
		course.Title = strings.TrimSpace(tail[1])
		applyNumericColumns(&course, tail[2], tail[3], tail[4], tail[5])
		return course, i + 1, warnings
	}

	// =========================================================================
	// CASE 2: TITLE WRAPS ONTO FOLLOWING LINES
	// =========================================================================

	titleParts := []string{strings.TrimSpace(rest)}
	i++

	for i < len(lines) {
		line := lines[i]

		if isSectionBoundary(line) {
			warnings = append(warnings, courseWarning(code, conditionTerminatedEarly))
			break
		}

		if IsCourseCodeLine(line) {
			warnings = append(warnings, courseWarning(code, conditionNextCourse))
			break
		}

		if numeric := numericLinePattern.FindStringSubmatch(line); numeric != nil {
			applyNumericColumns(&course, numeric[1], numeric[2], numeric[3], numeric[4])
			i++
			break
		}

		titleParts = append(titleParts, line)
		i++
	}

	course.Title = strings.Join(titleParts, " ")

	if course.AttemptedUnits == nil {
		warnings = append(warnings, courseWarning(code, conditionMissingNumeric))
	}

	return course, i, warnings
}

// applyNumericColumns fills the numeric fields from regex captures. Grade and
// points are optional columns; an empty capture leaves them nil.
func applyNumericColumns(course *types.Course, attempted, earned, grade, points string) {
	course.AttemptedUnits = parseUnits(attempted)
	course.EarnedUnits = parseUnits(earned)

	if grade != "" {
		course.Grade = &grade
	}
	if points != "" {
		course.Points = parseUnits(points)
	}
}

// parseUnits converts a captured "\d+\.\d{3}" token. The patterns only
// capture well-formed decimals, so a conversion error cannot occur.
func parseUnits(s string) *float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

func courseWarning(code, condition string) string {
	return fmt.Sprintf("Course %s: %s", code, condition)
}
