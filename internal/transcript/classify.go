// =============================================================================
// Transcript Parser - Line Classifiers
// =============================================================================
//
// Each classifier is a pure predicate over one normalized line. None of them
// look at neighbouring lines or keep state, so the scanner can call them in
// any order without consuming input.
//
// RECOGNITION RULES:
//   | Classifier            | Rule                                                   |
//   |-----------------------|--------------------------------------------------------|
//   | IsTermHeader          | exactly "<Fall|Spring|Summer> <4-digit year>"          |
//   | IsBeginningOfRecord   | starts "Beginning of", ends "Record"                   |
//   | IsCourseTableHeader   | starts "Course Description", has Attempted/Earned/Grade|
//   | IsTotalsHeader        | starts "Attempted Earned", has GPA/Units/Points        |
//   | IsCareerTotalsHeader  | ends "Career Totals"                                   |
//   | IsCourseCodeLine      | "<AAAA> <NNN> <rest>"                                  |
//   | IsEndOfRecord         | starts "End of"                                        |
//
// Header wording drifts slightly between document sources, so the header
// checks are prefix/substring tests rather than full grammars.
//
// =============================================================================

package transcript

import (
	"regexp"
	"strings"
)

// termHeaderPattern matches a whole line such as "Fall 2021".
var termHeaderPattern = regexp.MustCompile(`^(Fall|Spring|Summer)\s+\d{4}$`)

// courseStartPattern splits a course-code line into subject, number and the
// remainder of the line.
var courseStartPattern = regexp.MustCompile(`^([A-Z]{4})\s+(\d{3})\s+(.+)$`)

// IsTermHeader reports whether the line opens a new term.
func IsTermHeader(line string) bool {
	return termHeaderPattern.MatchString(line)
}

// IsBeginningOfRecord reports whether the line is the
// "Beginning of ... Record" marker that ends the student header.
func IsBeginningOfRecord(line string) bool {
	return strings.HasPrefix(line, "Beginning of") && strings.HasSuffix(line, "Record")
}

// IsCourseTableHeader reports whether the line is the column header of a
// term's course table.
func IsCourseTableHeader(line string) bool {
	return strings.HasPrefix(line, "Course Description") &&
		strings.Contains(line, "Attempted") &&
		strings.Contains(line, "Earned") &&
		strings.Contains(line, "Grade")
}

// IsTotalsHeader reports whether the line is the column header of a
// per-term totals block.
func IsTotalsHeader(line string) bool {
	return strings.HasPrefix(line, "Attempted Earned") &&
		strings.Contains(line, "GPA") &&
		strings.Contains(line, "Units") &&
		strings.Contains(line, "Points")
}

// IsCareerTotalsHeader reports whether the line opens the career totals.
func IsCareerTotalsHeader(line string) bool {
	return strings.HasSuffix(line, "Career Totals")
}

// IsCourseCodeLine reports whether the line starts a course record.
func IsCourseCodeLine(line string) bool {
	return courseStartPattern.MatchString(line)
}

// IsEndOfRecord reports whether the line closes the career totals section.
func IsEndOfRecord(line string) bool {
	return strings.HasPrefix(line, "End of")
}

// isSectionBoundary reports whether the line ends a course list: a totals
// header, a new term, or the career totals.
func isSectionBoundary(line string) bool {
	return IsTotalsHeader(line) || IsTermHeader(line) || IsCareerTotalsHeader(line)
}
