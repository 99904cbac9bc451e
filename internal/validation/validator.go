// =============================================================================
// Transcript Parser - Warning Audit
// =============================================================================
//
// The parser never fails on a malformed transcript; it records what it could
// not recover as warning strings on the document. This module turns those
// strings back into structured issues so they can be counted, reported, and
// used to decide whether a file is acceptable.
//
// WARNING SHAPE:
//   Course <SUBJ NNN>: <condition>
//
//   | Condition                          | Kind             |
//   |------------------------------------|------------------|
//   | terminated early.                  | terminated_early |
//   | next course before numeric line.   | next_course      |
//   | missing numeric data.              | missing_numeric  |
//   | anything else                      | other            |
//
// SEVERITY:
//   Every issue is a "warning" unless TreatWarningsAsErrors is set, in which
//   case every issue is an "error" and the result is not valid. The document
//   itself is never changed.
//
// =============================================================================

package validation

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"
)

// =============================================================================
// ISSUE TYPES
// =============================================================================

// Kind classifies a parser warning.
type Kind string

const (
	KindTerminatedEarly Kind = "terminated_early"
	KindNextCourse      Kind = "next_course"
	KindMissingNumeric  Kind = "missing_numeric"
	KindOther           Kind = "other"
)

// AllKinds returns the kinds in reporting order.
func AllKinds() []Kind {
	return []Kind{KindTerminatedEarly, KindNextCourse, KindMissingNumeric, KindOther}
}

// Severity levels.
const (
	SeverityWarning = "warning"
	SeverityError   = "error"
)

var courseWarningPattern = regexp.MustCompile(`^Course ([A-Z]{4} \d{3}): (.+)$`)

// Issue is one parser warning, classified.
type Issue struct {
	// Index is the warning's position in the document's warning list.
	Index int

	// Severity is SeverityWarning or SeverityError.
	Severity string

	// Kind is the classified condition.
	Kind Kind

	// Course is the course code the warning names, or "" for warnings not
	// attached to a course.
	Course string

	// Message is the warning exactly as the parser produced it.
	Message string
}

// Error implements the error interface.
func (i *Issue) Error() string {
	return fmt.Sprintf("[%s] %s (%s)", strings.ToUpper(i.Severity), i.Message, i.Kind)
}

// =============================================================================
// AUDIT RESULT
// =============================================================================

// AuditResult contains the results of an audit.
type AuditResult struct {
	// IsValid is false only when warnings are treated as errors and at least
	// one issue exists.
	IsValid bool

	// IsClean is true when the parser raised no warnings at all.
	IsClean bool

	// Issues holds one entry per warning, in document order.
	Issues []*Issue

	// Counts is the number of issues per kind. Every kind is present.
	Counts map[Kind]int

	// AffectedCourses lists each course code with at least one issue, in
	// first-seen order.
	AffectedCourses []string

	// ErrorCount is the number of issues with error severity.
	ErrorCount int

	// WarningCount is the number of issues with warning severity.
	WarningCount int
}

// =============================================================================
// AUDITOR
// =============================================================================

// Options contains options for the audit.
type Options struct {
	// TreatWarningsAsErrors raises every issue to error severity.
	// Default: false
	TreatWarningsAsErrors bool
}

// Audit classifies the parser warnings of one document.
//
// PARAMETERS:
//   - warnings: The document's warning list, in order.
//   - options: The severity policy.
//
// RETURNS:
//   - The audit result. Never nil.
func Audit(warnings []string, options Options) *AuditResult {
	result := &AuditResult{
		IsClean: len(warnings) == 0,
		Issues:  make([]*Issue, 0, len(warnings)),
		Counts:  make(map[Kind]int, len(AllKinds())),
	}
	for _, k := range AllKinds() {
		result.Counts[k] = 0
	}

	severity := SeverityWarning
	if options.TreatWarningsAsErrors {
		severity = SeverityError
	}

	seen := make(map[string]bool)
	for i, w := range warnings {
		issue := Classify(w)
		issue.Index = i
		issue.Severity = severity

		result.Issues = append(result.Issues, issue)
		result.Counts[issue.Kind]++

		if issue.Course != "" && !seen[issue.Course] {
			seen[issue.Course] = true
			result.AffectedCourses = append(result.AffectedCourses, issue.Course)
		}
	}

	if severity == SeverityError {
		result.ErrorCount = len(result.Issues)
	} else {
		result.WarningCount = len(result.Issues)
	}
	result.IsValid = result.ErrorCount == 0

	return result
}

// Classify parses a single warning string. Severity and Index are left
// unset.
func Classify(warning string) *Issue {
	issue := &Issue{Kind: KindOther, Message: warning}

	m := courseWarningPattern.FindStringSubmatch(warning)
	if m == nil {
		return issue
	}
	issue.Course = m[1]

	switch {
	case strings.HasPrefix(m[2], "terminated early"):
		issue.Kind = KindTerminatedEarly
	case strings.HasPrefix(m[2], "next course before numeric line"):
		issue.Kind = KindNextCourse
	case strings.HasPrefix(m[2], "missing numeric data"):
		issue.Kind = KindMissingNumeric
	}

	return issue
}

// =============================================================================
// ISSUE FORMATTING
// =============================================================================

// FormatIssues formats audit issues for display or logging.
//
// PARAMETERS:
//   - issues: The issues to format.
//
// RETURNS:
//   - A formatted string containing all issues.
func FormatIssues(issues []*Issue) string {
	if len(issues) == 0 {
		return "No parser warnings."
	}

	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("Parse completed with %d warning(s):\n\n", len(issues)))

	for i, issue := range issues {
		builder.WriteString(fmt.Sprintf("%d. %s\n", i+1, issue.Error()))
	}

	return builder.String()
}

// WriteWarningLog writes an audit to a log file.
//
// PARAMETERS:
//   - result: The audit to write.
//   - sourceFile: The transcript the warnings came from.
//   - filePath: The path to the output file.
//
// RETURNS:
//   - An error if writing fails.
func WriteWarningLog(result *AuditResult, sourceFile, filePath string) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create warning log: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)

	fmt.Fprintf(writer, "Transcript Parser - Warning Log\n"+
		"Generated: %s\n"+
		"Source:    %s\n"+
		"================================================================================\n\n",
		time.Now().Format("2006-01-02 15:04:05"),
		sourceFile)

	fmt.Fprintln(writer, "Counts:")
	for _, k := range AllKinds() {
		fmt.Fprintf(writer, "  %-18s %d\n", k, result.Counts[k])
	}
	if len(result.AffectedCourses) > 0 {
		fmt.Fprintf(writer, "  %-18s %s\n", "affected courses", strings.Join(result.AffectedCourses, ", "))
	}
	fmt.Fprintln(writer)

	writer.WriteString(FormatIssues(result.Issues))

	writer.WriteString("\n================================================================================\n" +
		"End of Warning Log\n")

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush warning log: %w", err)
	}

	return file.Close()
}
