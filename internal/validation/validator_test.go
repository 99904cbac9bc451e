package validation

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

var sampleWarnings = []string{
	"Course PHYS 201: terminated early.",
	"Course PHYS 201: missing numeric data.",
	"Course BIOL 120: next course before numeric line.",
	"Course BIOL 120: missing numeric data.",
	"Page 3 could not be read",
}

func TestClassify(t *testing.T) {
	tests := []struct {
		warning    string
		wantKind   Kind
		wantCourse string
	}{
		{"Course PHYS 201: terminated early.", KindTerminatedEarly, "PHYS 201"},
		{"Course BIOL 120: next course before numeric line.", KindNextCourse, "BIOL 120"},
		{"Course CHEM 101: missing numeric data.", KindMissingNumeric, "CHEM 101"},
		{"Course CHEM 101: something new.", KindOther, "CHEM 101"},
		{"Page 3 could not be read", KindOther, ""},
		{"Course chem 101: terminated early.", KindOther, ""},
	}

	for _, tt := range tests {
		t.Run(tt.warning, func(t *testing.T) {
			issue := Classify(tt.warning)
			if issue.Kind != tt.wantKind {
				t.Errorf("Kind = %q, want %q", issue.Kind, tt.wantKind)
			}
			if issue.Course != tt.wantCourse {
				t.Errorf("Course = %q, want %q", issue.Course, tt.wantCourse)
			}
			if issue.Message != tt.warning {
				t.Errorf("Message = %q, want the original warning", issue.Message)
			}
		})
	}
}

func TestAudit(t *testing.T) {
	result := Audit(sampleWarnings, Options{})

	if result.IsClean {
		t.Error("IsClean = true with warnings present")
	}
	if !result.IsValid {
		t.Error("warnings must not invalidate the result by default")
	}
	if result.WarningCount != 5 || result.ErrorCount != 0 {
		t.Errorf("counts = %d warnings, %d errors", result.WarningCount, result.ErrorCount)
	}

	wantCounts := map[Kind]int{
		KindTerminatedEarly: 1,
		KindNextCourse:      1,
		KindMissingNumeric:  2,
		KindOther:           1,
	}
	if !reflect.DeepEqual(result.Counts, wantCounts) {
		t.Errorf("Counts = %v, want %v", result.Counts, wantCounts)
	}
	if !reflect.DeepEqual(result.AffectedCourses, []string{"PHYS 201", "BIOL 120"}) {
		t.Errorf("AffectedCourses = %v", result.AffectedCourses)
	}
	for i, issue := range result.Issues {
		if issue.Index != i || issue.Severity != SeverityWarning {
			t.Errorf("issue %d = %+v", i, issue)
		}
	}
}

func TestAudit_TreatWarningsAsErrors(t *testing.T) {
	result := Audit(sampleWarnings[:1], Options{TreatWarningsAsErrors: true})

	if result.IsValid {
		t.Error("IsValid = true, want false when warnings are errors")
	}
	if result.ErrorCount != 1 || result.Issues[0].Severity != SeverityError {
		t.Errorf("ErrorCount = %d, severity = %q", result.ErrorCount, result.Issues[0].Severity)
	}
}

func TestAudit_Clean(t *testing.T) {
	result := Audit(nil, Options{TreatWarningsAsErrors: true})

	if !result.IsClean || !result.IsValid {
		t.Errorf("clean audit = %+v", result)
	}
	if len(result.Counts) != len(AllKinds()) {
		t.Errorf("Counts = %v, want every kind present", result.Counts)
	}
	if got := FormatIssues(result.Issues); got != "No parser warnings." {
		t.Errorf("FormatIssues = %q", got)
	}
}

func TestWriteWarningLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "warnings.log")
	result := Audit(sampleWarnings, Options{})

	if err := WriteWarningLog(result, "jane.pdf", path); err != nil {
		t.Fatalf("WriteWarningLog: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	for _, want := range []string{
		"Source:    jane.pdf",
		"missing_numeric    2",
		"PHYS 201, BIOL 120",
		"1. [WARNING] Course PHYS 201: terminated early. (terminated_early)",
		"End of Warning Log",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %q:\n%s", want, out)
		}
	}
}
