package transcript

import (
	"reflect"
	"strings"
	"testing"

	"github.com/ginjaninja78/transcript-parser/internal/types"
	"github.com/rs/zerolog"
)

func testLogger(t *testing.T) zerolog.Logger {
	return zerolog.New(zerolog.NewTestWriter(t)).Level(zerolog.DebugLevel)
}

const sampleTranscript = `University of Example
Unofficial Transcript
Name: Jane Doe
Student ID: 1234567
Print Date: 05/10/2023
Beginning of Undergraduate Record
Fall 2021
Program: College of Arts and Sciences
Plan: Chemistry Major
Course Description Attempted Earned Grade Points
CHEM 101 General Chemistry 4.000 4.000 A 16.000
MATH 250 Intro to Differential
Equations and Linear Algebra
4.000 4.000 B+ 13.200
Attempted Earned GPA Units Points
Term GPA 3.650 Term Totals 8.000 8.000 8.000 29.200
Cum GPA 3.650 Cum Totals 8.000 8.000 8.000 29.200
Page 1 of 2
Spring 2022
Plan: Chemistry Major
Program: College of Arts and Sciences
Course Description Attempted Earned Grade Points
HIST 110 World History 3.000 3.000 A- 11.100
PHYS 201 Mechanics
Attempted Earned GPA Units Points
Term GPA 3.700 Term Totals 3.000 3.000 3.000 11.100
Undergraduate Career Totals
Cum GPA 3.660 Cum Totals 11.000 11.000 11.000 40.300
Transfer Cum GPA 0.000 Transfer Totals 6.000 6.000 0.000 0.000
Combined Cum GPA 3.660 Comb Totals 17.000 17.000 11.000 40.300
End of Undergraduate Record
Term GPA 9.999 Term Totals 1.000 1.000 1.000 1.000`

func TestParse_SampleTranscript(t *testing.T) {
	doc := Parse(sampleTranscript)

	// Student header
	if got := types.StringValue(doc.Student.Name); got != "Jane Doe" {
		t.Errorf("student name = %q, want %q", got, "Jane Doe")
	}
	if got := types.StringValue(doc.Student.StudentID); got != "1234567" {
		t.Errorf("student id = %q, want %q", got, "1234567")
	}
	if got := types.StringValue(doc.Student.PrintDate); got != "05/10/2023" {
		t.Errorf("print date = %q, want %q", got, "05/10/2023")
	}

	if len(doc.Terms) != 2 {
		t.Fatalf("got %d terms, want 2", len(doc.Terms))
	}

	// Fall 2021
	fall := doc.Terms[0]
	if fall.Label != "Fall 2021" {
		t.Errorf("term 0 label = %q", fall.Label)
	}
	if types.StringValue(fall.Program) != "College of Arts and Sciences" {
		t.Errorf("term 0 program = %q", types.StringValue(fall.Program))
	}
	if types.StringValue(fall.Plan) != "Chemistry Major" {
		t.Errorf("term 0 plan = %q", types.StringValue(fall.Plan))
	}
	if len(fall.Courses) != 2 {
		t.Fatalf("term 0 has %d courses, want 2", len(fall.Courses))
	}
	assertCourse(t, fall.Courses[0], types.Course{
		Code: "CHEM 101", Title: "General Chemistry",
		AttemptedUnits: floatPtr(4), EarnedUnits: floatPtr(4), Grade: strPtr("A"), Points: floatPtr(16),
	})
	assertCourse(t, fall.Courses[1], types.Course{
		Code: "MATH 250", Title: "Intro to Differential Equations and Linear Algebra",
		AttemptedUnits: floatPtr(4), EarnedUnits: floatPtr(4), Grade: strPtr("B+"), Points: floatPtr(13.2),
	})
	if len(fall.Totals) != 2 {
		t.Errorf("term 0 has %d totals, want 2", len(fall.Totals))
	}
	if rec := fall.Totals[types.TotalsCumulative]; rec.Points != 29.2 {
		t.Errorf("term 0 cumulative points = %v, want 29.2", rec.Points)
	}

	// Spring 2022: program/plan in reverse order, truncated course.
	spring := doc.Terms[1]
	if types.StringValue(spring.Program) != "College of Arts and Sciences" ||
		types.StringValue(spring.Plan) != "Chemistry Major" {
		t.Errorf("term 1 program/plan = %q/%q", types.StringValue(spring.Program), types.StringValue(spring.Plan))
	}
	if len(spring.Courses) != 2 {
		t.Fatalf("term 1 has %d courses, want 2", len(spring.Courses))
	}
	assertCourse(t, spring.Courses[1], types.Course{Code: "PHYS 201", Title: "Mechanics"})
	if rec, ok := spring.Totals[types.TotalsTerm]; !ok || deref(rec.GPA) != 3.7 {
		t.Errorf("term 1 term totals = %+v, %v", rec, ok)
	}

	// Career totals stop at "End of".
	if len(doc.CareerTotals) != 3 {
		t.Errorf("got %d career totals, want 3: %+v", len(doc.CareerTotals), doc.CareerTotals)
	}
	if _, ok := doc.CareerTotals[types.TotalsTerm]; ok {
		t.Error("line after End of record must not be parsed")
	}
	if rec := doc.CareerTotals[types.TotalsCombinedCumulative]; rec.Attempted != 17 {
		t.Errorf("combined cumulative attempted = %v, want 17", rec.Attempted)
	}

	wantWarnings := []string{
		"Course PHYS 201: terminated early.",
		"Course PHYS 201: missing numeric data.",
	}
	if !reflect.DeepEqual(doc.Raw.Warnings, wantWarnings) {
		t.Errorf("warnings = %q, want %q", doc.Raw.Warnings, wantWarnings)
	}
}

func TestParse_Idempotent(t *testing.T) {
	first := Parse(sampleTranscript)
	second := Parse(sampleTranscript)

	if !reflect.DeepEqual(first, second) {
		t.Error("parsing the same input twice produced different documents")
	}
}

func TestParse_LineEndingsDoNotMatter(t *testing.T) {
	crlf := strings.ReplaceAll(sampleTranscript, "\n", "\r\n")
	cr := strings.ReplaceAll(sampleTranscript, "\n", "\r")
	spaced := strings.ReplaceAll(sampleTranscript, " ", "   ")

	want := Parse(sampleTranscript)
	for name, input := range map[string]string{"crlf": crlf, "cr": cr, "spaced": spaced} {
		if got := Parse(input); !reflect.DeepEqual(got, want) {
			t.Errorf("%s: document differs from the \\n version", name)
		}
	}
}

func TestParse_EmptyInput(t *testing.T) {
	doc := Parse("")

	if doc.Student.Name != nil || doc.Student.StudentID != nil || doc.Student.PrintDate != nil {
		t.Errorf("student = %+v, want all nil", doc.Student)
	}
	if doc.Terms == nil || len(doc.Terms) != 0 {
		t.Errorf("terms = %#v, want empty non-nil", doc.Terms)
	}
	if doc.CareerTotals == nil || len(doc.CareerTotals) != 0 {
		t.Errorf("career totals = %#v, want empty non-nil", doc.CareerTotals)
	}
	if doc.Raw.Warnings == nil || len(doc.Raw.Warnings) != 0 {
		t.Errorf("warnings = %#v, want empty non-nil", doc.Raw.Warnings)
	}
}

func TestParse_HeaderFieldsAnyOrderWithoutMarker(t *testing.T) {
	raw := "Print Date: 01/02/2024\nSome banner\nStudent ID: 42\nName:   Alex   Smith\nFall 2023"

	doc := Parse(raw)

	if types.StringValue(doc.Student.Name) != "Alex Smith" {
		t.Errorf("name = %q", types.StringValue(doc.Student.Name))
	}
	if types.StringValue(doc.Student.StudentID) != "42" {
		t.Errorf("student id = %q", types.StringValue(doc.Student.StudentID))
	}
	if types.StringValue(doc.Student.PrintDate) != "01/02/2024" {
		t.Errorf("print date = %q", types.StringValue(doc.Student.PrintDate))
	}
	if len(doc.Terms) != 1 || doc.Terms[0].Label != "Fall 2023" {
		t.Errorf("terms = %+v, want one Fall 2023 term", doc.Terms)
	}
}

func TestParse_MalformedHeaderFieldsIgnored(t *testing.T) {
	raw := "Student ID: A12345\nPrint Date: 2023-05-10\nFall 2023"

	doc := Parse(raw)

	if doc.Student.StudentID != nil {
		t.Errorf("student id = %q, want nil for non-digit id", *doc.Student.StudentID)
	}
	if doc.Student.PrintDate != nil {
		t.Errorf("print date = %q, want nil for non MM/DD/YYYY date", *doc.Student.PrintDate)
	}
}

func TestParse_HeaderStopsAtFirstTerm(t *testing.T) {
	raw := "Fall 2023\nName: Not The Student"

	doc := Parse(raw)

	if doc.Student.Name != nil {
		t.Errorf("name = %q, want nil (name line is after the first term)", *doc.Student.Name)
	}
}

func TestParse_TotalsOverwriteWithinTerm(t *testing.T) {
	raw := strings.Join([]string{
		"Fall 2021",
		"Course Description Attempted Earned Grade Points",
		"CHEM 101 General Chemistry 4.000 4.000 A 16.000",
		"Attempted Earned GPA Units Points",
		"Term GPA 1.000 Term Totals 1.000 1.000 1.000 1.000",
		"Attempted Earned GPA Units Points",
		"Term GPA 4.000 Term Totals 4.000 4.000 4.000 16.000",
	}, "\n")

	doc := Parse(raw)

	if len(doc.Terms) != 1 {
		t.Fatalf("got %d terms, want 1", len(doc.Terms))
	}
	totals := doc.Terms[0].Totals
	if len(totals) != 1 {
		t.Fatalf("got %d totals, want 1", len(totals))
	}
	rec := totals[types.TotalsTerm]
	if deref(rec.GPA) != 4.0 || rec.Points != 16 {
		t.Errorf("term totals = %+v, want the later line's values", rec)
	}
	if !strings.Contains(rec.RawLine, "16.000") {
		t.Errorf("raw line = %q, want the later line", rec.RawLine)
	}
}

func TestParse_TermWithoutCourseTable(t *testing.T) {
	raw := strings.Join([]string{
		"Fall 2021",
		"Program: Non-Degree",
		"Transfer credit posted",
		"Spring 2022",
		"Course Description Attempted Earned Grade Points",
		"CHEM 101 General Chemistry 4.000 4.000 A 16.000",
		"Undergraduate Career Totals",
		"Cum GPA 4.000 Cum Totals 4.000 4.000 4.000 16.000",
	}, "\n")

	doc := Parse(raw)

	if len(doc.Terms) != 2 {
		t.Fatalf("got %d terms, want 2", len(doc.Terms))
	}
	if len(doc.Terms[0].Courses) != 0 {
		t.Errorf("term 0 courses = %+v, want none", doc.Terms[0].Courses)
	}
	if types.StringValue(doc.Terms[0].Program) != "Non-Degree" {
		t.Errorf("term 0 program = %q", types.StringValue(doc.Terms[0].Program))
	}
	if len(doc.Terms[1].Courses) != 1 {
		t.Errorf("term 1 courses = %d, want 1", len(doc.Terms[1].Courses))
	}
	if _, ok := doc.CareerTotals[types.TotalsCumulative]; !ok {
		t.Error("career cumulative totals missing")
	}
}

func TestParse_NextCourseBeforeNumericLine(t *testing.T) {
	raw := strings.Join([]string{
		"Fall 2021",
		"Course Description Attempted Earned Grade Points",
		"BIOL 120 Cell Biology",
		"BIOL 121 Cell Biology Lab 1.000 1.000 A 4.000",
	}, "\n")

	doc := Parse(raw)

	courses := doc.Terms[0].Courses
	if len(courses) != 2 {
		t.Fatalf("got %d courses, want 2", len(courses))
	}
	if courses[0].AttemptedUnits != nil || courses[0].EarnedUnits != nil ||
		courses[0].Grade != nil || courses[0].Points != nil {
		t.Errorf("first course numeric fields = %+v, want all nil", courses[0])
	}
	if n := countContaining(doc.Raw.Warnings, "next course before numeric line"); n != 1 {
		t.Errorf("got %d next-course warnings, want 1: %q", n, doc.Raw.Warnings)
	}
}

func TestParse_UnrecognizedTotalsLinesDropped(t *testing.T) {
	raw := strings.Join([]string{
		"Fall 2021",
		"Course Description Attempted Earned Grade Points",
		"Attempted Earned GPA Units Points",
		"Honors GPA 4.000 Honors Totals 1.000 1.000 1.000 4.000",
		"Term GPA 4.000 Term Totals 1.000 1.000 1.000 4.000",
	}, "\n")

	doc := Parse(raw)

	totals := doc.Terms[0].Totals
	if len(totals) != 1 {
		t.Errorf("totals = %+v, want only the term record", totals)
	}
	if len(doc.Raw.Warnings) != 0 {
		t.Errorf("warnings = %q, want none for dropped totals lines", doc.Raw.Warnings)
	}
}

func TestParse_TerminatesOnEveryTruncation(t *testing.T) {
	lines := NormalizeLines(sampleTranscript)

	// Every prefix of the document is a truncated transcript: mid-header,
	// mid-course, mid-totals-block. Each must parse without hanging and
	// never report more courses than course-code lines seen.
	for n := 0; n <= len(lines); n++ {
		prefix := lines[:n]
		doc := ParseLines(prefix)

		codeLines := 0
		for _, l := range prefix {
			if IsCourseCodeLine(l) {
				codeLines++
			}
		}
		if got := doc.CourseCount(); got > codeLines {
			t.Errorf("prefix %d: %d courses from %d code lines", n, got, codeLines)
		}
	}
}

func TestScanner_ParseMatchesPackageParse(t *testing.T) {
	s := NewScanner(testLogger(t))

	if !reflect.DeepEqual(s.Parse(sampleTranscript), Parse(sampleTranscript)) {
		t.Error("Scanner.Parse and Parse disagree")
	}
}
