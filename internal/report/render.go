// =============================================================================
// Transcript Parser - Terminal Rendering
// =============================================================================
//
// Renders the document projections as aligned text tables for the `show`
// command. Styling comes from lipgloss through a renderer bound to the
// destination writer, so colors are emitted only when the writer is a
// terminal; files and pipes get plain text.
//
// VIEWS:
//   summary   student header and counts
//   courses   CourseRows
//   terms     TermTotalsRows
//   career    CareerTotalsRows
//   warnings  the parser warnings, numbered
//
// =============================================================================

package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/ginjaninja78/transcript-parser/internal/types"
)

// View selects one section of the rendered output.
type View string

const (
	ViewSummary  View = "summary"
	ViewCourses  View = "courses"
	ViewTerms    View = "terms"
	ViewCareer   View = "career"
	ViewWarnings View = "warnings"
)

// AllViews returns every view in rendering order.
func AllViews() []View {
	return []View{ViewSummary, ViewCourses, ViewTerms, ViewCareer, ViewWarnings}
}

// ParseView validates a view name.
func ParseView(s string) (View, error) {
	for _, v := range AllViews() {
		if string(v) == strings.ToLower(s) {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown view %q", s)
}

// Colors
var (
	colorPrimary = lipgloss.Color("#7C3AED")
	colorAccent  = lipgloss.Color("#F59E0B")
	colorMuted   = lipgloss.Color("#6B7280")
)

// styles is the set of styles bound to one output renderer.
type styles struct {
	title  lipgloss.Style
	header lipgloss.Style
	cell   lipgloss.Style
	muted  lipgloss.Style
	warn   lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		title:  r.NewStyle().Bold(true).Foreground(colorPrimary),
		header: r.NewStyle().Bold(true).Underline(true),
		cell:   r.NewStyle(),
		muted:  r.NewStyle().Foreground(colorMuted).Italic(true),
		warn:   r.NewStyle().Foreground(colorAccent),
	}
}

// Render writes the requested views of doc to w. An empty views list
// renders every view.
func Render(w io.Writer, doc *types.TranscriptDocument, views []View) error {
	if len(views) == 0 {
		views = AllViews()
	}

	st := newStyles(lipgloss.NewRenderer(w))
	var sections []string

	for _, v := range views {
		switch v {
		case ViewSummary:
			sections = append(sections, renderSummary(st, doc))
		case ViewCourses:
			sections = append(sections, renderCourses(st, doc))
		case ViewTerms:
			sections = append(sections, renderTotals(st, "Term Totals", TermTotalsRows(doc)))
		case ViewCareer:
			sections = append(sections, renderTotals(st, "Career Totals", CareerTotalsRows(doc)))
		case ViewWarnings:
			sections = append(sections, renderWarnings(st, doc.Raw.Warnings))
		default:
			return fmt.Errorf("unknown view %q", v)
		}
	}

	_, err := io.WriteString(w, strings.Join(sections, "\n\n")+"\n")
	return err
}

func renderSummary(st styles, doc *types.TranscriptDocument) string {
	fields := [][]string{
		{"Name", orDash(doc.Student.Name)},
		{"Student ID", orDash(doc.Student.StudentID)},
		{"Print Date", orDash(doc.Student.PrintDate)},
		{"Terms", strconv.Itoa(len(doc.Terms))},
		{"Courses", strconv.Itoa(doc.CourseCount())},
		{"Warnings", strconv.Itoa(len(doc.Raw.Warnings))},
	}
	if rec, ok := doc.CareerTotals[types.TotalsCumulative]; ok && rec.GPA != nil {
		fields = append(fields, []string{"Cumulative GPA", FormatUnits(rec.GPA)})
	}

	return st.title.Render("Student") + "\n" + table(st, []string{"Field", "Value"}, fields)
}

func renderCourses(st styles, doc *types.TranscriptDocument) string {
	rows := CourseRows(doc)
	if len(rows) == 0 {
		return st.title.Render("Courses") + "\n" + st.muted.Render("no courses")
	}

	headers := []string{"Term", "Course", "Title", "Attempted", "Earned", "Grade", "Points"}
	cells := make([][]string, len(rows))
	for i, r := range rows {
		cells[i] = []string{
			r.Term, r.Code, r.Title,
			FormatUnits(r.Attempted), FormatUnits(r.Earned), r.Grade, FormatUnits(r.Points),
		}
	}

	return st.title.Render("Courses") + "\n" + table(st, headers, cells)
}

func renderTotals(st styles, title string, rows []TotalsRow) string {
	if len(rows) == 0 {
		return st.title.Render(title) + "\n" + st.muted.Render("no totals")
	}

	cells := make([][]string, len(rows))
	for i, r := range rows {
		cells[i] = r.Values()
	}

	return st.title.Render(title) + "\n" + table(st, TotalsHeaders(), cells)
}

func renderWarnings(st styles, warnings []string) string {
	if len(warnings) == 0 {
		return st.title.Render("Warnings") + "\n" + st.muted.Render("none")
	}

	lines := make([]string, len(warnings))
	for i, w := range warnings {
		lines[i] = st.warn.Render(fmt.Sprintf("%d. %s", i+1, w))
	}

	return st.title.Render("Warnings") + "\n" + strings.Join(lines, "\n")
}

// table aligns cells into columns sized to their widest entry.
func table(st styles, headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, c := range row {
			if w := lipgloss.Width(c); w > widths[i] {
				widths[i] = w
			}
		}
	}

	renderRow := func(style lipgloss.Style, row []string) string {
		parts := make([]string, len(row))
		for i, c := range row {
			s := style.Render(c)
			if pad := widths[i] - lipgloss.Width(c); pad > 0 && i < len(row)-1 {
				s += strings.Repeat(" ", pad)
			}
			parts[i] = s
		}
		return strings.TrimRight(strings.Join(parts, "  "), " ")
	}

	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, renderRow(st.header, headers))
	for _, row := range rows {
		lines = append(lines, renderRow(st.cell, row))
	}

	return strings.Join(lines, "\n")
}

func orDash(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}
