// =============================================================================
// Transcript Parser - CSV Writer Module
// =============================================================================
//
// Writes the flattened course rows (one line per course, with the student and
// term repeated) so transcripts can be loaded into databases or joined in a
// spreadsheet. Totals can be written the same way to a second file.
//
// FORMAT:
//   - RFC 4180 quoting via encoding/csv
//   - Header row first (optional)
//   - Missing values are empty fields; numbers use three decimals
//
// =============================================================================

package csvwriter

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/ginjaninja78/transcript-parser/internal/report"
	"github.com/ginjaninja78/transcript-parser/internal/types"
)

// Options contains settings for CSV output.
type Options struct {
	// Delimiter is the character used to separate fields.
	// Default: ','
	Delimiter rune

	// IncludeHeader writes the column names as the first row.
	// Default: true
	IncludeHeader bool

	// UseCRLF terminates rows with \r\n.
	// Default: false
	UseCRLF bool
}

// DefaultOptions returns the default CSV options.
func DefaultOptions() Options {
	return Options{Delimiter: ',', IncludeHeader: true}
}

// WriteCourses writes one row per course with the default options.
func WriteCourses(w io.Writer, doc *types.TranscriptDocument) error {
	return WriteCoursesWithOptions(w, doc, DefaultOptions())
}

// WriteCoursesWithOptions writes one row per course.
func WriteCoursesWithOptions(w io.Writer, doc *types.TranscriptDocument, options Options) error {
	rows := report.CourseRows(doc)

	records := make([][]string, len(rows))
	for i, r := range rows {
		records[i] = r.Values()
	}

	return write(w, report.CourseHeaders(), records, options)
}

// WriteTotals writes term totals followed by career totals.
func WriteTotals(w io.Writer, doc *types.TranscriptDocument, options Options) error {
	rows := append(report.TermTotalsRows(doc), report.CareerTotalsRows(doc)...)

	records := make([][]string, len(rows))
	for i, r := range rows {
		records[i] = r.Values()
	}

	return write(w, report.TotalsHeaders(), records, options)
}

func write(w io.Writer, headers []string, records [][]string, options Options) error {
	writer := csv.NewWriter(w)
	if options.Delimiter != 0 {
		writer.Comma = options.Delimiter
	}
	writer.UseCRLF = options.UseCRLF

	if options.IncludeHeader {
		if err := writer.Write(headers); err != nil {
			return fmt.Errorf("failed to write CSV header: %w", err)
		}
	}

	if err := writer.WriteAll(records); err != nil {
		return fmt.Errorf("failed to write CSV rows: %w", err)
	}

	return nil
}
