// =============================================================================
// Transcript Parser - Totals Extractor
// =============================================================================
//
// A totals line ends in exactly four decimal columns and starts with a label
// that names its kind:
//
//   Term GPA 3.450 Term Totals 15.000 15.000 15.000 51.750
//   └─label─┘ └gpa┘            attempted earned gpa_units points
//
// KIND RESOLUTION:
//   Labels are tested as line prefixes, most specific first, because some
//   labels are prefixes of others ("Combined GPA" vs "Combined Cum GPA"):
//     1. "Transfer Cum GPA"  -> transfer_cumulative
//     2. "Combined Cum GPA"  -> combined_cumulative
//     3. "Combined GPA"      -> combined
//     4. "Cum GPA"           -> cumulative
//     5. "Term GPA"          -> term
//   A line with the numeric tail but none of these labels is not a match and
//   is dropped silently.
//
// =============================================================================

package transcript

import (
	"regexp"
	"strings"

	"github.com/ginjaninja78/transcript-parser/internal/types"
)

var totalsTailPattern = regexp.MustCompile(
	`(\d+\.\d{3})\s+(\d+\.\d{3})\s+(\d+\.\d{3})\s+(\d+\.\d{3})$`,
)

var gpaPattern = regexp.MustCompile(`\bGPA\b[: ]+(\d+\.\d{3})`)

// totalsPrefixes is ordered most specific first.
var totalsPrefixes = []struct {
	prefix string
	kind   types.TotalsKind
}{
	{"Transfer Cum GPA", types.TotalsTransferCumulative},
	{"Combined Cum GPA", types.TotalsCombinedCumulative},
	{"Combined GPA", types.TotalsCombined},
	{"Cum GPA", types.TotalsCumulative},
	{"Term GPA", types.TotalsTerm},
}

// TotalsKindOf returns the kind named by the line's label prefix.
func TotalsKindOf(line string) (types.TotalsKind, bool) {
	for _, p := range totalsPrefixes {
		if strings.HasPrefix(line, p.prefix) {
			return p.kind, true
		}
	}
	return "", false
}

// ExtractTotals parses a single totals line. The boolean is false when the
// line lacks the four-column numeric tail or a recognized label.
func ExtractTotals(line string) (types.TotalsRecord, bool) {
	tail := totalsTailPattern.FindStringSubmatch(line)
	if tail == nil {
		return types.TotalsRecord{}, false
	}

	kind, ok := TotalsKindOf(line)
	if !ok {
		return types.TotalsRecord{}, false
	}

	record := types.TotalsRecord{
		Kind:      kind,
		Attempted: *parseUnits(tail[1]),
		Earned:    *parseUnits(tail[2]),
		GPAUnits:  *parseUnits(tail[3]),
		Points:    *parseUnits(tail[4]),
		RawLine:   line,
	}

	if gpa := gpaPattern.FindStringSubmatch(line); gpa != nil {
		record.GPA = parseUnits(gpa[1])
	}

	return record, true
}
