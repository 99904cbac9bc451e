// =============================================================================
// Transcript Parser - Line Normalizer
// =============================================================================
//
// Text pulled out of page-based documents carries irregular spacing and blank
// lines that are layout artifacts, not structure. Everything downstream works
// on the cleaned sequence produced here.
//
// NORMALIZATION RULES:
//   1. "\r\n" and bare "\r" are treated as "\n"
//   2. Leading and trailing whitespace is stripped from each line
//   3. Interior whitespace runs collapse to a single space
//   4. Lines that end up empty are dropped
//
// =============================================================================

package transcript

import (
	"strings"
)

// lineEndings rewrites both carriage-return conventions to "\n".
// "\r\n" must be listed first so it is not split into two breaks.
var lineEndings = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// NormalizeLines converts raw extracted text into the ordered sequence of
// non-empty, whitespace-collapsed lines the scanner walks.
//
// An empty or whitespace-only input produces an empty, non-nil slice.
func NormalizeLines(raw string) []string {
	rawLines := strings.Split(lineEndings.Replace(raw), "\n")

	lines := make([]string, 0, len(rawLines))
	for _, line := range rawLines {
		// strings.Fields both trims and splits on any whitespace run.
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		lines = append(lines, strings.Join(fields, " "))
	}

	return lines
}
