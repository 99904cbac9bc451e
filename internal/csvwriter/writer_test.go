package csvwriter

import (
	"bytes"
	"encoding/csv"
	"os"
	"strings"
	"testing"

	"github.com/ginjaninja78/transcript-parser/internal/transcript"
	"github.com/ginjaninja78/transcript-parser/internal/types"
)

func loadSample(t *testing.T) *types.TranscriptDocument {
	t.Helper()
	data, err := os.ReadFile("../../testdata/sample_transcript.txt")
	if err != nil {
		t.Fatalf("read sample transcript: %v", err)
	}
	return transcript.Parse(string(data))
}

func readBack(t *testing.T, data string, comma rune) [][]string {
	t.Helper()
	r := csv.NewReader(strings.NewReader(data))
	r.Comma = comma
	records, err := r.ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	return records
}

func TestWriteCourses(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCourses(&buf, loadSample(t)); err != nil {
		t.Fatalf("WriteCourses: %v", err)
	}

	records := readBack(t, buf.String(), ',')
	if len(records) != 5 {
		t.Fatalf("got %d records, want header + 4", len(records))
	}
	if records[0][0] != "Student Name" {
		t.Errorf("header = %q", records[0])
	}
	if records[3][6] != "World History & Culture" || records[3][9] != "A-" {
		t.Errorf("HIST row = %q", records[3])
	}
	if records[4][5] != "PHYS 201" || records[4][7] != "" {
		t.Errorf("truncated row = %q", records[4])
	}
}

func TestWriteCoursesWithOptions(t *testing.T) {
	var buf bytes.Buffer
	opts := Options{Delimiter: ';', IncludeHeader: false, UseCRLF: true}
	if err := WriteCoursesWithOptions(&buf, loadSample(t), opts); err != nil {
		t.Fatalf("WriteCoursesWithOptions: %v", err)
	}

	if !strings.Contains(buf.String(), "\r\n") {
		t.Error("rows not CRLF terminated")
	}
	records := readBack(t, buf.String(), ';')
	if len(records) != 4 || records[0][5] != "CHEM 101" {
		t.Errorf("records = %q", records)
	}
}

func TestWriteTotals(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteTotals(&buf, loadSample(t), DefaultOptions()); err != nil {
		t.Fatalf("WriteTotals: %v", err)
	}

	records := readBack(t, buf.String(), ',')
	if len(records) != 7 {
		t.Fatalf("got %d records, want header + 3 term + 3 career", len(records))
	}
	if records[4][0] != "Career" || records[4][1] != "cumulative" {
		t.Errorf("first career row = %q", records[4])
	}
}
