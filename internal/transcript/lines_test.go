package transcript

import (
	"reflect"
	"testing"
)

func TestNormalizeLines(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{
			name: "empty input",
			raw:  "",
			want: []string{},
		},
		{
			name: "whitespace only",
			raw:  "  \n\t\r\n   \r",
			want: []string{},
		},
		{
			name: "unix line endings",
			raw:  "Fall 2021\nCHEM 101 General Chemistry",
			want: []string{"Fall 2021", "CHEM 101 General Chemistry"},
		},
		{
			name: "windows line endings",
			raw:  "Fall 2021\r\nCHEM 101 General Chemistry\r\n",
			want: []string{"Fall 2021", "CHEM 101 General Chemistry"},
		},
		{
			name: "classic mac line endings",
			raw:  "Fall 2021\rCHEM 101 General Chemistry\r",
			want: []string{"Fall 2021", "CHEM 101 General Chemistry"},
		},
		{
			name: "collapses interior runs and strips edges",
			raw:  "   CHEM    101\tGeneral \t Chemistry   4.000  ",
			want: []string{"CHEM 101 General Chemistry 4.000"},
		},
		{
			name: "drops blank lines between content",
			raw:  "Name: Jane Doe\n\n\n   \nStudent ID: 1234567",
			want: []string{"Name: Jane Doe", "Student ID: 1234567"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeLines(tt.raw)
			if got == nil {
				t.Fatal("NormalizeLines returned nil, want non-nil slice")
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NormalizeLines(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestNormalizeLines_WhitespaceVariationsAreInvisible(t *testing.T) {
	base := "Name: Jane Doe\nFall 2021\nCHEM 101 General Chemistry 4.000 4.000 A 16.000"

	variants := []string{
		base,
		"\n\nName:   Jane Doe\r\n\r\nFall 2021\rCHEM 101  General   Chemistry 4.000 4.000 A 16.000\n\n",
		"  Name: Jane\tDoe  \r\r\rFall    2021\r\n\t\tCHEM 101 General Chemistry 4.000 4.000 A 16.000",
	}

	want := NormalizeLines(base)
	for i, v := range variants {
		if got := NormalizeLines(v); !reflect.DeepEqual(got, want) {
			t.Errorf("variant %d: got %q, want %q", i, got, want)
		}
	}
}
