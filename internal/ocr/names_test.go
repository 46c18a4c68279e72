package ocr

import (
	"testing"
)

func TestCleanZoneName(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
		ok   bool
	}{
		{
			name: "headline before price",
			raw:  "FRESH PRODUCE\n$2.99 lb",
			want: "FRESH PRODUCE",
			ok:   true,
		},
		{
			name: "noise stripped",
			raw:  "SALE\x0c\x07 50% OFF",
			want: "SALE 50% OFF",
			ok:   true,
		},
		{
			name: "whitespace collapsed",
			raw:  "  Deli\t\tMeats  ",
			want: "Deli Meats",
			ok:   true,
		},
		{
			name: "short first line skipped",
			raw:  "ab\nBakery Items",
			want: "Bakery Items",
			ok:   true,
		},
		{
			name: "punctuation only",
			raw:  "@@##!!",
			want: "",
			ok:   false,
		},
		{
			name: "empty input",
			raw:  "",
			want: "",
			ok:   false,
		},
		{
			name: "blank lines only",
			raw:  "\n\n",
			want: "",
			ok:   false,
		},
		{
			name: "accented letters kept",
			raw:  "Crème Brûlée",
			want: "Crème Brûlée",
			ok:   true,
		},
		{
			name: "long name cut at word boundary",
			raw:  "Garden Furniture Super Sale Extended Weekend Special",
			want: "Garden Furniture Super Sale Extended",
			ok:   true,
		},
		{
			name: "ampersand and apostrophe kept",
			raw:  "Ben & Jerry's",
			want: "Ben & Jerry's",
			ok:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CleanZoneName(tt.raw)
			if got != tt.want || ok != tt.ok {
				t.Errorf("CleanZoneName(%q) = (%q, %v), want (%q, %v)",
					tt.raw, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestTruncateAtWordHardCut(t *testing.T) {
	long := "Supercalifragilisticexpialidociousandthensomemoretext"
	got := truncateAtWord(long, 10)
	if got != "Supercalif" {
		t.Errorf("truncateAtWord() = %q, want %q", got, "Supercalif")
	}
}
