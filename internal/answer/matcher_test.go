package answer

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Löwe", "lowe"},
		{"  LÖWE  ", "lowe"},
		{"Crème brûlée", "creme brulee"},
		{"Straße", "strasse"},
		{"Jean-Luc   Picard!", "jean-luc picard"},
		{"R2-D2?", "r2-d2"},
		{"\t\n", ""},
		{"", ""},
	}

	for _, tc := range tests {
		got := Normalize(tc.in)
		if got != tc.want {
			t.Errorf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFingerprint(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Wikipedia", "3412"},
		{"Müller", "657"},
		{"Mueller", "657"},
		{"Meier", "67"},
		{"Mayer", "67"},
		{"Müller-Lüdenscheidt", "657 52682"},
		{"Philipp", "351"},
		{"Christian", "47826"},
		{"Xaver", "4837"},
		{"1999", "1999"},
		{"h", ""},
		{"", ""},
	}

	for _, tc := range tests {
		got := Fingerprint(tc.in)
		if got != tc.want {
			t.Errorf("Fingerprint(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestIsCorrect(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		alts     []string
		want     bool
	}{
		{"exact", "Löwe", "Löwe", nil, true},
		{"accent stripped", "Löwe", "Lowe", nil, true},
		{"padded lowercase", " löwe ", "Löwe", nil, true},
		{"empty input", "", "Löwe", nil, false},
		{"whitespace input", "   ", "Löwe", nil, false},
		{"phonetic variant", "Maier", "Meyer", nil, true},
		{"phonetic umlaut spelling", "Mueller", "Müller", nil, true},
		{"wrong answer", "Tiger", "Löwe", nil, false},
		{"alternative exact", "Leu", "Löwe", []string{"Leu"}, true},
		{"alternative phonetic", "Filip", "Löwe", []string{"Philipp"}, true},
		{"no alternative matches", "Katze", "Löwe", []string{"Leu"}, false},
		{"numbers differ", "1999", "2000", nil, false},
		{"numbers equal", " 1999 ", "1999", nil, true},
		{"empty expected", "anything", "", nil, false},
		{"punctuation only input", "?!", "Löwe", nil, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := IsCorrect(tc.input, tc.expected, tc.alts...)
			if got != tc.want {
				t.Errorf("IsCorrect(%q, %q, %v) = %v, want %v", tc.input, tc.expected, tc.alts, got, tc.want)
			}
		})
	}
}

func TestContains(t *testing.T) {
	if !Contains("I think it is a TIGER", "tiger") {
		t.Error("expected case-insensitive substring match")
	}
	if !Contains("große Katze", "grosse") {
		t.Error("expected accent/ß-insensitive substring match")
	}
	if Contains("tiger", "  ") {
		t.Error("empty needle must not match")
	}
	if Contains("lion", "tiger") {
		t.Error("unexpected match")
	}
}
