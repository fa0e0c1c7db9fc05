package shared

import (
	"testing"
	"time"
)

func TestNormalizeTitle(t *testing.T) {
	tc := []struct {
		name  string
		title string
		want  string
	}{
		{
			name:  "basic normalization",
			title: "Song Title",
			want:  "song title",
		},
		{
			name:  "extra whitespace",
			title: "  Song   Title  ",
			want:  "song title",
		},
		{
			name:  "mixed case",
			title: "SoNg TiTlE",
			want:  "song title",
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeTitle(tt.title)
			if got != tt.want {
				t.Errorf("NormalizeTitle() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTitlesEqual(t *testing.T) {
	tc := []struct {
		name string
		a, b string
		want bool
	}{
		{name: "same title different case", a: "Bohemian Rhapsody", b: "bohemian rhapsody", want: true},
		{name: "whitespace differences", a: " Bohemian  Rhapsody", b: "Bohemian Rhapsody ", want: true},
		{name: "different titles", a: "Bohemian Rhapsody", b: "Bohemian Rhapsody (Live)", want: false},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := TitlesEqual(tt.a, tt.b); got != tt.want {
				t.Errorf("TitlesEqual(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestFormatElapsed(t *testing.T) {
	tc := []struct {
		name string
		d    time.Duration
		want string
	}{
		{name: "seconds only", d: 42 * time.Second, want: "42 sec."},
		{name: "minutes and seconds", d: 2*time.Minute + 5*time.Second, want: "2 min. 5 sec."},
		{name: "zero", d: 0, want: "0 sec."},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatElapsed(tt.d); got != tt.want {
				t.Errorf("FormatElapsed(%v) = %q, want %q", tt.d, got, tt.want)
			}
		})
	}
}

func TestTimestamp(t *testing.T) {
	ts := Timestamp()
	if len(ts) != 12 {
		t.Errorf("Timestamp() = %q, want 12 digits (yymmddhhmmss)", ts)
	}
	if _, err := time.ParseInLocation("060102150405", ts, time.Local); err != nil {
		t.Errorf("Timestamp() = %q is not parseable: %v", ts, err)
	}
}

func TestGenerateID(t *testing.T) {
	a, b := GenerateID(), GenerateID()
	if a == b {
		t.Error("GenerateID() should produce unique values")
	}
	if len(a) != 36 {
		t.Errorf("GenerateID() = %q, want UUID format", a)
	}
}
