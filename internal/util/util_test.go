// internal/util/util_test.go
package util

import "testing"

func TestTruncateRunes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{name: "no truncation", in: "hello", max: 10, want: "hello"},
		{name: "ascii truncation", in: "helloworld", max: 5, want: "hello…"},
		{name: "multibyte truncation", in: "こんにちは世界", max: 4, want: "こんにち…"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := TruncateRunes(tt.in, tt.max); got != tt.want {
				t.Fatalf("TruncateRunes(%q,%d)=%q want %q", tt.in, tt.max, got, tt.want)
			}
		})
	}
}

func TestSingleLine(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"":                         "",
		"plain":                    "plain",
		"  padded  ":               "padded",
		"line one\nline two":       "line one line two",
		"tabs\tand\r\nbreaks \n\n": "tabs and breaks",
	}
	for in, want := range tests {
		if got := SingleLine(in); got != want {
			t.Fatalf("SingleLine(%q)=%q want %q", in, got, want)
		}
	}
}

func TestCell(t *testing.T) {
	t.Parallel()

	if got := Cell("dial tcp\n127.0.0.1:9: connection refused", 12); got != "dial tcp 127…" {
		t.Fatalf("unexpected cell: %q", got)
	}
	if got := Cell("short", 0); got != "…" {
		t.Fatalf("expected only an ellipsis for a zero width, got %q", got)
	}
}
