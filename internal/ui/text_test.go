package ui

import (
	"os"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestFormatterWithColor(t *testing.T) {
	os.Unsetenv("NO_COLOR")
	color.NoColor = false

	result := Code.Sprint("deskvault id show")
	if strings.Contains(result, "`") {
		t.Errorf("Code.Sprint should not contain backticks when color is enabled, got: %s", result)
	}
	if !strings.Contains(result, "\x1b[") {
		t.Errorf("Code.Sprint should contain ANSI escape codes when color is enabled, got: %s", result)
	}
}

func TestFormatterWithNoColor(t *testing.T) {
	os.Setenv("NO_COLOR", "1")
	defer os.Unsetenv("NO_COLOR")

	tests := []struct {
		name      string
		formatter Formatter
		input     string
		want      string
	}{
		{"Code adds backticks", Code, "deskvault id show", "`deskvault id show`"},
		{"Path has no decoration", Path, "DeskVault2.toml", "DeskVault2.toml"},
		{"Success has no decoration", Success, "✓", "✓"},
		{"Error has no decoration", Error, "✗", "✗"},
		{"Highlight adds quotes", Highlight, "1234567890", "'1234567890'"},
		{"Muted adds parentheses", Muted, "unreachable", "(unreachable)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.formatter.Sprint(tt.input)
			if got != tt.want {
				t.Errorf("%s.Sprint(%q) = %q, want %q", tt.name, tt.input, got, tt.want)
			}
		})
	}
}

func TestLatency(t *testing.T) {
	os.Setenv("NO_COLOR", "1")
	defer os.Unsetenv("NO_COLOR")

	tests := []struct {
		ms   int64
		want string
	}{
		{-1, "(unreachable)"},
		{0, "(unreachable)"},
		{42, "42ms"},
		{250, "250ms"},
		{900, "900ms"},
	}
	for _, tt := range tests {
		if got := Latency(tt.ms); got != tt.want {
			t.Errorf("Latency(%d) = %q, want %q", tt.ms, got, tt.want)
		}
	}
}

func TestTrust(t *testing.T) {
	os.Setenv("NO_COLOR", "1")
	defer os.Unsetenv("NO_COLOR")

	if got := Trust(true); got != "✓ confirmed" {
		t.Errorf("Trust(true) = %q", got)
	}
	if got := Trust(false); got != "⚠ unconfirmed" {
		t.Errorf("Trust(false) = %q", got)
	}
}

func TestEnsureNewline(t *testing.T) {
	if got := EnsureNewline("x"); got != "x\n" {
		t.Errorf("EnsureNewline(x) = %q", got)
	}
	if got := EnsureNewline("x\n"); got != "x\n" {
		t.Errorf("EnsureNewline(x\\n) = %q", got)
	}
	if got := EnsureNewline(""); got != "\n" {
		t.Errorf("EnsureNewline(\"\") = %q", got)
	}
}
