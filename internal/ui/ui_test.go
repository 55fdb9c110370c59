package ui

import (
	"os"
	"runtime"
	"strings"
	"testing"

	"github.com/creack/pty"
)

func TestShouldStyle_GatesOnTerminalAndEnv(t *testing.T) {
	if shouldStyle(nil) {
		t.Fatalf("expected shouldStyle(nil)=false")
	}

	f, err := os.CreateTemp(t.TempDir(), "out-*")
	if err != nil {
		t.Fatalf("CreateTemp: %v", err)
	}
	defer f.Close()

	if shouldStyle(f) {
		t.Fatalf("expected shouldStyle(non-tty)=false")
	}

	if runtime.GOOS == "windows" {
		t.Skip("no windows PTY support")
	}

	ptmx, tty, err := pty.Open()
	if err != nil {
		t.Fatalf("pty.Open: %v", err)
	}
	defer ptmx.Close()
	defer tty.Close()

	t.Setenv("NO_COLOR", "")
	t.Setenv("TERM", "xterm-256color")

	if !shouldStyle(tty) {
		t.Fatalf("expected shouldStyle(tty)=true")
	}

	t.Setenv("NO_COLOR", "1")
	if shouldStyle(tty) {
		t.Fatalf("expected shouldStyle(tty)=false when NO_COLOR is set")
	}

	t.Setenv("NO_COLOR", "")
	t.Setenv("TERM", "dumb")
	if shouldStyle(tty) {
		t.Fatalf("expected shouldStyle(tty)=false when TERM=dumb")
	}
}

func TestUI_EnabledOnTTYKeepsInput(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("no windows PTY support")
	}

	ptmx, tty, err := pty.Open()
	if err != nil {
		t.Fatalf("pty.Open: %v", err)
	}
	defer ptmx.Close()
	defer tty.Close()

	t.Setenv("NO_COLOR", "")
	t.Setenv("TERM", "xterm-256color")

	u := New(tty)
	if !u.Enabled() {
		t.Fatalf("expected UI to be enabled when output is a tty")
	}

	for name, fn := range map[string]func(string) string{
		"Bold": u.Bold, "Dim": u.Dim, "OK": u.OK, "Warn": u.Warn,
		"Error": u.Error, "Label": u.Label, "Heading": u.Heading,
	} {
		if out := fn("text"); !strings.Contains(out, "text") {
			t.Errorf("%s output did not contain input: %q", name, out)
		}
	}
}

func TestUI_DisabledReturnsPlainText(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "out-*")
	if err != nil {
		t.Fatalf("CreateTemp: %v", err)
	}
	defer f.Close()

	u := New(f)
	if u.Enabled() {
		t.Fatalf("expected UI disabled for a regular file")
	}
	for name, fn := range map[string]func(string) string{
		"Bold": u.Bold, "Dim": u.Dim, "OK": u.OK, "Warn": u.Warn,
		"Error": u.Error, "Label": u.Label, "Heading": u.Heading,
	} {
		if got := fn("text"); got != "text" {
			t.Errorf("%s()=%q, want plain text", name, got)
		}
	}
}

func TestPad(t *testing.T) {
	if got := Pad("ab", 5); got != "ab   " {
		t.Fatalf("Pad=%q", got)
	}
	if got := Pad("abcdef", 3); got != "abcdef" {
		t.Fatalf("Pad should not truncate, got %q", got)
	}
	styled := "\x1b[1mab\x1b[0m"
	if got := Pad(styled, 4); got != styled+"  " {
		t.Fatalf("Pad(styled)=%q", got)
	}
}

func TestIndent(t *testing.T) {
	if got := Indent("a\n\nb\n", "  "); got != "  a\n\n  b" {
		t.Fatalf("Indent=%q", got)
	}
}
