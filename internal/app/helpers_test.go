package app

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/joelklabo/scriptshelf/internal/config"
)

func captureStdoutStderr(t *testing.T, fn func() int) (code int, stdout string, stderr string) {
	t.Helper()

	oldOut := os.Stdout
	oldErr := os.Stderr

	outR, outW, err := os.Pipe()
	if err != nil {
		t.Fatalf("stdout pipe: %v", err)
	}
	errR, errW, err := os.Pipe()
	if err != nil {
		_ = outR.Close()
		_ = outW.Close()
		t.Fatalf("stderr pipe: %v", err)
	}

	os.Stdout = outW
	os.Stderr = errW

	// Drain concurrently so large outputs cannot block on a full pipe.
	outCh := make(chan []byte)
	errCh := make(chan []byte)
	go func() { b, _ := io.ReadAll(outR); outCh <- b }()
	go func() { b, _ := io.ReadAll(errR); errCh <- b }()

	code = fn()

	os.Stdout = oldOut
	os.Stderr = oldErr

	_ = outW.Close()
	_ = errW.Close()

	outB := <-outCh
	errB := <-errCh
	_ = outR.Close()
	_ = errR.Close()
	return code, string(outB), string(errB)
}

// withStdin feeds input to os.Stdin for the duration of the test.
func withStdin(t *testing.T, input string) {
	t.Helper()

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("stdin pipe: %v", err)
	}
	if _, err := io.WriteString(w, input); err != nil {
		t.Fatalf("write stdin: %v", err)
	}
	_ = w.Close()

	old := os.Stdin
	os.Stdin = r
	t.Cleanup(func() {
		os.Stdin = old
		_ = r.Close()
	})
}

// setupWorkspace runs the test from a fresh working directory with its own
// HOME and no scriptshelf environment overrides. It returns the directory.
func setupWorkspace(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	home := filepath.Join(dir, "home")
	mkdirAll(t, home)
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Setenv("NO_COLOR", "1")
	for _, k := range []string{config.EnvConfig, config.EnvDB, config.EnvLog, config.EnvScriptsDir} {
		t.Setenv(k, "")
	}
	prevWD, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(prevWD) })
	return dir
}

func mkdirAll(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", path, err)
	}
}

func writeFile(t *testing.T, path, content string, mode os.FileMode) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), mode); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(b)
}
