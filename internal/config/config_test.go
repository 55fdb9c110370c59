package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mitchellh/go-homedir"
)

// isolate runs the test from an empty working directory with no config
// related environment leaking in.
func isolate(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	home := filepath.Join(dir, "home")
	if err := os.MkdirAll(home, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	for _, k := range []string{EnvConfig, EnvDB, EnvLog, EnvScriptsDir} {
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

	homedir.DisableCache = true
	t.Cleanup(func() { homedir.DisableCache = false })
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DBPath != "scripts.db" {
		t.Errorf("DBPath=%q", cfg.DBPath)
	}
	if cfg.LogPath != filepath.Join("logs", "execution.log") {
		t.Errorf("LogPath=%q", cfg.LogPath)
	}
	if cfg.DefaultKind != "powershell" {
		t.Errorf("DefaultKind=%q", cfg.DefaultKind)
	}
	if cfg.Source != "" {
		t.Errorf("Source=%q, want empty", cfg.Source)
	}
	if kind, ok := cfg.KindForExt(".PS1"); !ok || kind != "powershell" {
		t.Errorf("KindForExt(.PS1)=%q,%v", kind, ok)
	}
	argv, err := cfg.Interpreters["sh"].Argv()
	if err != nil {
		t.Fatalf("Argv: %v", err)
	}
	if strings.Join(argv, " ") != "sh -c" {
		t.Errorf("sh argv=%v", argv)
	}
}

func TestLoad_TOMLFileMergesOverDefaults(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, "scriptshelf.toml"), `
db_path = "~/catalog/scripts.db"
default_kind = "zsh"
max_output_bytes = 4096

[interpreters.zsh]
command = "zsh -f -c"

[extensions]
zsh = "ZSH"
`)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	home := os.Getenv("HOME")
	if cfg.DBPath != filepath.Join(home, "catalog", "scripts.db") {
		t.Errorf("DBPath=%q, want expanded under %s", cfg.DBPath, home)
	}
	if cfg.Source != "scriptshelf.toml" {
		t.Errorf("Source=%q", cfg.Source)
	}
	if cfg.MaxOutputBytes != 4096 {
		t.Errorf("MaxOutputBytes=%d", cfg.MaxOutputBytes)
	}
	if _, ok := cfg.Interpreters["powershell"]; !ok {
		t.Errorf("file interpreters must merge with defaults")
	}
	argv, err := cfg.Interpreters["zsh"].Argv()
	if err != nil || strings.Join(argv, " ") != "zsh -f -c" {
		t.Errorf("zsh argv=%v err=%v", argv, err)
	}
	if kind, ok := cfg.KindForExt("zsh"); !ok || kind != "zsh" {
		t.Errorf("KindForExt(zsh)=%q,%v", kind, ok)
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.yaml")
	writeFile(t, path, `
log_path: audit/run.log
interpreters:
  powershell:
    command: powershell.exe
    args: ["-NoProfile", "-Command"]
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LogPath != "audit/run.log" {
		t.Errorf("LogPath=%q", cfg.LogPath)
	}
	argv, err := cfg.Interpreters["powershell"].Argv()
	if err != nil {
		t.Fatalf("Argv: %v", err)
	}
	if strings.Join(argv, " ") != "powershell.exe -NoProfile -Command" {
		t.Errorf("powershell argv=%v", argv)
	}
}

func TestLoad_EnvOverridesAndDotEnv(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, "scriptshelf.toml"), `db_path = "from-file.db"`)
	writeFile(t, filepath.Join(dir, ".env"), "SCRIPTSHELF_LOG=dotenv.log\n")
	t.Setenv(EnvDB, "from-env.db")
	// godotenv never overrides a variable that is already set, even to "".
	_ = os.Unsetenv(EnvLog)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DBPath != "from-env.db" {
		t.Errorf("DBPath=%q, want env override", cfg.DBPath)
	}
	if cfg.LogPath != "dotenv.log" {
		t.Errorf("LogPath=%q, want value from .env", cfg.LogPath)
	}
}

func TestLoad_ExplicitMissingFileFails(t *testing.T) {
	dir := isolate(t)
	if _, err := Load(filepath.Join(dir, "nope.toml")); err == nil {
		t.Fatalf("expected error for missing explicit config")
	}

	t.Setenv(EnvConfig, filepath.Join(dir, "also-missing.toml"))
	if _, err := Load(""); err == nil {
		t.Fatalf("expected error for missing $%s", EnvConfig)
	}
}

func TestLoad_InvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"bad toml", `db_path = `, "config"},
		{"unknown default kind", `default_kind = "fish"`, `default_kind "fish"`},
		{"negative cap", `max_output_bytes = -1`, "max_output_bytes"},
		{"bad interpreter", "[interpreters.x]\ncommand = \"sh '-c\"", "interpreters.x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := isolate(t)
			path := filepath.Join(dir, "scriptshelf.toml")
			writeFile(t, path, tt.content)

			_, err := Load("")
			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestEncode_RoundTripsThroughLoad(t *testing.T) {
	dir := isolate(t)

	b, err := Default().Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !strings.Contains(string(b), `db_path = "scripts.db"`) {
		t.Fatalf("encoded config missing db_path:\n%s", b)
	}
	writeFile(t, filepath.Join(dir, "scriptshelf.toml"), string(b))

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(encoded): %v", err)
	}
	if cfg.DefaultKind != "powershell" || len(cfg.Interpreters) != 3 {
		t.Fatalf("unexpected config after round trip: %#v", cfg)
	}
}

func TestInterpreterArgv_Empty(t *testing.T) {
	if _, err := (Interpreter{}).Argv(); err == nil {
		t.Fatalf("expected error for empty interpreter")
	}
}

func TestLoad_DefaultKindIsCaseInsensitive(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, "scriptshelf.toml"), `
default_kind = " PowerShell "

[interpreters.Bash]
command = "/bin/bash -c"
`)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DefaultKind != "powershell" {
		t.Errorf("DefaultKind=%q, want powershell", cfg.DefaultKind)
	}
	argv, err := cfg.Interpreters["bash"].Argv()
	if err != nil {
		t.Fatalf("Argv: %v", err)
	}
	if strings.Join(argv, " ") != "/bin/bash -c" {
		t.Errorf("bash argv=%v", argv)
	}
}

func TestInterpreterArgv_SplitsQuotedCommand(t *testing.T) {
	argv, err := (Interpreter{Command: `"/opt/power shell/pwsh" -NoProfile -Command`}).Argv()
	if err != nil {
		t.Fatalf("Argv: %v", err)
	}
	want := []string{"/opt/power shell/pwsh", "-NoProfile", "-Command"}
	if strings.Join(argv, "|") != strings.Join(want, "|") {
		t.Fatalf("Argv=%#v, want %#v", argv, want)
	}

	if _, err := (Interpreter{Command: `pwsh "-Command`}).Argv(); err == nil {
		t.Fatalf("expected error for unterminated quote")
	}
}
