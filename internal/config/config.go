package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"

	"github.com/joelklabo/scriptshelf/internal/execx"
)

const (
	EnvConfig     = "SCRIPTSHELF_CONFIG"
	EnvDB         = "SCRIPTSHELF_DB"
	EnvLog        = "SCRIPTSHELF_LOG"
	EnvScriptsDir = "SCRIPTSHELF_SCRIPTS_DIR"
)

// Candidate file names looked up in the working directory, in order.
var searchNames = []string{"scriptshelf.toml", "scriptshelf.yaml", "scriptshelf.yml"}

type Interpreter struct {
	// Command may hold the whole command line ("pwsh -NoProfile -Command")
	// when Args is empty.
	Command string   `toml:"command" yaml:"command"`
	Args    []string `toml:"args,omitempty" yaml:"args,omitempty"`
}

// Argv returns the interpreter command line; script content is appended to it
// as the final argument.
func (i Interpreter) Argv() ([]string, error) {
	if len(i.Args) > 0 {
		return append([]string{i.Command}, i.Args...), nil
	}
	argv, err := execx.ShellSplit(i.Command)
	if err != nil {
		return nil, fmt.Errorf("interpreter %q: %w", i.Command, err)
	}
	if len(argv) == 0 {
		return nil, errors.New("interpreter: empty command")
	}
	return argv, nil
}

type Config struct {
	DBPath         string                 `toml:"db_path" yaml:"db_path"`
	LogPath        string                 `toml:"log_path" yaml:"log_path"`
	ScriptsDir     string                 `toml:"scripts_dir" yaml:"scripts_dir"`
	DefaultKind    string                 `toml:"default_kind" yaml:"default_kind"`
	MaxOutputBytes int                    `toml:"max_output_bytes" yaml:"max_output_bytes"`
	Interpreters   map[string]Interpreter `toml:"interpreters" yaml:"interpreters"`
	// Extensions maps a file extension (".ps1") to a kind.
	Extensions map[string]string `toml:"extensions" yaml:"extensions"`

	// Source is the config file that was loaded, if any.
	Source string `toml:"-" yaml:"-"`
}

func Default() Config {
	pwsh := "pwsh"
	if runtime.GOOS == "windows" {
		pwsh = "powershell"
	}
	return Config{
		DBPath:      "scripts.db",
		LogPath:     filepath.Join("logs", "execution.log"),
		ScriptsDir:  "scripts",
		DefaultKind: "powershell",
		Interpreters: map[string]Interpreter{
			"powershell": {Command: pwsh, Args: []string{"-Command"}},
			"sh":         {Command: "sh", Args: []string{"-c"}},
			"bash":       {Command: "bash", Args: []string{"-c"}},
		},
		Extensions: map[string]string{
			".ps1":  "powershell",
			".sh":   "sh",
			".bash": "bash",
		},
	}
}

// Load builds the effective configuration: defaults, then the config file
// (explicit path, $SCRIPTSHELF_CONFIG, or the first scriptshelf.{toml,yaml,yml}
// in the working directory), then environment overrides. A .env file in the
// working directory is loaded first without overriding existing variables.
func Load(explicit string) (Config, error) {
	if err := godotenv.Load(); err != nil {
		_ = err // best-effort; .env is optional
	}

	cfg := Default()

	path := strings.TrimSpace(explicit)
	if path == "" {
		path = strings.TrimSpace(os.Getenv(EnvConfig))
	}
	mustExist := path != ""
	if path == "" {
		for _, name := range searchNames {
			if _, err := os.Stat(name); err == nil {
				path = name
				break
			}
		}
	}

	if path != "" {
		path = expand(path)
		b, err := os.ReadFile(path)
		switch {
		case err == nil:
			file, err := decode(path, b)
			if err != nil {
				return Config{}, fmt.Errorf("config %s: %w", path, err)
			}
			cfg = merge(cfg, file)
			cfg.Source = path
		case os.IsNotExist(err) && !mustExist:
		default:
			return Config{}, fmt.Errorf("config %s: %w", path, err)
		}
	}

	if v := strings.TrimSpace(os.Getenv(EnvDB)); v != "" {
		cfg.DBPath = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLog)); v != "" {
		cfg.LogPath = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvScriptsDir)); v != "" {
		cfg.ScriptsDir = v
	}

	cfg.DBPath = expand(cfg.DBPath)
	cfg.LogPath = expand(cfg.LogPath)
	cfg.ScriptsDir = expand(cfg.ScriptsDir)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decode(path string, b []byte) (Config, error) {
	var c Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &c); err != nil {
			return Config{}, err
		}
	default:
		if err := toml.Unmarshal(b, &c); err != nil {
			return Config{}, err
		}
	}
	return c, nil
}

// merge overlays the non-zero fields of file onto base. Map entries are merged
// key by key so a file can add one interpreter without restating the rest.
func merge(base, file Config) Config {
	if file.DBPath != "" {
		base.DBPath = file.DBPath
	}
	if file.LogPath != "" {
		base.LogPath = file.LogPath
	}
	if file.ScriptsDir != "" {
		base.ScriptsDir = file.ScriptsDir
	}
	if file.DefaultKind != "" {
		base.DefaultKind = strings.ToLower(strings.TrimSpace(file.DefaultKind))
	}
	if file.MaxOutputBytes != 0 {
		base.MaxOutputBytes = file.MaxOutputBytes
	}
	for k, v := range file.Interpreters {
		v.Command = expand(v.Command)
		base.Interpreters[strings.ToLower(k)] = v
	}
	for ext, kind := range file.Extensions {
		base.Extensions[normalizeExt(ext)] = strings.ToLower(kind)
	}
	return base
}

func (c Config) Validate() error {
	var problems []string
	if strings.TrimSpace(c.DBPath) == "" {
		problems = append(problems, "db_path is empty")
	}
	if strings.TrimSpace(c.LogPath) == "" {
		problems = append(problems, "log_path is empty")
	}
	if c.MaxOutputBytes < 0 {
		problems = append(problems, "max_output_bytes must not be negative")
	}
	if _, ok := c.Interpreters[c.DefaultKind]; !ok {
		problems = append(problems, fmt.Sprintf("default_kind %q has no interpreter", c.DefaultKind))
	}
	for _, kind := range sortedKeys(c.Interpreters) {
		if _, err := c.Interpreters[kind].Argv(); err != nil {
			problems = append(problems, fmt.Sprintf("interpreters.%s: %v", kind, err))
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// KindForExt returns the kind registered for a file extension.
func (c Config) KindForExt(ext string) (string, bool) {
	kind, ok := c.Extensions[normalizeExt(ext)]
	return kind, ok
}

// Encode renders c as TOML, suitable for writing a starter config file.
func (c Config) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

func expand(p string) string {
	if expanded, err := homedir.Expand(p); err == nil {
		return expanded
	}
	return p
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
