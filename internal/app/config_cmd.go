package app

import (
	"errors"
	"fmt"
	"os"

	"github.com/joelklabo/scriptshelf/internal/config"
)

const defaultConfigFile = "scriptshelf.toml"

func configCmd(cfg config.Config, args []string) int {
	if len(args) != 1 {
		printUnknownSubcommand("config", "", []string{"show", "init"})
		return 2
	}
	switch args[0] {
	case "show":
		return configShow(cfg)
	case "init":
		return configInit()
	default:
		printUnknownSubcommand("config", args[0], []string{"show", "init"})
		return 2
	}
}

func configShow(cfg config.Config) int {
	b, err := cfg.Encode()
	if err != nil {
		return fail(err)
	}
	if cfg.Source != "" {
		fmt.Printf("# loaded from %s\n", cfg.Source)
	} else {
		fmt.Println("# built-in defaults")
	}
	fmt.Print(string(b))
	return 0
}

// configInit writes the built-in defaults to scriptshelf.toml in the working
// directory. An existing file is left untouched.
func configInit() int {
	b, err := config.Default().Encode()
	if err != nil {
		return fail(err)
	}

	f, err := os.OpenFile(defaultConfigFile, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			fmt.Fprintf(os.Stderr, "scriptshelf: %s already exists\n", defaultConfigFile)
			return 1
		}
		return fail(err)
	}
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return fail(err)
	}
	if err := f.Close(); err != nil {
		return fail(err)
	}
	fmt.Printf("wrote %s\n", defaultConfigFile)
	return 0
}
