package app

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/joelklabo/scriptshelf/internal/config"
	"github.com/joelklabo/scriptshelf/internal/execx"
)

var commands = []string{"init", "import", "list", "show", "run", "pick", "history", "config", "version"}

func RunCLI(args []string) int {
	fs := flag.NewFlagSet("scriptshelf", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	cfgPath := fs.String("config", "", "config file (toml or yaml)")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			usage()
			return 0
		}
		fmt.Fprintln(os.Stderr, "scriptshelf:", err)
		usage()
		return 2
	}
	args = fs.Args()

	if len(args) > 0 {
		switch args[0] {
		case "version":
			printVersion()
			return 0
		case "help", "-h", "--help":
			usage()
			return 0
		}
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "scriptshelf:", err)
		return 1
	}

	if len(args) == 0 {
		if !execx.IsTTY() {
			usage()
			return 2
		}
		return pickCmd(cfg, nil)
	}

	switch args[0] {
	case "init":
		return initCmd(cfg, args[1:])
	case "import":
		return importCmd(cfg, args[1:])
	case "list":
		return listCmd(cfg, args[1:])
	case "show":
		return showCmd(cfg, args[1:])
	case "run":
		return runCmd(cfg, args[1:])
	case "pick":
		return pickCmd(cfg, args[1:])
	case "history":
		return historyCmd(cfg, args[1:])
	case "config":
		return configCmd(cfg, args[1:])
	default:
		printUnknownCommand(args[0], commands)
		return 2
	}
}

func usage() {
	fmt.Fprint(os.Stderr, `scriptshelf [--config <file>] [command]

Commands:
  init                     create the catalog if needed
  import [--dir <dir>]     add scripts from a directory (one script per file)
  list [--filter <text>]   list catalog scripts
  show <name|id>           show a script and how it would be run
  run <name|id>            run a script and log the outcome
  pick [--filter <text>]   choose a script interactively (default on a terminal)
  history [--limit <n>]    recent runs
  config show|init         print or write the effective configuration
  version

Scripts run unsandboxed with your privileges.
`)
}

func fail(err error) int {
	fmt.Fprintln(os.Stderr, "scriptshelf:", err)
	return 1
}
