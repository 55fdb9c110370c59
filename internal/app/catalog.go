package app

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/afero"

	"github.com/joelklabo/scriptshelf/internal/config"
	"github.com/joelklabo/scriptshelf/internal/execx"
	"github.com/joelklabo/scriptshelf/internal/importer"
	"github.com/joelklabo/scriptshelf/internal/runner"
	"github.com/joelklabo/scriptshelf/internal/store"
	"github.com/joelklabo/scriptshelf/internal/ui"
)

var errScriptNotFound = errors.New("script not found")

func initCmd(cfg config.Config, args []string) int {
	if len(args) != 0 {
		fmt.Fprintln(os.Stderr, "usage: scriptshelf init")
		return 2
	}

	var (
		n    int
		path string
	)
	if err := store.WithDB(cfg.DBPath, func(db *store.DB) error {
		if err := db.EnsureSchema(); err != nil {
			return err
		}
		path = db.Path()
		var err error
		n, err = db.Count()
		return err
	}); err != nil {
		return fail(err)
	}

	u := ui.New(os.Stdout)
	fmt.Printf("%s catalog ready: %s (%d scripts)\n", u.OK("OK"), path, n)
	return 0
}

func importCmd(cfg config.Config, args []string) int {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	dir := fs.String("dir", cfg.ScriptsDir, "directory of script files")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintln(os.Stderr, "usage: scriptshelf import [--dir <dir>]")
		return 2
	}
	if fs.NArg() == 1 {
		*dir = fs.Arg(0)
	} else if fs.NArg() > 1 {
		fmt.Fprintln(os.Stderr, "usage: scriptshelf import [--dir <dir>]")
		return 2
	}

	u := ui.New(os.Stdout)

	var rep importer.Report
	err := store.WithDB(cfg.DBPath, func(db *store.DB) error {
		var err error
		rep, err = importer.Import(afero.NewOsFs(), *dir, cfg.KindForExt, db)
		return err
	})

	for _, n := range rep.Notices {
		switch n.Outcome {
		case importer.Added:
			fmt.Printf("%s %s (%s)\n", u.OK("Added"), n.File, n.Kind)
		case importer.Skipped:
			fmt.Printf("%s %s: %s already exists in the catalog\n", u.Dim("Skipped"), n.File, n.Name)
		case importer.Empty:
			fmt.Printf("%s %s: file is empty\n", u.Warn("Skipped"), n.File)
		}
	}
	if err != nil {
		return fail(err)
	}
	fmt.Printf("%d added, %d skipped\n", rep.Added, rep.Skipped+rep.Empty)
	return 0
}

func listCmd(cfg config.Config, args []string) int {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	filter := fs.String("filter", "", "only scripts whose name or description contains this text")
	if err := fs.Parse(args); err != nil || fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "usage: scriptshelf list [--filter <text>]")
		return 2
	}

	roster, err := loadRoster(cfg.DBPath)
	if err != nil {
		return fail(err)
	}
	roster = roster.Filter(*filter)

	if roster.Len() == 0 {
		fmt.Println("(no scripts)")
		return 0
	}
	printRoster(ui.New(os.Stdout), roster, false)
	return 0
}

func printRoster(u ui.UI, r *Roster, numbered bool) {
	width := 0
	for _, e := range r.Entries {
		if len(e.Name) > width {
			width = len(e.Name)
		}
	}
	for i, e := range r.Entries {
		prefix := ""
		if numbered {
			prefix = fmt.Sprintf("%3d) ", i+1)
		}
		line := prefix + ui.Pad(u.Label(e.Name), width)
		if e.Description != "" {
			line += "  " + u.Dim(e.Description)
		}
		fmt.Println(strings.TrimRight(line, " "))
	}
}

func showCmd(cfg config.Config, args []string) int {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: scriptshelf show <name|id>")
		return 2
	}

	entry, err := resolveScript(cfg.DBPath, args[0])
	if err != nil {
		return reportResolveError(cfg.DBPath, args[0], err)
	}

	u := ui.New(os.Stdout)
	kind := entry.Kind
	if kind == "" {
		kind = cfg.DefaultKind
	}
	fmt.Printf("%s %s\n", u.Bold("name:"), entry.Name)
	fmt.Printf("%s %d\n", u.Bold("id:"), entry.ID)
	fmt.Printf("%s %s\n", u.Bold("kind:"), kind)
	if entry.Description != "" {
		fmt.Printf("%s %s\n", u.Bold("description:"), entry.Description)
	}

	r := runner.New(cfg)
	if argv, err := r.Command(kind, "<script>"); err == nil {
		fmt.Printf("%s %s\n", u.Bold("command:"), execx.ShellJoin(argv))
		if _, werr := execx.Which(argv[0]); werr != nil {
			fmt.Printf("%s %s\n", u.Bold("warning:"), u.Warn(werr.Error()))
		}
	} else {
		fmt.Printf("%s %s\n", u.Bold("command:"), u.Warn(err.Error()))
	}
	fmt.Println(u.Heading("content"))
	fmt.Println(strings.TrimRight(entry.Content, "\n"))
	return 0
}

// resolveScript finds a script by numeric id or by name.
func resolveScript(dbPath, ref string) (store.ScriptEntry, error) {
	ref = strings.TrimSpace(ref)
	var (
		entry store.ScriptEntry
		found bool
	)
	err := store.WithDB(dbPath, func(db *store.DB) error {
		var err error
		if id, perr := strconv.ParseInt(ref, 10, 64); perr == nil {
			entry, found, err = db.Lookup(id)
			if err != nil || found {
				return err
			}
		}
		entry, found, err = db.FindByName(ref)
		return err
	})
	if err != nil {
		return store.ScriptEntry{}, err
	}
	if !found {
		return store.ScriptEntry{}, fmt.Errorf("%w: %s", errScriptNotFound, ref)
	}
	return entry, nil
}

func reportResolveError(dbPath, ref string, err error) int {
	fmt.Fprintln(os.Stderr, "scriptshelf:", err)
	if !errors.Is(err, errScriptNotFound) {
		return 1
	}
	if roster, lerr := loadRoster(dbPath); lerr == nil {
		if s, ok := bestMatch(ref, roster.Names()); ok {
			fmt.Fprintf(os.Stderr, "scriptshelf: did you mean: %s\n", s)
		}
	}
	return 1
}
