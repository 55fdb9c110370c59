package app

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joelklabo/scriptshelf/internal/config"
	"github.com/joelklabo/scriptshelf/internal/runner"
	"github.com/joelklabo/scriptshelf/internal/store"
	"github.com/joelklabo/scriptshelf/internal/ui"
)

func historyCmd(cfg config.Config, args []string) int {
	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	limit := fs.Int("limit", 20, "number of runs to show")
	if err := fs.Parse(args); err != nil || fs.NArg() != 0 || *limit <= 0 {
		fmt.Fprintln(os.Stderr, "usage: scriptshelf history [--limit <n>]")
		return 2
	}

	var runs []store.RunRecord
	if err := store.WithDB(cfg.DBPath, func(db *store.DB) error {
		var err error
		runs, err = db.ListRuns(*limit)
		return err
	}); err != nil {
		return fail(err)
	}

	if len(runs) == 0 {
		fmt.Println("(no runs yet)")
		return 0
	}

	u := ui.New(os.Stdout)
	for _, r := range runs {
		status := r.Status
		switch runner.Status(r.Status) {
		case runner.Success:
			status = u.OK(status)
		case runner.Failure, runner.LaunchFailure:
			status = u.Error(status)
		}
		fmt.Printf("%s  %s  %s  exit=%d  %dms\n",
			u.Dim(r.StartedAt.Local().Format("2006-01-02 15:04:05")),
			ui.Pad(status, 14), r.ScriptName, r.ExitCode, r.DurationMS)
		if r.Status != string(runner.Success) {
			if detail := strings.TrimSpace(r.StderrTail); detail != "" {
				fmt.Println(ui.Indent(firstLine(detail), "    "))
			}
		}
	}
	return 0
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
