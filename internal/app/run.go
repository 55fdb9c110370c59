package app

import (
	"fmt"
	"os"
	"strings"

	"github.com/joelklabo/scriptshelf/internal/config"
	"github.com/joelklabo/scriptshelf/internal/execx"
	"github.com/joelklabo/scriptshelf/internal/runner"
	"github.com/joelklabo/scriptshelf/internal/store"
	"github.com/joelklabo/scriptshelf/internal/ui"
)

// historyTailBytes caps the output kept per run in the history table. The
// execution log keeps the full text.
const historyTailBytes = 4 * 1024

func runCmd(cfg config.Config, args []string) int {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: scriptshelf run <name|id>")
		return 2
	}

	entry, err := resolveScript(cfg.DBPath, args[0])
	if err != nil {
		return reportResolveError(cfg.DBPath, args[0], err)
	}

	res, histErr := executeEntry(cfg, entry)
	printResult(ui.New(os.Stdout), entry.Name, res, histErr)
	if !res.OK() {
		return 1
	}
	return 0
}

// runSelection is the run handler for the interactive front-end. It refuses
// to run anything without a selection.
func runSelection(cfg config.Config, roster *Roster) int {
	u := ui.New(os.Stdout)

	sel, ok := roster.Selected()
	if !ok {
		fmt.Printf("%s please select a script first.\n", u.Warn("No selection:"))
		return 2
	}

	var (
		entry store.ScriptEntry
		found bool
	)
	if err := store.WithDB(cfg.DBPath, func(db *store.DB) error {
		var err error
		entry, found, err = db.Lookup(sel.ID)
		return err
	}); err != nil {
		return fail(err)
	}
	if !found {
		return fail(fmt.Errorf("%w: %s (id %d)", errScriptNotFound, sel.Name, sel.ID))
	}

	res, histErr := executeEntry(cfg, entry)
	printResult(u, entry.Name, res, histErr)
	if !res.OK() {
		return 1
	}
	return 0
}

// executeEntry runs the script with no catalog connection held, then records
// the run in the history table. A history failure never changes the outcome;
// it is returned for the caller to report.
func executeEntry(cfg config.Config, entry store.ScriptEntry) (runner.RunResult, error) {
	r := runner.New(cfg)
	res := r.RunNamed(entry.Name, entry.Kind, entry.Content)
	return res, recordRun(cfg.DBPath, r, entry, res)
}

func recordRun(dbPath string, r *runner.Runner, entry store.ScriptEntry, res runner.RunResult) error {
	stdout := execx.NewTail(historyTailBytes)
	stderr := execx.NewTail(historyTailBytes)
	_, _ = stdout.Write([]byte(r.Redactor.RedactText(res.Stdout)))
	errText := res.Stderr
	if res.Status == runner.LaunchFailure && res.Err != nil {
		errText = res.Err.Error()
	}
	_, _ = stderr.Write([]byte(r.Redactor.RedactText(errText)))

	return store.WithDB(dbPath, func(db *store.DB) error {
		return db.RecordRun(store.RunRecord{
			RunID:      res.RunID,
			ScriptID:   entry.ID,
			ScriptName: entry.Name,
			Kind:       res.Kind,
			Status:     string(res.Status),
			ExitCode:   res.ExitCode,
			StartedAt:  res.StartedAt,
			DurationMS: res.Duration.Milliseconds(),
			StdoutTail: stdout.String(),
			StderrTail: stderr.String(),
		})
	})
}

func printResult(u ui.UI, name string, res runner.RunResult, histErr error) {
	switch res.Status {
	case runner.Success:
		fmt.Printf("%s %s executed successfully (%dms)\n", u.OK("Success:"), name, res.Duration.Milliseconds())
		if out := strings.TrimRight(res.Stdout, "\n"); out != "" {
			fmt.Println(ui.Indent(out, "  "))
		}
	case runner.Failure:
		fmt.Printf("%s %s failed with exit code %d\n", u.Error("Error:"), name, res.ExitCode)
		if detail := res.Detail(); detail != "" {
			fmt.Println(ui.Indent(detail, "  "))
		}
	case runner.LaunchFailure:
		fmt.Printf("%s %s could not be started\n", u.Error("Error:"), name)
		fmt.Println(ui.Indent(res.Detail(), "  "))
	}
	if res.LogErr != nil {
		fmt.Fprintf(os.Stderr, "scriptshelf: warning: execution log not written: %v\n", res.LogErr)
	}
	if histErr != nil {
		fmt.Fprintf(os.Stderr, "scriptshelf: warning: run history not recorded: %v\n", histErr)
	}
}
