package app

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/joelklabo/scriptshelf/internal/config"
	"github.com/joelklabo/scriptshelf/internal/ui"
)

func pickCmd(cfg config.Config, args []string) int {
	fs := flag.NewFlagSet("pick", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	filter := fs.String("filter", "", "only offer scripts matching this text")
	if err := fs.Parse(args); err != nil || fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "usage: scriptshelf pick [--filter <text>]")
		return 2
	}

	roster, err := loadRoster(cfg.DBPath)
	if err != nil {
		return fail(err)
	}
	roster = roster.Filter(*filter)

	u := ui.New(os.Stdout)
	if roster.Len() == 0 {
		fmt.Println("(no scripts in the catalog; add some with: scriptshelf import)")
		return 0
	}

	return pickLoop(cfg, u, roster, os.Stdin)
}

// pickLoop shows the roster and handles one selection per input line until
// the operator quits or input ends.
func pickLoop(cfg config.Config, u ui.UI, roster *Roster, in io.Reader) int {
	sc := bufio.NewScanner(in)

	fmt.Println(u.Heading("Select a script:"))
	printRoster(u, roster, true)

	for {
		fmt.Printf("\n%s ", u.Bold(fmt.Sprintf("Run which script? [1-%d, l=list, q=quit]", roster.Len())))
		if !sc.Scan() {
			fmt.Println()
			return 0
		}
		choice := strings.TrimSpace(sc.Text())

		switch strings.ToLower(choice) {
		case "q", "quit", "exit":
			return 0
		case "l", "list":
			printRoster(u, roster, true)
			continue
		case "":
			roster.Clear()
			runSelection(cfg, roster)
			continue
		}

		if !selectChoice(roster, choice) {
			fmt.Printf("%s %q is not on the list.\n", u.Warn("Invalid selection:"), choice)
			continue
		}

		sel, _ := roster.Selected()
		fmt.Printf("%s %s\n", u.Label(sel.Name), u.Dim(roster.Description()))
		runSelection(cfg, roster)
	}
}

// selectChoice accepts a 1-based roster number or an exact script name. A
// number outside the roster is tried as a name, so all-digit names stay
// reachable.
func selectChoice(roster *Roster, choice string) bool {
	if n, err := strconv.Atoi(choice); err == nil && roster.Select(n-1) {
		return true
	}
	return roster.SelectName(choice)
}
