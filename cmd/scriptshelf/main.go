package main

import (
	"os"

	"github.com/joelklabo/scriptshelf/internal/app"
)

func main() {
	os.Exit(app.RunCLI(os.Args[1:]))
}
