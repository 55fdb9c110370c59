package importer

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"github.com/joelklabo/scriptshelf/internal/store"
)

// Inserter is the slice of the catalog the importer writes through.
type Inserter interface {
	Insert(name, description, content, kind string) (store.InsertResult, error)
}

// KindFunc maps a file extension (with its leading dot) to a script kind.
type KindFunc func(ext string) (string, bool)

type Outcome string

const (
	Added   Outcome = "added"
	Skipped Outcome = "skipped"
	Empty   Outcome = "empty"
)

type Notice struct {
	File    string
	Name    string
	Kind    string
	Outcome Outcome
}

type Report struct {
	Notices []Notice
	Added   int
	Skipped int
	Empty   int
}

func Description(filename string) string {
	return fmt.Sprintf("Script imported from %s", filename)
}

// Import inserts every top-level file in dir whose extension kindFor knows.
// Files are processed in name order. A name already in the catalog is skipped
// with a notice, not an error; a storage error aborts the import and is
// returned together with the notices gathered so far.
func Import(fsys afero.Fs, dir string, kindFor KindFunc, ins Inserter) (Report, error) {
	var rep Report

	infos, err := afero.ReadDir(fsys, dir)
	if err != nil {
		return rep, fmt.Errorf("read scripts dir: %w", err)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name() < infos[j].Name() })

	for _, fi := range infos {
		if fi.IsDir() {
			continue
		}
		filename := fi.Name()
		ext := filepath.Ext(filename)
		kind, ok := kindFor(ext)
		if !ok {
			continue
		}
		name := strings.TrimSuffix(filename, ext)
		if name == "" {
			continue
		}

		b, err := afero.ReadFile(fsys, filepath.Join(dir, filename))
		if err != nil {
			return rep, fmt.Errorf("read %s: %w", filename, err)
		}
		n := Notice{File: filename, Name: name, Kind: kind}

		content := string(b)
		if strings.TrimSpace(content) == "" {
			n.Outcome = Empty
			rep.Empty++
			rep.Notices = append(rep.Notices, n)
			continue
		}

		res, err := ins.Insert(name, Description(filename), content, kind)
		if err != nil {
			return rep, fmt.Errorf("import %s: %w", filename, err)
		}
		if res == store.Skipped {
			n.Outcome = Skipped
			rep.Skipped++
		} else {
			n.Outcome = Added
			rep.Added++
		}
		rep.Notices = append(rep.Notices, n)
	}
	return rep, nil
}
