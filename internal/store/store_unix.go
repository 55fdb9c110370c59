//go:build !windows

package store

import (
	"fmt"
	"os"
	"path/filepath"
	"syscall"
)

// checkOwnership refuses, when running as root, a catalog file (or the
// directory it would be created in) that a non-root user owns. Scripts read
// from the catalog are executed verbatim.
func checkOwnership(path string) error {
	if os.Geteuid() != 0 {
		return nil
	}

	info, err := os.Stat(path)
	if err == nil {
		return checkStat(path, info)
	}
	if !os.IsNotExist(err) {
		return nil // stat errors surface later when the file is opened
	}

	dir := filepath.Dir(path)
	info, err = os.Stat(dir)
	if err == nil {
		return checkStat(dir, info)
	}

	return nil
}

func checkStat(path string, info os.FileInfo) error {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return nil
	}
	if stat.Uid != 0 {
		return fmt.Errorf("refusing to use catalog path %s owned by uid %d as root", path, stat.Uid)
	}
	return nil
}
