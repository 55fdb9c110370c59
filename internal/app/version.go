package app

import (
	"fmt"
	"runtime/debug"
	"strings"

	"golang.org/x/mod/semver"
)

// Release builds set these with -ldflags "-X ...". A plain `go install`
// leaves them empty and the module version and VCS revision are used.
var (
	buildVersion = ""
	buildCommit  = ""
	buildDate    = ""
)

type versionInfo struct {
	Version string
	Commit  string
	Date    string
}

func printVersion() {
	v := resolveVersion(debug.ReadBuildInfo)

	fmt.Printf("scriptshelf %s\n", v.Version)
	if v.Commit != "" {
		fmt.Printf("  commit: %s\n", shortSHA(v.Commit))
	}
	if v.Date != "" {
		fmt.Printf("  built:  %s\n", v.Date)
	}
}

func resolveVersion(readBuildInfo func() (*debug.BuildInfo, bool)) versionInfo {
	v := versionInfo{
		Version: normalizeVersion(buildVersion),
		Commit:  strings.TrimSpace(buildCommit),
		Date:    strings.TrimSpace(buildDate),
	}

	if v.Version == "" || v.Commit == "" {
		if bi, ok := readBuildInfo(); ok {
			if v.Version == "" && bi.Main.Version != "(devel)" {
				v.Version = normalizeVersion(bi.Main.Version)
			}
			for _, s := range bi.Settings {
				if s.Key == "vcs.revision" && v.Commit == "" {
					v.Commit = strings.TrimSpace(s.Value)
				}
			}
		}
	}

	if v.Version == "" {
		v.Version = "dev"
	}
	return v
}

// normalizeVersion returns a "v"-prefixed version, canonicalized when it is
// valid semver without build metadata.
func normalizeVersion(v string) string {
	v = strings.TrimSpace(v)
	if v == "" || v == "dev" {
		return v
	}
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if c := semver.Canonical(v); c != "" && semver.Build(v) == "" {
		return c
	}
	return v
}

func shortSHA(sha string) string {
	if len(sha) <= 12 {
		return sha
	}
	return sha[:12]
}
