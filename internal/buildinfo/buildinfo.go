// Package buildinfo carries version metadata injected at link time:
//
//	go build -ldflags "-X github.com/jb-empire/empire-desktop/internal/buildinfo.Version=0.1.0"
package buildinfo

import (
	"fmt"
	"io"
	"runtime/debug"
)

var (
	Version = "N/A"
	Commit  = "N/A"
	Date    = "N/A"
)

// AppVersion returns Version, falling back to the main module version when
// the binary was installed with go install.
func AppVersion() string {
	if Version != "N/A" && Version != "" {
		return Version
	}
	if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		return bi.Main.Version
	}
	return Version
}

func PrintBuildData(w io.Writer) {
	fmt.Fprintf(w, "Build version: %s\n", AppVersion())
	fmt.Fprintf(w, "Build date: %s\n", Date)
	fmt.Fprintf(w, "Build commit: %s\n", Commit)
}
