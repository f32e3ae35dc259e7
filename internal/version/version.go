package version

import "fmt"

// Commit is stamped at build time:
//
//	go build -ldflags "-X github.com/jypelle/hygrodisplay/internal/version.Commit=$(git rev-parse --short HEAD)"
var Commit = ""

type Version struct {
	Major int64
	Minor int64
	Patch int64
}

// String gives the semantic version, followed by the build commit when known.
func (v Version) String() string {
	s := fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	if Commit != "" {
		s += "+" + Commit
	}
	return s
}

var AppVersion = Version{Major: 0, Minor: 3, Patch: 0}
