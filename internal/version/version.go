package version

import (
	"fmt"
	"runtime/debug"
)

const gocqlPackage = "github.com/gocql/gocql"

// Default version values; can be overridden via ldflags
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

type Info struct {
	Version string
	Commit  string
	Date    string
	Driver  string
}

// Get collects the binary's version info. The driver version comes from
// the module list embedded by the toolchain, so it reflects the replace
// directive, not the require line.
func Get() Info {
	info := Info{
		Version: version,
		Commit:  commit,
		Date:    date,
		Driver:  "unknown",
	}
	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	for _, dep := range buildInfo.Deps {
		if dep.Path != gocqlPackage {
			continue
		}
		m := dep
		if dep.Replace != nil {
			m = dep.Replace
		}
		info.Driver = fmt.Sprintf("%s %s", m.Path, m.Version)
		break
	}
	return info
}

func (i Info) String() string {
	return fmt.Sprintf("orderwindow %s (commit %s, built %s)\ndriver: %s",
		i.Version, i.Commit, i.Date, i.Driver)
}
