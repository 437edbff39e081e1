package version

import "fmt"

// Populated at build time via -ldflags.
var (
	gitVersion = "v0.0.0-devel"
	gitCommit  = ""
)

type Info struct {
	GitVersion string `json:"gitVersion"`
	GitCommit  string `json:"gitCommit"`
}

func Get() Info {
	return Info{
		GitVersion: gitVersion,
		GitCommit:  gitCommit,
	}
}

func (i Info) String() string {
	if i.GitCommit == "" {
		return i.GitVersion
	}
	return fmt.Sprintf("%s (%s)", i.GitVersion, i.GitCommit)
}
