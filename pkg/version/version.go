package version

import (
	"runtime"
	"time"
)

// Values injected by the build via -ldflags.
var (
	GITVERSION = "v0.0.0-dev"
	GITCOMMIT  = ""
	BUILDDATE  = ""
)

// BuildVersionInfo describes the gridctl binary in use.
type BuildVersionInfo struct {
	GitVersion string    `json:"GitVersion"`
	GitCommit  string    `json:"GitCommit"`
	BuildDate  time.Time `json:"BuildDate"`
	GOOS       string    `json:"GOOS"`
	GOARCH     string    `json:"GOARCH"`
}

func Get() *BuildVersionInfo {
	buildDate, _ := time.Parse(time.RFC3339, BUILDDATE)
	return &BuildVersionInfo{
		GitVersion: GITVERSION,
		GitCommit:  GITCOMMIT,
		BuildDate:  buildDate,
		GOOS:       runtime.GOOS,
		GOARCH:     runtime.GOARCH,
	}
}
