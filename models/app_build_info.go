package models

import (
	"fmt"
	"time"
)

const buildInfoUnknown = "N/A"

// AppBuildInfo is the linker-injected build metadata of a binary.
type AppBuildInfo struct {
	Version string
	Date    string
	Commit  string
}

// NewAppBuildInfo fills empty values with "N/A".
func NewAppBuildInfo(version, date, commit string) AppBuildInfo {
	return AppBuildInfo{
		Version: orUnknown(version),
		Date:    orUnknown(date),
		Commit:  orUnknown(commit),
	}
}

func (a AppBuildInfo) String() string {
	return fmt.Sprintf("%s (date %s, commit %s)", a.Version, a.Date, a.Commit)
}

func orUnknown(s string) string {
	if s == "" {
		return buildInfoUnknown
	}
	return s
}

// AppInfo is what a running sync host reports about itself.
type AppInfo struct {
	Version   string    `json:"version"`
	StartedAt time.Time `json:"started_at"`
	Peers     int       `json:"peers"`
}
