package common

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Build-time identity, injected via -ldflags; the defaults apply when the
// binary is built with a plain `go build`.
var (
	Version   = "dev"
	Build     = "unknown"
	GitCommit = "unknown"
)

// GetVersion returns the release version string.
func GetVersion() string {
	return Version
}

// GetBuild returns the build timestamp.
func GetBuild() string {
	return Build
}

// GetGitCommit returns the git commit hash the binary was built from.
func GetGitCommit() string {
	return GitCommit
}

// GetFullVersion returns the version with build metadata, for crash reports
// and verbose status output.
func GetFullVersion() string {
	return fmt.Sprintf("%s (build: %s, commit: %s)", Version, Build, GitCommit)
}

// LoadVersionFromFile overrides the compiled-in version with the contents of
// a .version file next to the executable, when one exists. Deploy scripts
// drop that file beside the binary so restarts pick up the packaged version
// without a rebuild.
func LoadVersionFromFile() string {
	exePath, err := os.Executable()
	if err != nil {
		return Version
	}

	data, err := os.ReadFile(filepath.Join(filepath.Dir(exePath), ".version"))
	if err != nil {
		return Version
	}

	if v := strings.TrimSpace(string(data)); v != "" {
		Version = v
	}
	return Version
}
