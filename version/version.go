package version

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"time"
)

// Set at build time via ldflags.
var (
	Version  = "0.0.0"
	Branch   = "unknown"
	Revision = "unknown"
	BuiltAt  = "unknown"
)

// Info is the resolved build metadata.
type Info struct {
	Version   string `json:"version"`
	Branch    string `json:"branch"`
	Revision  string `json:"revision"`
	BuiltAt   string `json:"builtAt"`
	GoVersion string `json:"goVersion"`
}

// GetVersionInfo resolves the build metadata, consulting git for fields
// the build did not stamp.
func GetVersionInfo() Info {
	info := Info{
		Version:   Version,
		Branch:    Branch,
		Revision:  Revision,
		BuiltAt:   BuiltAt,
		GoVersion: runtime.Version(),
	}

	if info.Version == "0.0.0" {
		if v := git("describe", "--tags", "--match", "v*", "--always"); v != "" {
			info.Version = v
		}
	}
	if info.Branch == "unknown" {
		if b := git("rev-parse", "--abbrev-ref", "HEAD"); b != "" {
			info.Branch = b
		}
	}
	if info.Revision == "unknown" {
		if r := git("rev-parse", "--short", "HEAD"); r != "" {
			info.Revision = r
		}
	}
	if info.BuiltAt == "unknown" {
		info.BuiltAt = time.Now().Format(time.RFC3339)
	}
	return info
}

func git(args ...string) string {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	out, err := exec.CommandContext(ctx, "git", args...).Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}

// String returns a human-readable rendering.
func (i Info) String() string {
	return fmt.Sprintf("Version: %s\nBranch: %s\nRevision: %s\nBuilt At: %s\nGo Version: %s",
		i.Version, i.Branch, i.Revision, i.BuiltAt, i.GoVersion)
}

// JSON returns an indented JSON rendering.
func (i Info) JSON() (string, error) {
	data, err := json.MarshalIndent(i, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Print writes the version information to stdout.
func Print() {
	fmt.Println(GetVersionInfo().String())
}
