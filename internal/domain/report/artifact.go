package report

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ArtifactTimeLayout is the timestamp format embedded in artifact names.
const ArtifactTimeLayout = "2006-01-02T15:04:05"

// ArtifactExtension is the suffix of every generated document.
const ArtifactExtension = ".pdf"

// ArtifactName derives the deterministic document name for one execution,
// e.g. "P-1_2024-01-15T00:00:00.pdf". The timestamp is rendered in UTC.
func ArtifactName(jobID string, startedAt time.Time) string {
	return jobID + "_" + startedAt.UTC().Format(ArtifactTimeLayout) + ArtifactExtension
}

// ValidateArtifactName rejects names that could escape the artifact root.
func ValidateArtifactName(name string) error {
	switch {
	case name == "":
		return errors.New("artifact name is empty")
	case name == "." || name == "..":
		return fmt.Errorf("artifact name %q is reserved", name)
	case strings.ContainsAny(name, `/\`):
		return fmt.Errorf("artifact name %q contains a path separator", name)
	case strings.ContainsRune(name, 0):
		return fmt.Errorf("artifact name %q contains a NUL byte", name)
	case strings.HasPrefix(name, "."):
		return fmt.Errorf("artifact name %q is hidden", name)
	}
	return nil
}
