package handlers

import (
	"fmt"

	"github.com/imamik/qhub/internal/config"
)

// PrintVersion prints the build information and the accepted schema version.
func PrintVersion(version, commit, date string) {
	fmt.Fprintf(stdout, "qhub %s\n", version)
	fmt.Fprintf(stdout, "  commit: %s\n", commit)
	fmt.Fprintf(stdout, "  built:  %s\n", date)
	fmt.Fprintf(stdout, "  schema: qhub_version %s\n", config.Version)
}
