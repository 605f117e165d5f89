package cli

import (
	"os"
	"strings"
)

// tokenFromEnv reads the GitHub token from the environment.
func tokenFromEnv() string {
	return strings.TrimSpace(os.Getenv("GITHUB_TOKEN"))
}
