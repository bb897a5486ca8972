package featureflags

import (
	"os"
	"strings"
)

// RequireAuth rejects anonymous calls to every non-public route
const RequireAuth = "require_auth"

// EnvKey returns the environment variable that controls a flag
func EnvKey(name string) string {
	return "FLAG_" + strings.ToUpper(name)
}

// Enabled returns true if a flag is enabled via environment variable.
// Flags are read from env as FLAG_<NAME>=true/1/yes/on (case-insensitive)
func Enabled(name string) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(EnvKey(name)))) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
