// Package agentshell holds the release version of agent-shell.
package agentshell

// Version is the current release of agent-shell.
const Version = "0.1.0"

// GetVersion returns the current version string.
func GetVersion() string {
	return Version
}
