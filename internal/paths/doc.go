// Package paths provides cross-platform path resolution for prereq's own
// configuration and data directories.
//
// # XDG Base Directory Compliance
//
// The package wraps github.com/adrg/xdg for cross-platform XDG Base Directory
// Specification compliance. On Linux and macOS, paths follow XDG conventions
// (~/.config, ~/.local/share, ~/.cache).
//
//	| Purpose           | Location                          |
//	|-------------------|-----------------------------------|
//	| Config file       | <ConfigHome>/prereq/config.yaml   |
//	| Installed SDK     | <DataHome>/prereq/android-sdk     |
package paths
