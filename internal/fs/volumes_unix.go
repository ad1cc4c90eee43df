//go:build !windows

package fs

import "os"

// hostVolumes reports the single filesystem root of a Unix host.
func hostVolumes() ([]Volume, error) {
	_, err := os.Stat("/")
	return []Volume{{
		Name:  "/",
		Root:  "/",
		Ready: err == nil,
	}}, nil
}
