//go:build windows

package fs

import "os"

// hostVolumes probes the drive letters A-Z. A drive is listed when its root
// exists and is ready when its root can be listed.
func hostVolumes() ([]Volume, error) {
	var volumes []Volume
	for letter := 'A'; letter <= 'Z'; letter++ {
		root := string(letter) + `:\`
		if _, err := os.Lstat(root); err != nil {
			continue
		}
		_, err := os.ReadDir(root)
		volumes = append(volumes, Volume{
			Name:  root,
			Root:  root,
			Ready: err == nil,
		})
	}
	return volumes, nil
}
