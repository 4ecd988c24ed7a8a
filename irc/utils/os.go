// Copyright (c) 2018 Shivaram Lingamneni
// Copyright (c) 2026 The Oxygen Authors
// released under the MIT license

package utils

import (
	"os"
	"path/filepath"
)

// WriteFileAtomic replaces the contents of path with data. The data is written
// to a temporary file in the same directory, synced, and renamed over path, so
// readers see either the old contents or the new ones.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) (err error) {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, "."+base+".tmp-*")
	if err != nil {
		return
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return
	}
	if err = tmp.Sync(); err != nil {
		tmp.Close()
		return
	}
	if err = tmp.Close(); err != nil {
		return
	}
	if err = os.Chmod(tmpName, perm); err != nil {
		return
	}
	return os.Rename(tmpName, path)
}
