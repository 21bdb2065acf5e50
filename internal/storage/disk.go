package storage

import (
	"os"
	"path/filepath"
)

// sqliteSidecars are the files SQLite keeps next to a database in WAL mode.
var sqliteSidecars = []string{"-wal", "-shm"}

// Footprint returns the total size in bytes of the files backing a source: each path plus
// any SQLite WAL sidecar files next to it. Directories are summed recursively.
// Missing paths contribute 0.
func Footprint(paths ...string) (int64, error) {
	var total int64
	for _, p := range paths {
		if p == "" {
			continue
		}
		candidates := []string{p}
		for _, suffix := range sqliteSidecars {
			candidates = append(candidates, p+suffix)
		}
		for _, c := range candidates {
			n, err := pathSize(c)
			if err != nil {
				return 0, err
			}
			total += n
		}
	}
	return total, nil
}

func pathSize(p string) (int64, error) {
	info, err := os.Stat(p)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}
	if !info.IsDir() {
		return info.Size(), nil
	}
	var total int64
	err = filepath.Walk(p, func(_ string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi != nil && !fi.IsDir() {
			total += fi.Size()
		}
		return nil
	})
	return total, err
}
