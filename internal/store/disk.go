package store

import (
	"os"
	"path/filepath"
)

// DatabaseSizeBytes returns the on-disk size of the SQLite database,
// including its WAL and shared-memory sidecar files.
func (s *SQLiteStore) DatabaseSizeBytes() (int64, error) {
	return diskUsageBytes(s.path, s.path+"-wal", s.path+"-shm")
}

// diskUsageBytes sums the sizes of the given paths. Each path may be a file
// or a directory (recursively summed). Missing paths contribute 0.
func diskUsageBytes(paths ...string) (int64, error) {
	var total int64
	for _, p := range paths {
		if p == "" {
			continue
		}
		info, err := os.Stat(p)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return 0, err
		}
		if info.IsDir() {
			n, err := dirSize(p)
			if err != nil {
				return 0, err
			}
			total += n
		} else {
			total += info.Size()
		}
	}
	return total, nil
}

func dirSize(dir string) (int64, error) {
	var total int64
	err := filepath.Walk(dir, func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info != nil && !info.IsDir() {
			total += info.Size()
		}
		return nil
	})
	return total, err
}
