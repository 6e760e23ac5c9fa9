package bootstrap

import (
	"io/fs"
	"path/filepath"
	"time"
)

// SourceTreeModTime returns the latest modification time of dir and
// everything below it.
func SourceTreeModTime(dir string) (time.Time, error) {
	var latest time.Time
	err := filepath.WalkDir(dir, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if mt := info.ModTime(); mt.After(latest) {
			latest = mt
		}
		return nil
	})
	if err != nil {
		return time.Time{}, err
	}
	return latest, nil
}
