package source

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// feedExts are the file extensions recognised as transaction feeds.
var feedExts = map[string]bool{
	".json":  true,
	".jsonl": true,
}

// ScanDir walks dir and discovers all transaction feed files, sorted by path.
// A path that names a single file is returned as-is.
func ScanDir(dir string) ([]DiscoveredFile, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	if !info.IsDir() {
		return []DiscoveredFile{discovered(dir)}, nil
	}

	var files []DiscoveredFile

	err = filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // intentionally skip unreadable entries
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !feedExts[strings.ToLower(filepath.Ext(path))] {
			return nil
		}
		files = append(files, discovered(path))
		return nil
	})

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, err
}

func discovered(path string) DiscoveredFile {
	base := filepath.Base(path)
	return DiscoveredFile{
		Path: path,
		Name: strings.TrimSuffix(base, filepath.Ext(base)),
	}
}
