package export

import (
	"os"
	"path/filepath"
)

// Filename returns the canonical file name for a report.
func Filename(report string) string {
	return report + ".csv"
}

// WriteFile renders one report into dir, creating the directory as needed,
// and returns the written path.
func WriteFile(dir, report string, data Dataset) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	path := filepath.Join(dir, Filename(report))
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := Write(f, report, data); err != nil {
		return "", err
	}
	return path, nil
}
