package ingest

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
)

// Fingerprint hashes the consumed source files into the memo key. It covers
// path, size and content, sorted by path, so the same inputs always produce
// the same key and any content change produces a new one. Modification times
// are deliberately not included: touching a file without changing it must not
// invalidate the memo.
func Fingerprint(paths []string) (string, error) {
	sorted := make([]string, len(paths))
	copy(sorted, paths)
	sort.Strings(sorted)

	h := sha1.New()
	for _, path := range sorted {
		info, err := os.Stat(path)
		if err != nil {
			return "", fmt.Errorf("stat %s: %w", path, err)
		}

		content, err := hashFile(path)
		if err != nil {
			return "", err
		}

		io.WriteString(h, path)
		io.WriteString(h, strconv.FormatInt(info.Size(), 10))
		io.WriteString(h, content)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	h := sha1.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
