package ics

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var unsafeFilenameChars = regexp.MustCompile(`(?i)[^a-z0-9._-]`)

// SanitizeFilename replaces every character outside [a-z0-9._-] with '_',
// truncates to 80 characters and appends ".ics" unless already present.
func SanitizeFilename(name string) string {
	safe := unsafeFilenameChars.ReplaceAllString(name, "_")
	if len(safe) > maxFilenameLength {
		safe = safe[:maxFilenameLength]
	}
	if !strings.HasSuffix(strings.ToLower(safe), icsExt) {
		safe += icsExt
	}
	return safe
}

// WriteDownload saves content under dir with a sanitized filename and
// returns the final path. The write is atomic (temp file + rename).
func WriteDownload(dir, filename string, content []byte) (string, error) {
	if dir == "" {
		return "", errors.New("download dir is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	path := filepath.Join(dir, SanitizeFilename(filename))

	tmp, err := os.CreateTemp(dir, ".termplan-download-*.tmp")
	if err != nil {
		return "", err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return "", err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return "", err
	}
	return path, nil
}
