package ics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Essay draft", "Essay_draft.ics"},
		{"HIST101-essay.ICS", "HIST101-essay.ICS"},
		{"../../etc/passwd", ".._.._etc_passwd.ics"},
		{"Résumé.ics", "R_sum_.ics"},
		{"", ".ics"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SanitizeFilename(tt.in), tt.in)
	}

	long := SanitizeFilename(strings.Repeat("a", 120))
	assert.Equal(t, strings.Repeat("a", 80)+".ics", long)
}

func TestWriteDownload(t *testing.T) {
	dir := t.TempDir()
	path, err := WriteDownload(dir, "My Essay", []byte("BEGIN:VCALENDAR"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "My_Essay.ics"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "BEGIN:VCALENDAR", string(data))

	_, err = WriteDownload("", "x", nil)
	assert.Error(t, err)
}
