package infrastructure

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeTitle(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain title unchanged",
			input:    "A Perfectly Normal Title",
			expected: "A Perfectly Normal Title",
		},
		{
			name:     "unsafe characters stripped",
			input:    `What/Is\This: A "Video"? <yes|no> *maybe*`,
			expected: "WhatIsThis A Video yesno maybe",
		},
		{
			name:     "surrounding whitespace trimmed",
			input:    "  padded  ",
			expected: "padded",
		},
		{
			name:     "long title bounded",
			input:    strings.Repeat("a", 250),
			expected: strings.Repeat("a", 100),
		},
		{
			name:     "empty stays empty",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeTitle(tt.input))
		})
	}
}

func TestFolderDate(t *testing.T) {
	assert.Equal(t, "2024.01.15", FolderDate("20240115"))

	today := time.Now().Format("2006.01.02")
	assert.Equal(t, today, FolderDate(""))
	assert.Equal(t, today, FolderDate("not-a-date"))
}

func TestCreateOutputDir(t *testing.T) {
	root := t.TempDir()

	dir, err := CreateOutputDir(root, "My Video: Part 1", "20240115")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, "2024.01.15 - My Video Part 1"), dir)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestCreateOutputDir_EmptyTitleFallsBack(t *testing.T) {
	root := t.TempDir()

	dir, err := CreateOutputDir(root, "???", "20240115")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "2024.01.15 - video"), dir)
}

func TestCreateOutputDir_Idempotent(t *testing.T) {
	root := t.TempDir()

	first, err := CreateOutputDir(root, "repeat", "20240115")
	require.NoError(t, err)
	second, err := CreateOutputDir(root, "repeat", "20240115")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
