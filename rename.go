package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// RenameVideos renames every file in dir carrying ext to
// <prefix>_<n><ext>, numbering in lexicographic order from 1. Files
// without the extension are never touched. Returns the sequence length.
func RenameVideos(dir, prefix, ext string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w", dir, err)
	}

	counter := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ext) {
			continue
		}

		counter++
		newName := fmt.Sprintf("%s_%d%s", prefix, counter, ext)
		if entry.Name() == newName {
			continue
		}

		dst := filepath.Join(dir, newName)
		if _, err := os.Stat(dst); err == nil {
			log.Printf("Skipping %q: %q already exists", entry.Name(), newName)
			continue
		}

		if err := os.Rename(filepath.Join(dir, entry.Name()), dst); err != nil {
			return counter - 1, fmt.Errorf("renaming %s: %w", entry.Name(), err)
		}
		log.Printf("Renamed %q to %q", entry.Name(), newName)
	}

	return counter, nil
}
