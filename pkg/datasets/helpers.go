package datasets

import (
	"net/url"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// ParseFilename extracts metadata from a snapshot filename.
// Expected format: {id}_{name}_{date}_{version}.sqlite[.zip]
// Examples:
//   - 0001_plants_2025-06-01_v1.2.sqlite.zip  → ID=1, Date=2025-06-01, Version=v1.2
//   - 0002_interactions_2025-06-01.sqlite     → ID=2, Date=2025-06-01, Version=""
//   - 1001.sqlite                             → ID=1001, Date="", Version=""
//
// Version extraction rules:
//   - If revision date is last segment before extension: no version
//   - If underscore + text after date: everything until .sqlite is version
func ParseFilename(path string) FileMetadata {
	var metadata FileMetadata

	// Get filename without directory
	filename := filepath.Base(path)

	// Strip .zip extension if present
	filename = strings.TrimSuffix(filename, ".zip")

	// Extract ID (first 4 digits)
	idPattern := regexp.MustCompile(`^(\d{4})`)
	if matches := idPattern.FindStringSubmatch(filename); len(matches) > 1 {
		if id, err := strconv.Atoi(matches[1]); err == nil {
			metadata.ID = id
		}
	}

	// Extract revision date (YYYY-MM-DD pattern)
	datePattern := regexp.MustCompile(`(\d{4}-\d{2}-\d{2})`)
	if matches := datePattern.FindStringSubmatch(filename); len(matches) > 1 {
		metadata.RevisionDate = matches[1]
	}

	// Extract version (everything after last underscore until .sqlite)
	// Only if there's content after the date
	if metadata.RevisionDate != "" {
		// Find position of revision date in filename
		dateIdx := strings.Index(filename, metadata.RevisionDate)
		if dateIdx != -1 {
			// Get substring after the date
			afterDate := filename[dateIdx+len(metadata.RevisionDate):]

			// Check if there's an underscore followed by content before extension
			versionPattern := regexp.MustCompile(`^_(.+?)\.sqlite$`)
			if matches := versionPattern.FindStringSubmatch(afterDate); len(matches) > 1 {
				metadata.Version = matches[1]
			}
		}
	}

	return metadata
}

// IsValidURL checks if a string is a valid URL.
func IsValidURL(str string) bool {
	u, err := url.Parse(str)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https")
}
