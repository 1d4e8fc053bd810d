package ioimport

import (
	"archive/zip"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gnames/gnsys"
	"github.com/permaguild/guilddb/pkg/datasets"
	_ "modernc.org/sqlite" // SQLite driver
)

// resolveSnapshot finds the snapshot file for a dataset under its
// parent location, a local directory or an http(s) directory listing.
// Snapshots are matched by the zero-padded dataset id followed by a
// separator, with a .sqlite or .sqlite.zip extension. If several files
// match, the one with the latest revision date wins.
// Returns (location, warning, error). Warning is non-empty when
// multiple files matched.
func resolveSnapshot(parent string, id int) (string, string, error) {
	if datasets.IsValidURL(parent) {
		return resolveRemoteSnapshot(parent, id)
	}
	return resolveLocalSnapshot(expandHome(parent), id)
}

func resolveLocalSnapshot(parentDir string, id int) (string, string, error) {
	entries, err := os.ReadDir(parentDir)
	if err != nil {
		return "", "", fmt.Errorf("failed to read parent directory %s: %w",
			parentDir, err)
	}

	var matches []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if matchesID(entry.Name(), id) {
			matches = append(matches, entry.Name())
		}
	}

	if len(matches) == 0 {
		return "", "", fmt.Errorf(
			"no snapshot found matching ID %d (pattern %04d*) in %s",
			id, id, parentDir,
		)
	}

	if len(matches) == 1 {
		return filepath.Join(parentDir, matches[0]), "", nil
	}

	selected := selectLatest(matches)
	warning := fmt.Sprintf(
		"found %d snapshots matching ID %d in %s: %v - selected latest: %s",
		len(matches), id, parentDir, matches, selected,
	)

	return filepath.Join(parentDir, selected), warning, nil
}

// resolveRemoteSnapshot lists a remote directory over HTTP and finds
// the snapshot matching the dataset id. The href pattern covers the
// plain listings Apache and nginx produce.
func resolveRemoteSnapshot(baseURL string, id int) (string, string, error) {
	resp, err := http.Get(baseURL)
	if err != nil {
		return "", "", fmt.Errorf("failed to fetch directory listing from %s: %w",
			baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf(
			"failed to fetch directory listing from %s: status %d",
			baseURL, resp.StatusCode,
		)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", "", fmt.Errorf("failed to read directory listing from %s: %w",
			baseURL, err)
	}

	hrefPattern := regexp.MustCompile(`href=["']([^"']+)["']`)
	hrefs := hrefPattern.FindAllStringSubmatch(string(body), -1)

	var matches []string
	for _, match := range hrefs {
		if len(match) < 2 {
			continue
		}
		filename := match[1]

		// Skip parent directory links and subdirectories
		if filename == "../" || strings.HasSuffix(filename, "/") {
			continue
		}

		if matchesID(filename, id) {
			matches = append(matches, filename)
		}
	}

	if len(matches) == 0 {
		return "", "", fmt.Errorf(
			"no snapshot found matching ID %d (pattern %04d*) at %s",
			id, id, baseURL,
		)
	}

	if len(matches) == 1 {
		return strings.TrimSuffix(baseURL, "/") + "/" + matches[0], "", nil
	}

	selected := selectLatest(matches)
	warning := fmt.Sprintf(
		"found %d snapshots matching ID %d at %s: %v - selected latest: %s",
		len(matches), id, baseURL, matches, selected,
	)

	return strings.TrimSuffix(baseURL, "/") + "/" + selected, warning, nil
}

// matchesID reports whether a filename is a snapshot of the given
// dataset: the zero-padded id, a separator, and a snapshot extension.
// The separator requirement keeps id 1 from matching 0001x files and
// "00010_...".
func matchesID(filename string, id int) bool {
	if !isSnapshotFile(filename) {
		return false
	}
	prefix := fmt.Sprintf("%04d", id)
	if !strings.HasPrefix(filename, prefix) {
		return false
	}
	rest := filename[len(prefix):]
	return strings.HasPrefix(rest, "_") ||
		strings.HasPrefix(rest, "-") ||
		strings.HasPrefix(rest, ".")
}

// isSnapshotFile checks for a valid snapshot extension.
func isSnapshotFile(filename string) bool {
	return strings.HasSuffix(filename, ".sqlite") ||
		strings.HasSuffix(filename, ".sqlite.zip")
}

// selectLatest picks the snapshot with the latest revision date from
// the filenames. On a date tie the zipped file wins, it is the smaller
// download.
func selectLatest(filenames []string) string {
	if len(filenames) == 0 {
		return ""
	}

	best := filenames[0]
	bestDate := datasets.ParseFilename(best).RevisionDate
	for _, f := range filenames[1:] {
		date := datasets.ParseFilename(f).RevisionDate
		switch {
		case date > bestDate:
			best, bestDate = f, date
		case date == bestDate && extPriority(f) > extPriority(best):
			best = f
		}
	}

	return best
}

func extPriority(filename string) int {
	if strings.HasSuffix(filename, ".sqlite.zip") {
		return 2
	}
	if strings.HasSuffix(filename, ".sqlite") {
		return 1
	}
	return 0
}

// fetchSnapshot makes the snapshot available as a plain SQLite file on
// the local filesystem and returns its path. Remote files are
// downloaded to the cache directory, zipped files are extracted there.
// Both steps reuse an existing non-empty cached copy, so repeated
// imports do not depend on the network.
func fetchSnapshot(location, cacheDir string) (string, error) {
	if err := gnsys.MakeDir(cacheDir); err != nil {
		return "", fmt.Errorf("failed to create cache directory %s: %w",
			cacheDir, err)
	}

	localPath := location
	if datasets.IsValidURL(location) {
		var err error
		localPath, err = download(location, cacheDir)
		if err != nil {
			return "", err
		}
	}

	if strings.HasSuffix(localPath, ".zip") {
		return extractSQLite(localPath, cacheDir)
	}

	return localPath, nil
}

// download fetches a remote snapshot into the cache directory.
func download(snapshotURL, cacheDir string) (string, error) {
	dest := filepath.Join(cacheDir, filepath.Base(snapshotURL))
	if info, err := os.Stat(dest); err == nil && info.Size() > 0 {
		slog.Debug("Using cached snapshot", "path", dest)
		return dest, nil
	}

	resp, err := http.Get(snapshotURL)
	if err != nil {
		return "", fmt.Errorf("failed to download %s: %w", snapshotURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to download %s: HTTP status %s",
			snapshotURL, resp.Status)
	}

	f, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dest, err)
	}
	defer f.Close()

	_, err = io.Copy(f, resp.Body)
	if err != nil {
		os.Remove(dest)
		return "", fmt.Errorf("failed to download %s: %w", snapshotURL, err)
	}

	slog.Info("Downloaded snapshot", "url", snapshotURL, "path", dest)
	return dest, nil
}

// extractSQLite extracts the SQLite member of a zipped snapshot into
// the destination directory and returns its path.
func extractSQLite(zipPath, destDir string) (string, error) {
	zr, err := zip.OpenReader(zipPath)
	if err != nil {
		return "", fmt.Errorf("failed to open archive %s: %w", zipPath, err)
	}
	defer zr.Close()

	for _, member := range zr.File {
		if member.FileInfo().IsDir() ||
			!strings.HasSuffix(member.Name, ".sqlite") {
			continue
		}

		dest := filepath.Join(destDir, filepath.Base(member.Name))
		if info, err := os.Stat(dest); err == nil && info.Size() > 0 {
			slog.Debug("Using cached snapshot", "path", dest)
			return dest, nil
		}

		rc, err := member.Open()
		if err != nil {
			return "", fmt.Errorf("failed to read archive member %s: %w",
				member.Name, err)
		}
		defer rc.Close()

		f, err := os.Create(dest)
		if err != nil {
			return "", fmt.Errorf("failed to create %s: %w", dest, err)
		}
		defer f.Close()

		if _, err = io.Copy(f, rc); err != nil {
			os.Remove(dest)
			return "", fmt.Errorf("failed to extract %s: %w", member.Name, err)
		}

		slog.Info("Extracted snapshot", "archive", zipPath, "path", dest)
		return dest, nil
	}

	return "", fmt.Errorf("no .sqlite member found in archive %s", zipPath)
}

// openSnapshot opens a snapshot SQLite file read-only for import.
func openSnapshot(path string) (*sql.DB, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("snapshot file does not exist: %s", path)
	}

	snap, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot %s: %w", path, err)
	}

	if err := snap.Ping(); err != nil {
		snap.Close()
		return nil, fmt.Errorf("failed to connect to snapshot %s: %w", path, err)
	}

	return snap, nil
}

// expandHome replaces a leading ~ with the user's home directory.
func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, strings.TrimPrefix(p[1:], "/"))
		}
	}
	return p
}
