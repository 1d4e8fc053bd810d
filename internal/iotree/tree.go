// Package iotree loads the phylogeny registered in the dataset
// registry and connects database plants to its tips.
package iotree

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gnames/gnsys"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/permaguild/guilddb/internal/iodatasets"
	"github.com/permaguild/guilddb/pkg/artifact"
	"github.com/permaguild/guilddb/pkg/config"
	"github.com/permaguild/guilddb/pkg/datasets"
	"github.com/permaguild/guilddb/pkg/phylo"
)

// Load reads the Newick phylogeny named by the dataset registry,
// parses it, and returns the tree together with a fingerprint of the
// raw file bytes. Distance matrices record this fingerprint, so a
// swapped or edited tree is detectable later without recomputing
// any distances.
func Load(cfg *config.Config) (*phylo.Tree, string, error) {
	registry, err := iodatasets.New(cfg).Load()
	if err != nil {
		return nil, "", err
	}

	location := registry.Phylogeny.Parent
	if location == "" {
		return nil, "", NoPhylogenyError(config.DatasetsFilePath(cfg.HomeDir))
	}

	return LoadFile(location, cfg)
}

// LoadFile parses the Newick phylogeny at the given location, which
// is either a local path or an http(s) URL. Remote files are
// downloaded to the cache directory once and reused until the cache
// is cleared.
func LoadFile(location string, cfg *config.Config) (*phylo.Tree, string, error) {
	treePath, err := localTreeFile(location, cfg)
	if err != nil {
		return nil, "", err
	}

	data, err := os.ReadFile(treePath)
	if err != nil {
		return nil, "", ReadError(treePath, err)
	}

	tree, err := phylo.ParseNewick(string(data))
	if err != nil {
		return nil, "", ParseError(treePath, err)
	}

	fingerprint := artifact.Fingerprint(data)
	slog.Info("Loaded phylogeny",
		"path", treePath,
		"tips", tree.NumLeaves(),
		"fingerprint", fingerprint,
	)

	return tree, fingerprint, nil
}

// localTreeFile ensures the phylogeny exists on the local filesystem
// and returns its path.
func localTreeFile(location string, cfg *config.Config) (string, error) {
	if !datasets.IsValidURL(location) {
		return expandHome(location), nil
	}
	return fetchTree(location, config.CacheDir(cfg.HomeDir))
}

// fetchTree downloads a remote phylogeny into the cache directory.
// An existing non-empty cached copy is reused, so repeated runs of
// distances and verify do not depend on the network.
func fetchTree(treeURL, cacheDir string) (string, error) {
	err := gnsys.MakeDir(cacheDir)
	if err != nil {
		slog.Error("Cannot create cache directory", "error", err, "dir", cacheDir)
		return "", FetchError(treeURL, err)
	}

	dest := filepath.Join(cacheDir, cachedTreeName(treeURL))
	if info, err := os.Stat(dest); err == nil && info.Size() > 0 {
		slog.Debug("Using cached phylogeny", "path", dest)
		return dest, nil
	}

	resp, err := http.Get(treeURL)
	if err != nil {
		return "", FetchError(treeURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", FetchError(treeURL, fmt.Errorf("HTTP status %s", resp.Status))
	}

	f, err := os.Create(dest)
	if err != nil {
		return "", FetchError(treeURL, err)
	}
	defer f.Close()

	_, err = io.Copy(f, resp.Body)
	if err != nil {
		os.Remove(dest)
		return "", FetchError(treeURL, err)
	}

	slog.Info("Downloaded phylogeny", "url", treeURL, "path", dest)
	return dest, nil
}

// cachedTreeName derives a cache file name from the URL path.
func cachedTreeName(treeURL string) string {
	u, err := url.Parse(treeURL)
	if err != nil || path.Base(u.Path) == "." || path.Base(u.Path) == "/" {
		return "phylogeny.nwk"
	}
	return path.Base(u.Path)
}

// TipSources reads the plant columns needed for tip resolution. Rows
// come back ordered by plant identifier, which is bytewise because of
// the "C" collation on the column.
func TipSources(
	ctx context.Context,
	pool *pgxpool.Pool,
) ([]phylo.TipSource, error) {
	q := `
SELECT id, genus, COALESCE(tip_label, '')
FROM plants
ORDER BY id`

	rows, err := pool.Query(ctx, q)
	if err != nil {
		return nil, TipQueryError(err)
	}
	defer rows.Close()

	var res []phylo.TipSource
	for rows.Next() {
		var ts phylo.TipSource
		err = rows.Scan(&ts.PlantID, &ts.Genus, &ts.TipLabel)
		if err != nil {
			return nil, TipQueryError(err)
		}
		res = append(res, ts)
	}
	if err = rows.Err(); err != nil {
		return nil, TipQueryError(err)
	}

	return res, nil
}

// ResolverFromDB builds a tip resolver for all plants currently in
// the database.
func ResolverFromDB(
	ctx context.Context,
	pool *pgxpool.Pool,
	tree *phylo.Tree,
) (*phylo.Resolver, error) {
	tips, err := TipSources(ctx, pool)
	if err != nil {
		return nil, err
	}
	return phylo.NewResolver(tree, tips), nil
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
