// Package ioartifact stores distance artifacts on disk and checks
// that they are still in sync with the database and the phylogeny.
package ioartifact

import (
	"bufio"
	"io"
	"log/slog"
	"os"

	"github.com/gnames/gnsys"
	"github.com/permaguild/guilddb/pkg/artifact"
	"github.com/permaguild/guilddb/pkg/config"
)

// SaveMatrix writes the distance matrix to its well-known location
// under the artifacts directory. The write goes through a temporary
// file and a rename, so readers never see a half-written matrix.
func SaveMatrix(homeDir string, m *artifact.Matrix) error {
	dir := config.ArtifactsDir(homeDir)
	err := gnsys.MakeDir(dir)
	if err != nil {
		slog.Error("Cannot create artifacts directory", "error", err, "dir", dir)
		return WriteError(dir, err)
	}

	path := config.MatrixPath(homeDir)
	err = writeAtomic(path, m.Write)
	if err != nil {
		return WriteError(path, err)
	}

	slog.Info("Saved distance matrix",
		"path", path,
		"plants", m.N(),
		"fingerprint", m.Fingerprint(),
	)
	return nil
}

// LoadMatrix reads the distance matrix from the artifacts directory.
func LoadMatrix(homeDir string) (*artifact.Matrix, error) {
	path := config.MatrixPath(homeDir)
	f, err := os.Open(path)
	if err != nil {
		return nil, ReadError(path, err)
	}
	defer f.Close()

	m, err := artifact.ReadMatrix(f)
	if err != nil {
		return nil, ReadError(path, err)
	}
	return m, nil
}

// SaveEmbedding writes the embedding next to the distance matrix.
func SaveEmbedding(homeDir string, e *artifact.Embedding) error {
	dir := config.ArtifactsDir(homeDir)
	err := gnsys.MakeDir(dir)
	if err != nil {
		slog.Error("Cannot create artifacts directory", "error", err, "dir", dir)
		return WriteError(dir, err)
	}

	path := config.EmbeddingPath(homeDir)
	err = writeAtomic(path, e.Write)
	if err != nil {
		return WriteError(path, err)
	}

	slog.Info("Saved embedding",
		"path", path,
		"plants", e.N(),
		"dims", e.Dims(),
	)
	return nil
}

// LoadEmbedding reads the embedding from the artifacts directory.
func LoadEmbedding(homeDir string) (*artifact.Embedding, error) {
	path := config.EmbeddingPath(homeDir)
	f, err := os.Open(path)
	if err != nil {
		return nil, ReadError(path, err)
	}
	defer f.Close()

	e, err := artifact.ReadEmbedding(f)
	if err != nil {
		return nil, ReadError(path, err)
	}
	return e, nil
}

// writeAtomic writes through a temporary file in the same directory
// and renames it into place.
func writeAtomic(path string, write func(io.Writer) error) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}

	w := bufio.NewWriterSize(f, 1<<20)
	err = write(w)
	if err == nil {
		err = w.Flush()
	}
	if err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}

	err = f.Close()
	if err != nil {
		os.Remove(tmp)
		return err
	}

	return os.Rename(tmp, path)
}
