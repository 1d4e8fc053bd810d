package config

import (
	"path/filepath"
)

var (
	// AppName is used in generating file system paths.
	AppName = "guilddb"
)

// ConfigDir returns the directory path for configuration files.
// Returns ~/.config/guilddb by default.
func ConfigDir(homeDir string) string {
	return filepath.Join(homeDir, ".config", AppName)
}

// CacheDir returns the directory path for cache files, including
// downloaded dataset snapshots and matrix shard work directories.
// Returns ~/.cache/guilddb by default.
func CacheDir(homeDir string) string {
	return filepath.Join(homeDir, ".cache", AppName)
}

// LogDir returns the directory path for log files.
// Returns ~/.local/share/guilddb/logs by default.
func LogDir(homeDir string) string {
	return filepath.Join(homeDir, ".local", "share", AppName, "logs")
}

// ArtifactsDir returns the directory for numeric artifacts
// (distance matrix, embedding).
// Returns ~/.local/share/guilddb/artifacts by default.
func ArtifactsDir(homeDir string) string {
	return filepath.Join(homeDir, ".local", "share", AppName, "artifacts")
}

// ShardsDir returns the work directory for in-progress matrix row shards.
func ShardsDir(homeDir string) string {
	return filepath.Join(CacheDir(homeDir), "shards")
}

// ConfigFilePath returns the full path to the config.yaml file.
// Returns ~/.config/guilddb/config.yaml by default.
func ConfigFilePath(homeDir string) string {
	return filepath.Join(ConfigDir(homeDir), "config.yaml")
}

// DatasetsFilePath returns the full path to the datasets.yaml file.
// Returns ~/.config/guilddb/datasets.yaml by default.
func DatasetsFilePath(homeDir string) string {
	return filepath.Join(ConfigDir(homeDir), "datasets.yaml")
}

// MatrixPath returns the full path of the pairwise distance matrix artifact.
func MatrixPath(homeDir string) string {
	return filepath.Join(ArtifactsDir(homeDir), "pd-matrix.bin")
}

// EmbeddingPath returns the full path of the phylogenetic embedding artifact.
func EmbeddingPath(homeDir string) string {
	return filepath.Join(ArtifactsDir(homeDir), "pd-embedding.bin")
}
