package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// PathsConfig contains file system paths configuration. All paths are
// resolved relative to BaseDir unless absolute.
type PathsConfig struct {
	BaseDir    string `yaml:"base_dir" envconfig:"BASE_DIR" default:"."`
	UploadsDir string `yaml:"uploads_dir" envconfig:"UPLOADS_DIR" default:"data/uploads"`
	OutputDir  string `yaml:"output_dir" envconfig:"OUTPUT_DIR" default:"data/output"`
	LogsDir    string `yaml:"logs_dir" envconfig:"LOGS_DIR" default:"logs"`
}

// resolve joins a configured directory with the base dir when relative
func (p PathsConfig) resolve(dir string) string {
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(p.BaseDir, dir)
}

// UploadsPath returns the absolute path for an uploaded file
func (p PathsConfig) UploadsPath(filename string) string {
	return filepath.Join(p.resolve(p.UploadsDir), filename)
}

// OutputPath returns the absolute path for a generated output file
func (p PathsConfig) OutputPath(filename string) string {
	return filepath.Join(p.resolve(p.OutputDir), filename)
}

// SiteBundlePath returns the path for a generated site JSON file
func (p PathsConfig) SiteBundlePath(filename string) string {
	return filepath.Join(p.resolve(p.OutputDir), "json", filename)
}

// LogsPath returns the absolute path for a log file
func (p PathsConfig) LogsPath(filename string) string {
	return filepath.Join(p.resolve(p.LogsDir), filename)
}

// EnsureDirectories creates all required directories
func (p PathsConfig) EnsureDirectories() error {
	dirs := []string{
		p.resolve(p.UploadsDir),
		p.resolve(p.OutputDir),
		filepath.Join(p.resolve(p.OutputDir), "json"),
		p.resolve(p.LogsDir),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// FileExists reports whether the given path exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
