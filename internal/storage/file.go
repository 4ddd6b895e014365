// Package storage provides session and market-data persistence.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bobmcallan/advisor/internal/common"
	"github.com/bobmcallan/advisor/internal/interfaces"
)

// FileCache is a file-based JSON cache for fetched market data. Charts and
// other binary artifacts go through WriteRaw.
type FileCache struct {
	basePath string
	logger   *common.Logger
}

// NewFileCache creates a FileCache rooted at basePath.
func NewFileCache(logger *common.Logger, basePath string) (*FileCache, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", basePath, err)
	}
	logger.Debug().Str("path", basePath).Msg("FileCache opened")
	return &FileCache{basePath: basePath, logger: logger}, nil
}

// sanitizeKey makes a key safe for use as a filename.
// Replaces /, \, : with _ and collapses ".." to "_" to prevent path traversal.
// Preserves single dots (safe in filenames, common in tickers like BHP.AU).
func (fc *FileCache) sanitizeKey(key string) string {
	r := strings.NewReplacer("/", "_", "\\", "_", ":", "_", "..", "_")
	return r.Replace(key)
}

func (fc *FileCache) filePath(key string) string {
	return filepath.Join(fc.basePath, fc.sanitizeKey(key)+".json")
}

// Read unmarshals a cached entry into v. A missing file is a miss, not an
// error. Age is the file's modification age in seconds.
func (fc *FileCache) Read(key string, v any) (bool, int64, error) {
	path := fc.filePath(key)

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, 0, nil
		}
		return false, 0, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return false, 0, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if len(data) == 0 {
		return false, 0, nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, 0, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	age := int64(time.Since(info.ModTime()).Seconds())
	return true, age, nil
}

// Write marshals v to indented JSON and writes it atomically.
func (fc *FileCache) Write(key string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	data = append(data, '\n')
	return fc.writeAtomic(fc.filePath(key), data)
}

// WriteRaw writes raw bytes atomically under the key with no extension
// added; use it for chart PNGs and other non-JSON artifacts.
func (fc *FileCache) WriteRaw(key string, data []byte) error {
	return fc.writeAtomic(filepath.Join(fc.basePath, fc.sanitizeKey(key)), data)
}

// Delete removes a cached entry. Deleting a missing key is not an error.
func (fc *FileCache) Delete(key string) error {
	err := os.Remove(fc.filePath(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// writeAtomic writes to a temp file in the same directory, then renames.
func (fc *FileCache) writeAtomic(target string, data []byte) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(target), ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, target); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

var _ interfaces.MarketCache = (*FileCache)(nil)
