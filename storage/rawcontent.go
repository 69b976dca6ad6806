package storage

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/listenlab/harvest/core"
)

// SaveRawContent persists one raw content record as <id>.json in dir,
// creating the directory if needed.
func SaveRawContent(dir string, raw *core.RawContent) error {
	if raw == nil || raw.ID == "" {
		return fmt.Errorf("raw content requires an id")
	}

	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal raw content %s: %w", raw.ID, err)
	}

	return WriteFileAtomic(filepath.Join(dir, raw.ID+".json"), data)
}

// LoadRawContents reads every raw content file in dir, sorted by file
// name so callers see a stable order. Files that fail to parse are
// logged and skipped; one corrupt file never hides the rest. A missing
// directory yields an empty slice.
func LoadRawContents(dir string) ([]*core.RawContent, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read raw dir %s: %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	items := make([]*core.RawContent, 0, len(names))
	for _, name := range names {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			slog.Error("failed reading raw content file", "path", path, "err", err)
			continue
		}
		var raw core.RawContent
		if err := json.Unmarshal(data, &raw); err != nil {
			slog.Error("failed parsing raw content file", "path", path, "err", err)
			continue
		}
		items = append(items, &raw)
	}
	return items, nil
}
