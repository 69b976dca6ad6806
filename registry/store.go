// Package registry persists the lifecycle state of every discovered
// content item. The registry is a whole-file JSON array per content
// kind: stages load the complete mapping at the start of a run, mutate
// items in memory through state transitions, and save the complete
// mapping at the end. Saves are atomic (temp file plus rename) so a
// crash mid-write never corrupts previously persisted state.
//
// Single-writer batch runs are assumed; concurrent runs against the
// same registry file are not protected against.
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/listenlab/harvest/core"
	"github.com/listenlab/harvest/storage"
)

// Load reads the registry file at path into a mapping keyed by item id.
// A missing file is not an error: it returns an empty mapping, meaning
// no items have been discovered yet.
func Load(path string) (map[string]*core.Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]*core.Item{}, nil
		}
		return nil, fmt.Errorf("read registry %s: %w", path, err)
	}

	var items []*core.Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parse registry %s: %w", path, err)
	}

	mapping := make(map[string]*core.Item, len(items))
	for _, item := range items {
		if item.ID == "" {
			return nil, fmt.Errorf("registry %s: %w", path, core.ErrEmptyID)
		}
		mapping[item.ID] = item
	}
	return mapping, nil
}

// Save writes the complete mapping back to path as a JSON array sorted
// by item id, creating parent directories on first save. The write is
// atomic; there are no partial updates.
func Save(path string, items map[string]*core.Item) error {
	ids := make([]string, 0, len(items))
	for id := range items {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	ordered := make([]*core.Item, 0, len(items))
	for _, id := range ids {
		ordered = append(ordered, items[id])
	}

	data, err := json.MarshalIndent(ordered, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal registry: %w", err)
	}

	return storage.WriteFileAtomic(path, data)
}

// SortedIDs returns the item ids in lexical order. Stages iterate the
// registry through this so runs process items in a stable order.
func SortedIDs(items map[string]*core.Item) []string {
	ids := make([]string, 0, len(items))
	for id := range items {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
