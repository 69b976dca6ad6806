package storage

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/listenlab/harvest/core"
)

// SaveChunks persists the full chunk set for a content kind as one JSON
// array. The chunk set is always derived from raw content, so the file
// is simply replaced wholesale.
func SaveChunks(path string, chunks []core.Chunk) error {
	if chunks == nil {
		chunks = []core.Chunk{}
	}
	data, err := json.MarshalIndent(chunks, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal chunks: %w", err)
	}
	return WriteFileAtomic(path, data)
}

// LoadChunks reads a chunk file. A missing file is not an error; it
// means chunking has not run for that kind yet.
func LoadChunks(path string) ([]core.Chunk, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Warn("chunk file not found", "path", path)
			return nil, nil
		}
		return nil, fmt.Errorf("read chunk file %s: %w", path, err)
	}

	var chunks []core.Chunk
	if err := json.Unmarshal(data, &chunks); err != nil {
		return nil, fmt.Errorf("parse chunk file %s: %w", path, err)
	}
	return chunks, nil
}
