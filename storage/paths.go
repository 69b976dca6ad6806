package storage

import (
	"path/filepath"

	"github.com/listenlab/harvest/core"
)

// Paths derives every file and directory location in the harvest data
// tree from a single root, so all stages agree on the layout.
type Paths struct {
	Root string
}

// NewPaths creates a Paths rooted at the given data directory.
func NewPaths(root string) Paths {
	return Paths{Root: root}
}

// kindDir maps a content kind to its directory name.
func kindDir(kind core.Kind) string {
	if kind == core.KindEpisode {
		return "podcasts"
	}
	return "blogs"
}

// RegistryPath returns the registry file for a content kind.
func (p Paths) RegistryPath(kind core.Kind) string {
	return filepath.Join(p.Root, "registry", kindDir(kind)+".json")
}

// RawDir returns the directory holding raw content files for a kind.
func (p Paths) RawDir(kind core.Kind) string {
	return filepath.Join(p.Root, "raw", kindDir(kind))
}

// RawPath returns the raw content file for one item.
func (p Paths) RawPath(kind core.Kind, id string) string {
	return filepath.Join(p.RawDir(kind), id+".json")
}

// AudioDir returns the directory holding downloaded episode audio.
func (p Paths) AudioDir() string {
	return filepath.Join(p.Root, "audio", "podcasts")
}

// AudioPath returns the deterministic local path for an episode's
// audio file. The path depends only on the episode id, which is what
// makes download resume and post-transcription cleanup line up.
func (p Paths) AudioPath(episodeID string) string {
	return filepath.Join(p.AudioDir(), episodeID+".mp3")
}

// ChunksPath returns the chunk file for a content kind.
func (p Paths) ChunksPath(kind core.Kind) string {
	return filepath.Join(p.Root, "processed", kindDir(kind), "chunks.json")
}

// IndexDir returns the directory for the vector index backend.
func (p Paths) IndexDir() string {
	return filepath.Join(p.Root, "embeddings")
}
