// Package chunker splits raw harvested text into token-bounded,
// overlapping chunks suitable for embedding.
//
// Chunk boundaries prefer paragraph breaks, then line breaks, then
// sentence ends. Sizes are counted in tokens rather than characters so
// that budgets line up with embedding model limits. Chunk ids are
// derived from parent id, position, and text, which makes the whole
// stage idempotent: unchanged input yields byte-identical output.
package chunker
