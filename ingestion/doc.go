// Package ingestion implements the harvest pipeline stages: discovery
// of new blog posts and podcast episodes, acquisition of raw text and
// audio, transcription, and indexing of embedded chunks.
//
// Every stage is idempotent. Stages read the item registry, act on
// items whose state makes them eligible, apply the resulting state
// transitions, and persist the registry whether or not individual
// items failed. A failed item never aborts its stage.
package ingestion
