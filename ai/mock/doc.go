// Package mock provides test doubles for the ai package interfaces.
// The doubles default to deterministic behavior (hash-derived vectors,
// a fixed transcript) and support behavior injection through function
// fields plus call-count assertions.
package mock
