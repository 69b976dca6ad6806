// Package search answers free-text queries against the harvested
// vector index.
package search
