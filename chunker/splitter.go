package chunker

import (
	"strings"

	"github.com/pkoukk/tiktoken-go"
	"github.com/tmc/langchaingo/textsplitter"

	"github.com/listenlab/harvest/core"
)

// Token budget for one chunk and the overlap carried between adjacent
// chunks. Counted in tokens of the same subword vocabulary the
// embedding side uses, so chunk-size accounting matches downstream
// model context limits.
const (
	ChunkSize    = 500
	ChunkOverlap = 80

	encodingName = "cl100k_base"
)

// separators is the ordered list of split preferences: paragraph break,
// line break, sentence end, space, character boundary.
var separators = []string{"\n\n", "\n", ". ", " ", ""}

// SplitInput carries one raw text together with the identity fields
// stamped onto every chunk produced from it.
type SplitInput struct {
	Text       string
	ParentID   string
	SourceType string
	Title      string
	SourceURL  string
}

// Splitter turns raw text into token-bounded, overlapping chunks with
// content-addressed identities. Splitting is deterministic: identical
// input text and parent identity always produce identical chunk ids.
type Splitter struct {
	splitter textsplitter.RecursiveCharacter
	encoding *tiktoken.Tiktoken
}

// NewSplitter creates a splitter with the fixed token budget.
func NewSplitter() (*Splitter, error) {
	encoding, err := tiktoken.GetEncoding(encodingName)
	if err != nil {
		return nil, err
	}

	tokenLen := func(text string) int {
		return len(encoding.Encode(text, nil, nil))
	}

	return &Splitter{
		splitter: textsplitter.NewRecursiveCharacter(
			textsplitter.WithSeparators(separators),
			textsplitter.WithChunkSize(ChunkSize),
			textsplitter.WithChunkOverlap(ChunkOverlap),
			textsplitter.WithLenFunc(tokenLen),
		),
		encoding: encoding,
	}, nil
}

// TokenLen counts text length in tokens of the shared vocabulary.
func (s *Splitter) TokenLen(text string) int {
	return len(s.encoding.Encode(text, nil, nil))
}

// Split produces the ordered chunk sequence for one raw text.
//
// ChunkIndex follows the splitter's enumeration; chunks that trim to
// empty are dropped WITHOUT renumbering, because renumbering would
// change the content-addressed ids of every later chunk on unchanged
// input.
func (s *Splitter) Split(input SplitInput) ([]core.Chunk, error) {
	pieces, err := s.splitter.SplitText(input.Text)
	if err != nil {
		return nil, err
	}

	chunks := make([]core.Chunk, 0, len(pieces))
	for i, piece := range pieces {
		text := strings.TrimSpace(piece)
		if text == "" {
			continue
		}

		chunks = append(chunks, core.Chunk{
			ChunkID:    core.ChunkID(input.ParentID, i, text),
			ParentID:   input.ParentID,
			SourceType: input.SourceType,
			Title:      input.Title,
			SourceURL:  input.SourceURL,
			ChunkIndex: i,
			Text:       text,
		})
	}
	return chunks, nil
}
