package chunker

import (
	"regexp"
	"strings"
)

// Options tunes the splitter. All sizes are in runes so multi-byte text
// cannot be cut mid-character.
type Options struct {
	// ChunkSize is the target maximum chunk length.
	ChunkSize int
	// Overlap is how many trailing characters of a closed chunk seed the
	// next one.
	Overlap int
	// BoundaryWindowDivisor bounds the sentence-boundary scan inside the
	// overlap tail: a ". " found within the first 1/divisor of the tail
	// moves the seed forward to the sentence start.
	BoundaryWindowDivisor int
}

func DefaultOptions() Options {
	return Options{
		ChunkSize:             2000,
		Overlap:               200,
		BoundaryWindowDivisor: 2,
	}
}

type Chunker struct {
	opts Options
}

func New(opts Options) *Chunker {
	def := DefaultOptions()
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = def.ChunkSize
	}
	if opts.Overlap < 0 || opts.Overlap >= opts.ChunkSize {
		opts.Overlap = def.Overlap
	}
	if opts.BoundaryWindowDivisor <= 0 {
		opts.BoundaryWindowDivisor = def.BoundaryWindowDivisor
	}
	return &Chunker{opts: opts}
}

var (
	paragraphSep = regexp.MustCompile(`\n[ \t]*\n+`)
	sentenceEnd  = regexp.MustCompile(`[.!?][ \t\n]+`)
)

// Chunk splits text into overlapping chunks sized for one embedding call.
// Paragraphs are accumulated greedily; a paragraph that cannot fit in a
// chunk on its own is split on sentence boundaries, and a sentence longer
// than a whole chunk is hard-cut. Purely a function of the input and the
// options: no I/O, no randomness.
func (c *Chunker) Chunk(text string) []string {
	trimmed := strings.TrimSpace(strings.ReplaceAll(text, "\r\n", "\n"))
	if trimmed == "" {
		return nil
	}
	if len([]rune(trimmed)) <= c.opts.ChunkSize {
		return []string{trimmed}
	}

	acc := &accumulator{opts: c.opts}

	for _, paragraph := range splitParagraphs(trimmed) {
		if len([]rune(paragraph)) <= c.opts.ChunkSize {
			acc.add(paragraph, "\n\n")
			continue
		}
		// Paragraph cannot fit by itself: fall back to sentences. Oversized
		// sentences get hard-cut inside add.
		for _, sentence := range splitSentences(paragraph) {
			acc.add(sentence, " ")
		}
	}

	return acc.finish()
}

// accumulator carries the in-progress chunk between pieces. current may
// start with an overlap seed copied from the previous chunk's tail.
type accumulator struct {
	opts    Options
	chunks  []string
	current string
	// seeded is true while current holds only the overlap seed and no new
	// content; a trailing seed alone must not become a chunk of its own.
	seeded bool
}

func (a *accumulator) add(piece, sep string) {
	pieceLen := len([]rune(piece))

	if a.current != "" && !a.fits(pieceLen, sep) {
		a.close()
		// The seed plus the incoming piece may still overflow; shrink the
		// seed from the front so the size bound holds. The seed stays a
		// suffix of the previous tail, so the overlap remains a shared
		// substring.
		if a.current != "" && !a.fits(pieceLen, sep) {
			keep := a.opts.ChunkSize - pieceLen - len(sep)
			a.current = tailRunes(a.current, keep)
		}
	}

	if a.current == "" {
		a.current = piece
	} else {
		a.current += sep + piece
	}
	a.seeded = false

	// Hard-cut loop: only entered when a single sentence exceeds the chunk
	// size. The remainder stays in current and rejoins normal accumulation.
	for len([]rune(a.current)) > a.opts.ChunkSize {
		runes := []rune(a.current)
		cut := strings.TrimSpace(string(runes[:a.opts.ChunkSize]))
		if cut != "" {
			a.chunks = append(a.chunks, cut)
		}
		a.current = strings.TrimSpace(string(runes[a.opts.ChunkSize:]))
	}
}

func (a *accumulator) fits(pieceLen int, sep string) bool {
	return len([]rune(a.current))+len(sep)+pieceLen <= a.opts.ChunkSize
}

// close emits the current chunk and reseeds with its overlap tail.
func (a *accumulator) close() {
	chunk := strings.TrimSpace(a.current)
	if chunk == "" {
		a.current = ""
		return
	}
	a.chunks = append(a.chunks, chunk)
	a.current = a.overlapTail(chunk)
	a.seeded = true
}

func (a *accumulator) finish() []string {
	if !a.seeded {
		if chunk := strings.TrimSpace(a.current); chunk != "" {
			a.chunks = append(a.chunks, chunk)
		}
	}
	return a.chunks
}

// overlapTail returns the seed for the chunk following the one just closed:
// the last Overlap runes, moved forward to the nearest sentence start when
// one begins within the boundary window.
func (a *accumulator) overlapTail(chunk string) string {
	runes := []rune(chunk)
	tail := chunk
	if len(runes) > a.opts.Overlap {
		tail = string(runes[len(runes)-a.opts.Overlap:])
	}

	window := len([]rune(tail)) / a.opts.BoundaryWindowDivisor
	if idx := strings.Index(tail, ". "); idx >= 0 {
		if len([]rune(tail[:idx])) < window {
			tail = tail[idx+2:]
		}
	}

	return strings.TrimSpace(tail)
}

func splitParagraphs(text string) []string {
	var paragraphs []string
	for _, p := range paragraphSep.Split(text, -1) {
		if p = strings.TrimSpace(p); p != "" {
			paragraphs = append(paragraphs, p)
		}
	}
	return paragraphs
}

func splitSentences(paragraph string) []string {
	var sentences []string
	last := 0
	for _, loc := range sentenceEnd.FindAllStringIndex(paragraph, -1) {
		// loc[0] is the terminator rune; keep it with its sentence.
		if s := strings.TrimSpace(paragraph[last : loc[0]+1]); s != "" {
			sentences = append(sentences, s)
		}
		last = loc[1]
	}
	if s := strings.TrimSpace(paragraph[last:]); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

func tailRunes(s string, keep int) string {
	if keep <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= keep {
		return s
	}
	return strings.TrimSpace(string(runes[len(runes)-keep:]))
}
