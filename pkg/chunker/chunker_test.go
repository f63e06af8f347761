package chunker

import (
	"fmt"
	"strings"
	"testing"
)

func numberedSentences(start, n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "This is sentence number %d of the sample document. ", start+i)
	}
	return strings.TrimSpace(b.String())
}

// sampleDocument numbers sentences globally so no two paragraphs repeat.
func sampleDocument(paragraphs, sentencesPer int) string {
	var parts []string
	for i := 0; i < paragraphs; i++ {
		parts = append(parts, numberedSentences(i*sentencesPer, sentencesPer))
	}
	return strings.Join(parts, "\n\n")
}

func TestChunk_EdgeInputs(t *testing.T) {
	c := New(DefaultOptions())

	tests := []struct {
		name      string
		input     string
		wantCount int
	}{
		{name: "empty", input: "", wantCount: 0},
		{name: "whitespace only", input: "  \n\t \n ", wantCount: 0},
		{name: "short input single chunk", input: "A short note.", wantCount: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Chunk(tt.input)
			if len(got) != tt.wantCount {
				t.Errorf("chunk count = %d, want %d", len(got), tt.wantCount)
			}
		})
	}
}

func TestChunk_ShortInputReturnedVerbatim(t *testing.T) {
	c := New(Options{ChunkSize: 100, Overlap: 20})
	input := "One small paragraph that fits."

	got := c.Chunk(input)
	if len(got) != 1 || got[0] != input {
		t.Errorf("Chunk(%q) = %v, want single verbatim chunk", input, got)
	}
}

func TestChunk_SizeBound(t *testing.T) {
	opts := Options{ChunkSize: 500, Overlap: 50, BoundaryWindowDivisor: 2}
	c := New(opts)

	inputs := map[string]string{
		"paragraph document":  sampleDocument(10, 5),
		"oversize paragraph":  numberedSentences(0, 40),
		"unsplittable stream": strings.Repeat("x", 1700),
	}

	for name, input := range inputs {
		t.Run(name, func(t *testing.T) {
			for i, chunk := range c.Chunk(input) {
				if got := len([]rune(chunk)); got > opts.ChunkSize {
					t.Errorf("chunk %d length = %d, exceeds %d", i, got, opts.ChunkSize)
				}
			}
		})
	}
}

func TestChunk_CoverageModuloWhitespace(t *testing.T) {
	c := New(Options{ChunkSize: 400, Overlap: 80})
	input := sampleDocument(6, 4)

	chunks := c.Chunk(input)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}

	// Strip the overlap seed from every chunk after the first by locating
	// where the previous chunk's tail stops repeating, then compare the
	// whitespace-normalized concatenation against the source.
	normalize := func(s string) string {
		return strings.Join(strings.Fields(s), " ")
	}

	var rebuilt strings.Builder
	rebuilt.WriteString(chunks[0])
	for i := 1; i < len(chunks); i++ {
		prev := normalize(chunks[i-1])
		cur := normalize(chunks[i])
		newContent := cur
		// The seed is a suffix of the previous chunk; drop the longest
		// prefix of cur that prev ends with.
		for j := len(cur); j > 0; j-- {
			if strings.HasSuffix(prev, cur[:j]) {
				newContent = cur[j:]
				break
			}
		}
		rebuilt.WriteString(" ")
		rebuilt.WriteString(newContent)
	}

	if got, want := normalize(rebuilt.String()), normalize(input); got != want {
		t.Errorf("rebuilt text diverges from input\n got: %.120s...\nwant: %.120s...", got, want)
	}
}

func TestChunk_OverlapSharedSubstring(t *testing.T) {
	c := New(Options{ChunkSize: 400, Overlap: 80})
	chunks := c.Chunk(sampleDocument(8, 4))

	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i := 1; i < len(chunks); i++ {
		head := chunks[i]
		if len(head) > 30 {
			head = head[:30]
		}
		if !strings.Contains(chunks[i-1], head) {
			t.Errorf("chunk %d head %q not found in tail of chunk %d", i, head, i-1)
		}
	}
}

func TestChunk_SixThousandCharScenario(t *testing.T) {
	c := New(Options{ChunkSize: 2000, Overlap: 200})

	var b strings.Builder
	for i := 0; b.Len() < 6000; i++ {
		b.WriteString(numberedSentences(i*3, 3))
		b.WriteString("\n\n")
	}
	input := strings.TrimSpace(b.String())[:6000]

	chunks := c.Chunk(input)
	if len(chunks) < 3 || len(chunks) > 4 {
		t.Errorf("chunk count = %d, want 3-4", len(chunks))
	}
	for i, chunk := range chunks {
		if len([]rune(chunk)) > 2000 {
			t.Errorf("chunk %d exceeds 2000 chars", i)
		}
		if i > 0 {
			head := chunk
			if len(head) > 50 {
				head = head[:50]
			}
			if !strings.Contains(chunks[i-1], head) {
				t.Errorf("chunk %d does not share a prefix with chunk %d's suffix", i, i-1)
			}
		}
	}
}

func TestChunk_HardCutRemainderCarried(t *testing.T) {
	c := New(Options{ChunkSize: 100, Overlap: 10})
	long := strings.Repeat("a", 250) // no sentence boundary anywhere

	chunks := c.Chunk(long)
	var total int
	for _, chunk := range chunks {
		total += len(chunk)
	}
	if total != 250 {
		t.Errorf("total content length = %d, want 250 (no characters lost)", total)
	}
}

func TestChunk_Deterministic(t *testing.T) {
	c := New(Options{ChunkSize: 300, Overlap: 60})
	input := sampleDocument(5, 6)

	first := c.Chunk(input)
	second := c.Chunk(input)

	if len(first) != len(second) {
		t.Fatalf("chunk counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("chunk %d differs between runs", i)
		}
	}
}
