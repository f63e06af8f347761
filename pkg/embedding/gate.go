package embedding

import "strings"

// Gate decides whether a file's chunks should be embedded at all, and
// bounds the total character volume sent to the provider in one batch.
type Gate struct {
	charBudget        int
	ceilingMultiplier int
}

const (
	defaultCharBudget        = 25000
	defaultCeilingMultiplier = 2
)

func NewGate(charBudget int) *Gate {
	if charBudget <= 0 {
		charBudget = defaultCharBudget
	}
	return &Gate{
		charBudget:        charBudget,
		ceilingMultiplier: defaultCeilingMultiplier,
	}
}

// ShouldEmbed reports whether embeddings should be generated for a file.
// The embeddable allow-list is narrower than the upload allow-list, so a
// file can be stored as plain text while never reaching the provider.
func (g *Gate) ShouldEmbed(fileExtension string, textLength int, generatorAvailable bool, allowedExtensions []string) bool {
	if !generatorAvailable {
		return false
	}
	if textLength > g.charBudget*g.ceilingMultiplier {
		return false
	}

	ext := strings.ToLower(strings.TrimPrefix(fileExtension, "."))
	for _, allowed := range allowedExtensions {
		if ext == strings.ToLower(strings.TrimPrefix(allowed, ".")) {
			return true
		}
	}
	return false
}

// LimitForEmbedding accepts chunks in order until the next chunk would
// push the running total past the character budget, then stops. Trailing
// chunks stay stored as plain text without embeddings.
func (g *Gate) LimitForEmbedding(chunks []string) []string {
	total := 0
	for i, chunk := range chunks {
		next := total + len([]rune(chunk))
		if next > g.charBudget {
			return chunks[:i]
		}
		total = next
	}
	return chunks
}
