package embedding

import (
	"strings"
	"testing"
)

func TestShouldEmbed(t *testing.T) {
	gate := NewGate(25000)
	allowed := []string{"pdf", "txt", "md", "docx"}

	tests := []struct {
		name               string
		extension          string
		textLength         int
		generatorAvailable bool
		want               bool
	}{
		{"allowed extension", "pdf", 1000, true, true},
		{"extension with leading dot", ".txt", 1000, true, true},
		{"uppercase extension", "PDF", 1000, true, true},
		{"no generator available", "pdf", 1000, false, false},
		{"extension not embeddable", "csv", 1000, true, false},
		{"text over ceiling", "pdf", 50001, true, false},
		{"text exactly at ceiling", "pdf", 50000, true, true},
		{"empty extension", "", 1000, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := gate.ShouldEmbed(tt.extension, tt.textLength, tt.generatorAvailable, allowed)
			if got != tt.want {
				t.Errorf("ShouldEmbed(%q, %d, %v) = %v, want %v",
					tt.extension, tt.textLength, tt.generatorAvailable, got, tt.want)
			}
		})
	}
}

func TestLimitForEmbedding(t *testing.T) {
	gate := NewGate(100)

	t.Run("all chunks within budget", func(t *testing.T) {
		chunks := []string{strings.Repeat("a", 40), strings.Repeat("b", 40)}
		got := gate.LimitForEmbedding(chunks)
		if len(got) != 2 {
			t.Fatalf("expected 2 chunks, got %d", len(got))
		}
	})

	t.Run("stops before overflowing chunk", func(t *testing.T) {
		chunks := []string{
			strings.Repeat("a", 40),
			strings.Repeat("b", 40),
			strings.Repeat("c", 40),
			strings.Repeat("d", 5),
		}
		got := gate.LimitForEmbedding(chunks)
		if len(got) != 2 {
			t.Fatalf("expected 2 chunks, got %d", len(got))
		}
	})

	t.Run("exact budget fit accepted", func(t *testing.T) {
		chunks := []string{strings.Repeat("a", 60), strings.Repeat("b", 40)}
		got := gate.LimitForEmbedding(chunks)
		if len(got) != 2 {
			t.Fatalf("expected 2 chunks, got %d", len(got))
		}
	})

	t.Run("first chunk already over budget", func(t *testing.T) {
		chunks := []string{strings.Repeat("a", 101)}
		got := gate.LimitForEmbedding(chunks)
		if len(got) != 0 {
			t.Fatalf("expected 0 chunks, got %d", len(got))
		}
	})

	t.Run("empty input", func(t *testing.T) {
		if got := gate.LimitForEmbedding(nil); len(got) != 0 {
			t.Fatalf("expected 0 chunks, got %d", len(got))
		}
	})
}
