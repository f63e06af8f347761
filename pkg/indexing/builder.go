package indexing

import (
	"ai-docchat-be/pkg/searchindex"
)

// DocumentIndexBuilder maps each document of a record to one index entry
// keyed by the document's position. Chunks without embeddings are left
// out; they are searchable as stored text only, never by similarity.
type DocumentIndexBuilder struct{}

func NewDocumentIndexBuilder() *DocumentIndexBuilder {
	return &DocumentIndexBuilder{}
}

func (b *DocumentIndexBuilder) Build(record *Record) []searchindex.IndexEntry {
	if record == nil {
		return nil
	}

	entries := make([]searchindex.IndexEntry, 0, len(record.Documents))
	for position, document := range record.Documents {
		chunks := make([]searchindex.EntryChunk, 0, len(document.Chunks))
		for _, chunk := range document.Chunks {
			if !chunk.Embedded() {
				continue
			}
			chunks = append(chunks, searchindex.EntryChunk{
				Index:     chunk.Index,
				Text:      chunk.Text,
				Embedding: chunk.Embedding,
			})
		}
		entries = append(entries, searchindex.IndexEntry{
			Id:       searchindex.EntryId(record.Id.String(), position),
			OwnerId:  record.Id.String(),
			RecordId: record.Id.String(),
			Position: position,
			Chunks:   chunks,
		})
	}
	return entries
}
