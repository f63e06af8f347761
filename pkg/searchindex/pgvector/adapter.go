package pgvector

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	pgv "github.com/pgvector/pgvector-go"
	"gorm.io/gorm"

	"ai-docchat-be/internal/model"
	"ai-docchat-be/pkg/searchindex"
)

// ProviderName is the registry key for this adapter.
const ProviderName = "pgvector"

// Adapter serves logical search indexes out of two Postgres tables, using
// the pgvector cosine distance operator for similarity.
type Adapter struct {
	db *gorm.DB
}

func NewAdapter(db *gorm.DB) *Adapter {
	return &Adapter{db: db}
}

func (a *Adapter) Exists(ctx context.Context, indexName string) (bool, error) {
	var count int64
	err := a.db.WithContext(ctx).
		Model(&model.SearchIndex{}).
		Where("name = ?", indexName).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (a *Adapter) Upsert(ctx context.Context, indexName string, entries []searchindex.IndexEntry) error {
	if len(entries) == 0 {
		return nil
	}

	return a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, entry := range entries {
			ownerId, err := uuid.Parse(entry.OwnerId)
			if err != nil {
				return fmt.Errorf("invalid owner id %q: %w", entry.OwnerId, err)
			}

			// Replacing the entry's chunk rows wholesale keeps the
			// upsert idempotent across replays.
			if err := tx.
				Where("index_name = ? AND entry_id = ?", indexName, entry.Id).
				Delete(&model.IndexedChunk{}).Error; err != nil {
				return err
			}

			rows := make([]model.IndexedChunk, 0, len(entry.Chunks))
			for _, chunk := range entry.Chunks {
				if len(chunk.Embedding) == 0 {
					continue
				}
				rows = append(rows, model.IndexedChunk{
					Id:         uuid.New(),
					IndexName:  indexName,
					EntryId:    entry.Id,
					OwnerId:    ownerId,
					ChunkIndex: chunk.Index,
					ChunkText:  chunk.Text,
					Embedding:  pgv.NewVector(chunk.Embedding),
				})
			}
			if len(rows) == 0 {
				continue
			}
			if err := tx.Create(&rows).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (a *Adapter) Delete(ctx context.Context, indexName string, entryIds []string) error {
	if len(entryIds) == 0 {
		return nil
	}
	return a.db.WithContext(ctx).
		Where("index_name = ? AND entry_id IN ?", indexName, entryIds).
		Delete(&model.IndexedChunk{}).Error
}

type chunkRow struct {
	EntryId    string
	ChunkIndex int
	ChunkText  string
	Score      float64
}

func (a *Adapter) Query(ctx context.Context, indexName string, query searchindex.Query) ([]searchindex.ChunkHit, error) {
	ownerId, err := uuid.Parse(query.OwnerId)
	if err != nil {
		return nil, fmt.Errorf("invalid owner id %q: %w", query.OwnerId, err)
	}

	limit := query.Candidates
	if limit < query.TopN {
		limit = query.TopN
	}

	vector := pgv.NewVector(query.Vector)
	var rows []chunkRow
	err = a.db.WithContext(ctx).Raw(
		`SELECT entry_id, chunk_index, chunk_text, 1 - (embedding <=> ?) AS score
		 FROM indexed_chunks
		 WHERE index_name = ? AND owner_id = ?
		 ORDER BY embedding <=> ?
		 LIMIT ?`,
		vector, indexName, ownerId, vector, limit,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	hits := make([]searchindex.ChunkHit, len(rows))
	for i, row := range rows {
		hits[i] = searchindex.ChunkHit{
			EntryId:    row.EntryId,
			ChunkIndex: row.ChunkIndex,
			Text:       row.ChunkText,
			Score:      row.Score,
		}
	}
	return hits, nil
}
