package memory

import (
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// RetrievalSettings is what the context assembler needs per chat turn:
// the interaction's topN override (0 = use the settings default) and its
// attached-document count. Both are cheap to recompute, so a short TTL
// keeps staleness harmless.
type RetrievalSettings struct {
	TopN          int
	DocumentCount int64
}

type RetrievalSettingsCache struct {
	cache *cache.Cache
}

func NewRetrievalSettingsCache() *RetrievalSettingsCache {
	// 30s expiry, purge sweep every minute
	c := cache.New(30*time.Second, 1*time.Minute)
	return &RetrievalSettingsCache{
		cache: c,
	}
}

func (r *RetrievalSettingsCache) Save(interactionId uuid.UUID, settings RetrievalSettings) {
	r.cache.Set(interactionId.String(), settings, cache.DefaultExpiration)
}

func (r *RetrievalSettingsCache) Get(interactionId uuid.UUID) (RetrievalSettings, bool) {
	if x, found := r.cache.Get(interactionId.String()); found {
		return x.(RetrievalSettings), true
	}
	return RetrievalSettings{}, false
}

func (r *RetrievalSettingsCache) Invalidate(interactionId uuid.UUID) {
	r.cache.Delete(interactionId.String())
}
