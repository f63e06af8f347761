package indexing

import (
	"context"

	"ai-docchat-be/internal/entity"
	"ai-docchat-be/internal/pkg/logger"
	"ai-docchat-be/pkg/searchindex"
)

const logModule = "index-synchronizer"

// Options tune one synchronizer instance. Zero values fall back to the
// defaults below.
type Options struct {
	TypeTag      string
	RecordType   string
	BatchSize    int
	MaxPositions int

	// OnProfileSynced is called after a profile's watermark advances.
	// Optional; used to emit domain events.
	OnProfileSynced func(profileName string, lastTaskId int64)
}

const (
	defaultBatchSize    = 100
	defaultMaxPositions = 32
)

// Synchronizer drains the indexing task stream into every eligible index
// profile's backend, advancing each profile's watermark independently so
// a slow profile never holds back the others beyond re-reading tasks.
type Synchronizer struct {
	registry *searchindex.Registry
	tasks    TaskSource
	store    WatermarkStore
	resolver RecordResolver
	builder  EntryBuilder
	locker   Locker
	log      logger.ILogger
	opts     Options
}

func NewSynchronizer(
	registry *searchindex.Registry,
	tasks TaskSource,
	store WatermarkStore,
	resolver RecordResolver,
	builder EntryBuilder,
	locker Locker,
	log logger.ILogger,
	opts Options,
) *Synchronizer {
	if opts.BatchSize <= 0 {
		opts.BatchSize = defaultBatchSize
	}
	if opts.MaxPositions <= 0 {
		opts.MaxPositions = defaultMaxPositions
	}
	if locker == nil {
		locker = NoopLocker{}
	}
	return &Synchronizer{
		registry: registry,
		tasks:    tasks,
		store:    store,
		resolver: resolver,
		builder:  builder,
		locker:   locker,
		log:      log,
		opts:     opts,
	}
}

type trackedProfile struct {
	profile entity.IndexProfile
	adapter searchindex.Adapter
	release func()

	// failed marks a profile whose staged write or watermark persist
	// failed mid-run. Later batches must not touch it: committing them
	// would move the watermark past the failed batch's tasks, and those
	// would never be fetched again.
	failed bool
}

// Run executes one synchronization pass: it selects eligible profiles,
// pulls task batches from the shared floor, and commits staged index
// writes per profile. Safe to call repeatedly; every write replays
// idempotently.
func (s *Synchronizer) Run(ctx context.Context) error {
	tracked, err := s.selectProfiles(ctx)
	if err != nil {
		return err
	}
	if len(tracked) == 0 {
		s.log.Debug(logModule, "no eligible index profiles, nothing to synchronize", nil)
		return nil
	}
	defer func() {
		for _, t := range tracked {
			t.release()
		}
	}()

	floor := tracked[0].profile.LastTaskId
	for _, t := range tracked[1:] {
		if t.profile.LastTaskId < floor {
			floor = t.profile.LastTaskId
		}
	}

	for {
		batch, err := s.tasks.FetchTasks(ctx, floor, s.opts.BatchSize, s.opts.RecordType)
		if err != nil {
			return err
		}
		if len(batch) == 0 {
			return nil
		}

		records := make(map[string]*Record)
		active := 0
		for i := range tracked {
			s.processBatch(ctx, &tracked[i], batch, records)
			if !tracked[i].failed {
				active++
			}
		}
		if active == 0 {
			return nil
		}

		floor = batch[len(batch)-1].Id
	}
}

func (s *Synchronizer) selectProfiles(ctx context.Context) ([]trackedProfile, error) {
	profiles, err := s.store.EligibleProfiles(ctx, s.opts.TypeTag)
	if err != nil {
		return nil, err
	}

	var tracked []trackedProfile
	for _, profile := range profiles {
		adapter, ok := s.registry.Resolve(profile.Provider)
		if !ok {
			s.log.Warn(logModule, "no backend adapter registered for provider, skipping profile", map[string]interface{}{
				"profile":  profile.Name,
				"provider": profile.Provider,
			})
			continue
		}

		exists, err := adapter.Exists(ctx, profile.IndexName)
		if err != nil {
			s.log.Warn(logModule, "failed to check backend index, skipping profile", map[string]interface{}{
				"profile": profile.Name,
				"index":   profile.IndexName,
				"error":   err.Error(),
			})
			continue
		}
		if !exists {
			s.log.Warn(logModule, "backend index does not exist, skipping profile", map[string]interface{}{
				"profile": profile.Name,
				"index":   profile.IndexName,
			})
			continue
		}

		release, acquired, err := s.locker.Acquire(ctx, "index-sync:"+profile.Id.String())
		if err != nil {
			s.log.Warn(logModule, "failed to acquire profile lock, skipping profile", map[string]interface{}{
				"profile": profile.Name,
				"error":   err.Error(),
			})
			continue
		}
		if !acquired {
			s.log.Debug(logModule, "profile locked by another synchronizer, skipping", map[string]interface{}{
				"profile": profile.Name,
			})
			continue
		}

		tracked = append(tracked, trackedProfile{profile: profile, adapter: adapter, release: release})
	}
	return tracked, nil
}

func (s *Synchronizer) processBatch(ctx context.Context, t *trackedProfile, batch []entity.IndexingTask, records map[string]*Record) {
	if t.failed {
		return
	}

	var (
		additions  []searchindex.IndexEntry
		removals   []string
		lastTaskId int64
	)

	for _, task := range batch {
		if task.Id <= t.profile.LastTaskId {
			continue
		}
		lastTaskId = task.Id

		record, ok := records[task.RecordId.String()]
		if !ok {
			resolved, err := s.resolver.Resolve(ctx, task.RecordId)
			if err != nil {
				s.log.Warn(logModule, "failed to resolve record for task", map[string]interface{}{
					"task_id":   task.Id,
					"record_id": task.RecordId.String(),
					"error":     err.Error(),
				})
				continue
			}
			record = resolved
			records[task.RecordId.String()] = record
		}

		switch task.Type {
		case entity.IndexingTaskDelete:
			removals = append(removals, allPositions(task.RecordId.String(), s.opts.MaxPositions)...)
		case entity.IndexingTaskUpdate:
			if record == nil {
				// Record deleted after the task was written.
				continue
			}
			entries := s.builder.Build(record)
			additions = append(additions, entries...)
			// Entries for positions past the current document count may
			// linger from an earlier, larger state of the record.
			for position := len(entries); position < s.opts.MaxPositions; position++ {
				removals = append(removals, searchindex.EntryId(task.RecordId.String(), position))
			}
		}
	}

	if lastTaskId == 0 {
		return
	}

	if len(removals) > 0 {
		if err := t.adapter.Delete(ctx, t.profile.IndexName, removals); err != nil {
			s.log.Warn(logModule, "backend delete failed, watermark unchanged", map[string]interface{}{
				"profile": t.profile.Name,
				"error":   err.Error(),
			})
			t.failed = true
			return
		}
	}
	if len(additions) > 0 {
		if err := t.adapter.Upsert(ctx, t.profile.IndexName, additions); err != nil {
			s.log.Warn(logModule, "backend upsert failed, watermark unchanged", map[string]interface{}{
				"profile": t.profile.Name,
				"error":   err.Error(),
			})
			t.failed = true
			return
		}
	}

	if err := s.store.Advance(ctx, t.profile.Id, lastTaskId); err != nil {
		s.log.Error(logModule, "failed to persist watermark", map[string]interface{}{
			"profile": t.profile.Name,
			"error":   err.Error(),
		})
		t.failed = true
		return
	}
	t.profile.LastTaskId = lastTaskId

	s.log.Info(logModule, "profile synchronized", map[string]interface{}{
		"profile":      t.profile.Name,
		"last_task_id": lastTaskId,
		"additions":    len(additions),
		"removals":     len(removals),
	})

	if s.opts.OnProfileSynced != nil {
		s.opts.OnProfileSynced(t.profile.Name, lastTaskId)
	}
}

func allPositions(recordId string, maxPositions int) []string {
	ids := make([]string, 0, maxPositions)
	for position := 0; position < maxPositions; position++ {
		ids = append(ids, searchindex.EntryId(recordId, position))
	}
	return ids
}
