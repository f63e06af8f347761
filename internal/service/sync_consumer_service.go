package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"ai-docchat-be/internal/dto"
	"ai-docchat-be/internal/pkg/logger"
	"ai-docchat-be/pkg/indexing"
)

const syncLogModule = "sync-consumer"

// ISyncConsumerService drives the index synchronizer: immediately on a
// nudge message, and periodically as a safety net for nudges lost to a
// restart.
type ISyncConsumerService interface {
	Start(ctx context.Context) error
}

type syncConsumerService struct {
	pubSub       *gochannel.GoChannel
	topicName    string
	synchronizer *indexing.Synchronizer
	interval     time.Duration
	log          logger.ILogger

	// runRequests coalesces bursts of nudges into single runs.
	runRequests chan struct{}
}

func NewSyncConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	synchronizer *indexing.Synchronizer,
	intervalSeconds int,
	log logger.ILogger,
) ISyncConsumerService {
	if intervalSeconds <= 0 {
		intervalSeconds = 30
	}
	return &syncConsumerService{
		pubSub:       pubSub,
		topicName:    topicName,
		synchronizer: synchronizer,
		interval:     time.Duration(intervalSeconds) * time.Second,
		log:          log,
		runRequests:  make(chan struct{}, 1),
	}
}

func (s *syncConsumerService) Start(ctx context.Context) error {
	messages, err := s.pubSub.Subscribe(ctx, s.topicName)
	if err != nil {
		return err
	}

	go s.consume(ctx, messages)
	go s.runLoop(ctx)

	return nil
}

func (s *syncConsumerService) consume(ctx context.Context, messages <-chan *message.Message) {
	for msg := range messages {
		var payload dto.PublishSyncMessage
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			s.log.Warn(syncLogModule, "invalid nudge payload, dropping", map[string]interface{}{
				"error": err.Error(),
			})
			msg.Ack()
			continue
		}

		s.log.Debug(syncLogModule, "synchronization nudge received", map[string]interface{}{
			"record_id": payload.RecordId.String(),
			"reason":    payload.Reason,
		})

		// Ack first: the task table is the source of truth and the
		// periodic run re-covers anything a crash loses here.
		msg.Ack()
		s.requestRun()
	}
}

func (s *syncConsumerService) runLoop(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.run(ctx)
		case <-s.runRequests:
			s.run(ctx)
		}
	}
}

func (s *syncConsumerService) requestRun() {
	select {
	case s.runRequests <- struct{}{}:
	default:
	}
}

func (s *syncConsumerService) run(ctx context.Context) {
	if err := s.synchronizer.Run(ctx); err != nil {
		s.log.Error(syncLogModule, "synchronization run failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
