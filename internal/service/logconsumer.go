package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"

	"logview-backend/config"
	"logview-backend/internal/elasticsearch"
	"logview-backend/internal/kafka"
	"logview-backend/internal/model"
	"logview-backend/internal/repository"
)

// LogConsumerService drains the Kafka log topic into the Elasticsearch bulk
// indexer, recording an internal-error summary for every entry that carries
// an exception at ERROR or above.
type LogConsumerService interface {
	Run(ctx context.Context, wg *sync.WaitGroup)
}

type logConsumerService struct {
	consumer    kafka.LogConsumer
	logStore    elasticsearch.LogStore
	errorRepo   repository.ErrorRepository
	sourceName  string
	batchSize   int
	maxWaitTime time.Duration
}

func NewLogConsumerService(
	consumer kafka.LogConsumer,
	logStore elasticsearch.LogStore,
	errorRepo repository.ErrorRepository,
	cfg *config.Config,
) LogConsumerService {
	return &logConsumerService{
		consumer:    consumer,
		logStore:    logStore,
		errorRepo:   errorRepo,
		sourceName:  cfg.Logs.Directory,
		batchSize:   cfg.Logs.BatchSize,
		maxWaitTime: cfg.Logs.MaxBatchWait,
	}
}

func (s *logConsumerService) Run(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()
	log.Info().Msg("Starting log consumer loop...")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Log consumer loop stopping due to context cancellation.")
			return
		default:
		}

		if err := s.processBatch(ctx); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				log.Info().Msg("Context cancelled during batch processing.")
				return
			}
			log.Error().Err(err).Msg("Error processing consumer batch")
			time.Sleep(1 * time.Second)
		}
	}
}

func (s *logConsumerService) processBatch(ctx context.Context) error {
	entries := make([]*model.LogEntry, 0, s.batchSize)
	messages := make([]kafkaGo.Message, 0, s.batchSize)
	batchStart := time.Now()

	for len(entries) < s.batchSize {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		remaining := s.maxWaitTime - time.Since(batchStart)
		if remaining <= 0 {
			break
		}
		fetchCtx, cancel := context.WithTimeout(ctx, remaining)
		entry, msg, err := s.consumer.FetchMessage(fetchCtx)
		cancel()

		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				log.Debug().Int("batch_size", len(entries)).Msg("Max wait reached, processing partial batch.")
				break
			}
			// An unmarshal failure still returns the message so its offset
			// gets committed instead of wedging the partition.
			if msg.Topic != "" {
				log.Warn().Int64("offset", msg.Offset).Msg("Tracking undecodable message for commit.")
				messages = append(messages, msg)
				continue
			}
			return fmt.Errorf("failed to fetch kafka message: %w", err)
		}

		entries = append(entries, entry)
		messages = append(messages, msg)
	}

	if len(messages) == 0 {
		return nil
	}

	valid := make([]model.LogEntry, 0, len(entries))
	for _, entry := range entries {
		if entry != nil {
			valid = append(valid, *entry)
		}
	}

	if err := s.logStore.StoreLogs(ctx, valid); err != nil {
		log.Error().Err(err).Msg("Failed to store logs to Elasticsearch, not committing")
		return fmt.Errorf("failed storing logs: %w", err)
	}

	if summaries := collectErrorSummaries(valid, s.sourceName); len(summaries) > 0 {
		if err := s.errorRepo.Record(ctx, summaries); err != nil {
			// Summaries are best-effort; the log entries themselves are stored.
			log.Error().Err(err).Msg("Failed to record internal error summaries")
		}
	}

	if err := s.consumer.CommitMessages(ctx, messages...); err != nil {
		log.Error().Err(err).Msg("Failed to commit Kafka messages after storage")
		return fmt.Errorf("failed committing kafka messages: %w", err)
	}
	log.Info().Int("batch_size", len(valid)).Msg("Successfully processed and committed batch.")
	return nil
}

func collectErrorSummaries(entries []model.LogEntry, file string) []model.ErrorSummary {
	var summaries []model.ErrorSummary
	for _, entry := range entries {
		if entry.Exception == nil || !entry.Level.AtLeast(model.LevelError) {
			continue
		}
		summaries = append(summaries, model.ErrorSummary{
			Time:      entry.Timestamp.Time,
			ContextID: entry.ContextID,
			File:      file,
		})
	}
	return summaries
}
