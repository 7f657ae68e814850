package service

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"logview-backend/config"
	"logview-backend/internal/filestate"
	"logview-backend/internal/kafka"
	"logview-backend/internal/model"
	"logview-backend/internal/parser"
)

// LogProducerService tails the application's rotating log files and feeds
// new entries into Kafka. Runs on the ingest cron schedule.
type LogProducerService interface {
	ProcessLogs(ctx context.Context) error
}

type logProducerService struct {
	producer    kafka.LogProducer
	stateMgr    filestate.Manager
	cfg         *config.LogsConfig
	processLock sync.Mutex
}

func NewLogProducerService(
	cfg *config.Config,
	stateMgr filestate.Manager,
	producer kafka.LogProducer,
) LogProducerService {
	return &logProducerService{
		producer: producer,
		stateMgr: stateMgr,
		cfg:      &cfg.Logs,
	}
}

func (s *logProducerService) ProcessLogs(ctx context.Context) error {
	if !s.processLock.TryLock() {
		log.Warn().Msg("Log ingest already in progress, skipping run.")
		return nil
	}
	defer s.processLock.Unlock()

	log.Info().Msg("Starting log ingest sweep...")
	startTime := time.Now()

	offsets, err := s.stateMgr.Load()
	if err != nil {
		log.Error().Err(err).Msg("Failed to load tail offsets")
		return fmt.Errorf("failed to load tail offsets: %w", err)
	}

	logFiles, err := s.findLogFiles()
	if err != nil {
		log.Error().Err(err).Msg("Failed to find log files")
		return fmt.Errorf("failed to find log files: %w", err)
	}
	log.Debug().Int("file_count", len(logFiles)).Msg("Found log files to ingest")

	var totalLines int64
	var totalEntries int64
	var batch []model.LogEntry

	for _, filePath := range logFiles {
		lines, newOffset, entries, err := s.tailFile(ctx, filePath, offsets[filePath])
		if err != nil {
			log.Error().Err(err).Str("file", filePath).Msg("Failed to ingest file")
			continue
		}
		offsets[filePath] = newOffset
		totalLines += lines

		batch = append(batch, entries...)
		if len(batch) >= s.cfg.BatchSize {
			toSend := batch
			batch = nil
			if err := s.producer.Produce(ctx, toSend); err != nil {
				log.Error().Err(err).Msg("Failed to send intermediate batch to Kafka")
			} else {
				totalEntries += int64(len(toSend))
			}
		}
	}

	if len(batch) > 0 {
		if err := s.producer.Produce(ctx, batch); err != nil {
			log.Error().Err(err).Msg("Failed to send final batch to Kafka")
		} else {
			totalEntries += int64(len(batch))
		}
	}

	if err := s.stateMgr.Save(offsets); err != nil {
		log.Error().Err(err).Msg("Failed to save tail offsets")
		return fmt.Errorf("failed to save tail offsets: %w", err)
	}

	log.Info().
		Int64("lines_read", totalLines).
		Int64("entries_sent", totalEntries).
		Int("files_seen", len(logFiles)).
		Dur("duration", time.Since(startTime)).
		Msg("Finished log ingest sweep.")
	return nil
}

func (s *logProducerService) findLogFiles() ([]string, error) {
	entries, err := os.ReadDir(s.cfg.Directory)
	if err != nil {
		return nil, fmt.Errorf("failed to read log directory: %w", err)
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".log") {
			continue
		}
		files = append(files, filepath.Join(s.cfg.Directory, entry.Name()))
	}
	return files, nil
}

// tailFile reads the file from the stored offset and parses complete entries
// out of the new lines. Truncated files (rotation reusing a name) restart
// from zero.
func (s *logProducerService) tailFile(ctx context.Context, path string, offset int64) (int64, int64, []model.LogEntry, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, offset, nil, err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return 0, offset, nil, err
	}
	if info.Size() < offset {
		log.Warn().Str("file", path).Msg("Log file shrank, re-reading from start")
		offset = 0
	}
	if _, err := file.Seek(offset, io.SeekStart); err != nil {
		return 0, offset, nil, err
	}

	p := parser.NewMultilineParser()
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var lines int64
	var entries []model.LogEntry
	newOffset := offset
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return lines, newOffset, entries, ctx.Err()
		default:
		}
		line := scanner.Text()
		lines++
		newOffset += int64(len(scanner.Bytes())) + 1
		if entry := p.Feed(line); entry != nil {
			entries = append(entries, *entry)
		}
	}
	if err := scanner.Err(); err != nil {
		return lines, newOffset, entries, err
	}
	if entry := p.Flush(); entry != nil {
		entries = append(entries, *entry)
	}
	return lines, newOffset, entries, nil
}
