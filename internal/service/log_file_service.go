package service

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"logview-backend/internal/dto"
	"logview-backend/internal/model"
	"logview-backend/internal/repository"
	"logview-backend/internal/util"
)

// ErrUnknownLogFile marks a request for a file outside the log directory.
var ErrUnknownLogFile = errors.New("unknown log file")

type LogFileService interface {
	List(ctx context.Context) ([]dto.LogFileInfo, error)
	Zip(ctx context.Context, name string, w io.Writer) error
	RecentErrors(ctx context.Context, limit int) ([]model.ErrorSummary, error)
}

type logFileService struct {
	directory string
	errorRepo repository.ErrorRepository
}

func NewLogFileService(directory string, errorRepo repository.ErrorRepository) LogFileService {
	return &logFileService{
		directory: directory,
		errorRepo: errorRepo,
	}
}

// List returns the rotated log files, newest first by the timestamp embedded
// in each name.
func (s *logFileService) List(ctx context.Context) ([]dto.LogFileInfo, error) {
	entries, err := os.ReadDir(s.directory)
	if err != nil {
		log.Error().Err(err).Str("dir", s.directory).Msg("Failed to read log directory")
		return nil, fmt.Errorf("failed to read log directory: %w", err)
	}

	files := make([]dto.LogFileInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".log") {
			continue
		}
		stamp, err := util.ParseLogFileTime(entry.Name())
		if err != nil {
			log.Debug().Str("file", entry.Name()).Msg("Skipping log file without embedded timestamp")
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, dto.LogFileInfo{
			Name: entry.Name(),
			URL:  "/api/logs/files/" + entry.Name() + "/zip",
			Time: model.NewWireTime(stamp),
			Size: info.Size(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Time.After(files[j].Time.Time)
	})
	return files, nil
}

// Zip streams a single-file archive of the named log file.
func (s *logFileService) Zip(ctx context.Context, name string, w io.Writer) error {
	// The name must be a bare file inside the log directory.
	if name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return fmt.Errorf("%w: %s", ErrUnknownLogFile, name)
	}
	path := filepath.Join(s.directory, name)
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrUnknownLogFile, name)
		}
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer file.Close()

	archive := zip.NewWriter(w)
	entry, err := archive.Create(name)
	if err != nil {
		return fmt.Errorf("failed to create zip entry: %w", err)
	}
	if _, err := io.Copy(entry, file); err != nil {
		return fmt.Errorf("failed to write zip entry: %w", err)
	}
	if err := archive.Close(); err != nil {
		return fmt.Errorf("failed to finalize zip: %w", err)
	}
	log.Debug().Str("file", name).Msg("Streamed zipped log file")
	return nil
}

func (s *logFileService) RecentErrors(ctx context.Context, limit int) ([]model.ErrorSummary, error) {
	return s.errorRepo.Recent(ctx, limit)
}
