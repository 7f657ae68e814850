package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"logview-backend/internal/annotate"
	"logview-backend/internal/dto"
	"logview-backend/internal/model"
	"logview-backend/internal/pagination"
	"logview-backend/internal/repository"
)

const maxPageSize = 1000

type LogQueryService interface {
	Search(ctx context.Context, q dto.LogQuery, highlight string) (*dto.LogPage, error)
}

type logQueryService struct {
	logRepo         repository.LogRepository
	defaultPageSize int
}

func NewLogQueryService(logRepo repository.LogRepository, defaultPageSize int) LogQueryService {
	if defaultPageSize <= 0 {
		defaultPageSize = 50
	}
	return &logQueryService{
		logRepo:         logRepo,
		defaultPageSize: defaultPageSize,
	}
}

// Search normalizes the query, runs it, and annotates each row's message for
// display. Result order is whatever the repository returned. highlight is a
// pipe-delimited term list applied on top of the structural annotations.
func (s *logQueryService) Search(ctx context.Context, q dto.LogQuery, highlight string) (*dto.LogPage, error) {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.Size <= 0 || q.Size > maxPageSize {
		q.Size = s.defaultPageSize
	}
	if q.MinLevel != "" {
		level, ok := model.ParseLevel(string(q.MinLevel))
		if ok {
			q.MinLevel = level
		} else {
			log.Warn().Str("level", string(q.MinLevel)).Msg("Ignoring unknown level filter")
			q.MinLevel = ""
		}
	}

	log.Info().
		Str("level", string(q.MinLevel)).
		Time("after", q.After).
		Time("before", q.Before).
		Str("contains", q.Contains).
		Strs("context_ids", q.ContextIDs).
		Bool("shallow", q.Shallow).
		Int("page", q.Page).
		Int("size", q.Size).
		Msg("Searching logs")

	page, err := s.logRepo.Query(ctx, q)
	if err != nil {
		return nil, err
	}

	terms := annotate.SplitTerms(highlight)
	for i := range page.Items {
		page.Items[i].Rendered = annotate.Annotate(page.Items[i].Message, terms)
	}

	if q.Visible > 0 && page.TotalPages > 0 {
		page.Links = pagination.Window(page.Page, page.TotalPages, pagination.Options{
			AmountVisible: q.Visible,
		})
	}

	return page, nil
}
