package elasticsearch

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/typedapi/core/search"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/operator"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/sortorder"
	"github.com/rs/zerolog/log"

	"logview-backend/config"
	"logview-backend/internal/dto"
	"logview-backend/internal/model"
	"logview-backend/internal/repository"
)

type elasticsearchLogRepository struct {
	esTypedClient *elasticsearch.TypedClient
	indexPrefix   string
}

func NewElasticsearchLogRepository(cfg *config.Config) (repository.LogRepository, error) {
	transport := &http.Transport{
		MaxIdleConnsPerHost:   10,
		ResponseHeaderTimeout: time.Second * 10,
		DialContext:           (&net.Dialer{Timeout: 5 * time.Second}).DialContext,
		TLSHandshakeTimeout:   5 * time.Second,
	}
	esCfg := elasticsearch.Config{
		Addresses: cfg.Elasticsearch.Addresses,
		Transport: transport,
	}

	typedClient, err := elasticsearch.NewTypedClient(esCfg)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create typed Elasticsearch client")
		return nil, err
	}

	return &elasticsearchLogRepository{
		esTypedClient: typedClient,
		indexPrefix:   cfg.Elasticsearch.LogIndex,
	}, nil
}

// Query runs a filtered, paginated search. Only filters present in q are
// applied; results come back newest-first and are never re-sorted here.
func (r *elasticsearchLogRepository) Query(ctx context.Context, q dto.LogQuery) (*dto.LogPage, error) {
	indexPattern := fmt.Sprintf("%s-*", r.indexPrefix)
	queryParts := []types.Query{}

	if !q.After.IsZero() || !q.Before.IsZero() {
		rangeQuery := types.DateRangeQuery{}
		if !q.After.IsZero() {
			afterStr := q.After.UTC().Format(time.RFC3339)
			rangeQuery.Gte = &afterStr
		}
		if !q.Before.IsZero() {
			beforeStr := q.Before.UTC().Format(time.RFC3339)
			rangeQuery.Lte = &beforeStr
		}
		queryParts = append(queryParts, types.Query{
			Range: map[string]types.RangeQuery{
				"timestamp": rangeQuery,
			},
		})
	}

	if q.Contains != "" {
		queryParts = append(queryParts, types.Query{
			QueryString: &types.QueryStringQuery{
				Query:  q.Contains,
				Fields: []string{"message", "context_id", "exception.type", "exception.value"},
				DefaultOperator: &operator.Operator{
					Name: "AND",
				},
			},
		})
	}

	if q.MinLevel != "" {
		levels := model.LevelsAtOrAbove(q.MinLevel)
		levelTerms := make([]types.FieldValue, len(levels))
		for i, level := range levels {
			levelTerms[i] = string(level)
		}
		queryParts = append(queryParts, types.Query{
			Terms: &types.TermsQuery{
				TermsQuery: map[string]types.TermsQueryField{
					"level.keyword": levelTerms,
				},
			},
		})
	}

	if len(q.ContextIDs) > 0 {
		contextTerms := make([]types.FieldValue, len(q.ContextIDs))
		for i, id := range q.ContextIDs {
			contextTerms[i] = id
		}
		queryParts = append(queryParts, types.Query{
			Terms: &types.TermsQuery{
				TermsQuery: map[string]types.TermsQueryField{
					"context_id.keyword": contextTerms,
				},
			},
		})
	}

	from := (q.Page - 1) * q.Size
	order := sortorder.Desc

	searchRequest := &search.Request{
		Query: &types.Query{
			Bool: &types.BoolQuery{
				Filter: queryParts,
			},
		},
		Size: &q.Size,
		From: &from,
		Sort: []types.SortCombinations{
			types.SortOptions{
				SortOptions: map[string]types.FieldSort{
					"timestamp": {Order: &order},
				},
			},
		},
	}

	if q.Shallow {
		// Shallow queries drop tracebacks for lighter payloads.
		searchRequest.Source_ = &types.SourceFilter{
			Excludes: []string{"exception.traceback"},
		}
	}

	res, err := r.esTypedClient.Search().
		Index(indexPattern).
		Request(searchRequest).
		Do(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Error executing Elasticsearch log search")
		return nil, fmt.Errorf("elasticsearch search failed: %w", err)
	}

	items := make([]dto.LogRow, 0, len(res.Hits.Hits))
	for _, hit := range res.Hits.Hits {
		if hit.Source_ == nil {
			continue
		}
		var entry model.LogEntry
		if err := json.Unmarshal(hit.Source_, &entry); err != nil {
			log.Error().Err(err).Msg("Error unmarshalling Elasticsearch hit source")
			continue
		}
		items = append(items, dto.LogRow{LogEntry: entry})
	}

	total := int64(0)
	if res.Hits.Total != nil {
		total = res.Hits.Total.Value
	}
	totalPages := int((total + int64(q.Size) - 1) / int64(q.Size))

	page := &dto.LogPage{
		Items:      items,
		Total:      total,
		PageSize:   q.Size,
		Page:       q.Page,
		TotalPages: totalPages,
	}

	log.Debug().Int64("total_hits", total).Int("returned_hits", len(items)).Msg("Elasticsearch log search successful")
	return page, nil
}
