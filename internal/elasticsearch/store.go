package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esutil"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"

	"logview-backend/config"
	"logview-backend/internal/model"
)

// LogStore is the ingest-side write path into Elasticsearch.
type LogStore interface {
	StoreLogs(ctx context.Context, logs []model.LogEntry) error
	Close(ctx context.Context) error
}

type elasticLogStore struct {
	client      *elasticsearch.Client
	bulkIndexer esutil.BulkIndexer
	indexPrefix string
	countFailed uint64
}

func NewElasticLogStore(lc fx.Lifecycle, cfg *config.Config) (LogStore, *elasticsearch.Client, error) {
	if len(cfg.Elasticsearch.Addresses) == 0 {
		log.Error().Msg("Elasticsearch addresses are not configured.")
		return nil, nil, errors.New("elasticsearch configuration missing")
	}
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

	var esClient *elasticsearch.Client
	var err error
	operation := func() error {
		esClient, err = elasticsearch.NewClient(esCfg)
		if err != nil {
			log.Warn().Err(err).Msg("Attempt failed: error creating the Elasticsearch client")
			return err
		}

		res, errPing := esClient.Info(
			esClient.Info.WithContext(context.Background()),
		)
		if errPing != nil {
			log.Warn().Err(errPing).Msg("Attempt failed: error during Elasticsearch Info() call")
			return errPing
		}
		defer res.Body.Close()
		if res.IsError() {
			errMsg := fmt.Errorf("elasticsearch Info() returned error status: %s", res.Status())
			log.Warn().Err(errMsg).Msg("Attempt failed: Elasticsearch ping returned error status")
			return errMsg
		}
		log.Info().Msg("Elasticsearch client initialized and connection verified")
		return nil
	}

	retryPolicy := backoff.NewExponentialBackOff()
	retryPolicy.MaxElapsedTime = 1 * time.Minute
	if err := backoff.Retry(operation, retryPolicy); err != nil {
		log.Error().Err(err).Msg("Giving up connecting to Elasticsearch")
		return nil, nil, fmt.Errorf("elasticsearch connection failed: %w", err)
	}

	store := &elasticLogStore{
		client:      esClient,
		indexPrefix: cfg.Elasticsearch.LogIndex,
	}

	bi, err := esutil.NewBulkIndexer(esutil.BulkIndexerConfig{
		Client:        esClient,
		Index:         store.indexName(),
		NumWorkers:    cfg.Elasticsearch.BulkWorkers,
		FlushBytes:    cfg.Elasticsearch.FlushBytes,
		FlushInterval: cfg.Elasticsearch.FlushInterval,
		OnError: func(ctx context.Context, err error) {
			log.Error().Err(err).Msg("BulkIndexer error")
		},
		OnFlushStart: func(ctx context.Context) context.Context {
			log.Debug().Msg("BulkIndexer flush starting")
			return ctx
		},
		OnFlushEnd: func(ctx context.Context) {
			log.Debug().Msg("BulkIndexer flush ended")
		},
	})
	if err != nil {
		log.Error().Err(err).Msg("Error creating the BulkIndexer")
		return nil, nil, err
	}
	store.bulkIndexer = bi
	log.Info().Msg("Elasticsearch BulkIndexer initialized")

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Closing Elasticsearch BulkIndexer...")
			return store.Close(ctx)
		},
	})

	return store, esClient, nil
}

// StoreLogs queues entries onto the bulk indexer.
func (s *elasticLogStore) StoreLogs(ctx context.Context, logs []model.LogEntry) error {
	if len(logs) == 0 {
		return nil
	}

	failedBefore := atomic.LoadUint64(&s.countFailed)

	for _, entry := range logs {
		data, err := json.Marshal(entry)
		if err != nil {
			log.Error().Err(err).Msg("Failed to marshal log entry for Elasticsearch")
			atomic.AddUint64(&s.countFailed, 1)
			continue
		}

		err = s.bulkIndexer.Add(ctx, esutil.BulkIndexerItem{
			Action: "index",
			Index:  s.indexName(),
			Body:   bytes.NewReader(data),
		})
		if err != nil {
			log.Error().Err(err).Msg("Failed to add item to BulkIndexer")
			atomic.AddUint64(&s.countFailed, 1)
		}
	}
	log.Debug().Int("count", len(logs)).Msg("Added log entries to BulkIndexer queue")

	if atomic.LoadUint64(&s.countFailed) > failedBefore {
		return errors.New("one or more logs failed during bulk indexing attempt")
	}
	return nil
}

func (s *elasticLogStore) Close(ctx context.Context) error {
	err := s.bulkIndexer.Close(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Error closing BulkIndexer")
	}

	stats := s.bulkIndexer.Stats()
	log.Info().
		Uint64("indexed", stats.NumIndexed).
		Uint64("added", stats.NumAdded).
		Uint64("flushed", stats.NumFlushed).
		Uint64("failed", stats.NumFailed).
		Uint64("requests", stats.NumRequests).
		Msg("Elasticsearch BulkIndexer final stats")

	return err
}

// indexName is date-suffixed, e.g. "applogs-2024-05-01".
func (s *elasticLogStore) indexName() string {
	return fmt.Sprintf("%s-%s", s.indexPrefix, time.Now().UTC().Format("2006-01-02"))
}
