package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"cp_journey/internal/domain/model"

	"github.com/redis/go-redis/v9"
)

type TopicCatalogClient interface {
	FetchTopicCatalog(ctx context.Context) (entries []model.TopicCatalogEntry, fromFallback bool, err error)
}

// TopicService serves the scraped topic catalog with a Redis cache in front
// of the live scrape. The catalog degrades to a static fallback rather than
// erroring, so GetTopicCatalog always reports success.
type TopicService struct {
	client   TopicCatalogClient
	rdb      *redis.Client
	cacheKey string
	cacheTTL time.Duration
}

func NewTopicService(client TopicCatalogClient, rdb *redis.Client, cacheKey string, cacheTTL time.Duration) *TopicService {
	return &TopicService{client: client, rdb: rdb, cacheKey: cacheKey, cacheTTL: cacheTTL}
}

type TopicCatalogResponse struct {
	Success   bool                      `json:"success"`
	Topics    []model.TopicCatalogEntry `json:"topics"`
	FromCache bool                      `json:"fromCache,omitempty"`
	Error     string                    `json:"error,omitempty"`
}

func (s *TopicService) GetTopicCatalog(ctx context.Context) *TopicCatalogResponse {
	if cached := s.readCache(ctx); cached != nil {
		return &TopicCatalogResponse{Success: true, Topics: cached, FromCache: true}
	}

	topics, fromFallback, err := s.client.FetchTopicCatalog(ctx)
	resp := &TopicCatalogResponse{Success: true, Topics: topics}
	if fromFallback {
		// Static dataset, not a live scrape. Flag it and surface the cause.
		resp.FromCache = true
		if err != nil {
			resp.Error = err.Error()
		}
		return resp
	}

	s.writeCache(ctx, topics)
	return resp
}

func (s *TopicService) readCache(ctx context.Context) []model.TopicCatalogEntry {
	if s.rdb == nil {
		return nil
	}
	data, err := s.rdb.Get(ctx, s.cacheKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("WARN: Failed to read topic catalog cache: %v", err)
		}
		return nil
	}
	var topics []model.TopicCatalogEntry
	if err := json.Unmarshal(data, &topics); err != nil {
		log.Printf("WARN: Corrupt topic catalog cache, ignoring: %v", err)
		return nil
	}
	return topics
}

func (s *TopicService) writeCache(ctx context.Context, topics []model.TopicCatalogEntry) {
	if s.rdb == nil {
		return
	}
	data, err := json.Marshal(topics)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, s.cacheKey, data, s.cacheTTL).Err(); err != nil {
		log.Printf("WARN: Failed to cache topic catalog: %v", err)
	}
}
