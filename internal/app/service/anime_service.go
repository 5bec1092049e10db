package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ikkim/animeroast-backend/pkg/anilist"
	"github.com/ikkim/animeroast-backend/pkg/cache"
	"github.com/ikkim/animeroast-backend/pkg/logger"
	"github.com/ikkim/animeroast-backend/pkg/util"
)

const (
	minSearchLength = 2
	maxSearchLength = 100
)

// CatalogClient is the subset of the AniList client the services use.
type CatalogClient interface {
	SearchAnime(ctx context.Context, query string, perPage int) ([]anilist.Anime, error)
	GetAnime(ctx context.Context, id int) (*anilist.AnimeDetails, error)
	GetReviews(ctx context.Context, animeID int, perPage int) ([]anilist.Review, error)
}

// AnimeService searches and looks up anime in the catalog
type AnimeService interface {
	Search(ctx context.Context, query string, perPage int) ([]anilist.Anime, error)
	Details(ctx context.Context, id int) (*anilist.AnimeDetails, error)
}

type animeService struct {
	catalog CatalogClient
	cache   cache.Cache
	ttl     time.Duration
}

// NewAnimeService creates an anime service. Lookups are cached for ttl when
// c is non-nil.
func NewAnimeService(catalog CatalogClient, c cache.Cache, ttl time.Duration) AnimeService {
	return &animeService{catalog: catalog, cache: c, ttl: ttl}
}

func (s *animeService) Search(ctx context.Context, query string, perPage int) ([]anilist.Anime, error) {
	query = strings.TrimSpace(query)
	if util.RuneLen(query) < minSearchLength {
		return []anilist.Anime{}, nil
	}
	if util.RuneLen(query) > maxSearchLength {
		return nil, fmt.Errorf("%w: query exceeds %d characters", ErrValidation, maxSearchLength)
	}

	key := "search:" + strings.ToLower(query) + ":" + strconv.Itoa(perPage)
	var results []anilist.Anime
	if s.cacheGet(ctx, key, &results) {
		return results, nil
	}

	results, err := s.catalog.SearchAnime(ctx, query, perPage)
	if err != nil {
		return nil, mapCatalogError(err)
	}
	s.cachePut(ctx, key, results)
	return results, nil
}

func (s *animeService) Details(ctx context.Context, id int) (*anilist.AnimeDetails, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: anime id must be positive", ErrValidation)
	}

	key := "anime:" + strconv.Itoa(id)
	var details anilist.AnimeDetails
	if s.cacheGet(ctx, key, &details) {
		return &details, nil
	}

	found, err := s.catalog.GetAnime(ctx, id)
	if err != nil {
		return nil, mapCatalogError(err)
	}
	s.cachePut(ctx, key, found)
	return found, nil
}

func (s *animeService) cacheGet(ctx context.Context, key string, dest interface{}) bool {
	if s.cache == nil {
		return false
	}
	ok, err := s.cache.Get(ctx, key, dest)
	if err != nil {
		logger.Warn("Cache read failed", map[string]interface{}{"key": key, "error": err.Error()})
		return false
	}
	return ok
}

func (s *animeService) cachePut(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Put(ctx, key, value, s.ttl); err != nil {
		logger.Warn("Cache write failed", map[string]interface{}{"key": key, "error": err.Error()})
	}
}

// mapCatalogError turns AniList client errors into service errors.
func mapCatalogError(err error) error {
	switch {
	case errors.Is(err, anilist.ErrNotFound):
		return ErrAnimeNotFound
	case errors.Is(err, anilist.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %v", ErrUpstreamTimeout, err)
	case errors.Is(err, anilist.ErrRateLimited):
		return fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	default:
		return fmt.Errorf("%w: %v", ErrUpstreamFailed, err)
	}
}
