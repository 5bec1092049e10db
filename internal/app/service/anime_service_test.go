package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/ikkim/animeroast-backend/pkg/anilist"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnimeService_Search(t *testing.T) {
	catalog := &fakeCatalog{results: []anilist.Anime{
		{ID: 20, Title: anilist.Title{Romaji: "Naruto"}},
		{ID: 1735, Title: anilist.Title{Romaji: "Naruto: Shippuden"}},
	}}
	svc := NewAnimeService(catalog, newTestCache(t), time.Hour)
	ctx := context.Background()

	results, err := svc.Search(ctx, "naruto", 10)
	require.NoError(t, err)
	assert.Len(t, results, 2)

	again, err := svc.Search(ctx, "  NARUTO ", 10)
	require.NoError(t, err)
	assert.Equal(t, results, again)
	assert.Equal(t, 1, catalog.searchCalls)
}

func TestAnimeService_Search_ShortQuery(t *testing.T) {
	catalog := &fakeCatalog{}
	svc := NewAnimeService(catalog, nil, time.Hour)

	results, err := svc.Search(context.Background(), " n ", 10)
	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)
	assert.Equal(t, 0, catalog.searchCalls)
}

func TestAnimeService_Search_TooLong(t *testing.T) {
	svc := NewAnimeService(&fakeCatalog{}, nil, time.Hour)
	_, err := svc.Search(context.Background(), strings.Repeat("a", 101), 10)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAnimeService_Details(t *testing.T) {
	catalog := &fakeCatalog{details: &anilist.AnimeDetails{
		Anime:  anilist.Anime{ID: 20, Title: anilist.Title{English: "Naruto"}},
		Genres: []string{"Action", "Adventure"},
	}}
	svc := NewAnimeService(catalog, newTestCache(t), time.Hour)
	ctx := context.Background()

	first, err := svc.Details(ctx, 20)
	require.NoError(t, err)
	second, err := svc.Details(ctx, 20)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, catalog.detailCalls)

	_, err = svc.Details(ctx, 0)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAnimeService_ErrorMapping(t *testing.T) {
	tests := []struct {
		err  error
		want error
	}{
		{err: anilist.ErrNotFound, want: ErrAnimeNotFound},
		{err: fmt.Errorf("get anime: %w", anilist.ErrTimeout), want: ErrUpstreamTimeout},
		{err: context.DeadlineExceeded, want: ErrUpstreamTimeout},
		{err: anilist.ErrRateLimited, want: ErrUpstreamUnavailable},
		{err: anilist.ErrUpstream, want: ErrUpstreamFailed},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			svc := NewAnimeService(&fakeCatalog{err: tt.err}, nil, time.Hour)
			_, err := svc.Details(context.Background(), 20)
			assert.ErrorIs(t, err, tt.want)

			_, err = svc.Search(context.Background(), "naruto", 5)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
