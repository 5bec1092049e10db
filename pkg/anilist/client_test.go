package anilist

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(Config{BaseURL: server.URL, Timeout: 2 * time.Second})
	require.NoError(t, err)
	return client
}

func decodeRequest(t *testing.T, r *http.Request) graphQLRequest {
	var req graphQLRequest
	require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
	return req
}

func TestNewClient_RequiresTimeout(t *testing.T) {
	_, err := NewClient(Config{BaseURL: "http://example.invalid"})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestClient_SearchAnime_Success(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		req := decodeRequest(t, r)
		assert.Equal(t, "naruto", req.Variables["search"])
		assert.Equal(t, float64(10), req.Variables["perPage"])
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		w.Write([]byte(`{"data":{"Page":{"media":[
			{"id":20,"title":{"romaji":"NARUTO","english":"Naruto","native":"ナルト"},
			 "coverImage":{"large":"https://img/l.jpg","medium":"https://img/m.jpg"},
			 "episodes":220,"seasonYear":2002,"averageScore":79,"format":"TV"},
			{"id":1735,"title":{"romaji":"Naruto: Shippuuden","english":null,"native":null},
			 "coverImage":{"large":null,"medium":null},"episodes":null,"seasonYear":null,"averageScore":null,"format":null}
		]}}}`))
	})

	results, err := client.SearchAnime(context.Background(), "  naruto ", 0)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, 20, results[0].ID)
	assert.Equal(t, "Naruto", results[0].Title.Display())
	assert.Equal(t, "https://img/l.jpg", results[0].CoverImage.Large)
	require.NotNil(t, results[0].Year)
	assert.Equal(t, 2002, *results[0].Year)

	assert.Equal(t, "Naruto: Shippuuden", results[1].Title.Display())
	assert.Nil(t, results[1].Episodes)
}

func TestClient_SearchAnime_ShortQuerySkipsCall(t *testing.T) {
	var calls int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	})

	results, err := client.SearchAnime(context.Background(), " a ", 10)
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestClient_SearchAnime_ClampsPerPage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		req := decodeRequest(t, r)
		assert.Equal(t, float64(50), req.Variables["perPage"])
		w.Write([]byte(`{"data":{"Page":{"media":[]}}}`))
	})

	_, err := client.SearchAnime(context.Background(), "bleach", 500)
	require.NoError(t, err)
}

func TestClient_GetAnime_Success(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		req := decodeRequest(t, r)
		assert.Equal(t, float64(21), req.Variables["id"])
		w.Write([]byte(`{"data":{"Media":{"id":21,
			"title":{"romaji":"ONE PIECE","english":"ONE PIECE","native":"ワンピース"},
			"coverImage":{"large":"l","medium":"m","extraLarge":"xl"},
			"episodes":null,"seasonYear":1999,"averageScore":88,"format":"TV",
			"description":"Pirates.","genres":["Action","Adventure"],
			"tags":[{"name":"Pirates","rank":95}],
			"studios":{"nodes":[{"name":"Toei Animation"},{"name":""}]}}}}`))
	})

	details, err := client.GetAnime(context.Background(), 21)
	require.NoError(t, err)
	assert.Equal(t, "ONE PIECE", details.Title.Display())
	assert.Equal(t, "xl", details.CoverImage.Best())
	assert.Equal(t, []string{"Action", "Adventure"}, details.Genres)
	assert.Equal(t, []string{"Toei Animation"}, details.Studios)
	assert.Equal(t, "Pirates", details.Tags[0].Name)
}

func TestClient_GetAnime_NotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"errors":[{"message":"Not Found.","status":404}],"data":{"Media":null}}`))
	})

	_, err := client.GetAnime(context.Background(), 999999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClient_GetReviews_Success(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		req := decodeRequest(t, r)
		assert.Equal(t, float64(25), req.Variables["perPage"])
		assert.Equal(t, float64(5114), req.Variables["mediaId"])
		w.Write([]byte(`{"data":{"Page":{"reviews":[
			{"id":1,"summary":"Peak fiction","body":"The pacing is slow but good.","rating":120,"score":95,
			 "user":{"name":"critic"},"createdAt":1700000000}
		]}}}`))
	})

	reviews, err := client.GetReviews(context.Background(), 5114, 100)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, "Peak fiction", reviews[0].Summary)
	assert.Equal(t, 95, reviews[0].Score)
	assert.Equal(t, "critic", reviews[0].User)
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), reviews[0].CreatedAt)
}

func TestClient_ErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{name: "Rate limited", status: http.StatusTooManyRequests, body: `{}`, wantErr: ErrRateLimited},
		{name: "Server error", status: http.StatusInternalServerError, body: `oops`, wantErr: ErrUpstream},
		{name: "GraphQL error", status: http.StatusOK, body: `{"errors":[{"message":"bad query","status":400}]}`, wantErr: ErrUpstream},
		{name: "Malformed body", status: http.StatusOK, body: `{"data":`, wantErr: ErrUpstream},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			_, err := client.SearchAnime(context.Background(), "gintama", 5)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(release)
		server.Close()
	})

	client, err := NewClient(Config{BaseURL: server.URL, Timeout: 50 * time.Millisecond})
	require.NoError(t, err)

	start := time.Now()
	_, err = client.GetAnime(context.Background(), 1)
	assert.ErrorIs(t, err, ErrTimeout)
	assert.Less(t, time.Since(start), time.Second)
}

func TestTitle_Display(t *testing.T) {
	assert.Equal(t, "English", Title{English: "English", Romaji: "Romaji"}.Display())
	assert.Equal(t, "Romaji", Title{Romaji: "Romaji", Native: "Native"}.Display())
	assert.Equal(t, "Native", Title{Native: "Native"}.Display())
	assert.Equal(t, "Unknown", Title{}.Display())
}
