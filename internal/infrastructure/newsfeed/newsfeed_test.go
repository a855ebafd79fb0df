package newsfeed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contentgen/backend/internal/domain/news"
	"github.com/contentgen/backend/internal/infrastructure/config"
)

func TestNewsAPI_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "key", q.Get("apiKey"))
		assert.Equal(t, "entertainment", q.Get("category"))
		assert.Equal(t, "gb", q.Get("country"))
		assert.Equal(t, "100", q.Get("pageSize"))
		_, _ = w.Write([]byte(`{"status":"ok","articles":[
			{"source":{"name":"BBC"},"title":"Star news","url":"https://bbc/1","urlToImage":"https://img/1","publishedAt":"2025-01-02T03:04:05Z"},
			{"source":{"name":"CNN"},"title":null,"url":"https://cnn/2","publishedAt":"yesterday"},
			{"source":{"name":"X"},"title":"no url","url":""}
		]}`))
	}))
	defer srv.Close()

	src := NewNewsAPI(Config{APIKey: "key", BaseURL: srv.URL}, nil)
	drafts, err := src.Fetch(context.Background(), news.FetchRequest{Category: news.CategoryCelebrity, Country: "gb", PageSize: 250})

	require.NoError(t, err)
	require.Len(t, drafts, 2)
	assert.Equal(t, "Star news", drafts[0].Title)
	assert.Equal(t, "BBC", drafts[0].Source)
	assert.Equal(t, news.CategoryCelebrity, drafts[0].Category)
	assert.Equal(t, "https://img/1", drafts[0].ImageURL)
	require.NotNil(t, drafts[0].PublishedAt)
	assert.Equal(t, time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC), *drafts[0].PublishedAt)
	assert.Equal(t, "Untitled", drafts[1].Title)
	assert.Nil(t, drafts[1].PublishedAt)
}

func TestNewsAPI_ErrorsYieldEmpty(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		payload string
	}{
		{name: "api error", status: http.StatusOK, payload: `{"status":"error","message":"apiKeyInvalid"}`},
		{name: "http error", status: http.StatusInternalServerError, payload: `oops`},
		{name: "bad json", status: http.StatusOK, payload: `{`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.payload))
			}))
			defer srv.Close()

			drafts, err := NewNewsAPI(Config{APIKey: "k", BaseURL: srv.URL}, nil).Fetch(context.Background(), news.FetchRequest{})
			require.NoError(t, err)
			assert.Empty(t, drafts)
		})
	}
}

func TestSources_MissingKeys(t *testing.T) {
	sources := Sources(config.NewsConfig{}, nil)
	require.Len(t, sources, 3)
	for name, src := range sources {
		assert.Equal(t, name, src.Name())
		drafts, err := src.Fetch(context.Background(), news.FetchRequest{})
		require.NoError(t, err, name)
		assert.Empty(t, drafts, name)
	}
}

func TestGNews_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "tok", q.Get("token"))
		assert.Equal(t, "nation", q.Get("category"))
		assert.Equal(t, "en", q.Get("lang"))
		assert.Equal(t, "20", q.Get("max"))
		_, _ = w.Write([]byte(`{"totalArticles":1,"articles":[
			{"title":"Vote","description":"d","content":"c","url":"https://g/1","image":"https://i/1","publishedAt":"2025-03-01T10:00:00Z","source":{"name":"AP"}}
		]}`))
	}))
	defer srv.Close()

	drafts, err := NewGNews(Config{APIKey: "tok", BaseURL: srv.URL}, nil).
		Fetch(context.Background(), news.FetchRequest{Category: news.CategoryPolitics})

	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, "Vote", drafts[0].Title)
	assert.Equal(t, "AP", drafts[0].Source)
	assert.Equal(t, "https://i/1", drafts[0].ImageURL)
	assert.Equal(t, news.CategoryPolitics, drafts[0].Category)
}

func TestGuardian_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "gk", q.Get("api-key"))
		assert.Equal(t, "sport", q.Get("section"))
		assert.Equal(t, "50", q.Get("page-size"))
		assert.Equal(t, "trailText,bodyText,thumbnail", q.Get("show-fields"))
		_, _ = w.Write([]byte(`{"response":{"status":"ok","results":[
			{"webTitle":"Cup final","webUrl":"https://gu/1","webPublicationDate":"2025-05-05T18:00:00Z",
			 "fields":{"trailText":"trail","bodyText":"body","thumbnail":"https://t/1"}}
		]}}`))
	}))
	defer srv.Close()

	drafts, err := NewGuardian(Config{APIKey: "gk", BaseURL: srv.URL}, nil).
		Fetch(context.Background(), news.FetchRequest{Category: news.CategorySports, PageSize: 80})

	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, "Cup final", drafts[0].Title)
	assert.Equal(t, "trail", drafts[0].Description)
	assert.Equal(t, "body", drafts[0].Content)
	assert.Equal(t, guardianSource, drafts[0].Source)
}

func TestGuardian_GeneralHasNoSection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.False(t, r.URL.Query().Has("section"))
		_, _ = w.Write([]byte(`{"response":{"status":"ok","results":[]}}`))
	}))
	defer srv.Close()

	drafts, err := NewGuardian(Config{APIKey: "gk", BaseURL: srv.URL}, nil).Fetch(context.Background(), news.FetchRequest{})
	require.NoError(t, err)
	assert.Empty(t, drafts)
}
