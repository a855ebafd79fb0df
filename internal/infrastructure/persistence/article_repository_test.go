package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contentgen/backend/internal/domain/news"
	"github.com/contentgen/backend/internal/domain/shared"
)

func newArticle(t *testing.T, url string, category news.Category) *news.Article {
	t.Helper()
	a, err := news.NewArticle(news.Draft{Title: "Title " + url, URL: url, Source: "Wire", Category: category})
	require.NoError(t, err)
	return a
}

func TestGormArticleRepository_SaveAndFind(t *testing.T) {
	ctx := context.Background()
	repo := NewGormArticleRepository(newTestDatabase(t).DB)

	a := newArticle(t, "https://example.com/a", news.CategoryTechnology)
	require.NoError(t, repo.Save(ctx, a))

	found, err := repo.FindByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.Title, found.Title)
	assert.Equal(t, news.CategoryTechnology, found.Category)
	assert.False(t, found.IsProcessed)

	byURL, err := repo.FindByURL(ctx, "https://example.com/a")
	require.NoError(t, err)
	assert.Equal(t, a.ID, byURL.ID)

	exists, err := repo.ExistsByURL(ctx, "https://example.com/a")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByURL(ctx, "https://example.com/missing")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestGormArticleRepository_DuplicateURL(t *testing.T) {
	ctx := context.Background()
	repo := NewGormArticleRepository(newTestDatabase(t).DB)

	require.NoError(t, repo.Save(ctx, newArticle(t, "https://example.com/dup", news.CategoryGeneral)))
	err := repo.Save(ctx, newArticle(t, "https://example.com/dup", news.CategoryGeneral))

	assert.ErrorIs(t, err, news.ErrDuplicateURL)
}

func TestGormArticleRepository_UpdateMarksProcessed(t *testing.T) {
	ctx := context.Background()
	repo := NewGormArticleRepository(newTestDatabase(t).DB)

	a := newArticle(t, "https://example.com/p", news.CategoryGeneral)
	require.NoError(t, repo.Save(ctx, a))
	a.MarkProcessed()
	require.NoError(t, repo.Save(ctx, a))

	found, err := repo.FindByID(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, found.IsProcessed)
}

func TestGormArticleRepository_List(t *testing.T) {
	ctx := context.Background()
	repo := NewGormArticleRepository(newTestDatabase(t).DB)

	base := time.Now().UTC().Add(-time.Hour)
	for i, cat := range []news.Category{news.CategorySports, news.CategorySports, news.CategoryBusiness} {
		a := newArticle(t, "https://example.com/"+uuid.NewString(), cat)
		a.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, repo.Save(ctx, a))
	}

	sports := news.CategorySports
	items, total, err := repo.List(ctx, news.Filter{Category: &sports, Pagination: shared.Pagination{Page: 1, PageSize: 1}})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, items, 1)
	assert.Equal(t, news.CategorySports, items[0].Category)

	all, total, err := repo.List(ctx, news.Filter{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, all, 3)
	assert.True(t, all[0].CreatedAt.After(all[2].CreatedAt), "newest first")

	processed := true
	_, total, err = repo.List(ctx, news.Filter{IsProcessed: &processed})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestGormArticleRepository_Delete(t *testing.T) {
	ctx := context.Background()
	repo := NewGormArticleRepository(newTestDatabase(t).DB)

	a := newArticle(t, "https://example.com/d", news.CategoryGeneral)
	require.NoError(t, repo.Save(ctx, a))

	require.NoError(t, repo.Delete(ctx, a.ID))
	assert.ErrorIs(t, repo.Delete(ctx, a.ID), news.ErrArticleNotFound)

	_, err := repo.FindByID(ctx, a.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormArticleRepository_FindByID_SQL(t *testing.T) {
	t.Run("queries news_articles by id", func(t *testing.T) {
		gormDB, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormArticleRepository(gormDB)

		id := uuid.New()
		rows := sqlmock.NewRows([]string{"id", "title", "url", "category", "created_at", "is_processed"}).
			AddRow(id.String(), "Headline", "https://example.com", "general", time.Now(), false)

		mock.ExpectQuery(`SELECT \* FROM "news_articles" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(id, 1).
			WillReturnRows(rows)

		a, err := repo.FindByID(context.Background(), id)

		require.NoError(t, err)
		assert.Equal(t, "Headline", a.Title)
		assert.Empty(t, a.Description)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("propagates driver errors", func(t *testing.T) {
		gormDB, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormArticleRepository(gormDB)

		mock.ExpectQuery(`SELECT \* FROM "news_articles"`).WillReturnError(errors.New("connection reset"))

		_, err := repo.FindByID(context.Background(), uuid.New())
		assert.EqualError(t, err, "connection reset")
	})
}
