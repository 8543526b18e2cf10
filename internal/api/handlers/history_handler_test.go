package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/postpilot/internal/models"
	"github.com/maheshrc27/postpilot/internal/repository"
	"github.com/maheshrc27/postpilot/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHistoryApp(t *testing.T, repo repository.PostingHistoryRepository) (*fiber.App, repository.PostQueue) {
	t.Helper()
	resolver, err := service.NewMediaResolver(t.TempDir())
	require.NoError(t, err)

	q := repository.NewPostQueue(nil)
	ps := service.NewPostService(q, service.NewContentFormatter(service.DefaultCharLimits(), nil), resolver, time.UTC)
	h := NewHistoryHandler(ps, repo)

	app := fiber.New()
	app.Get("/api/posts/:id/history", h.PostHistory)
	return app, q
}

func TestPostHistory(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	app, q := newHistoryApp(t, repository.NewPostingHistoryRepository(db))
	post := q.Enqueue(models.PlatformTwitter, "hi", nil, nil)

	created := time.Date(2026, 4, 10, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT (.+) FROM posting_history WHERE post_id = \\$1").
		WithArgs(post.ID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "post_id", "platform", "status", "external_id", "error_message", "created_at"}).
			AddRow(1, post.ID, "X (Twitter)", "Failed", "", "client not configured", created))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/posts/"+post.ID+"/history", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	rows := decode[[]models.PostingHistory](t, resp)
	require.Len(t, rows, 1)
	assert.Equal(t, "client not configured", rows[0].ErrorMessage)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostHistoryEmptyIsArray(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	app, q := newHistoryApp(t, repository.NewPostingHistoryRepository(db))
	post := q.Enqueue(models.PlatformTwitter, "hi", nil, nil)
	mock.ExpectQuery("SELECT (.+) FROM posting_history").
		WillReturnRows(sqlmock.NewRows([]string{"id", "post_id", "platform", "status", "external_id", "error_message", "created_at"}))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/posts/"+post.ID+"/history", nil))
	require.NoError(t, err)
	body := decode[[]models.PostingHistory](t, resp)
	assert.NotNil(t, body)
	assert.Empty(t, body)
}

func TestPostHistoryUnavailable(t *testing.T) {
	app, q := newHistoryApp(t, nil)
	post := q.Enqueue(models.PlatformTwitter, "hi", nil, nil)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/posts/"+post.ID+"/history", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}

func TestPostHistoryUnknownPost(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	app, _ := newHistoryApp(t, repository.NewPostingHistoryRepository(db))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/posts/missing/history", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
