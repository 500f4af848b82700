package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prospectlab/prospect/internal/models"
)

func TestHistoryHandler_List(t *testing.T) {
	svc := &MockHistoryService{
		ListFunc: func(ctx context.Context, userID, cursor string, limit int) (*models.HistoryPage, error) {
			assert.Equal(t, "u1", userID)
			assert.Equal(t, "abc", cursor)
			assert.Equal(t, 5, limit)
			return &models.HistoryPage{
				Items: []*models.HistoryEntry{
					{ID: "h1", UserID: userID, Query: "berlin software", Source: models.SourceLinkedIn, Date: time.Now()},
				},
				NextCursor: "def",
			}, nil
		},
	}
	router := routerFor(NewHistoryHandler(svc))

	req := authedRequest(http.MethodGet, "/history?cursor=abc&limit=5", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var page models.HistoryPage
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&page))
	require.Len(t, page.Items, 1)
	assert.Equal(t, "def", page.NextCursor)
}

func TestHistoryHandler_List_BadLimit(t *testing.T) {
	router := routerFor(NewHistoryHandler(&MockHistoryService{}))

	req := authedRequest(http.MethodGet, "/history?limit=abc", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHistoryHandler_Delete(t *testing.T) {
	svc := &MockHistoryService{
		DeleteFunc: func(ctx context.Context, userID string, ids []string) (int64, error) {
			assert.Equal(t, []string{"h1", "h2"}, ids)
			return 2, nil
		},
	}
	router := routerFor(NewHistoryHandler(svc))

	req := authedRequest(http.MethodDelete, "/history", strings.NewReader(`{"ids":["h1","h2"]}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp DeleteHistoryResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, int64(2), resp.Deleted)
}

func TestHistoryHandler_Delete_EmptySelection(t *testing.T) {
	router := routerFor(NewHistoryHandler(&MockHistoryService{}))

	req := authedRequest(http.MethodDelete, "/history", strings.NewReader(`{"ids":[]}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
