package workspaceapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "workspace-migrator/internal/shared/errors"
	"workspace-migrator/internal/shared/logger"
)

func testLogger() logger.Logger {
	return logger.NewLoggerWithConfig("error", "text")
}

func TestQueryPageSendsRequestShape(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/databases/db-42/query", r.URL.Path)
		assert.Equal(t, "Bearer secret-token", r.Header.Get("Authorization"))
		assert.Equal(t, "2022-06-28", r.Header.Get("Workspace-Version"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, float64(50), body["page_size"])
		assert.Equal(t, "cur-1", body["start_cursor"])

		_, _ = w.Write([]byte(`{
			"results": [
				{"id": "rec-1", "properties": {"Name": {"type": "title", "title": [{"plain_text": "Acme"}]}}},
				{"id": "rec-2", "properties": {}}
			],
			"has_more": true,
			"next_cursor": "cur-2"
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret-token", "2022-06-28", testLogger())
	page, err := client.QueryPage(context.Background(), "db-42", 50, "cur-1")
	require.NoError(t, err)

	require.Len(t, page.Results, 2)
	assert.Equal(t, "rec-1", page.Results[0].ID)
	name, ok := page.Results[0].Property("Name")
	require.True(t, ok)
	assert.Equal(t, "Acme", name.Title[0].PlainText)
	assert.True(t, page.HasMore)
	assert.Equal(t, "cur-2", page.NextCursor)
}

func TestQueryPageOmitsEmptyCursor(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.NotContains(t, body, "start_cursor")
		_, _ = w.Write([]byte(`{"results": [], "has_more": false, "next_cursor": ""}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "t", "2022-06-28", testLogger())
	page, err := client.QueryPage(context.Background(), "db-1", 100, "")
	require.NoError(t, err)
	assert.Empty(t, page.Results)
	assert.False(t, page.HasMore)
}

func TestQueryPageNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"message": "rate limited"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "t", "2022-06-28", testLogger())
	_, err := client.QueryPage(context.Background(), "db-1", 100, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrSourceUnavailable)
	assert.Contains(t, err.Error(), "429")
}

func TestQueryPageTransportFailure(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", "t", "2022-06-28", testLogger())
	_, err := client.QueryPage(context.Background(), "db-1", 100, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrSourceUnavailable)
}
