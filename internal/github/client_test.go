package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient("test-token",
		WithBaseURL(server.URL),
		WithRequestsPerMinute(6000),
	)
}

func TestAuthenticated(t *testing.T) {
	assert.True(t, NewClient("tok").Authenticated())
	assert.False(t, NewClient("").Authenticated())
}

func TestSearchCode(t *testing.T) {
	var gotAccept, gotAuth, gotQuery string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAccept = r.Header.Get("Accept")
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.RawQuery
		fmt.Fprint(w, `{"items": [
			{"path": "scripts/run.sh", "score": 12.5, "text_matches": [{"fragment": "run tests"}, {"fragment": "more"}]},
			{"path": "README.md", "score": 3.1}
		]}`)
	}))

	items, err := client.SearchCode(context.Background(), "adoptium", "aqa-tests", "run tests")
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "scripts/run.sh", items[0].Path)
	assert.Equal(t, 12.5, items[0].Score)
	require.Len(t, items[0].TextMatches, 2)
	assert.Equal(t, "run tests", items[0].TextMatches[0].Fragment)
	assert.Empty(t, items[1].TextMatches)

	assert.Equal(t, acceptTextMatch, gotAccept)
	assert.Equal(t, "Bearer test-token", gotAuth)
	assert.Contains(t, gotQuery, "repo:adoptium/aqa-tests")
}

func TestGetContents(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, acceptRaw, r.Header.Get("Accept"))
		assert.Equal(t, "/repos/adoptium/TKG/contents/scripts/run.sh", r.URL.Path)
		fmt.Fprint(w, "#!/bin/sh\necho hello\n")
	}))

	content, err := client.GetContents(context.Background(), "adoptium", "TKG", "scripts/run.sh")
	require.NoError(t, err)
	assert.Equal(t, "#!/bin/sh\necho hello\n", content)
}

func TestListDirectory(t *testing.T) {
	t.Run("directory", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `[{"name": "scripts", "type": "dir"}, {"name": "README.md", "type": "file"}]`)
		}))

		entries, err := client.ListDirectory(context.Background(), "adoptium", "TKG", ".")
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, Entry{Name: "scripts", Type: "dir"}, entries[0])
		assert.Equal(t, Entry{Name: "README.md", Type: "file"}, entries[1])
	})

	t.Run("path is a file", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"name": "README.md", "type": "file", "content": "..."}`)
		}))

		_, err := client.ListDirectory(context.Background(), "adoptium", "TKG", "README.md")
		var notDir *ErrNotDirectory
		require.ErrorAs(t, err, &notDir)
		assert.Equal(t, "README.md", notDir.Path)
	})
}

func TestAPIError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"message": "API rate limit exceeded"}`)
	}))

	_, err := client.SearchCode(context.Background(), "adoptium", "TKG", "anything")
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	assert.Contains(t, apiErr.Error(), "API error: 403")
	assert.Contains(t, apiErr.Error(), "rate limit exceeded")
}

func TestEscapePath(t *testing.T) {
	assert.Equal(t, "a/b%20c/d", escapePath("a/b c/d"))
	assert.Equal(t, ".", escapePath("."))
}

func TestCachedReads(t *testing.T) {
	t.Run("repeated file reads hit the server once", func(t *testing.T) {
		hits := 0
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits++
			fmt.Fprint(w, "file body")
		}))

		for i := 0; i < 3; i++ {
			content, err := client.GetContents(context.Background(), "adoptium", "TKG", "scripts/run.sh")
			require.NoError(t, err)
			assert.Equal(t, "file body", content)
		}
		assert.Equal(t, 1, hits)
	})

	t.Run("repeated listings hit the server once", func(t *testing.T) {
		hits := 0
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits++
			fmt.Fprint(w, `[{"name": "run.sh", "type": "file"}]`)
		}))

		for i := 0; i < 3; i++ {
			entries, err := client.ListDirectory(context.Background(), "adoptium", "TKG", "scripts")
			require.NoError(t, err)
			require.Len(t, entries, 1)
		}
		assert.Equal(t, 1, hits)
	})

	t.Run("failed reads are not cached", func(t *testing.T) {
		hits := 0
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits++
			if hits == 1 {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			fmt.Fprint(w, "recovered")
		}))

		_, err := client.GetContents(context.Background(), "adoptium", "TKG", "missing.sh")
		require.Error(t, err)

		content, err := client.GetContents(context.Background(), "adoptium", "TKG", "missing.sh")
		require.NoError(t, err)
		assert.Equal(t, "recovered", content)
		assert.Equal(t, 2, hits)
	})
}

func TestUserAgent(t *testing.T) {
	var gotUA string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		fmt.Fprint(w, "ok")
	})

	t.Run("default", func(t *testing.T) {
		client := newTestClient(t, handler)
		_, err := client.GetContents(context.Background(), "adoptium", "TKG", "a")
		require.NoError(t, err)
		assert.Equal(t, "VitAI/1.0", gotUA)
	})

	t.Run("override carries the version", func(t *testing.T) {
		server := httptest.NewServer(handler)
		t.Cleanup(server.Close)
		client := NewClient("tok",
			WithBaseURL(server.URL),
			WithRequestsPerMinute(6000),
			WithUserAgent("VitAI/0.1.0"),
		)

		_, err := client.GetContents(context.Background(), "adoptium", "TKG", "b")
		require.NoError(t, err)
		assert.Equal(t, "VitAI/0.1.0", gotUA)
	})
}
