package github

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(url string) *Client {
	return New(Config{
		Owner:   "owner",
		Repo:    "site",
		Token:   "token",
		BaseURL: url,
	})
}

func TestUpdateFileNewFile(t *testing.T) {
	var putBody contentPutRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.WriteHeader(http.StatusNotFound)
		case http.MethodPut:
			require.NoError(t, json.NewDecoder(r.Body).Decode(&putBody))
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{}`))
		}
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	ok := client.UpdateFile(context.Background(), "data/metadata.json", []byte(`{"a":1}`), "sync: update metadata")

	assert.True(t, ok)
	assert.Empty(t, putBody.SHA, "a file the GET 404'd on must be created without a sha")
	assert.Equal(t, "main", putBody.Branch)
	assert.Equal(t, "sync: update metadata", putBody.Message)
	assert.NotEmpty(t, putBody.Content)
}

func TestUpdateFileExistingFile(t *testing.T) {
	var putBody contentPutRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.Write([]byte(`{"sha":"abc123"}`))
		case http.MethodPut:
			require.NoError(t, json.NewDecoder(r.Body).Decode(&putBody))
			w.Write([]byte(`{}`))
		}
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	ok := client.UpdateFile(context.Background(), "data/projects/project-abc.json", []byte(`{}`), "sync: update project-abc")

	assert.True(t, ok)
	assert.Equal(t, "abc123", putBody.SHA, "an existing file must be overwritten with its current sha")
}

func TestUpdateFileRejectedWrite(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.WriteHeader(http.StatusNotFound)
		case http.MethodPut:
			w.WriteHeader(http.StatusUnprocessableEntity)
			w.Write([]byte(`{"message":"Invalid request"}`))
		}
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	ok := client.UpdateFile(context.Background(), "data/metadata.json", []byte(`{}`), "msg")

	assert.False(t, ok)
}

func TestUpdateFileShaLookupError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	ok := client.UpdateFile(context.Background(), "data/metadata.json", []byte(`{}`), "msg")

	assert.False(t, ok, "a non-404 sha lookup failure must not proceed to the PUT")
}

func TestConfigured(t *testing.T) {
	assert.True(t, newTestClient("http://x").Configured())
	assert.False(t, New(Config{Owner: "owner", Repo: "site"}).Configured())

	var nilClient *Client
	assert.False(t, nilClient.Configured())
}

func TestGetBranch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/owner/site/branches/main", r.URL.Path)
		w.Write([]byte(`{"name":"main","commit":{"sha":"deadbeef","url":"https://example.com"}}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	status, err := client.GetBranch(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "main", status.Name)
	assert.Equal(t, "deadbeef", status.Commit.SHA)
}

func TestListDir(t *testing.T) {
	t.Run("existing directory", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[{"name":"full-backup-1.json","path":"data/backups/full-backup-1.json","size":42,"type":"file"}]`))
		}))
		defer srv.Close()

		entries, err := newTestClient(srv.URL).ListDir(context.Background(), "data/backups")

		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "full-backup-1.json", entries[0].Name)
	})

	t.Run("missing directory is empty, not an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		entries, err := newTestClient(srv.URL).ListDir(context.Background(), "data/backups")

		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}
