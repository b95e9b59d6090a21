package endpoint

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadLinesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "endpoints.txt")
	content := "http://a:80/\n\n  http://b:80/  \n\nhttp://c:80/\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	lines, err := ReadLinesFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"http://a:80/", "http://b:80/", "http://c:80/"}, lines)
}

func TestReadLinesFile_Missing(t *testing.T) {
	_, err := ReadLinesFile(filepath.Join(t.TempDir(), "nope.txt"))
	assert.ErrorIs(t, err, ErrSource)
}

func TestFetchLines(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("http://a:80/\n\nhttp://b:80/\n"))
	}))
	defer srv.Close()

	lines, err := FetchLines(context.Background(), srv.URL, time.Second)
	require.NoError(t, err)
	assert.Equal(t, []string{"http://a:80/", "http://b:80/"}, lines)
}

func TestFetchLines_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := FetchLines(context.Background(), srv.URL, time.Second)
	assert.ErrorIs(t, err, ErrSource)
}

func TestFetchLines_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	_, err := FetchLines(context.Background(), srv.URL, 100*time.Millisecond)
	assert.ErrorIs(t, err, ErrSource)
}
