package selfie

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStorage struct {
	uploaded  []string
	deleted   []string
	getURLErr error
}

func (f *fakeStorage) Upload(ctx context.Context, file io.Reader, path string, contentType string) (string, error) {
	if _, err := io.Copy(io.Discard, file); err != nil {
		return "", err
	}
	f.uploaded = append(f.uploaded, path)
	return path, nil
}

func (f *fakeStorage) Delete(ctx context.Context, path string) error {
	f.deleted = append(f.deleted, path)
	return nil
}

func (f *fakeStorage) GetURL(ctx context.Context, path string) (string, error) {
	if f.getURLErr != nil {
		return "", f.getURLErr
	}
	return "https://cdn.example.com/" + path, nil
}

func mediaServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		io.Copy(w, strings.NewReader("jpeg-bytes"))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestArchive_StoresUnderCompanyDayPath(t *testing.T) {
	srv := mediaServer(t)
	store := &fakeStorage{}
	svc := NewService(store)

	day := time.Date(2026, 3, 2, 9, 10, 0, 0, time.UTC)
	url, err := svc.Archive(context.Background(), "comp-1", "emp-1", day, srv.URL)
	require.NoError(t, err)

	require.Len(t, store.uploaded, 1)
	assert.Contains(t, store.uploaded[0], "selfies/comp-1/2026-03-02/emp-1_")
	assert.True(t, strings.HasSuffix(store.uploaded[0], ".jpg"))
	assert.Contains(t, url, store.uploaded[0])
	assert.Empty(t, store.deleted)
}

func TestArchive_RemovesCopyWhenURLUnresolvable(t *testing.T) {
	srv := mediaServer(t)
	store := &fakeStorage{getURLErr: errors.New("bucket policy denied")}
	svc := NewService(store)

	day := time.Date(2026, 3, 2, 9, 10, 0, 0, time.UTC)
	_, err := svc.Archive(context.Background(), "comp-1", "emp-1", day, srv.URL)
	require.Error(t, err)

	// The stored copy must not outlive the failed archive.
	require.Len(t, store.uploaded, 1)
	assert.Equal(t, store.uploaded, store.deleted)
}

func TestArchive_RejectsNon200Media(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusGone)
	}))
	t.Cleanup(srv.Close)

	store := &fakeStorage{}
	svc := NewService(store)

	day := time.Date(2026, 3, 2, 9, 10, 0, 0, time.UTC)
	_, err := svc.Archive(context.Background(), "comp-1", "emp-1", day, srv.URL)
	assert.Error(t, err)
	assert.Empty(t, store.uploaded)
}
