package faqrepo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newFakeBucket(t *testing.T, document string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/faq/faq_entries.json" {
			http.Error(w, "unexpected request", http.StatusBadRequest)
			return
		}
		if document == "" {
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>The specified key does not exist.</Message><Key>faq_entries.json</Key><BucketName>faq</BucketName></Error>`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Length", strconv.Itoa(len(document)))
		w.Header().Set("ETag", `"d41d8cd98f00b204e9800998ecf8427e"`)
		w.Header().Set("Last-Modified", time.Now().UTC().Format(http.TimeFormat))
		_, _ = w.Write([]byte(document))
	}))
}

func newTestObjectRepository(t *testing.T, endpoint string) *ObjectRepository {
	t.Helper()
	repo, err := NewObjectRepository(ObjectConfig{
		Endpoint:  endpoint,
		AccessKey: "access",
		SecretKey: "secret",
		Bucket:    "faq",
		Region:    "us-east-1",
	}, nil)
	require.NoError(t, err)
	return repo
}

func TestObjectRepositoryMissingObject(t *testing.T) {
	srv := newFakeBucket(t, "")
	defer srv.Close()

	entries, err := newTestObjectRepository(t, srv.URL).LoadAll(context.Background())
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestObjectRepositoryLoadsDocument(t *testing.T) {
	srv := newFakeBucket(t, `[{"question":"Where are the docs?","answer":"See the wiki."}]`)
	defer srv.Close()

	entries, err := newTestObjectRepository(t, srv.URL).LoadAll(context.Background())
	require.NoError(t, err)
	require.Equal(t, sampleEntries[1:], entries)
}

func TestSanitizeEndpoint(t *testing.T) {
	require.Equal(t, "example.r2.cloudflarestorage.com", sanitizeEndpoint(" https://example.r2.cloudflarestorage.com/bucket "))
	require.Equal(t, "localhost:9000", sanitizeEndpoint("http://localhost:9000"))
	require.Equal(t, "", sanitizeEndpoint(""))
}
