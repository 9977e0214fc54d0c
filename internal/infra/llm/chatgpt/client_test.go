package chatgpt

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCreateEmbeddingRestoresOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/embeddings", r.URL.Path)
		require.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		var req EmbeddingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "text-embedding-3-small", req.Model)
		require.Equal(t, []string{"a", "b"}, req.Input)
		_, _ = w.Write([]byte(`{"data":[{"index":1,"embedding":[0,1]},{"index":0,"embedding":[1,0]}],"model":"text-embedding-3-small"}`))
	}))
	defer srv.Close()

	client, err := NewClient("secret", srv.URL+"/", 0)
	require.NoError(t, err)

	resp, err := client.CreateEmbedding(context.Background(), EmbeddingRequest{Model: "text-embedding-3-small", Input: []string{"a", "b"}})
	require.NoError(t, err)
	require.Len(t, resp.Data, 2)
	require.Equal(t, []float32{1, 0}, resp.Data[0].Embedding)
	require.Equal(t, []float32{0, 1}, resp.Data[1].Embedding)
}

func TestCreateEmbeddingStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client, err := NewClient("secret", srv.URL, 0)
	require.NoError(t, err)
	_, err = client.CreateEmbedding(context.Background(), EmbeddingRequest{Model: "m", Input: []string{"a"}})
	require.ErrorContains(t, err, "status=429")
}

func TestNewClientRequiresKey(t *testing.T) {
	_, err := NewClient(" ", "", 0)
	require.Error(t, err)
}
