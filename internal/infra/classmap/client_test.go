package classmap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/semantic-faq/internal/domain/rewrite"
)

func TestDecodeOrderedKeepsDocumentOrder(t *testing.T) {
	mappings, err := decodeOrdered([]byte(`{"zeta_1":"zeta_2","alpha_1":"alpha_2","mid":"x"}`))
	require.NoError(t, err)
	require.Equal(t, []rewrite.Replacement{
		{Old: "zeta_1", New: "zeta_2"},
		{Old: "alpha_1", New: "alpha_2"},
		{Old: "mid", New: "x"},
	}, mappings)
}

func TestDecodeOrderedRejectsNonObjects(t *testing.T) {
	_, err := decodeOrdered([]byte(`["a","b"]`))
	require.Error(t, err)
	_, err = decodeOrdered([]byte(`{"a":1}`))
	require.Error(t, err)
	_, err = decodeOrdered([]byte(`{"a":"b"`))
	require.Error(t, err)
}

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"old-class":"new-class"}`))
	}))
	defer srv.Close()

	mappings, err := NewClient(srv.URL).Fetch(context.Background())
	require.NoError(t, err)
	require.Equal(t, []rewrite.Replacement{{Old: "old-class", New: "new-class"}}, mappings)
}

func TestFetchStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Fetch(context.Background())
	require.ErrorContains(t, err, "status=404")
}
