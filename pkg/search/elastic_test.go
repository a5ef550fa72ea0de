package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeES(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	c, err := NewClient(Config{URL: srv.URL, Index: "products"})
	require.NoError(t, err)
	return c
}

func TestSearch_DecodesHits(t *testing.T) {
	t.Parallel()

	var gotQuery map[string]any
	c := fakeES(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasPrefix(r.URL.Path, "/products/_search"))
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotQuery)
		_, _ = io.WriteString(w, `{"hits":{"total":{"value":2},"hits":[
			{"_source":{"id":"p1","name":"Linen Shirt"}},
			{"_source":{"id":"p2","name":"Shirt Dress"}}]}}`)
	})

	total, docs, err := c.Search(context.Background(), "shirt", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, docs, 2)
	assert.Equal(t, "p1", docs[0].ID)

	mm := gotQuery["query"].(map[string]any)["multi_match"].(map[string]any)
	assert.Equal(t, "shirt", mm["query"])
	assert.Equal(t, "AUTO", mm["fuzziness"])
	assert.EqualValues(t, 10, gotQuery["size"])
}

func TestSearch_ErrorStatus(t *testing.T) {
	t.Parallel()

	c := fakeES(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"error":"boom"}`)
	})

	_, _, err := c.Search(context.Background(), "shirt", 0, 10)
	require.Error(t, err)
}

func TestIndexProduct(t *testing.T) {
	t.Parallel()

	var path string
	var doc ProductDoc
	c := fakeES(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&doc)
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"result":"created"}`)
	})

	err := c.IndexProduct(context.Background(), ProductDoc{ID: "p1", Name: "Linen Shirt", Brand: "Acme"})
	require.NoError(t, err)
	assert.Equal(t, "/products/_doc/p1", path)
	assert.Equal(t, "Acme", doc.Brand)
}
