package dgraph

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/a010145456/FitTrackApp/internal/docstore"
)

func TestInsertPostsDocumentNode(t *testing.T) {
	var captured map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/mutate", r.URL.Path)
		require.Equal(t, "true", r.URL.Query().Get("commitNow"))
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &captured))
		_, _ = w.Write([]byte(`{"data":{"code":"Success"}}`))
	}))
	defer srv.Close()

	c := NewCollection(srv.URL+"/", "exercises", time.Second)
	id, err := c.Insert(context.Background(), docstore.Fields{"name": "Pull-up", "duration": 8})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	set := captured["set"].([]any)
	node := set[0].(map[string]any)
	require.Equal(t, "exercises", node["collection"])
	require.Equal(t, id, node["doc_id"])
	require.JSONEq(t, `{"name":"Pull-up","duration":8}`, node["fields"].(string))
}

func TestFetchAllDecodesFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/query", r.URL.Path)
		var body struct {
			Variables map[string]string `json:"variables"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "exercises", body.Variables["$collection"])
		_, _ = w.Write([]byte(`{"data":{"documents":[
			{"doc_id":"a","fields":"{\"name\":\"Dip\",\"duration\":4}"},
			{"doc_id":"b","fields":""}
		]}}`))
	}))
	defer srv.Close()

	docs, err := NewCollection(srv.URL, "exercises", time.Second).FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 2)
	require.Equal(t, "a", docs[0].ID)
	require.Equal(t, "Dip", docs[0].Fields["name"])
	require.Equal(t, json.Number("4"), docs[0].Fields["duration"])
	require.Empty(t, docs[1].Fields)
}

func TestFetchAllKeepsLargeIntegersExact(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"documents":[
			{"doc_id":"max","fields":"{\"duration\":9223372036854775807}"},
			{"doc_id":"odd","fields":"{\"duration\":9007199254740993}"}
		]}}`))
	}))
	defer srv.Close()

	docs, err := NewCollection(srv.URL, "exercises", time.Second).FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 2)
	require.Equal(t, json.Number("9223372036854775807"), docs[0].Fields["duration"])
	require.Equal(t, json.Number("9007199254740993"), docs[1].Fields["duration"])
}

func TestOverwriteFieldsPreservesLargeStoredIntegers(t *testing.T) {
	var setFields string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/query":
			_, _ = w.Write([]byte(`{"data":{"documents":[{"doc_id":"a","fields":"{\"name\":\"Dip\",\"duration\":9007199254740993}"}]}}`))
		case "/mutate":
			var body struct {
				Set []map[string]any `json:"set"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			setFields = body.Set[0]["fields"].(string)
			_, _ = w.Write([]byte(`{"data":{"code":"Success"}}`))
		}
	}))
	defer srv.Close()

	err := NewCollection(srv.URL, "exercises", time.Second).OverwriteFields(context.Background(), "a", docstore.Fields{"name": "Ring Dip"})
	require.NoError(t, err)
	require.Contains(t, setFields, `"duration":9007199254740993`)
}

func TestOverwriteFieldsMissingDocument(t *testing.T) {
	mutated := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/mutate" {
			mutated = true
		}
		_, _ = w.Write([]byte(`{"data":{"documents":[]}}`))
	}))
	defer srv.Close()

	err := NewCollection(srv.URL, "exercises", time.Second).OverwriteFields(context.Background(), "nope", docstore.Fields{"name": "x"})
	require.ErrorIs(t, err, docstore.ErrNotFound)
	require.False(t, mutated)
}

func TestOverwriteFieldsMergesExisting(t *testing.T) {
	var setFields string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/query":
			_, _ = w.Write([]byte(`{"data":{"documents":[{"doc_id":"a","fields":"{\"name\":\"Dip\",\"duration\":4,\"notes\":\"keep\"}"}]}}`))
		case "/mutate":
			var body struct {
				Query string           `json:"query"`
				Cond  string           `json:"cond"`
				Set   []map[string]any `json:"set"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			require.Contains(t, body.Query, `eq(doc_id, "a")`)
			require.Equal(t, "@if(eq(len(doc), 1))", body.Cond)
			setFields = body.Set[0]["fields"].(string)
			_, _ = w.Write([]byte(`{"data":{"code":"Success"}}`))
		}
	}))
	defer srv.Close()

	err := NewCollection(srv.URL, "exercises", time.Second).OverwriteFields(context.Background(), "a", docstore.Fields{"duration": 6})
	require.NoError(t, err)
	require.JSONEq(t, `{"name":"Dip","duration":6,"notes":"keep"}`, setFields)
}

func TestMutationErrorsSurface(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"errors":[{"message":"permission denied"}]}`))
	}))
	defer srv.Close()

	err := NewCollection(srv.URL, "exercises", time.Second).Remove(context.Background(), "a")
	require.ErrorContains(t, err, "permission denied")
}

func TestHTTPStatusFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewCollection(srv.URL, "exercises", time.Second).FetchAll(context.Background())
	require.ErrorContains(t, err, "dgraph query failed")
}
