// Package dgraph stores documents as Dgraph nodes through its HTTP API.
package dgraph

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/a010145456/FitTrackApp/internal/docstore"
)

// Schema is the DQL schema for document nodes.
const Schema = `
collection: string @index(exact) .
doc_id: string @index(exact) @upsert .
fields: string .

type Document {
  collection
  doc_id
  fields
}
`

// Collection persists documents via Dgraph's HTTP API. Field mappings are stored as a JSON string.
type Collection struct {
	endpoint   string
	name       string
	httpClient *http.Client
}

var _ docstore.Collection = (*Collection)(nil)

// NewCollection constructs the collection.
func NewCollection(endpoint, name string, timeout time.Duration) *Collection {
	return &Collection{
		endpoint: strings.TrimRight(endpoint, "/"),
		name:     name,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// ApplySchema installs Schema through /alter.
func (c *Collection) ApplySchema(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/alter", strings.NewReader(Schema))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/dql")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("dgraph alter failed: %s", resp.Status)
	}
	return nil
}

// Insert creates a new document node.
func (c *Collection) Insert(ctx context.Context, fields docstore.Fields) (string, error) {
	encoded, err := json.Marshal(fields.Clone())
	if err != nil {
		return "", err
	}

	id := uuid.NewString()
	payload := map[string]interface{}{
		"set": []map[string]interface{}{{
			"uid":         "_:doc",
			"dgraph.type": []string{"Document"},
			"collection":  c.name,
			"doc_id":      id,
			"fields":      string(encoded),
		}},
	}
	if err := c.mutate(ctx, payload, "insert"); err != nil {
		return "", err
	}
	return id, nil
}

// FetchAll returns every document node of the collection ordered by id.
func (c *Collection) FetchAll(ctx context.Context) ([]docstore.Document, error) {
	query := `query docs($collection: string) {
  documents(func: eq(collection, $collection), orderasc: doc_id) {
    doc_id
    fields
  }
}`
	result, err := c.executeQuery(ctx, query, map[string]string{"$collection": c.name})
	if err != nil {
		return nil, err
	}

	docs := make([]docstore.Document, 0, len(result.Documents))
	for _, node := range result.Documents {
		doc, err := node.toDocument()
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// OverwriteFields reads the stored mapping, merges fields into it and writes it back.
func (c *Collection) OverwriteFields(ctx context.Context, id string, fields docstore.Fields) error {
	existing, err := c.get(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return docstore.ErrNotFound
	}

	merged := existing.Fields.Clone()
	for k, v := range fields {
		merged[k] = v
	}
	encoded, err := json.Marshal(merged)
	if err != nil {
		return err
	}

	// The condition keeps a concurrent Remove from turning uid(doc) into a fresh orphan node.
	payload := map[string]interface{}{
		"query": fmt.Sprintf(`query { doc as var(func: eq(doc_id, %s)) @filter(eq(collection, %s)) }`,
			strconv.Quote(id), strconv.Quote(c.name)),
		"cond": "@if(eq(len(doc), 1))",
		"set": []map[string]interface{}{{
			"uid":    "uid(doc)",
			"fields": string(encoded),
		}},
	}
	return c.mutate(ctx, payload, "overwrite")
}

// Remove deletes the document node. An upsert block matching nothing deletes nothing.
func (c *Collection) Remove(ctx context.Context, id string) error {
	payload := map[string]interface{}{
		"query": fmt.Sprintf(`query { doc as var(func: eq(doc_id, %s)) @filter(eq(collection, %s)) }`,
			strconv.Quote(id), strconv.Quote(c.name)),
		"delete": []map[string]interface{}{
			{"uid": "uid(doc)"},
		},
	}
	return c.mutate(ctx, payload, "delete")
}

func (c *Collection) get(ctx context.Context, id string) (*docstore.Document, error) {
	query := `query doc($id: string, $collection: string) {
  documents(func: eq(doc_id, $id)) @filter(eq(collection, $collection)) {
    doc_id
    fields
  }
}`
	result, err := c.executeQuery(ctx, query, map[string]string{"$id": id, "$collection": c.name})
	if err != nil {
		return nil, err
	}
	if len(result.Documents) == 0 {
		return nil, nil
	}
	doc, err := result.Documents[0].toDocument()
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

type queryResponse struct {
	Documents []documentNode `json:"documents"`
}

type documentNode struct {
	DocID  string `json:"doc_id"`
	Fields string `json:"fields"`
}

func (node documentNode) toDocument() (docstore.Document, error) {
	fields, err := docstore.DecodeFields([]byte(node.Fields))
	if err != nil {
		return docstore.Document{}, fmt.Errorf("decode document %s: %w", node.DocID, err)
	}
	return docstore.Document{ID: node.DocID, Fields: fields}, nil
}

func (c *Collection) mutate(ctx context.Context, payload map[string]interface{}, op string) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/mutate?commitNow=true", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("dgraph %s failed: %s", op, resp.Status)
	}
	return checkErrors(resp)
}

func (c *Collection) executeQuery(ctx context.Context, query string, variables map[string]string) (queryResponse, error) {
	body := map[string]interface{}{
		"query":     query,
		"variables": variables,
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return queryResponse{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/query", bytes.NewReader(payload))
	if err != nil {
		return queryResponse{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return queryResponse{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return queryResponse{}, fmt.Errorf("dgraph query failed: %s", resp.Status)
	}

	var wrapper struct {
		Data   queryResponse `json:"data"`
		Errors []dgraphError `json:"errors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&wrapper); err != nil {
		return queryResponse{}, err
	}
	if len(wrapper.Errors) > 0 {
		return queryResponse{}, fmt.Errorf("dgraph query failed: %s", wrapper.Errors[0].Message)
	}
	return wrapper.Data, nil
}

type dgraphError struct {
	Message string `json:"message"`
}

// checkErrors surfaces errors Dgraph reports with a 200 status.
func checkErrors(resp *http.Response) error {
	var wrapper struct {
		Errors []dgraphError `json:"errors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&wrapper); err != nil {
		return nil
	}
	if len(wrapper.Errors) > 0 {
		return fmt.Errorf("dgraph mutation failed: %s", wrapper.Errors[0].Message)
	}
	return nil
}
