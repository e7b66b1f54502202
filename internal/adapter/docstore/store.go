// Package docstore is the remote document store contract the library
// reconciles against: per-user collections of JSON-like documents addressed
// by collection path and document id, with live snapshot subscriptions.
package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrClosed      = errors.New("docstore: store closed")
	ErrInvalidPath = errors.New("docstore: invalid path")
)

// Collection names under users/{userId}/.
const (
	CollectionHistory    = "clipboardItems"
	CollectionSnippets   = "snippets"
	CollectionCategories = "categories"
)

type Document struct {
	ID     string
	Fields map[string]any
}

// Decode copies the document fields into v through their JSON form.
func (d Document) Decode(v any) error {
	raw, err := json.Marshal(d.Fields)
	if err != nil {
		return fmt.Errorf("docstore: encode %s: %w", d.ID, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("docstore: decode %s: %w", d.ID, err)
	}
	return nil
}

// Snapshot is the full content of one collection, ordered by document
// creation.
type Snapshot struct {
	Collection string
	Docs       []Document
}

type UpsertOptions struct {
	// Merge overlays the given top-level fields on the stored document.
	// Without it the document is replaced.
	Merge bool
}

// Store is implemented by every backend.
//
// Subscribe delivers the current snapshot immediately and a new one after
// every change to the collection. A consumer that falls behind only sees
// the latest snapshot. The channel closes when ctx is done or the store is
// closed.
type Store interface {
	Subscribe(ctx context.Context, collection string) (<-chan Snapshot, error)
	Upsert(ctx context.Context, collection, id string, fields map[string]any, opts UpsertOptions) error
	Delete(ctx context.Context, collection, id string) error
}

func UserCollection(userID, name string) string {
	return "users/" + userID + "/" + name
}

func DocPath(collection, id string) string {
	return collection + "/" + id
}

// ValidateRef checks a collection path (odd number of non-empty segments)
// and, when id is not empty, the document id.
func ValidateRef(collection, id string) error {
	segs := strings.Split(collection, "/")
	if collection == "" || len(segs)%2 == 0 {
		return fmt.Errorf("%w: collection %q", ErrInvalidPath, collection)
	}
	for _, s := range segs {
		if s == "" {
			return fmt.Errorf("%w: collection %q", ErrInvalidPath, collection)
		}
	}
	if strings.Contains(id, "/") {
		return fmt.Errorf("%w: document id %q", ErrInvalidPath, id)
	}
	return nil
}

// ApplyUpsert returns the stored form of a document after an upsert.
// existing may be nil.
func ApplyUpsert(existing, fields map[string]any, opts UpsertOptions) map[string]any {
	out := make(map[string]any, len(existing)+len(fields))
	if opts.Merge {
		for k, v := range existing {
			out[k] = v
		}
	}
	for k, v := range fields {
		out[k] = v
	}
	return out
}

func cloneFields(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Clone returns a snapshot whose documents do not share maps with s.
func (s Snapshot) Clone() Snapshot {
	docs := make([]Document, len(s.Docs))
	for i, d := range s.Docs {
		docs[i] = Document{ID: d.ID, Fields: cloneFields(d.Fields)}
	}
	return Snapshot{Collection: s.Collection, Docs: docs}
}
