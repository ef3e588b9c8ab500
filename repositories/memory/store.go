// Package memory implements the document store in process memory.
// It backs development runs and tests.
package memory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/upb/pet-house-api/repositories"
)

// uniqueFields lists the fields that must be unique per collection,
// matching the unique email index of the mongo and postgres stores.
var uniqueFields = map[string]string{
	"users": "email",
}

type collection struct {
	docs  map[string][]byte
	order []string
}

// Store is a mutex-guarded map of JSON documents
type Store struct {
	mu          sync.RWMutex
	collections map[string]*collection
}

var _ repositories.DocumentStore = (*Store)(nil)

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{collections: make(map[string]*collection)}
}

// coll returns the named collection, creating it when create is set.
// Callers hold s.mu.
func (s *Store) coll(name string, create bool) *collection {
	c, ok := s.collections[name]
	if !ok && create {
		c = &collection{docs: make(map[string][]byte)}
		s.collections[name] = c
	}
	return c
}

// firstMatch returns the id of the first document in insertion order matching filter
func (c *collection) firstMatch(filter repositories.Filter) (string, bool) {
	if c == nil {
		return "", false
	}
	if id, ok := filter[repositories.IDField]; ok {
		doc, exists := c.docs[id]
		if !exists || !repositories.MatchesDocument(doc, filter) {
			return "", false
		}
		return id, true
	}
	for _, id := range c.order {
		if repositories.MatchesDocument(c.docs[id], filter) {
			return id, true
		}
	}
	return "", false
}

// conflicts reports whether data duplicates a unique field held by a document other than id
func (c *collection) conflicts(name, id string, data []byte) bool {
	field, ok := uniqueFields[name]
	if !ok {
		return false
	}

	var doc map[string]interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return false
	}
	value, ok := doc[field].(string)
	if !ok || value == "" {
		return false
	}

	filter := repositories.Filter{field: value}
	for _, other := range c.order {
		if other != id && repositories.MatchesDocument(c.docs[other], filter) {
			return true
		}
	}
	return false
}

func (c *collection) remove(id string) {
	delete(c.docs, id)
	for i, existing := range c.order {
		if existing == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}

// Find decodes all matching documents into out in insertion order
func (s *Store) Find(ctx context.Context, name string, filter repositories.Filter, out interface{}) error {
	s.mu.RLock()
	var docs [][]byte
	if c := s.coll(name, false); c != nil {
		for _, id := range c.order {
			if repositories.MatchesDocument(c.docs[id], filter) {
				docs = append(docs, c.docs[id])
			}
		}
	}
	s.mu.RUnlock()

	return repositories.DecodeDocuments(docs, out)
}

// FindOne decodes the first matching document into out
func (s *Store) FindOne(ctx context.Context, name string, filter repositories.Filter, out interface{}) error {
	s.mu.RLock()
	c := s.coll(name, false)
	id, ok := c.firstMatch(filter)
	var doc []byte
	if ok {
		doc = c.docs[id]
	}
	s.mu.RUnlock()

	if !ok {
		return repositories.ErrNoDocuments
	}
	if err := json.Unmarshal(doc, out); err != nil {
		return fmt.Errorf("failed to decode %s document: %w", name, err)
	}
	return nil
}

// InsertOne stores doc under id
func (s *Store) InsertOne(ctx context.Context, name string, id string, doc interface{}) error {
	data, err := repositories.EncodeDocument(id, doc)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.coll(name, true)
	if _, exists := c.docs[id]; exists || c.conflicts(name, id, data) {
		return repositories.ErrDuplicateKey
	}
	c.docs[id] = data
	c.order = append(c.order, id)
	return nil
}

// ReplaceOne replaces the first matching document, keeping its id
func (s *Store) ReplaceOne(ctx context.Context, name string, filter repositories.Filter, id string, doc interface{}, upsert bool) (repositories.UpdateResult, error) {
	var result repositories.UpdateResult

	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.coll(name, true)
	if matched, ok := c.firstMatch(filter); ok {
		data, err := repositories.EncodeDocument(matched, doc)
		if err != nil {
			return result, err
		}
		if c.conflicts(name, matched, data) {
			return result, repositories.ErrDuplicateKey
		}
		result.MatchedCount = 1
		if !bytes.Equal(c.docs[matched], data) {
			result.ModifiedCount = 1
			c.docs[matched] = data
		}
		return result, nil
	}

	if !upsert {
		return result, nil
	}
	if _, exists := c.docs[id]; exists {
		return result, repositories.ErrDuplicateKey
	}

	data, err := repositories.EncodeDocument(id, doc)
	if err != nil {
		return result, err
	}
	if c.conflicts(name, id, data) {
		return result, repositories.ErrDuplicateKey
	}
	c.docs[id] = data
	c.order = append(c.order, id)

	upserted := id
	result.UpsertedID = &upserted
	return result, nil
}

// SetFields overwrites top-level fields on the first matching document
func (s *Store) SetFields(ctx context.Context, name string, filter repositories.Filter, fields map[string]interface{}) (repositories.UpdateResult, error) {
	var result repositories.UpdateResult
	if _, ok := fields[repositories.IDField]; ok {
		return result, fmt.Errorf("cannot set %s", repositories.IDField)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.coll(name, false)
	id, ok := c.firstMatch(filter)
	if !ok {
		return result, nil
	}
	result.MatchedCount = 1

	current := map[string]json.RawMessage{}
	if err := json.Unmarshal(c.docs[id], &current); err != nil {
		return result, fmt.Errorf("failed to decode %s document: %w", name, err)
	}
	for k, v := range fields {
		raw, err := json.Marshal(v)
		if err != nil {
			return result, fmt.Errorf("failed to encode field %s: %w", k, err)
		}
		current[k] = raw
	}

	data, err := json.Marshal(current)
	if err != nil {
		return result, err
	}
	if c.conflicts(name, id, data) {
		return result, repositories.ErrDuplicateKey
	}
	if !bytes.Equal(c.docs[id], data) {
		result.ModifiedCount = 1
		c.docs[id] = data
	}
	return result, nil
}

// DeleteOne removes the first matching document
func (s *Store) DeleteOne(ctx context.Context, name string, filter repositories.Filter) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.coll(name, false)
	id, ok := c.firstMatch(filter)
	if !ok {
		return 0, nil
	}
	c.remove(id)
	return 1, nil
}

// Ping always succeeds
func (s *Store) Ping(ctx context.Context) error {
	return nil
}

// Close is a no-op
func (s *Store) Close(ctx context.Context) error {
	return nil
}
