package memory

import (
	"context"
	"errors"
	"reflect"
	"sync"

	"go.mongodb.org/mongo-driver/bson"

	"staycal/internal/infra/storage/docstore"
)

var errFindTarget = errors.New("memory: find target must be a pointer to a slice")

// DocumentStore mimics the Mongo document store. Documents are kept
// bson-encoded so the same struct tags apply to both backends.
type DocumentStore struct {
	mu          sync.RWMutex
	collections map[string]*collection
}

type collection struct {
	order []string
	docs  map[string]bson.Raw
}

func NewDocumentStore() *DocumentStore {
	return &DocumentStore{collections: make(map[string]*collection)}
}

func (s *DocumentStore) coll(name string) *collection {
	c, ok := s.collections[name]
	if !ok {
		c = &collection{docs: make(map[string]bson.Raw)}
		s.collections[name] = c
	}
	return c
}

// peek reads a collection without creating it; safe under the read lock.
func (s *DocumentStore) peek(name string) *collection {
	if c, ok := s.collections[name]; ok {
		return c
	}
	return &collection{docs: map[string]bson.Raw{}}
}

func (s *DocumentStore) Get(ctx context.Context, name, id string, out any) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	raw, ok := s.peek(name).docs[id]
	if !ok {
		return docstore.ErrNotFound
	}
	return bson.Unmarshal(raw, out)
}

func (s *DocumentStore) Set(ctx context.Context, name, id string, doc any) error {
	fields, err := toMap(doc)
	if err != nil {
		return err
	}
	fields["_id"] = id
	raw, err := bson.Marshal(fields)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.coll(name)
	if _, ok := c.docs[id]; !ok {
		c.order = append(c.order, id)
	}
	c.docs[id] = raw
	return nil
}

func (s *DocumentStore) Update(ctx context.Context, name, id string, fields map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.coll(name)
	raw, ok := c.docs[id]
	if !ok {
		return docstore.ErrNotFound
	}
	current := bson.M{}
	if err := bson.Unmarshal(raw, &current); err != nil {
		return err
	}
	for k, v := range fields {
		current[k] = v
	}
	next, err := bson.Marshal(current)
	if err != nil {
		return err
	}
	c.docs[id] = next
	return nil
}

func (s *DocumentStore) Delete(ctx context.Context, name, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.coll(name)
	if _, ok := c.docs[id]; !ok {
		return docstore.ErrNotFound
	}
	c.remove(id)
	return nil
}

// Find returns matches in insertion order.
func (s *DocumentStore) Find(ctx context.Context, name, field string, value any, out any) error {
	target := reflect.ValueOf(out)
	if target.Kind() != reflect.Pointer || target.Elem().Kind() != reflect.Slice {
		return errFindTarget
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	c := s.peek(name)
	sliceType := target.Elem().Type()
	result := reflect.MakeSlice(sliceType, 0, len(c.order))
	for _, id := range c.order {
		raw := c.docs[id]
		ok, err := matches(raw, field, value)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		elem := reflect.New(sliceType.Elem())
		if err := bson.Unmarshal(raw, elem.Interface()); err != nil {
			return err
		}
		result = reflect.Append(result, elem.Elem())
	}
	target.Elem().Set(result)
	return nil
}

func (s *DocumentStore) DeleteWhere(ctx context.Context, name, field string, value any) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.coll(name)
	var doomed []string
	for _, id := range c.order {
		ok, err := matches(c.docs[id], field, value)
		if err != nil {
			return 0, err
		}
		if ok {
			doomed = append(doomed, id)
		}
	}
	for _, id := range doomed {
		c.remove(id)
	}
	return len(doomed), nil
}

func (c *collection) remove(id string) {
	delete(c.docs, id)
	for i, v := range c.order {
		if v == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}

func matches(raw bson.Raw, field string, value any) (bool, error) {
	got, err := raw.LookupErr(field)
	if err != nil {
		return false, nil
	}
	want, err := toMap(bson.M{"v": value})
	if err != nil {
		return false, err
	}
	var decoded any
	if err := got.Unmarshal(&decoded); err != nil {
		return false, err
	}
	return reflect.DeepEqual(decoded, want["v"]), nil
}

// toMap normalises any bson-encodable value through a round trip so
// comparisons see the same Go types the driver would produce.
func toMap(doc any) (bson.M, error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, err
	}
	out := bson.M{}
	if err := bson.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

var _ docstore.Store = (*DocumentStore)(nil)
