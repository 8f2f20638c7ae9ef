package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	dashboard "github.com/goliatone/go-commsdash/components/dashboard"
)

// MockClient serves collections from fixtures, falling back to a generator.
// Failures can be injected per entity.
type MockClient struct {
	mu        sync.RWMutex
	fixtures  map[string]any
	failures  map[string]error
	generator *dashboard.Generator
	calls     map[string]int
}

// NewMockClient builds a client. A nil generator serves fixtures only.
func NewMockClient(generator *dashboard.Generator) *MockClient {
	return &MockClient{
		fixtures:  map[string]any{},
		failures:  map[string]error{},
		generator: generator,
		calls:     map[string]int{},
	}
}

// SetFixture serves records for entity regardless of the requested count.
func (c *MockClient) SetFixture(entity string, records any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fixtures[entity] = records
}

// Fail makes every fetch of entity return err. A nil err clears it.
func (c *MockClient) Fail(entity string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err == nil {
		delete(c.failures, entity)
		return
	}
	c.failures[entity] = err
}

// Calls reports how often entity was fetched.
func (c *MockClient) Calls(entity string) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.calls[entity]
}

// FetchCollection implements CollectionClient.
func (c *MockClient) FetchCollection(ctx context.Context, entity string, count int) (json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.calls[entity]++
	failure := c.failures[entity]
	records, ok := c.fixtures[entity]
	c.mu.Unlock()
	if failure != nil {
		return nil, failure
	}
	if !ok {
		if c.generator == nil {
			return nil, fmt.Errorf("analytics: no fixture for %s", entity)
		}
		generated, err := c.generator.Generate(entity, count)
		if err != nil {
			return nil, err
		}
		records = generated
	}
	data, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("analytics: encode %s: %w", entity, err)
	}
	return data, nil
}
