// Package analytics loads dashboard collections from a remote reporting backend.
package analytics

import (
	"context"
	"encoding/json"

	dashboard "github.com/goliatone/go-commsdash/components/dashboard"
)

// CollectionClient fetches one entity collection as a raw JSON array.
type CollectionClient interface {
	FetchCollection(ctx context.Context, entity string, count int) (json.RawMessage, error)
}

// Loader adapts a CollectionClient into a dashboard.CollectionLoader.
func Loader(client CollectionClient) dashboard.CollectionLoader {
	return loader{client: client}
}

type loader struct {
	client CollectionClient
}

func (l loader) LoadCollection(ctx context.Context, entity string, count int) ([]byte, error) {
	return l.client.FetchCollection(ctx, entity, count)
}
