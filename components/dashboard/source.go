package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
)

// CollectionLoader fetches an entity collection encoded as a JSON array.
// Entity names match view codes.
type CollectionLoader interface {
	LoadCollection(ctx context.Context, entity string, count int) ([]byte, error)
}

// JSONSource decodes the collections a loader returns into T.
func JSONSource[T any](loader CollectionLoader, entity string) Source[T] {
	return SourceFunc[T](func(ctx context.Context, count int) ([]T, error) {
		data, err := loader.LoadCollection(ctx, entity, count)
		if err != nil {
			return nil, fmt.Errorf("dashboard: load %s: %w", entity, err)
		}
		var records []T
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("dashboard: decode %s: %w", entity, err)
		}
		return records, nil
	})
}
