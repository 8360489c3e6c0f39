package storage

import (
	"context"
	"errors"
	"fmt"
)

// Seed copies each named collection from src into dst unless dst already
// holds it. Collections missing from src are skipped. It returns the names
// that were copied.
func Seed(ctx context.Context, dst, src Backend, names ...string) ([]string, error) {
	var copied []string
	for _, name := range names {
		if _, err := dst.Get(ctx, name); err == nil {
			continue
		} else if !errors.Is(err, ErrCollectionNotFound) {
			return copied, fmt.Errorf("check %s: %w", name, err)
		}

		data, err := src.Get(ctx, name)
		if err != nil {
			if errors.Is(err, ErrCollectionNotFound) {
				continue
			}
			return copied, fmt.Errorf("seed %s: %w", name, err)
		}
		if err := dst.Set(ctx, name, data); err != nil {
			return copied, fmt.Errorf("seed %s: %w", name, err)
		}
		copied = append(copied, name)
	}
	return copied, nil
}
