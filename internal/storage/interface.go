package storage

import (
	"context"
	"sort"
)

// StorageInterface defines the contract for snapshot storage
type StorageInterface interface {
	Store(ctx context.Context, name string, data []byte) error
	Retrieve(ctx context.Context, name string) ([]byte, error)
	List(ctx context.Context, prefix string) ([]string, error)
	Delete(ctx context.Context, name string) error
}

// Latest returns the newest object under prefix. Snapshot names embed a
// sortable timestamp, so the lexically greatest name is the newest one.
// It returns "" and no error when nothing is stored yet.
func Latest(ctx context.Context, s StorageInterface, prefix string) (string, []byte, error) {
	names, err := s.List(ctx, prefix)
	if err != nil {
		return "", nil, err
	}
	if len(names) == 0 {
		return "", nil, nil
	}

	sort.Strings(names)
	name := names[len(names)-1]

	data, err := s.Retrieve(ctx, name)
	if err != nil {
		return "", nil, err
	}
	return name, data, nil
}
