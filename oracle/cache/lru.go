package cache

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// LRU is an in-process Backend bounded by entry count.
type LRU struct {
	entries *lru.Cache[string, []byte]
}

// NewLRU creates an LRU backend holding at most size entries.
func NewLRU(size int) (*LRU, error) {
	entries, err := lru.New[string, []byte](size)
	if err != nil {
		return nil, fmt.Errorf("create lru cache: %w", err)
	}
	return &LRU{entries: entries}, nil
}

func (l *LRU) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := l.entries.Get(key)
	return v, ok, nil
}

func (l *LRU) Set(_ context.Context, key string, value []byte) error {
	l.entries.Add(key, value)
	return nil
}

// Len returns the number of cached entries.
func (l *LRU) Len() int {
	return l.entries.Len()
}

func (l *LRU) Close() error {
	l.entries.Purge()
	return nil
}
