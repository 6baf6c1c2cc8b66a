package service

import "context"

// PageCache holds rendered public pages keyed by path.
type PageCache interface {
	Get(ctx context.Context, path string) ([]byte, bool)
	Set(ctx context.Context, path string, body []byte) error
	Invalidate(ctx context.Context, paths ...string) error
}
