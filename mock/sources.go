// Package mock provides function-field implementations of the keyinfo
// collaborator interfaces for tests.
package mock

import (
	"context"

	keyinfo "github.com/riverfjs/keyinfo-go"
)

var (
	_ keyinfo.MarkdownSource   = (*MarkdownSource)(nil)
	_ keyinfo.RenderedSource   = (*RenderedSource)(nil)
	_ keyinfo.SpanSource       = (*SpanSource)(nil)
	_ keyinfo.BlockIndexSource = (*BlockIndexSource)(nil)
)

// MarkdownSource is a mock implementation of keyinfo.MarkdownSource.
type MarkdownSource struct {
	MarkdownFn func(ctx context.Context, docID string) (string, error)
}

func (s *MarkdownSource) Markdown(ctx context.Context, docID string) (string, error) {
	return s.MarkdownFn(ctx, docID)
}

// RenderedSource is a mock implementation of keyinfo.RenderedSource.
type RenderedSource struct {
	RenderedFn func(ctx context.Context, docID string) (string, error)
}

func (s *RenderedSource) Rendered(ctx context.Context, docID string) (string, error) {
	return s.RenderedFn(ctx, docID)
}

// SpanSource is a mock implementation of keyinfo.SpanSource.
type SpanSource struct {
	SpansFn func(ctx context.Context, docID string) ([]keyinfo.Span, error)
}

func (s *SpanSource) Spans(ctx context.Context, docID string) ([]keyinfo.Span, error) {
	return s.SpansFn(ctx, docID)
}

// BlockIndexSource is a mock implementation of keyinfo.BlockIndexSource.
type BlockIndexSource struct {
	BlockOrderFn func(ctx context.Context, docID string) (keyinfo.BlockOrder, error)
}

func (s *BlockIndexSource) BlockOrder(ctx context.Context, docID string) (keyinfo.BlockOrder, error) {
	return s.BlockOrderFn(ctx, docID)
}
