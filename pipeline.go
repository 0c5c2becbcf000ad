package keyinfo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/riverfjs/keyinfo-go/internal/dom"
	"github.com/riverfjs/keyinfo-go/internal/extract"
	"github.com/riverfjs/keyinfo-go/internal/fusion"
	"github.com/riverfjs/keyinfo-go/internal/lexer"
	"github.com/riverfjs/keyinfo-go/internal/parser"
)

// ErrNoMarkdownSource is returned by Refresh when the engine has no markdown source.
var ErrNoMarkdownSource = errors.New("keyinfo: no markdown source")

// MarkdownSource returns the raw markdown of a document.
type MarkdownSource interface {
	Markdown(ctx context.Context, docID string) (string, error)
}

// RenderedSource returns the rendered HTML of a document, with block ids
// in data-node-id attributes.
type RenderedSource interface {
	Rendered(ctx context.Context, docID string) (string, error)
}

// SpanSource returns the structural span list of a document.
type SpanSource interface {
	Spans(ctx context.Context, docID string) ([]Span, error)
}

// BlockIndexSource returns the block-order index of a document, root included.
type BlockIndexSource interface {
	BlockOrder(ctx context.Context, docID string) (BlockOrder, error)
}

// Engine runs the refresh pipeline: fetch inputs, extract, fuse.
//
// Without a RenderedSource or SpanSource every structural source is derived
// from the local syntax tree and the BlockIndexSource is not consulted,
// because host block ids cannot match the local outline. With either of
// them configured the host supplies the structural sources and the block
// order; the markdown items keep their local line blocks and sort after
// the structural items of the same refresh.
type Engine struct {
	markdown MarkdownSource
	opts     *Options
	log      *slog.Logger
}

// NewEngine 创建刷新管道
func NewEngine(markdown MarkdownSource, opts ...Option) *Engine {
	options := applyOptions(opts...)
	return &Engine{
		markdown: markdown,
		opts:     options,
		log:      loggerFor(options.Config),
	}
}

// inputs 一次刷新从协作者获取的输入
type inputs struct {
	markdown string

	rendered    string
	hasRendered bool

	spans    []Span
	hasSpans bool

	order BlockOrder
}

// Refresh 获取文档输入并生成新的快照
//
// markdown 获取失败时刷新失败；其余协作者失败只记录日志，对应来源为空，
// 由 markdown 条目兜底。
func (e *Engine) Refresh(ctx context.Context, docID string) (*Snapshot, error) {
	if e.markdown == nil {
		return nil, ErrNoMarkdownSource
	}
	in, err := e.fetch(ctx, docID)
	if err != nil {
		return nil, err
	}

	rootID := docID
	if rootID == "" {
		rootID = e.opts.Config.RootID
	}
	doc := parser.Parse(in.markdown, rootID)

	var src Sources
	if e.opts.hostMode() {
		src = e.hostSources(doc, in)
	} else {
		src = localSources(doc, e.log)
	}
	items := fusion.Merge(src.Markdown, src.Spans, src.DOM)
	logSources(e.log.With("doc", docID), e.opts.Config, src, len(items))

	return newSnapshot(docID, items, src, e.now()), nil
}

func (e *Engine) fetch(ctx context.Context, docID string) (*inputs, error) {
	in := &inputs{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		md, err := e.markdown.Markdown(gctx, docID)
		if err != nil {
			return fmt.Errorf("fetch markdown %q: %w", docID, err)
		}
		in.markdown = md
		return nil
	})

	if !e.opts.hostMode() {
		return in, g.Wait()
	}

	if src := e.opts.Rendered; src != nil {
		g.Go(func() error {
			html, err := src.Rendered(gctx, docID)
			if err != nil {
				e.log.Warn("rendered tree unavailable", "doc", docID, "err", err)
				return nil
			}
			in.rendered, in.hasRendered = html, true
			return nil
		})
	}
	if src := e.opts.Spans; src != nil {
		g.Go(func() error {
			spans, err := src.Spans(gctx, docID)
			if err != nil {
				e.log.Warn("span list unavailable", "doc", docID, "err", err)
				return nil
			}
			in.spans, in.hasSpans = spans, true
			return nil
		})
	}
	if src := e.opts.BlockIndex; src != nil {
		g.Go(func() error {
			order, err := src.BlockOrder(gctx, docID)
			if err != nil {
				e.log.Warn("block index unavailable", "doc", docID, "err", err)
				return nil
			}
			in.order = order
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return in, nil
}

// hostSources 结构化来源与块排序来自宿主
func (e *Engine) hostSources(doc *parser.Document, in *inputs) Sources {
	order := in.order
	if order == nil && in.hasRendered {
		o, err := dom.Order(strings.NewReader(in.rendered))
		if err != nil {
			e.log.Warn("block order from rendered tree failed", "err", err)
		} else {
			order = o
		}
	}
	if order == nil {
		order = BlockOrder{doc.Outline.RootID: 0}
	}

	src := Sources{
		Markdown: lexer.Collect(string(doc.Source), lexer.WithBlocks(doc.Outline.Lines, order)),
	}
	if in.hasSpans {
		src.Spans = extract.FromSpans(extract.SourceSpan, in.spans, order)
	}
	if in.hasRendered {
		spans, err := dom.ExtractString(in.rendered)
		if err != nil {
			e.log.Warn("rendered tree unreadable, dom source skipped", "err", err)
		} else {
			src.DOM = extract.FromSpans(extract.SourceDOM, spans, order)
		}
	}
	return src
}
