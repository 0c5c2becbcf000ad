package keyinfo

import (
	"log/slog"

	"github.com/riverfjs/keyinfo-go/internal/converter"
	"github.com/riverfjs/keyinfo-go/internal/dom"
	"github.com/riverfjs/keyinfo-go/internal/extract"
	"github.com/riverfjs/keyinfo-go/internal/fusion"
	"github.com/riverfjs/keyinfo-go/internal/lexer"
	"github.com/riverfjs/keyinfo-go/internal/parser"
	"github.com/riverfjs/keyinfo-go/internal/render"
)

// Sources 三路提取结果，融合前
type Sources struct {
	Markdown []Item
	Spans    []Item
	DOM      []Item
}

// Extract 在本地解析、渲染 markdown 并融合三路结果
//
// 块 ID 与块排序来自本地大纲，三路来源共用同一套块 ID。
func Extract(markdown string, opts ...Option) []Item {
	options := applyOptions(opts...)
	src := ExtractSources(markdown, opts...)
	items := fusion.Merge(src.Markdown, src.Spans, src.DOM)
	logSources(loggerFor(options.Config), options.Config, src, len(items))
	return items
}

// ExtractSources 与 Extract 相同，但返回融合前的三路结果
func ExtractSources(markdown string, opts ...Option) Sources {
	options := applyOptions(opts...)
	doc := parser.Parse(markdown, options.Config.RootID)
	return localSources(doc, loggerFor(options.Config))
}

// localSources 三路来源都基于本地语法树
func localSources(doc *parser.Document, log *slog.Logger) Sources {
	order := doc.Outline.Order
	src := Sources{
		Markdown: lexer.Collect(string(doc.Source), lexer.WithBlocks(doc.Outline.Lines, order)),
		Spans:    extract.FromSpans(extract.SourceSpan, converter.Walk(doc), order),
	}

	html, err := render.HTML(doc)
	if err != nil {
		log.Warn("local render failed, dom source skipped", "err", err)
		return src
	}
	spans, err := dom.ExtractString(html)
	if err != nil {
		log.Warn("rendered tree unreadable, dom source skipped", "err", err)
		return src
	}
	src.DOM = extract.FromSpans(extract.SourceDOM, spans, order)
	return src
}

func logSources(log *slog.Logger, cfg *Config, src Sources, fused int) {
	if !cfg.Debug {
		return
	}
	log.Debug("key info extracted",
		"markdown", len(src.Markdown),
		"spans", len(src.Spans),
		"dom", len(src.DOM),
		"fused", fused,
	)
}
