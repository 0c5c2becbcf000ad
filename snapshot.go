package keyinfo

import (
	"time"

	"github.com/google/uuid"
)

// SourceCounts 各来源在融合前的条目数
type SourceCounts struct {
	Markdown int `json:"markdown"`
	Spans    int `json:"spans"`
	DOM      int `json:"dom"`
}

// Snapshot is the result of one refresh cycle. A newer snapshot fully
// supersedes an older one; snapshots are never merged.
type Snapshot struct {
	// CycleID 标识一次刷新
	CycleID   string       `json:"cycleId"`
	DocID     string       `json:"docId"`
	Items     []Item       `json:"items"`
	Sources   SourceCounts `json:"sources"`
	CreatedAt time.Time    `json:"createdAt"`
}

func newSnapshot(docID string, items []Item, src Sources, now time.Time) *Snapshot {
	return &Snapshot{
		CycleID: uuid.NewString(),
		DocID:   docID,
		Items:   items,
		Sources: SourceCounts{
			Markdown: len(src.Markdown),
			Spans:    len(src.Spans),
			DOM:      len(src.DOM),
		},
		CreatedAt: now,
	}
}

// Len returns the number of items.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Items)
}

func (e *Engine) now() time.Time {
	return nowFunc(e.opts.Config)()
}

func nowFunc(cfg *Config) func() time.Time {
	if cfg == nil || cfg.Now == nil {
		return time.Now
	}
	return cfg.Now
}
