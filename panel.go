package keyinfo

import (
	"log/slog"
	"time"

	"github.com/riverfjs/keyinfo-go/internal/listctl"
	"github.com/riverfjs/keyinfo-go/internal/scrolllock"
)

// Panel owns the displayed key-info list of the active document.
//
// Panel is not safe for concurrent use. Like the UI thread it models, a
// single goroutine applies snapshots and feeds user events.
type Panel struct {
	lock *scrolllock.Lock
	now  func() time.Time
	log  *slog.Logger

	activeDoc string
	shownDoc  string
	items     []Item
}

// NewPanel 创建面板，滚动锁时长来自 Config.LockDuration
func NewPanel(opts ...Option) *Panel {
	options := applyOptions(opts...)
	return &Panel{
		lock: scrolllock.New(options.Config.LockDuration),
		now:  nowFunc(options.Config),
		log:  loggerFor(options.Config),
	}
}

// Open 切换当前文档；之前文档的快照此后会被丢弃
func (p *Panel) Open(docID string) {
	p.activeDoc = docID
}

// ActiveDoc returns the active document id.
func (p *Panel) ActiveDoc() string {
	return p.activeDoc
}

// Apply 应用一次刷新的快照
//
// 快照不属于当前文档时丢弃并返回 false。否则列表整体替换为快照条目，
// 滚动处理由滚动锁与文档是否变化决定。
func (p *Panel) Apply(s *Snapshot) (Decision, bool) {
	if s == nil || s.DocID != p.activeDoc {
		if s != nil {
			p.log.Debug("stale snapshot discarded", "doc", s.DocID, "active", p.activeDoc, "cycle", s.CycleID)
		}
		return Decision{}, false
	}
	req := listctl.Request{
		IsSameDoc:    p.shownDoc == s.DocID,
		HasItems:     len(p.items) > 0,
		CurrentItems: p.items,
		LatestItems:  s.Items,
	}
	d := listctl.Plan(req, p.lock.Active(p.now()))
	p.items = d.Items
	p.shownDoc = s.DocID
	return d, true
}

// Items returns the displayed items.
func (p *Panel) Items() []Item {
	return p.items
}

// Click 用户点击第 index 个条目，同时锁定当前滚动位置
func (p *Panel) Click(index, top, left int) (Item, bool) {
	if index < 0 || index >= len(p.items) {
		return Item{}, false
	}
	p.lock.Click(top, left, p.now())
	return p.items[index], true
}

// Scroll 用户滚动列表
func (p *Panel) Scroll(top, left int) LockState {
	return p.lock.Scroll(top, left, p.now())
}

// LockState 返回当前滚动锁状态，渲染层据此决定是否抑制程序化滚动
func (p *Panel) LockState() LockState {
	return p.lock.State(p.now())
}
