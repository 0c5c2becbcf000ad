// Package ui is the interactive key-info viewer.
//
// The viewer shows the fused key-info list of one document and refreshes it
// whenever the file changes. Clicking an entry (enter or mouse) locks the
// scroll position through the Panel so the redraw that follows does not
// move the list under the user.
package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"

	keyinfo "github.com/riverfjs/keyinfo-go"
	"github.com/riverfjs/keyinfo-go/file"
)

// 头部与底部各占一行
const (
	headerHeight = 1
	footerHeight = 1
)

// Options configures the viewer.
type Options struct {
	Source  *file.Source
	DocID   string
	Config  *keyinfo.Config
	Styles  *StyleManager
	Watcher *fsnotify.Watcher
}

// ============================================================================
// Messages
// ============================================================================

// snapshotMsg 一次刷新完成
type snapshotMsg struct {
	snap *keyinfo.Snapshot
}

// refreshErrMsg 刷新失败
type refreshErrMsg struct {
	err error
}

// watchErrMsg 文件监听出错，监听仍需继续
type watchErrMsg struct {
	err error
}

// fileChangedMsg 文档文件被修改
type fileChangedMsg struct{}

// lockTickMsg 滚动锁可能已过期，需要重绘状态栏
type lockTickMsg time.Time

// ============================================================================
// Model
// ============================================================================

type model struct {
	source  *file.Source
	docID   string
	engine  *keyinfo.Engine
	panel   *keyinfo.Panel
	styles  *StyleManager
	watcher *fsnotify.Watcher
	lockFor time.Duration

	viewport viewport.Model
	ready    bool
	width    int

	snap     *keyinfo.Snapshot
	cursor   int
	selected *keyinfo.Item
	lastAct  keyinfo.ScrollAction
	err      error
}

func newModel(opts Options) *model {
	cfg := opts.Config
	if cfg == nil {
		cfg = keyinfo.DefaultConfig()
	}
	styles := opts.Styles
	if styles == nil {
		styles = DefaultStyles()
	}
	panel := keyinfo.NewPanel(keyinfo.WithConfig(cfg))
	panel.Open(opts.DocID)
	return &model{
		source:  opts.Source,
		docID:   opts.DocID,
		engine:  keyinfo.NewEngine(opts.Source, keyinfo.WithConfig(cfg)),
		panel:   panel,
		styles:  styles,
		watcher: opts.Watcher,
		lockFor: cfg.LockDuration,
	}
}

// Run starts the viewer and blocks until it exits.
func Run(opts Options) error {
	m := newModel(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(m.refresh(), m.waitForChange())
}

func (m *model) refresh() tea.Cmd {
	engine, docID := m.engine, m.docID
	return func() tea.Msg {
		snap, err := engine.Refresh(context.Background(), docID)
		if err != nil {
			return refreshErrMsg{err}
		}
		return snapshotMsg{snap}
	}
}

// waitForChange 等待文档文件的下一次写入
func (m *model) waitForChange() tea.Cmd {
	if m.watcher == nil {
		return nil
	}
	w, source, docID := m.watcher, m.source, m.docID
	return func() tea.Msg {
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return nil
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
					continue
				}
				if id, ok := source.DocID(ev.Name); ok && id == docID {
					return fileChangedMsg{}
				}
			case err, ok := <-w.Errors:
				if !ok {
					return nil
				}
				return watchErrMsg{fmt.Errorf("watch: %w", err)}
			}
		}
	}
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	case snapshotMsg:
		m.applySnapshot(msg.snap)
		return m, nil
	case refreshErrMsg:
		// 监听由 fileChangedMsg 重新挂起，这里不能再启动一个
		m.err = msg.err
		return m, nil
	case watchErrMsg:
		m.err = msg.err
		return m, m.waitForChange()
	case fileChangedMsg:
		return m, tea.Batch(m.refresh(), m.waitForChange())
	case lockTickMsg:
		// 只需重绘
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		return m.handleMouse(msg)
	}
	return m, nil
}

func (m *model) resize(width, height int) {
	h := max(height-headerHeight-footerHeight, 1)
	m.width = width
	if !m.ready {
		m.viewport = viewport.New(width, h)
		m.viewport.MouseWheelEnabled = true
		m.ready = true
	} else {
		m.viewport.Width = width
		m.viewport.Height = h
	}
	m.viewport.SetContent(m.renderList())
}

// applySnapshot 应用快照，按 Panel 的决定处理滚动
func (m *model) applySnapshot(s *keyinfo.Snapshot) {
	d, ok := m.panel.Apply(s)
	if !ok {
		return
	}
	m.snap = s
	m.err = nil
	m.lastAct = d.Scroll

	prev := m.viewport.YOffset
	if m.cursor >= len(d.Items) {
		m.cursor = max(len(d.Items)-1, 0)
	}
	m.viewport.SetContent(m.renderList())

	switch d.Scroll {
	case keyinfo.ScrollTop:
		m.cursor = 0
		m.viewport.SetContent(m.renderList())
		m.viewport.GotoTop()
	case keyinfo.ScrollRestore:
		m.viewport.SetYOffset(prev)
	case keyinfo.ScrollKeep:
		// 锁定期间不做程序化滚动
	}
}

func (m *model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		m.moveCursor(-1)
		return m, nil
	case "down", "j":
		m.moveCursor(1)
		return m, nil
	case "enter", " ":
		return m, m.click(m.cursor)
	case "r":
		return m, m.refresh()
	}
	return m.updateViewport(msg)
}

func (m *model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
		if i, ok := m.itemAt(msg.Y); ok {
			m.cursor = i
			m.viewport.SetContent(m.renderList())
			return m, m.click(i)
		}
		return m, nil
	}
	return m.updateViewport(msg)
}

// updateViewport 交给 viewport 处理，偏移变化时通知 Panel
func (m *model) updateViewport(msg tea.Msg) (tea.Model, tea.Cmd) {
	prev := m.viewport.YOffset
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	if m.viewport.YOffset != prev {
		m.panel.Scroll(m.viewport.YOffset, 0)
	}
	return m, cmd
}

// itemAt 将屏幕行映射为条目下标，每个条目占一行
func (m *model) itemAt(y int) (int, bool) {
	if y < headerHeight || y >= headerHeight+m.viewport.Height {
		return 0, false
	}
	i := m.viewport.YOffset + y - headerHeight
	if i < 0 || i >= len(m.panel.Items()) {
		return 0, false
	}
	return i, true
}

func (m *model) moveCursor(delta int) {
	n := len(m.panel.Items())
	if n == 0 {
		return
	}
	m.cursor = min(max(m.cursor+delta, 0), n-1)
	m.viewport.SetContent(m.renderList())

	prev := m.viewport.YOffset
	switch {
	case m.cursor < m.viewport.YOffset:
		m.viewport.SetYOffset(m.cursor)
	case m.cursor >= m.viewport.YOffset+m.viewport.Height:
		m.viewport.SetYOffset(m.cursor - m.viewport.Height + 1)
	}
	if m.viewport.YOffset != prev {
		m.panel.Scroll(m.viewport.YOffset, 0)
	}
}

// click 选中条目并锁定滚动位置，锁过期后重绘状态栏
func (m *model) click(i int) tea.Cmd {
	it, ok := m.panel.Click(i, m.viewport.YOffset, 0)
	if !ok {
		return nil
	}
	m.selected = &it
	return tea.Tick(m.lockFor+time.Millisecond, func(t time.Time) tea.Msg {
		return lockTickMsg(t)
	})
}

// ============================================================================
// View
// ============================================================================

func (m *model) View() string {
	if !m.ready {
		return "loading..."
	}
	return m.headerView() + "\n" + m.viewport.View() + "\n" + m.footerView()
}

func (m *model) headerView() string {
	summary := "loading"
	if m.snap != nil {
		summary = keyinfo.Summary(m.snap.Items)
	}
	return m.styles.Header.Render(m.docID) + " " + m.styles.Dim.Render(summary)
}

func (m *model) footerView() string {
	if m.err != nil {
		return m.styles.Error.Render(m.err.Error())
	}
	var parts []string
	if _, ok := m.panel.LockState().(keyinfo.Locked); ok {
		parts = append(parts, m.styles.Locked.Render("locked"))
	}
	if m.selected != nil {
		parts = append(parts, fmt.Sprintf("%s @ %s:%d", m.selected.Label(), m.selected.BlockID, m.selected.Offset))
	}
	if len(parts) == 0 {
		return m.styles.Dim.Render("enter: jump  r: refresh  q: quit")
	}
	return strings.Join(parts, "  ")
}

func (m *model) renderList() string {
	items := m.panel.Items()
	if len(items) == 0 {
		return m.styles.Dim.Render("no key info")
	}
	var b strings.Builder
	for i, it := range items {
		if i > 0 {
			b.WriteByte('\n')
		}
		line := fmt.Sprintf("%-9s %s", it.Type, it.Label())
		if i == m.cursor {
			b.WriteString(m.styles.Cursor.Render("> "))
			b.WriteString(m.styles.Selected.Render(m.styles.typeStyle(it.Type).Render(line)))
			continue
		}
		b.WriteString("  ")
		b.WriteString(m.styles.typeStyle(it.Type).Render(line))
	}
	return b.String()
}
