package scrolllock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(ms int64) time.Time {
	return time.UnixMilli(ms)
}

func TestLock_Expiry(t *testing.T) {
	t.Parallel()

	l := New(120 * time.Millisecond)
	l.Click(0, 0, at(1000))

	assert.IsType(t, Locked{}, l.State(at(1119)))
	assert.IsType(t, Locked{}, l.State(at(1120)))
	assert.Equal(t, Unlocked{}, l.State(at(1121)))
	// 过期后不会恢复
	assert.Equal(t, Unlocked{}, l.State(at(1119)))
}

func TestLock_ScrollWithCapturedOffsets(t *testing.T) {
	t.Parallel()

	l := New(0)
	l.Click(120, 8, at(1000))

	st := l.Scroll(120, 8, at(1050))
	require.IsType(t, Locked{}, st)
	assert.Equal(t, Locked{Top: 120, Left: 8, Until: at(1120)}, st)

	// 相同查询重复多次结果不变
	for i := 0; i < 3; i++ {
		assert.Equal(t, st, l.State(at(1100)))
	}
}

func TestLock_ScrollToOtherOffsetsUnlocks(t *testing.T) {
	t.Parallel()

	l := New(0)
	l.Click(120, 8, at(1000))

	assert.Equal(t, Unlocked{}, l.Scroll(121, 8, at(1001)))
	assert.Equal(t, Unlocked{}, l.State(at(1002)))
	// 回到原位置也不再锁定
	assert.Equal(t, Unlocked{}, l.Scroll(120, 8, at(1003)))
}

func TestLock_ScrollAfterExpiry(t *testing.T) {
	t.Parallel()

	l := New(0)
	l.Click(5, 0, at(0))
	assert.Equal(t, Unlocked{}, l.Scroll(5, 0, at(121)))
}

func TestLock_ClickWhileLockedRecaptures(t *testing.T) {
	t.Parallel()

	l := New(0)
	l.Click(10, 0, at(1000))
	l.Click(40, 2, at(1100))

	assert.Equal(t, Locked{Top: 40, Left: 2, Until: at(1220)}, l.State(at(1200)))
}

func TestLock_ZeroValue(t *testing.T) {
	t.Parallel()

	var l Lock
	assert.Equal(t, DefaultDuration, l.Duration())
	assert.False(t, l.Active(at(0)))
	assert.Equal(t, Unlocked{}, l.Scroll(0, 0, at(0)))

	l.Click(0, 0, at(0))
	assert.True(t, l.Active(at(120)))
	assert.False(t, l.Active(at(121)))
}
