package booking

import (
	"sync"
	"time"
)

type NoticeKind int

const (
	NoticeSuccess NoticeKind = iota
	NoticeError
)

// Notice is a transient message for the user.
type Notice struct {
	Kind NoticeKind
	Text string
}

// AfterFunc schedules f to run once d has elapsed. time.AfterFunc is the
// default; tests substitute a manual clock.
type AfterFunc func(d time.Duration, f func())

func defaultAfter(d time.Duration, f func()) {
	time.AfterFunc(d, f)
}

// Notices holds at most one notice and dismisses it after its duration.
// A newer notice replaces the current one and its pending dismissal.
type Notices struct {
	mu        sync.Mutex
	seq       uint64
	current   *Notice
	after     AfterFunc
	dismissed func()
}

// NewNotices returns a Notices using after for timers. dismissed, if set,
// runs after a notice has expired.
func NewNotices(after AfterFunc, dismissed func()) *Notices {
	if after == nil {
		after = defaultAfter
	}
	return &Notices{after: after, dismissed: dismissed}
}

func (n *Notices) Success(text string) {
	n.show(Notice{Kind: NoticeSuccess, Text: text}, SuccessDuration)
}

func (n *Notices) Error(text string) {
	n.show(Notice{Kind: NoticeError, Text: text}, ErrorDuration)
}

// Current returns a copy of the notice on display, or nil.
func (n *Notices) Current() *Notice {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.current == nil {
		return nil
	}
	cp := *n.current
	return &cp
}

func (n *Notices) show(notice Notice, d time.Duration) {
	n.mu.Lock()
	n.seq++
	id := n.seq
	n.current = &notice
	n.mu.Unlock()

	n.after(d, func() { n.expire(id) })
}

func (n *Notices) expire(id uint64) {
	n.mu.Lock()
	if n.seq != id {
		n.mu.Unlock()
		return
	}
	n.current = nil
	n.mu.Unlock()

	if n.dismissed != nil {
		n.dismissed()
	}
}
