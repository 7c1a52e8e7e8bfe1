// Package scheduler provides the single deferred-callback primitive that
// drives spin phases and autobet pacing.
//
// Production code uses Clock, which delegates to time.AfterFunc. Tests use
// Manual, which only fires callbacks when its virtual time is advanced, so a
// full spin timeline can be checked without wall-clock waits.
package scheduler

import (
	"sort"
	"sync"
	"time"
)

// Timer is a pending callback that can be cancelled.
type Timer interface {
	// Stop prevents the callback from firing. It reports false if the
	// callback already ran or was already stopped.
	Stop() bool
}

type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
	Now() time.Time
}

// Clock is the wall-clock Scheduler.
type Clock struct{}

func (Clock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

func (Clock) Now() time.Time {
	return time.Now()
}

// Manual is a virtual-time Scheduler. Callbacks run synchronously on the
// goroutine calling Advance or RunAll, in due-time order, ties in
// scheduling order.
type Manual struct {
	mu    sync.Mutex
	now   time.Time
	seq   int
	tasks []*manualTask
}

type manualTask struct {
	m    *Manual
	at   time.Time
	seq  int
	f    func()
	done bool
}

func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *Manual) AfterFunc(d time.Duration, f func()) Timer {
	m.mu.Lock()
	defer m.mu.Unlock()
	if d < 0 {
		d = 0
	}
	m.seq++
	t := &manualTask{m: m, at: m.now.Add(d), seq: m.seq, f: f}
	m.tasks = append(m.tasks, t)
	return t
}

// Pending is the number of callbacks not yet fired or stopped.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tasks)
}

// Advance moves virtual time forward by d, firing every callback that falls
// due, including callbacks scheduled by callbacks within the window.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now.Add(d)
	m.mu.Unlock()

	for {
		t := m.popDue(target)
		if t == nil {
			break
		}
		t.f()
	}

	m.mu.Lock()
	if target.After(m.now) {
		m.now = target
	}
	m.mu.Unlock()
}

// RunAll fires callbacks until none remain, jumping virtual time to each.
// It stops after limit callbacks and returns how many ran.
func (m *Manual) RunAll(limit int) int {
	fired := 0
	for fired < limit {
		t := m.popDue(time.Time{})
		if t == nil {
			break
		}
		t.f()
		fired++
	}
	return fired
}

// popDue removes and returns the earliest task due at or before target; a
// zero target accepts any task.
func (m *Manual) popDue(target time.Time) *manualTask {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.tasks) == 0 {
		return nil
	}
	sort.SliceStable(m.tasks, func(i, j int) bool {
		if m.tasks[i].at.Equal(m.tasks[j].at) {
			return m.tasks[i].seq < m.tasks[j].seq
		}
		return m.tasks[i].at.Before(m.tasks[j].at)
	})
	t := m.tasks[0]
	if !target.IsZero() && t.at.After(target) {
		return nil
	}
	m.tasks = m.tasks[1:]
	t.done = true
	if t.at.After(m.now) {
		m.now = t.at
	}
	return t
}

func (t *manualTask) Stop() bool {
	m := t.m
	m.mu.Lock()
	defer m.mu.Unlock()
	if t.done {
		return false
	}
	t.done = true
	for i, other := range m.tasks {
		if other == t {
			m.tasks = append(m.tasks[:i], m.tasks[i+1:]...)
			break
		}
	}
	return true
}
