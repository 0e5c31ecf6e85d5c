package rpc

import (
	"encoding/json"
	"sync"
	"time"
)

// callOutcome is the single terminal result of a pending call.
type callOutcome struct {
	result json.RawMessage
	err    error
}

// pendingCall tracks one in-flight request from registration until its
// response, timeout or rejection arrives. The done channel is buffered
// and receives exactly one outcome.
type pendingCall struct {
	id       string
	deadline time.Time
	timer    *time.Timer
	done     chan callOutcome
}

// callRegistry correlates gateway responses with in-flight requests by
// call id. Every completion path removes the entry under the lock before
// delivering, so each call observes at most one outcome no matter how
// races between responses, timeouts and rejections play out.
type callRegistry struct {
	mu    sync.Mutex
	calls map[string]*pendingCall
}

func newCallRegistry() *callRegistry {
	return &callRegistry{calls: make(map[string]*pendingCall)}
}

// register adds a pending call that expires at deadline. Registering an
// id that is already in flight fails with ErrDuplicateCallID.
func (r *callRegistry) register(id string, deadline time.Time) (*pendingCall, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.calls[id]; exists {
		return nil, ErrDuplicateCallID
	}

	call := &pendingCall{
		id:       id,
		deadline: deadline,
		done:     make(chan callOutcome, 1),
	}
	call.timer = time.AfterFunc(time.Until(deadline), func() {
		r.expire(time.Now())
	})
	r.calls[id] = call
	return call, nil
}

// resolve completes the call with a successful result. It reports false
// when no call with that id is in flight; such responses are dropped.
func (r *callRegistry) resolve(id string, result json.RawMessage) bool {
	return r.complete(id, callOutcome{result: result})
}

// reject completes the call with err. Unknown ids are dropped the same
// way as in resolve.
func (r *callRegistry) reject(id string, err error) bool {
	return r.complete(id, callOutcome{err: err})
}

func (r *callRegistry) complete(id string, out callOutcome) bool {
	r.mu.Lock()
	call, ok := r.calls[id]
	if ok {
		delete(r.calls, id)
	}
	r.mu.Unlock()

	if !ok {
		return false
	}
	call.timer.Stop()
	call.done <- out
	return true
}

// rejectAll fails every pending call with err. Used on connection loss
// and deliberate disconnect.
func (r *callRegistry) rejectAll(err error) {
	r.mu.Lock()
	calls := r.calls
	r.calls = make(map[string]*pendingCall)
	r.mu.Unlock()

	for _, call := range calls {
		call.timer.Stop()
		call.done <- callOutcome{err: err}
	}
}

// expire fails every call whose deadline is at or before now.
func (r *callRegistry) expire(now time.Time) {
	r.mu.Lock()
	var due []*pendingCall
	for id, call := range r.calls {
		if !call.deadline.After(now) {
			delete(r.calls, id)
			due = append(due, call)
		}
	}
	r.mu.Unlock()

	for _, call := range due {
		call.timer.Stop()
		call.done <- callOutcome{err: ErrCallTimeout}
	}
}

// size reports the number of calls currently in flight.
func (r *callRegistry) size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}
