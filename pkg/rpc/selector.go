package rpc

import "sync/atomic"

// endpointSelector hands out gateway URLs in round-robin order. The
// cursor only ever advances, so a pool of n endpoints repeats every n
// picks regardless of how attempts interleave.
type endpointSelector struct {
	endpoints []string
	cursor    atomic.Uint32
}

// newEndpointSelector builds a selector over a non-empty endpoint pool.
func newEndpointSelector(endpoints []string) *endpointSelector {
	return &endpointSelector{endpoints: endpoints}
}

// next returns the endpoint for the current attempt and advances the
// cursor. The first pick is always the first configured endpoint.
func (s *endpointSelector) next() string {
	idx := s.cursor.Add(1) - 1
	return s.endpoints[idx%uint32(len(s.endpoints))]
}

// size reports the pool size.
func (s *endpointSelector) size() int {
	return len(s.endpoints)
}
