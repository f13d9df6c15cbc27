package store

import (
	"net/netip"

	"github.com/sebas/sipwatch/internal/callcore/model"
)

// FindStreamByEndpoint searches every retained call's streams for one whose
// dst matches and whose bound src matches src, or whose src is not yet
// bound. Returns the stream and its owning call, or (nil, nil) if none
// qualifies.
func (s *Store) FindStreamByEndpoint(src, dst netip.AddrPort) (*model.Stream, *model.Call) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.list {
		for _, stream := range c.Streams {
			if stream.MatchesEndpoint(src, dst) {
				return stream, c
			}
		}
	}
	return nil, nil
}
