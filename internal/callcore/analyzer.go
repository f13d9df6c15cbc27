// Package callcore is the in-process call-correlation core: given already
// dissected SIP/RTP/RTCP packets from an external capture pipeline, it
// tracks SIP dialogs and their media streams, exposing query and lifecycle
// operations to a UI or reporting layer.
package callcore

import (
	"fmt"
	"iter"

	"github.com/sebas/sipwatch/internal/callcore/config"
	"github.com/sebas/sipwatch/internal/callcore/correlator"
	"github.com/sebas/sipwatch/internal/callcore/match"
	"github.com/sebas/sipwatch/internal/callcore/model"
	"github.com/sebas/sipwatch/internal/callcore/packet"
	"github.com/sebas/sipwatch/internal/callcore/store"
)

// Stats summarizes the store's current size for display.
type Stats struct {
	Total     int
	Displayed int
}

// Analyzer is the facade over the Call-ID index, Call Store and the two
// correlators. It is the unit of construction: every ingress, query and
// lifecycle operation hangs off it.
type Analyzer struct {
	store   *store.Store
	match   *match.Engine
	msgCorr *correlator.MessageCorrelator
	medCorr *correlator.MediaCorrelator
	capture config.CaptureOptions
}

// Init constructs an Analyzer from capture, match and sort options. Returns
// an error wrapping ErrRegexCompile if the match expression fails to
// compile, or ErrResourceAllocation if the call table could not be built
// from the given capture options.
func Init(capture config.CaptureOptions, matchOpts config.MatchOptions, sortOpts config.SortOptions) (*Analyzer, error) {
	engine, err := match.New(match.Options{Expr: matchOpts.Expr, Invert: matchOpts.Invert, Case: matchOpts.Case})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRegexCompile, err)
	}

	s, err := store.New(capture, sortOpts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrResourceAllocation, err)
	}
	medCorr := correlator.NewMediaCorrelator(s)
	msgCorr := correlator.NewMessageCorrelator(s, engine, matchOpts, capture, medCorr)

	return &Analyzer{
		store:   s,
		match:   engine,
		msgCorr: msgCorr,
		medCorr: medCorr,
		capture: capture,
	}, nil
}

// Deinit releases the Analyzer's state. Safe only when no ingress call is
// in flight.
func (a *Analyzer) Deinit() {
	a.store.ClearHard()
}

// OnSIPPacket admits a dissected SIP packet, returning the resulting
// Message or nil if it was dropped by a filter or rotation could not free a
// slot.
func (a *Analyzer) OnSIPPacket(p *packet.Packet) *model.Message {
	return a.msgCorr.OnSIPPacket(p)
}

// OnRTPPacket resolves an observed RTP packet onto a Stream. Returns nil
// immediately (without touching the store) if RTP capture is disabled.
func (a *Analyzer) OnRTPPacket(p *packet.Packet) *model.Stream {
	if !a.capture.RTPCapture {
		return nil
	}
	return a.medCorr.OnRTPPacket(p)
}

// OnRTCPPacket resolves an observed RTCP packet onto a Stream.
func (a *Analyzer) OnRTCPPacket(p *packet.Packet) *model.Stream {
	if !a.capture.RTPCapture {
		return nil
	}
	return a.medCorr.OnRTCPPacket(p)
}

// Count returns the number of retained calls.
func (a *Analyzer) Count() int { return a.store.Count() }

// Iterator yields every retained call in current sort order.
func (a *Analyzer) Iterator() iter.Seq[*model.Call] { return a.store.AllIter() }

// ActiveIterator yields every active call.
func (a *Analyzer) ActiveIterator() iter.Seq[*model.Call] { return a.store.ActiveIter() }

// FindByCallID looks up a call by Call-ID.
func (a *Analyzer) FindByCallID(id string) (*model.Call, bool) { return a.store.Lookup(id) }

// IsActive reports whether call is in the active set.
func (a *Analyzer) IsActive(call *model.Call) bool { return a.store.IsActive(call) }

// Stats computes total and filtered call counts. filter is evaluated
// eagerly against every retained call; a nil filter counts every call as
// displayed.
func (a *Analyzer) Stats(filter func(*model.Call) bool) Stats {
	all := a.store.All()
	s := Stats{Total: len(all)}
	if filter == nil {
		s.Displayed = len(all)
		return s
	}
	for _, c := range all {
		if filter(c) {
			s.Displayed++
		}
	}
	return s
}

// ChangedAndReset reports whether the store mutated since the last call,
// clearing the flag as a side effect.
func (a *Analyzer) ChangedAndReset() bool { return a.store.ChangedAndReset() }

// ClearHard drops every retained call regardless of lock state.
func (a *Analyzer) ClearHard() { a.store.ClearHard() }

// ClearSoft drops every retained unlocked call for which keep returns
// false.
func (a *Analyzer) ClearSoft(keep func(*model.Call) bool) { a.store.ClearSoft(keep) }

// Rotate evicts the oldest unlocked call, if any. A no-op when every
// retained call is locked or rotation is disabled.
func (a *Analyzer) Rotate() {
	if !a.capture.Rotate {
		return
	}
	a.store.RotateOnce()
}

// SetSort installs a new display sort order.
func (a *Analyzer) SetSort(opts config.SortOptions) { a.store.SetSort(opts) }

// GetSort returns the current display sort order.
func (a *Analyzer) GetSort() config.SortOptions { return a.store.GetSort() }

// GetCapture returns the capture options the Analyzer was constructed with.
func (a *Analyzer) GetCapture() config.CaptureOptions { return a.capture }

// MatchExpr returns the configured match expression, or "" if none.
func (a *Analyzer) MatchExpr() string { return a.match.Expr() }
