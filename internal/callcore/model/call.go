// Package model holds the Call/Message/Stream data types owned by the
// store. Calls own their Messages and Streams in place; back-references
// (Message.Call, Stream.Call, Stream.Msg, Call.Parent) are non-owning and
// simply become unreachable when the owning Call is evicted.
package model

import (
	"net/netip"
	"sync/atomic"
	"time"

	"github.com/sebas/sipwatch/internal/callcore/reqresp"
)

// CallState is the lifecycle state of a Call, derived from its message
// history (see DeriveState).
type CallState int

const (
	StateCalling CallState = iota
	StateInCall
	StateCompleted
	StateCancelled
	StateRejected
	StateBusyLine
	StateDiverted
)

func (s CallState) String() string {
	switch s {
	case StateCalling:
		return "Calling"
	case StateInCall:
		return "InCall"
	case StateCompleted:
		return "Completed"
	case StateCancelled:
		return "Cancelled"
	case StateRejected:
		return "Rejected"
	case StateBusyLine:
		return "BusyLine"
	case StateDiverted:
		return "Diverted"
	default:
		return "Unknown"
	}
}

// IsActive reports whether a call in this state is still in progress.
func (s CallState) IsActive() bool {
	return s == StateCalling || s == StateInCall
}

// Direction records which side of the observed traffic originated the call.
type Direction int

const (
	DirectionUnknown Direction = iota
	DirectionInbound
	DirectionOutbound
)

// Call is a single SIP dialog, keyed by Call-ID, with its ordered messages
// and associated media streams.
type Call struct {
	CallID  string
	XCallID string
	Index   uint64
	Dir     Direction

	State CallState

	Messages []*Message
	Streams  []*Stream

	Parent   *Call
	Children []*Call

	CreatedAt time.Time

	locked atomic.Bool
}

// NewCall creates a Call in its initial state. index must be assigned by
// the store (monotonically increasing across the process lifetime).
func NewCall(callID, xCallID string, index uint64, now time.Time) *Call {
	return &Call{
		CallID:    callID,
		XCallID:   xCallID,
		Index:     index,
		State:     StateCalling,
		CreatedAt: now,
	}
}

// Locked reports whether the call is pinned against rotation.
func (c *Call) Locked() bool { return c.locked.Load() }

// SetLocked pins or unpins the call against rotation.
func (c *Call) SetLocked(v bool) { c.locked.Store(v) }

// AddMessage appends a message to the call's ordered history. The derived
// state is only recomputed for INVITE-initiated calls; a call opened by any
// other request never leaves its initial state.
func (c *Call) AddMessage(m *Message) {
	m.Call = c
	c.Messages = append(c.Messages, m)
	if c.IsInviteInitiated() {
		c.State = DeriveState(c.Messages)
	}
}

// IsInviteInitiated reports whether the call's dialog was opened by an
// INVITE.
func (c *Call) IsInviteInitiated() bool {
	first := c.FirstMessage()
	return first != nil && first.ReqResp == reqresp.INVITE
}

// AddStream attaches a stream to the call.
func (c *Call) AddStream(s *Stream) {
	s.Call = c
	c.Streams = append(c.Streams, s)
}

// AddChild registers child as an attended-transfer child of c.
func (c *Call) AddChild(child *Call) {
	child.Parent = c
	c.Children = append(c.Children, child)
}

// FindStreamByDst returns the first stream on the call whose dst matches,
// regardless of binding state (used when deciding whether register_streams
// needs to create a new announced stream).
func (c *Call) FindStreamByDst(dst netip.AddrPort) *Stream {
	for _, s := range c.Streams {
		if s.Dst == dst {
			return s
		}
	}
	return nil
}

// FindStreamExact returns a bound stream whose (src, dst) exactly match, or
// nil. Used by reverse-stream synthesis to detect an endpoint shift.
func (c *Call) FindStreamExact(src, dst netip.AddrPort) *Stream {
	for _, s := range c.Streams {
		if s.Complete && s.Src == src && s.Dst == dst {
			return s
		}
	}
	return nil
}

// FirstMessage returns the call's first message, or nil if it has none yet.
func (c *Call) FirstMessage() *Message {
	if len(c.Messages) == 0 {
		return nil
	}
	return c.Messages[0]
}

// LastMessage returns the call's most recent message, or nil if it has none.
func (c *Call) LastMessage() *Message {
	if len(c.Messages) == 0 {
		return nil
	}
	return c.Messages[len(c.Messages)-1]
}

// From returns the caller identity taken from the first message, or "".
func (c *Call) From() string {
	if m := c.FirstMessage(); m != nil {
		return m.From
	}
	return ""
}

// To returns the callee identity taken from the first message, or "".
func (c *Call) To() string {
	if m := c.FirstMessage(); m != nil {
		return m.To
	}
	return ""
}

// Duration returns the elapsed time between the call's creation and its
// most recent message, or 0 if it has no messages.
func (c *Call) Duration() time.Duration {
	m := c.LastMessage()
	if m == nil {
		return 0
	}
	return m.ReceivedAt.Sub(c.CreatedAt)
}
