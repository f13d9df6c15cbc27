package model

import (
	"net/netip"

	"github.com/google/uuid"
)

// StreamType distinguishes media transport from its control protocol.
type StreamType int

const (
	StreamRTP StreamType = iota
	StreamRTCP
)

func (t StreamType) String() string {
	if t == StreamRTCP {
		return "RTCP"
	}
	return "RTP"
}

// MediaDescriptor is the SDP media descriptor that announced a Stream:
// just enough of the "m=" line and its connection/rtcp attributes for the
// Media Correlator to proactively create the streams it promises.
type MediaDescriptor struct {
	Address  netip.Addr
	Port     int
	RTCPPort int
	Formats  []string
}

// Stream is a 4-tuple (src, dst, type, format) grouping media packets for
// one direction of a call's RTP or RTCP flow.
type Stream struct {
	ID uuid.UUID

	Media *MediaDescriptor
	Type  StreamType

	Src netip.AddrPort // zero value until Complete
	Dst netip.AddrPort

	FmtCode  int
	Complete bool

	Msg  *Message // the SIP message whose SDP announced this stream
	Call *Call    // non-owning back-reference

	Packets uint64
	Bytes   uint64
}

// NewStream creates a stream announced by msg for dst, not yet bound to an
// observed source.
func NewStream(media *MediaDescriptor, typ StreamType, dst netip.AddrPort, msg *Message) *Stream {
	return &Stream{
		ID:    uuid.New(),
		Media: media,
		Type:  typ,
		Dst:   dst,
		Msg:   msg,
	}
}

// Bind completes the stream once its source address is observed on the
// wire.
func (s *Stream) Bind(src netip.AddrPort, fmtCode int) {
	s.Src = src
	s.FmtCode = fmtCode
	s.Complete = true
}

// Observe records one packet's contribution to this stream's counters.
func (s *Stream) Observe(n int) {
	s.Packets++
	s.Bytes += uint64(n)
}

// MatchesEndpoint reports whether an observed packet with the given src/dst
// could belong to this stream: dst must match, and either the stream is
// unbound or its bound source matches src.
func (s *Stream) MatchesEndpoint(src, dst netip.AddrPort) bool {
	if s.Dst != dst {
		return false
	}
	return !s.Complete || s.Src == src
}
