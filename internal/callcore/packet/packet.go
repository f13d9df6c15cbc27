// Package packet defines the boundary record a capture/dissection pipeline
// hands to the core: addresses plus whichever protocol records were
// already decoded upstream (SIP, SDP, RTP, RTCP). The core never parses
// wire bytes itself.
package packet

import (
	"net/netip"
	"time"

	"github.com/emiago/sipgo/sip"
	"github.com/google/uuid"
	"github.com/pion/rtcp"
	"github.com/pion/rtp"
	"github.com/pion/sdp/v3"
	"github.com/sebas/sipwatch/internal/callcore/reqresp"
)

// Packet is an already-dissected unit of traffic. Exactly one of SIP, RTP,
// or RTCP is normally set; SDP is set alongside SIP when the message body
// carries an offer/answer.
type Packet struct {
	ID         uuid.UUID
	Src        netip.AddrPort
	Dst        netip.AddrPort
	CapturedAt time.Time

	SIP sip.Message
	SDP *sdp.SessionDescription

	RTP  *rtp.Packet
	RTCP []rtcp.Packet

	// Raw is an optional raw byte slice a capture pipeline may attach. The
	// core neither fills nor reads it: the match engine checks Payload(),
	// and capture.storage_mode decides whether Message.Packet is kept.
	Raw []byte
}

// New creates a Packet with a freshly minted ID and the given addresses.
func New(src, dst netip.AddrPort, capturedAt time.Time) *Packet {
	return &Packet{
		ID:         uuid.New(),
		Src:        src,
		Dst:        dst,
		CapturedAt: capturedAt,
	}
}

// CallID extracts the Call-ID header from the packet's SIP message, or ""
// if absent.
func (p *Packet) CallID() string {
	if p.SIP == nil {
		return ""
	}
	if id := p.SIP.CallID(); id != nil {
		return id.Value()
	}
	return ""
}

// XCallID extracts the non-standard X-Call-ID header, or "" if absent.
func (p *Packet) XCallID() string {
	if p.SIP == nil {
		return ""
	}
	if h := p.SIP.GetHeader("X-Call-ID"); h != nil {
		return h.Value()
	}
	return ""
}

// From extracts the From header's user part, or "" if absent.
func (p *Packet) From() string {
	if p.SIP == nil {
		return ""
	}
	if from := p.SIP.From(); from != nil {
		return from.Address.User
	}
	return ""
}

// To extracts the To header's user part, or "" if absent.
func (p *Packet) To() string {
	if p.SIP == nil {
		return ""
	}
	if to := p.SIP.To(); to != nil {
		return to.Address.User
	}
	return ""
}

// CSeq extracts the CSeq sequence number, or 0 if absent.
func (p *Packet) CSeq() uint32 {
	if p.SIP == nil {
		return 0
	}
	if cseq := p.SIP.CSeq(); cseq != nil {
		return cseq.SeqNo
	}
	return 0
}

// IsRequest reports whether the SIP message is a request.
func (p *Packet) IsRequest() bool {
	_, ok := p.SIP.(*sip.Request)
	return ok
}

// IsResponse reports whether the SIP message is a response.
func (p *Packet) IsResponse() bool {
	_, ok := p.SIP.(*sip.Response)
	return ok
}

// RespReason returns the reason phrase of a response message, or "".
func (p *Packet) RespReason() string {
	if resp, ok := p.SIP.(*sip.Response); ok {
		return resp.Reason
	}
	return ""
}

// ReqResp classifies the packet's SIP message as a request-method ordinal
// or a response status code (see package reqresp).
func (p *Packet) ReqResp() reqresp.Code {
	switch m := p.SIP.(type) {
	case *sip.Request:
		return reqresp.FromMethod(string(m.Method))
	case *sip.Response:
		return reqresp.FromStatus(int(m.StatusCode))
	default:
		return 0
	}
}

// Payload returns the SIP message body, or nil if there is none.
func (p *Packet) Payload() []byte {
	if p.SIP == nil {
		return nil
	}
	return p.SIP.Body()
}
