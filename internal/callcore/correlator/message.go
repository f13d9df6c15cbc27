// Package correlator implements the two ingress entry points that turn
// dissected packets into Call history: the Message Correlator (SIP
// admission) and the Media Correlator (RTP/RTCP stream resolution).
package correlator

import (
	"hash/fnv"

	"github.com/sebas/sipwatch/internal/callcore/config"
	"github.com/sebas/sipwatch/internal/callcore/match"
	"github.com/sebas/sipwatch/internal/callcore/model"
	"github.com/sebas/sipwatch/internal/callcore/packet"
	"github.com/sebas/sipwatch/internal/callcore/reqresp"
	"github.com/sebas/sipwatch/internal/callcore/store"
)

// MessageCorrelator admits SIP packets into the Call Store, via a
// twelve-step lookup-classify-append-correlate algorithm.
type MessageCorrelator struct {
	store   *store.Store
	engine  *match.Engine
	opts    config.MatchOptions
	capture config.CaptureOptions
	media   *MediaCorrelator
}

// NewMessageCorrelator wires a correlator against a store, match engine and
// its companion media correlator (needed to register SDP-announced streams
// once a call is known to be INVITE-initiated).
func NewMessageCorrelator(s *store.Store, engine *match.Engine, opts config.MatchOptions, capture config.CaptureOptions, media *MediaCorrelator) *MessageCorrelator {
	return &MessageCorrelator{store: s, engine: engine, opts: opts, capture: capture, media: media}
}

// OnSIPPacket runs the admission algorithm for one dissected SIP packet.
// Returns the admitted Message, or nil if the packet was dropped by a
// match-option filter or the store could not allocate a new Call (store full
// with rotation disabled, or every retained call is locked).
func (mc *MessageCorrelator) OnSIPPacket(p *packet.Packet) *model.Message {
	callID := p.CallID()
	rr := p.ReqResp()

	call, existing := mc.store.Lookup(callID)
	if !existing {
		if !mc.engine.Check(p.Payload()) {
			return nil
		}
		if mc.opts.Invite && rr != reqresp.INVITE {
			return nil
		}
		if mc.opts.Complete && !rr.IsDialogInitiating() {
			return nil
		}

		call = mc.store.Create(callID, p.XCallID(), p.CapturedAt)
		if call == nil {
			return nil
		}
	}

	msg := model.NewMessage(p, p.CSeq(), p.From(), p.To(), rr, p.RespReason(), payloadHash(p))
	if !mc.capture.StorageMode {
		msg.Packet = nil
	}
	msg.RetransOf = findRetransmission(call, msg)

	if call.FirstMessage() == nil && p.XCallID() != "" {
		if parent, ok := mc.store.Lookup(p.XCallID()); ok {
			parent.AddChild(call)
		}
	}

	call.AddMessage(msg)

	if call.IsInviteInitiated() {
		mc.media.RegisterStreams(call, msg, p)
		mc.store.Touch(call)
	}

	return msg
}

// findRetransmission searches call's existing messages (excluding msg,
// already not yet appended) for an earlier message with the identical
// (cseq, reqresp, from, to, payload-hash) tuple.
func findRetransmission(call *model.Call, msg *model.Message) *model.Message {
	for _, m := range call.Messages {
		if m.CSeq == msg.CSeq && m.ReqResp == msg.ReqResp &&
			m.From == msg.From && m.To == msg.To &&
			m.PayloadHash == msg.PayloadHash {
			return m
		}
	}
	return nil
}

// payloadHash hashes the raw payload bytes; findRetransmission compares
// cseq, reqresp ordinal, from and to directly alongside it. FNV-64a is a cheap
// non-cryptographic hash well suited to this; no external hashing
// dependency is warranted for it (see DESIGN.md).
func payloadHash(p *packet.Packet) uint64 {
	h := fnv.New64a()
	h.Write(p.Payload())
	return h.Sum64()
}
