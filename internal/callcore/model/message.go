package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/sebas/sipwatch/internal/callcore/packet"
	"github.com/sebas/sipwatch/internal/callcore/reqresp"
)

// Message is one SIP message admitted into a Call's history.
type Message struct {
	CSeq    uint32
	From    string
	To      string
	ReqResp reqresp.Code
	RespStr string

	Call   *Call // non-owning back-reference
	Packet *packet.Packet

	PacketID    uuid.UUID
	PayloadHash uint64
	ReceivedAt  time.Time

	RetransOf *Message // non-owning link to the earlier, identical message
}

// NewMessage builds a Message from an ingested packet's parsed SIP fields.
// The caller is responsible for setting RetransOf once admission has
// located (or failed to locate) a prior identical message in the call.
func NewMessage(p *packet.Packet, cseq uint32, from, to string, rr reqresp.Code, respStr string, payloadHash uint64) *Message {
	return &Message{
		CSeq:        cseq,
		From:        from,
		To:          to,
		ReqResp:     rr,
		RespStr:     respStr,
		Packet:      p,
		PacketID:    p.ID,
		PayloadHash: payloadHash,
		ReceivedAt:  p.CapturedAt,
	}
}
