package model

import "github.com/sebas/sipwatch/internal/callcore/reqresp"

// DeriveState recomputes a Call's lifecycle state from its ordered message
// history. It never reads Call fields directly so it can be reused for
// "what would the state be after this message" checks.
func DeriveState(msgs []*Message) CallState {
	var sawCancel, sawBye, byeAnswered, diverted bool
	var highestInviteResp int

	for _, m := range msgs {
		if !m.ReqResp.IsResponse() {
			switch m.ReqResp {
			case reqresp.CANCEL:
				sawCancel = true
			case reqresp.BYE:
				sawBye = true
			}
			continue
		}

		code := int(m.ReqResp)
		if sawBye {
			if code >= 200 {
				byeAnswered = true
			}
			continue
		}
		if code == 302 {
			diverted = true
		}
		if code > highestInviteResp {
			highestInviteResp = code
		}
	}

	switch {
	case sawCancel:
		return StateCancelled
	case sawBye && byeAnswered:
		return StateCompleted
	case diverted:
		return StateDiverted
	case highestInviteResp == 486 || highestInviteResp == 600:
		return StateBusyLine
	case highestInviteResp >= 400:
		return StateRejected
	case highestInviteResp >= 200 && highestInviteResp < 300:
		return StateInCall
	default:
		return StateCalling
	}
}
