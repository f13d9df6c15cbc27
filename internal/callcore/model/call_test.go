package model

import (
	"testing"
	"time"

	"github.com/sebas/sipwatch/internal/callcore/reqresp"
)

func TestCallAddMessageRecomputesState(t *testing.T) {
	c := NewCall("call-1", "", 1, time.Now())
	c.AddMessage(req(reqresp.INVITE))
	if c.State != StateCalling {
		t.Fatalf("got %v, want Calling", c.State)
	}
	c.AddMessage(resp(200))
	if c.State != StateInCall {
		t.Fatalf("got %v, want InCall", c.State)
	}
}

func TestCallAddMessageSkipsStateForNonInviteInitiated(t *testing.T) {
	c := NewCall("call-1", "", 1, time.Now())
	c.AddMessage(req(reqresp.OPTIONS))
	if c.IsInviteInitiated() {
		t.Fatal("an OPTIONS-opened call must not be INVITE-initiated")
	}
	if c.State != StateCalling {
		t.Fatalf("got %v, want Calling (state never recomputed)", c.State)
	}
	c.AddMessage(resp(200))
	if c.State != StateCalling {
		t.Fatalf("got %v, want Calling; a non-INVITE-initiated call's state must stay put", c.State)
	}
}

func TestCallLocking(t *testing.T) {
	c := NewCall("call-1", "", 1, time.Now())
	if c.Locked() {
		t.Fatal("new call should not be locked")
	}
	c.SetLocked(true)
	if !c.Locked() {
		t.Fatal("call should be locked")
	}
}

func TestCallAddChild(t *testing.T) {
	parent := NewCall("parent", "", 1, time.Now())
	child := NewCall("child", "parent", 2, time.Now())
	parent.AddChild(child)
	if child.Parent != parent {
		t.Fatal("child.Parent not set")
	}
	if len(parent.Children) != 1 || parent.Children[0] != child {
		t.Fatal("parent.Children not updated")
	}
}
