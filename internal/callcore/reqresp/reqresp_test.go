package reqresp

import "testing"

func TestFromMethod(t *testing.T) {
	if FromMethod("invite") != INVITE {
		t.Error("FromMethod should be case-insensitive")
	}
	if FromMethod("BOGUS") <= MESSAGE {
		t.Error("unknown methods must compare greater than MESSAGE")
	}
}

func TestFromStatus(t *testing.T) {
	if FromStatus(200) <= MESSAGE {
		t.Error("responses must compare greater than MESSAGE")
	}
	if !FromStatus(200).IsResponse() {
		t.Error("200 should be a response")
	}
}

func TestIsDialogInitiating(t *testing.T) {
	cases := map[Code]bool{
		REGISTER: true,
		INVITE:   true,
		MESSAGE:  true,
		CANCEL:   false,
		BYE:      false,
		ACK:      false,
		Code(0):  false,
	}
	for code, want := range cases {
		if got := code.IsDialogInitiating(); got != want {
			t.Errorf("%v.IsDialogInitiating() = %v, want %v", code, got, want)
		}
	}
	if FromStatus(200).IsDialogInitiating() {
		t.Error("a response must never be dialog-initiating")
	}
}

func TestString(t *testing.T) {
	if INVITE.String() != "INVITE" {
		t.Errorf("got %q", INVITE.String())
	}
	if FromStatus(486).String() != "486" {
		t.Errorf("got %q", FromStatus(486).String())
	}
}
