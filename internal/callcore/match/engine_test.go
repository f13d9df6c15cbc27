package match

import "testing"

func TestEmptyExprAlwaysMatches(t *testing.T) {
	e, err := New(Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !e.Check([]byte("anything")) {
		t.Error("empty expression should match everything")
	}
}

func TestInvertExpression(t *testing.T) {
	e, err := New(Options{Expr: "OPTIONS", Invert: true})
	if err != nil {
		t.Fatal(err)
	}
	if !e.Check([]byte("INVITE sip:u2@example.com SIP/2.0")) {
		t.Error("INVITE payload should be admitted under inverted OPTIONS match")
	}
	if e.Check([]byte("OPTIONS sip:u2@example.com SIP/2.0")) {
		t.Error("OPTIONS payload should be rejected under inverted OPTIONS match")
	}
}

func TestCaseInsensitive(t *testing.T) {
	e, err := New(Options{Expr: "invite", Case: true})
	if err != nil {
		t.Fatal(err)
	}
	if !e.Check([]byte("INVITE sip:u2@example.com SIP/2.0")) {
		t.Error("case-insensitive match should admit upper-case INVITE")
	}
}

func TestCompileError(t *testing.T) {
	if _, err := New(Options{Expr: "("}); err == nil {
		t.Fatal("expected a compile error for an unbalanced regex")
	}
}
