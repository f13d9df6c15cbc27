// Package reqresp classifies SIP request methods and response status codes
// into a single ordinal space, so that admission rules can compare "is this
// a dialog-initiating request" with a plain integer comparison instead of a
// type switch. The trick (and the ordering of the low values) comes from
// the original tool this core replaces: request methods are assigned small
// ordinals and responses keep their real status code (100-699), which is
// always greater than every request ordinal used here.
package reqresp

import (
	"strconv"
	"strings"
)

// Code is a request-method ordinal (1..15) or a raw SIP status code
// (100..699, stored as-is).
type Code int

// Request method ordinals, in the original tool's enumeration order.
// REGISTER..MESSAGE are dialog-initiating; CANCEL..UPDATE are not.
const (
	_ Code = iota
	REGISTER
	UNREGISTER
	INVITE
	SUBSCRIBE
	NOTIFY
	OPTIONS
	PUBLISH
	MESSAGE
	CANCEL
	BYE
	ACK
	PRACK
	INFO
	REFER
	UPDATE
)

var methodCodes = map[string]Code{
	"REGISTER":   REGISTER,
	"UNREGISTER": UNREGISTER,
	"INVITE":     INVITE,
	"SUBSCRIBE":  SUBSCRIBE,
	"NOTIFY":     NOTIFY,
	"OPTIONS":    OPTIONS,
	"PUBLISH":    PUBLISH,
	"MESSAGE":    MESSAGE,
	"CANCEL":     CANCEL,
	"BYE":        BYE,
	"ACK":        ACK,
	"PRACK":      PRACK,
	"INFO":       INFO,
	"REFER":      REFER,
	"UPDATE":     UPDATE,
}

var codeMethods = func() map[Code]string {
	m := make(map[Code]string, len(methodCodes))
	for name, code := range methodCodes {
		m[code] = name
	}
	return m
}()

// FromMethod maps a SIP method name to its ordinal. An unknown method maps
// to a value greater than MESSAGE, so it is treated as non-dialog-initiating.
func FromMethod(method string) Code {
	if code, ok := methodCodes[strings.ToUpper(method)]; ok {
		return code
	}
	return UPDATE + 1
}

// FromStatus converts a SIP response status code (100-699) directly, since
// the smallest valid status code (100) is already greater than every
// request ordinal defined above.
func FromStatus(status int) Code {
	return Code(status)
}

// IsResponse reports whether code represents a SIP response.
func (c Code) IsResponse() bool {
	return c >= 100
}

// IsDialogInitiating reports whether code is a request capable of starting
// a new dialog (REGISTER..MESSAGE), per match.complete semantics.
func (c Code) IsDialogInitiating() bool {
	return c != 0 && c <= MESSAGE
}

// String renders the method name for requests, or the numeric status code
// for responses.
func (c Code) String() string {
	if c.IsResponse() {
		return strconv.Itoa(int(c))
	}
	if name, ok := codeMethods[c]; ok {
		return name
	}
	return "UNKNOWN"
}
