package errors

import (
	stderrs "errors"
	"net/http"
	"testing"
)

func TestHTTPStatusCodeMapping(t *testing.T) {
	cases := []struct {
		code ErrorCode
		want int
	}{
		{ErrorCodeNotFound, http.StatusNotFound},
		{ErrorCodeNoCapacity, http.StatusConflict},
		{ErrorCodeConflict, http.StatusConflict},
		{ErrorCodeDuplicateKey, http.StatusConflict},
		{ErrorCodeOutsideWindow, http.StatusUnprocessableEntity},
		{ErrorCodeInvalidArgument, http.StatusBadRequest},
		{ErrorCodeValidation, http.StatusBadRequest},
		{ErrorCodeJSON, http.StatusBadRequest},
		{ErrorCodeUnavailable, http.StatusServiceUnavailable},
		{ErrorCodeDB, http.StatusInternalServerError},
		{ErrorCodePanic, http.StatusInternalServerError},
		{ErrorCodeUnknown, http.StatusInternalServerError},
		{9999, http.StatusInternalServerError}, // default branch
	}
	for _, c := range cases {
		if got := HTTPStatusCode(c.code); got != c.want {
			t.Fatalf("HTTPStatusCode(%v) = %d, want %d", c.code, got, c.want)
		}
	}
}

func TestWireCodes(t *testing.T) {
	cases := []struct {
		code ErrorCode
		want string
	}{
		{ErrorCodeNotFound, "not_found"},
		{ErrorCodeNoCapacity, "no_capacity"},
		{ErrorCodeOutsideWindow, "outside_service_window"},
		{ErrorCodeInvalidArgument, "invalid_format"},
		{ErrorCodeValidation, "invalid_format"},
		{ErrorCodeConflict, "conflict"},
		{ErrorCodeDB, "internal_server_error"},
	}
	for _, c := range cases {
		if got := c.code.WireCode(); got != c.want {
			t.Fatalf("WireCode(%v) = %q, want %q", c.code, got, c.want)
		}
	}

	b, err := ErrorCodeNoCapacity.MarshalJSON()
	if err != nil || string(b) != `"no_capacity"` {
		t.Fatalf("MarshalJSON = %q, %v", b, err)
	}
}

func TestErrorTypeAndMethods(t *testing.T) {
	// nil *Error should render "<nil>"
	var e *Error
	if e.Error() != "<nil>" {
		t.Fatalf("nil *Error render = %q, want <nil>", e.Error())
	}

	e1 := New(ErrorCodeValidation, "bad stuff")
	if CodeOf(e1) != ErrorCodeValidation {
		t.Fatalf("CodeOf(New) = %v", CodeOf(e1))
	}
	e2 := Newf(ErrorCodeNoCapacity, "party of %d", 12)
	if got := e2.Error(); got != "party of 12" {
		t.Fatalf("Newf().Error = %q", got)
	}

	// Wrap keeps the cause and the code
	src := stderrs.New("root")
	e3 := Wrap(src, ErrorCodeDB, "db failed")
	if u := stderrs.Unwrap(e3); u == nil || u.Error() != "root" {
		t.Fatalf("Wrap did not keep orig")
	}
	if CodeOf(e3) != ErrorCodeDB {
		t.Fatalf("CodeOf(Wrap) = %v", CodeOf(e3))
	}
	e4 := Wrapf(src, ErrorCodeOutsideWindow, "nope %s", "here")
	if want := "nope here: root"; e4.Error() != want {
		t.Fatalf("Wrapf().Error = %q, want %q", e4.Error(), want)
	}

	if got, ok := As(e4); !ok || got.Code() != ErrorCodeOutsideWindow {
		t.Fatalf("As() failed for our error")
	}
	if _, ok := As(src); ok {
		t.Fatalf("As() true for foreign error")
	}

	// copy-on-write mutators
	e5 := Wrap(src, ErrorCodeInvalidArgument, "oops")
	e6 := WithField(e5, "party_size")
	e7 := WithOp(e6, "create")
	if fe, ok := As(e6); !ok || fe.Field() != "party_size" {
		t.Fatalf("WithField failed")
	}
	if oe, ok := As(e7); !ok || oe.Op() != "create" {
		t.Fatalf("WithOp failed")
	}
	if fe0, _ := As(e5); fe0.Field() != "" || fe0.Op() != "" {
		t.Fatalf("copy-on-write mutated original")
	}

	// wire payloads
	if wf := WireFrom(nil); wf != (Wire{}) {
		t.Fatalf("WireFrom(nil) expected zero, got %+v", wf)
	}
	if wf := WireFrom(src); wf.Code != ErrorCodeUnknown || wf.Message != "root" {
		t.Fatalf("WireFrom(foreign) mismatch: %+v", wf)
	}
	// our errors expose only the message, never the wrapped cause
	if wf := WireFrom(e4); wf.Code != ErrorCodeOutsideWindow || wf.Message != "nope here" {
		t.Fatalf("WireFrom(ours) mismatch: %+v", wf)
	}

	if st, _ := HTTP(nil); st != http.StatusOK {
		t.Fatalf("HTTP(nil) status = %d", st)
	}
	if st := HTTPStatus(e3); st != http.StatusInternalServerError {
		t.Fatalf("HTTPStatus(db) = %d", st)
	}
	if st := HTTPStatus(NoCapacityf("full")); st != http.StatusConflict {
		t.Fatalf("HTTPStatus(no capacity) = %d", st)
	}

	if !IsCode(e2, ErrorCodeNoCapacity) || IsCode(e2, ErrorCodeNotFound) {
		t.Fatalf("IsCode mismatch")
	}
	if Root(e4) != src {
		t.Fatalf("Root did not reach the cause")
	}
}

func TestSugarConstructors(t *testing.T) {
	cases := []struct {
		err  error
		code ErrorCode
	}{
		{NotFoundf("x"), ErrorCodeNotFound},
		{InvalidArgf("x"), ErrorCodeInvalidArgument},
		{Validationf("x"), ErrorCodeValidation},
		{NoCapacityf("x"), ErrorCodeNoCapacity},
		{OutsideWindowf("x"), ErrorCodeOutsideWindow},
		{Conflictf("x"), ErrorCodeConflict},
		{DBf("x"), ErrorCodeDB},
		{Unavailablef("x"), ErrorCodeUnavailable},
		{Internalf("x"), ErrorCodeUnknown},
	}
	for _, c := range cases {
		if CodeOf(c.err) != c.code {
			t.Fatalf("CodeOf(%v) = %v, want %v", c.err, CodeOf(c.err), c.code)
		}
	}

	if WrapIf(nil, ErrorCodeDB, "x") != nil {
		t.Fatalf("WrapIf(nil) should be nil")
	}
	if CodeOf(WrapIf(stderrs.New("y"), ErrorCodeDB, "x")) != ErrorCodeDB {
		t.Fatalf("WrapIf(err) lost code")
	}
}
