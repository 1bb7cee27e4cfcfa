package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{Validation("bad input"), http.StatusBadRequest},
		{NotFound("payment %d not found", 7), http.StatusNotFound},
		{Forbidden("payment %d does not belong to you", 7), http.StatusForbidden},
		{Conflict("duplicate bill number"), http.StatusConflict},
		{Render("pdf failed", errors.New("boom")), http.StatusInternalServerError},
		{Storage("query payments", errors.New("conn reset")), http.StatusInternalServerError},
		{errors.New("untyped"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		if got := HTTPStatus(tc.err); got != tc.want {
			t.Errorf("HTTPStatus(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestKindOfWrapped(t *testing.T) {
	inner := NotFound("site %d not found", 3)
	wrapped := fmt.Errorf("loading site: %w", inner)

	if KindOf(wrapped) != KindNotFound {
		t.Errorf("KindOf(wrapped) = %v, want KindNotFound", KindOf(wrapped))
	}
}

func TestErrorMessage(t *testing.T) {
	e := Storage("insert payment", errors.New("duplicate key"))
	if e.Error() != "insert payment: duplicate key" {
		t.Errorf("Error() = %q", e.Error())
	}
	if !errors.Is(e, e.Err) {
		t.Error("wrapped cause not reachable via errors.Is")
	}
}
