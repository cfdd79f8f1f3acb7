package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatusTable(t *testing.T) {
	cases := []struct {
		kind Kind
		want int
	}{
		{KindValidation, http.StatusBadRequest},
		{KindEncoding, http.StatusUnprocessableEntity},
		{KindTypeConversion, http.StatusInternalServerError},
		{KindFeatureMismatch, http.StatusInternalServerError},
		{KindPersistence, http.StatusServiceUnavailable},
		{KindNotFound, http.StatusNotFound},
		{KindInternal, http.StatusInternalServerError},
		{KindUnknown, http.StatusInternalServerError},
		{Kind(99), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		if got := New(tc.kind, "x").HTTPStatus(); got != tc.want {
			t.Errorf("kind %s: expected status %d, got %d", tc.kind, tc.want, got)
		}
	}
}

func TestKindString(t *testing.T) {
	if KindFeatureMismatch.String() != "feature_mismatch" {
		t.Fatalf("unexpected name %q", KindFeatureMismatch.String())
	}
	if Kind(42).String() != "internal_error" {
		t.Fatalf("unknown kinds should read as internal_error, got %q", Kind(42).String())
	}
}

func TestErrorMessageIncludesOp(t *testing.T) {
	err := Encoding("unseen value").WithOp("encoding.Encode")
	if err.Error() != "encoding.Encode: unseen value" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestGetKindFollowsWrapChain(t *testing.T) {
	root := errors.New("connection reset")
	domainErr := Persistence("insert failed", root)
	wrapped := fmt.Errorf("pipeline: %w", domainErr)

	if GetKind(wrapped) != KindPersistence {
		t.Fatalf("expected persistence kind, got %s", GetKind(wrapped))
	}
	if !errors.Is(wrapped, root) {
		t.Fatal("expected the root cause to stay reachable")
	}
	if GetKind(root) != KindUnknown {
		t.Fatal("plain errors should report KindUnknown")
	}
	if !Is(wrapped, KindPersistence) {
		t.Fatal("Is should match through the chain")
	}
}
