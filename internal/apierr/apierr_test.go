package apierr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Tiliavir/learnflow/internal/apierr"
)

func TestFromResponse(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		kind    apierr.Kind
		message string
	}{
		{"message field", 422, `{"message":"title is required"}`, apierr.KindValidation, "title is required"},
		{"error string", 409, `{"error":"email already registered"}`, apierr.KindValidation, "email already registered"},
		{"error object", 500, `{"error":{"message":"db down"}}`, apierr.KindServer, "db down"},
		{"errors list", 400, `{"errors":[{"message":"a"},{"msg":"b"}]}`, apierr.KindValidation, "a; b"},
		{"unauthorized", 401, `{"message":"Invalid credentials"}`, apierr.KindAuth, "Invalid credentials"},
		{"not json", 502, `<html>bad gateway</html>`, apierr.KindServer, "Bad Gateway"},
		{"empty", 404, ``, apierr.KindServer, "Not Found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := apierr.FromResponse(tt.status, []byte(tt.body))
			assert.Equal(t, tt.kind, e.Kind)
			assert.Equal(t, tt.status, e.Status)
			assert.Equal(t, tt.message, e.Message)
		})
	}
}

func TestKindOfThroughWrapping(t *testing.T) {
	base := apierr.SessionExpired(errors.New("refresh rejected"))
	wrapped := fmt.Errorf("fetching goals: %w", base)

	assert.True(t, apierr.Is(wrapped, apierr.KindSessionExpired))
	assert.False(t, apierr.Is(wrapped, apierr.KindAuth))
	assert.Equal(t, apierr.KindSessionExpired, apierr.KindOf(wrapped))
	assert.Equal(t, apierr.Kind(""), apierr.KindOf(errors.New("plain")))
	assert.False(t, apierr.Is(nil, apierr.KindAuth))
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "", apierr.Message(nil, "fallback"))
	assert.Equal(t, "server said no", apierr.Message(apierr.New(apierr.KindServer, "server said no"), "fallback"))
	assert.Equal(t, "fallback", apierr.Message(&apierr.Error{Kind: apierr.KindNetwork}, "fallback"))
	assert.Equal(t, "fallback", apierr.Message(errors.New("raw"), "fallback"))
	assert.Equal(t, "raw", apierr.Message(errors.New("raw"), ""))
}

func TestStatusOf(t *testing.T) {
	e := apierr.FromResponse(http.StatusUnprocessableEntity, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, apierr.StatusOf(fmt.Errorf("x: %w", e)))
	assert.Equal(t, 0, apierr.StatusOf(errors.New("x")))
}
