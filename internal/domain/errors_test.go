package domain_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/dom/catalog-facade/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestProtocolError_Is(t *testing.T) {
	notFound := &domain.ProtocolError{StatusCode: http.StatusNotFound}
	serverErr := &domain.ProtocolError{StatusCode: http.StatusInternalServerError}

	assert.ErrorIs(t, notFound, domain.ErrProtocol)
	assert.ErrorIs(t, notFound, domain.ErrNotFound)
	assert.True(t, notFound.IsNotFound())

	assert.ErrorIs(t, serverErr, domain.ErrProtocol)
	assert.NotErrorIs(t, serverErr, domain.ErrNotFound)
}

func TestErrorTaxonomy_SurvivesWrapping(t *testing.T) {
	cause := errors.New("connection refused")
	tests := []struct {
		name   string
		err    error
		target error
	}{
		{name: "transport", err: &domain.TransportError{Err: cause}, target: domain.ErrTransport},
		{name: "format", err: &domain.FormatError{Reason: "undecodable body"}, target: domain.ErrFormat},
		{name: "not found", err: domain.NotFound(domain.KindCharacter, "x"), target: domain.ErrNotFound},
		{name: "validation", err: &domain.ValidationError{Field: "id", Message: "must not be empty"}, target: domain.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("fetch: %w", tt.err)
			assert.ErrorIs(t, wrapped, tt.target)
		})
	}

	assert.ErrorIs(t, &domain.TransportError{Err: cause}, cause)
}

func TestNotFoundError_Message(t *testing.T) {
	assert.Equal(t, "character not found", domain.NotFound(domain.KindCharacter, "nonexistent").Error())
	assert.Equal(t, "news not found", domain.NotFound(domain.KindNews, "x").Error())
}
