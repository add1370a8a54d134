package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"plain", errors.New("boom"), "internal"},
		{"wrapped not found", fmt.Errorf("booking 42: %w", ErrNotFound), "not_found"},
		{"race loser", fmt.Errorf("%w: %w", ErrInvalidTransition, ErrConflict), "invalid_transition"},
		{"audit wins over conflict", fmt.Errorf("%w: %w", ErrAuditFailure, ErrConflict), "audit_failure"},
		{"unknown role", fmt.Errorf("role x: %w", ErrUnknownRole), "unknown_role"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Kind(tt.err))
		})
	}
}
