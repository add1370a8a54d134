package usecase

import (
	"fmt"

	"flight-booking/internal/apperr"
	"flight-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func validate(log *zap.Logger, op string, req any) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		log.Warn(op+" validation failed", zap.Any("errors", errs))
		return fmt.Errorf("%w: validation failed: %s", apperr.ErrInvalidInput, utils.FormatValidationErrors(errs))
	}
	return nil
}

func parseID(raw, what string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid %s ID %q", apperr.ErrInvalidInput, what, raw)
	}
	return id, nil
}

func notFound(what string, id uuid.UUID) error {
	return fmt.Errorf("%s %s: %w", what, id, apperr.ErrNotFound)
}
