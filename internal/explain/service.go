package explain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shoplens/shoplens-backend/internal/config"
	"github.com/shoplens/shoplens-backend/internal/errs"
	"github.com/shoplens/shoplens-backend/internal/logger"
)

// Generator produces free-form explanation text for a context. Provider
// clients implement this; transport-level retries live inside the client,
// not here.
type Generator interface {
	Generate(ctx context.Context, ec Context) (string, error)
}

type Service struct {
	gen       Generator
	validator Validator
	timeout   time.Duration
	log       *logger.Logger
}

func NewService(gen Generator, cfg config.Explain, log *logger.Logger) *Service {
	return &Service{
		gen: gen,
		validator: Validator{
			RelativeTolerance: cfg.RelativeTolerance,
			AbsoluteTolerance: cfg.AbsoluteTolerance,
		},
		timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		log:     log.With("service", "explain"),
	}
}

// Explain generates validated explanation text for the context. A transport
// failure surfaces immediately as a generator-unavailable error. A response
// that cites numbers outside the allow-list triggers exactly one
// regeneration with the same context; if the retry also fails validation
// the result is explanation-unavailable. Unvalidated text is never
// returned.
func (s *Service) Explain(ctx context.Context, ec Context) (string, error) {
	if s.gen == nil {
		return "", errs.ErrGeneratorUnavailable
	}
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		text, err := s.gen.Generate(ctx, ec)
		if err != nil {
			return "", fmt.Errorf("%w: %v", errs.ErrGeneratorUnavailable, err)
		}
		if err := s.validator.Validate(text, ec.AllowedNumbers); err != nil {
			s.log.Warn("explanation failed validation",
				"dataset_id", ec.DatasetID, "attempt", attempt+1, "error", err)
			lastErr = err
			continue
		}
		return text, nil
	}
	return "", errors.Join(errs.ErrExplanationUnavailable, lastErr)
}
