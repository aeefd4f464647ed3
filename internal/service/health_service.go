package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Pinger is any dependency that can report whether it is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthService interface {
	Liveness(ctx context.Context) error
	Readiness(ctx context.Context) error
}

type healthService struct {
	logger *slog.Logger
	deps   map[string]Pinger
}

// NewHealthService checks every named dependency on readiness.
func NewHealthService(deps map[string]Pinger, logger *slog.Logger) HealthService {
	l := logger.With("layer", "service", "component", "healthService")
	return &healthService{deps: deps, logger: l}
}

func (s *healthService) Liveness(context.Context) error {
	return nil
}

func (s *healthService) Readiness(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	for name, dep := range s.deps {
		if err := dep.Ping(ctx); err != nil {
			s.logger.Error("Readiness check failed", slog.String("dependency", name), slog.Any("error", err))
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	s.logger.Debug("Readiness check passed")
	return nil
}
