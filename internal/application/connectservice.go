package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ericfisherdev/socialhub/internal/domain/model"
	"github.com/ericfisherdev/socialhub/internal/domain/port/driven"
	"github.com/ericfisherdev/socialhub/internal/metrics"
)

// ConnectService runs the connect-an-account flow: shape check, live
// validation against the platform, then storage in the registry.
type ConnectService struct {
	registry *CredentialRegistry
	gateway  driven.PlatformGateway
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// NewConnectService creates a ConnectService with the required dependencies.
func NewConnectService(
	registry *CredentialRegistry,
	gateway driven.PlatformGateway,
	m *metrics.Metrics,
	logger *slog.Logger,
) *ConnectService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ConnectService{
		registry: registry,
		gateway:  gateway,
		metrics:  m,
		logger:   logger,
	}
}

// Connect validates draft with its platform and, only if accepted, stores it.
// Returns a *model.ShapeError for a malformed field set and
// driven.ErrCredentialRejected when the platform does not accept the
// credential or cannot be reached.
func (s *ConnectService) Connect(ctx context.Context, draft model.CredentialDraft) (model.CredentialRecord, error) {
	if err := model.CheckSecretShape(draft.Platform, draft.SecretFields); err != nil {
		return model.CredentialRecord{}, err
	}

	valid := s.gateway.Validate(ctx, draft)
	s.metrics.RecordValidation(string(draft.Platform), valid)
	if !valid {
		s.logger.Info("credential rejected", "platform", draft.Platform)
		return model.CredentialRecord{}, fmt.Errorf("connect %s: %w", draft.Platform, driven.ErrCredentialRejected)
	}

	id, err := s.registry.Add(ctx, draft.Platform, draft.DisplayName, draft.SecretFields)
	if err != nil {
		return model.CredentialRecord{}, err
	}

	return s.registry.Get(id)
}

// Recheck validates a stored record again with its platform. Returns
// driven.ErrCredentialNotFound for an unknown id. A record whose secrets
// cannot be revealed (restored from a masked snapshot) reports false.
func (s *ConnectService) Recheck(ctx context.Context, id string) (bool, error) {
	rec, err := s.registry.Get(id)
	if err != nil {
		return false, err
	}

	secrets, err := s.registry.Reveal(id)
	if errors.Is(err, driven.ErrSecretUnavailable) {
		s.logger.Info("credential secrets unavailable, re-enter to validate", "id", id, "platform", rec.Platform)
		s.metrics.RecordValidation(string(rec.Platform), false)
		return false, nil
	}
	if err != nil {
		return false, err
	}

	valid := s.gateway.Validate(ctx, model.CredentialDraft{
		Platform:     rec.Platform,
		DisplayName:  rec.DisplayName,
		SecretFields: secrets,
	})
	s.metrics.RecordValidation(string(rec.Platform), valid)
	return valid, nil
}
