package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/quadrahub/arena-system/gateway"
	"github.com/quadrahub/arena-system/models"
	"github.com/quadrahub/arena-system/repositories"
)

type ArenaService interface {
	Get(ctx context.Context, arenaID string) (*models.Arena, error)
	UpdateGatewayCredentials(ctx context.Context, arenaID, actingUserID string, role models.UserRole, apiKey, walletID string) (*models.Arena, error)
	GatewayStatus(ctx context.Context) (gateway.ConfigStatus, error)
	ConfigureGateway(ctx context.Context, role models.UserRole, req gateway.ConfigRequest) error
}

type arenaService struct {
	arenas repositories.ArenaRepository
	api    GatewayAPI
}

func NewArenaService(arenas repositories.ArenaRepository, api GatewayAPI) ArenaService {
	return &arenaService{arenas: arenas, api: api}
}

func (s *arenaService) Get(ctx context.Context, arenaID string) (*models.Arena, error) {
	arena, err := s.arenas.GetByID(ctx, arenaID)
	if err != nil {
		if errors.Is(err, repositories.ErrArenaNotFound) {
			return nil, ErrArenaNotFound
		}
		return nil, fmt.Errorf("failed to load arena: %w", err)
	}
	return arena, nil
}

// UpdateGatewayCredentials stores the arena's own gateway sub-account key.
// Only the arena owner or a platform admin may change billing credentials.
func (s *arenaService) UpdateGatewayCredentials(ctx context.Context, arenaID, actingUserID string, role models.UserRole, apiKey, walletID string) (*models.Arena, error) {
	arena, err := s.Get(ctx, arenaID)
	if err != nil {
		return nil, err
	}
	if arena.OwnerID != actingUserID && role != models.RoleAdmin {
		return nil, ErrForbiddenOperation
	}

	if apiKey == "" {
		arena.GatewayAPIKey = nil
		arena.GatewayWalletID = nil
	} else {
		arena.GatewayAPIKey = strPtr(apiKey)
		if walletID != "" {
			arena.GatewayWalletID = strPtr(walletID)
		}
	}

	if err := s.arenas.Save(ctx, arena); err != nil {
		return nil, fmt.Errorf("failed to save arena gateway credentials: %w", err)
	}
	return arena, nil
}

// GatewayStatus reports the platform-level account state straight from the
// proxy. Errors are surfaced as typed gateway failures; callers treating an
// unreachable proxy as "not configured" do so at the billing route instead.
func (s *arenaService) GatewayStatus(ctx context.Context) (gateway.ConfigStatus, error) {
	status, err := s.api.GetConfig(ctx)
	if err != nil {
		return gateway.ConfigStatus{}, gatewayFailure("load gateway config", err)
	}
	return *status, nil
}

func (s *arenaService) ConfigureGateway(ctx context.Context, role models.UserRole, req gateway.ConfigRequest) error {
	if role != models.RoleAdmin {
		return ErrForbiddenOperation
	}
	if err := s.api.SaveConfig(ctx, req); err != nil {
		return gatewayFailure("save gateway config", err)
	}
	return nil
}
