// Package services contains application services for the FieldSync client:
// authentication/session housekeeping and attendance reconciliation.
package services

import (
	"context"
	"fmt"

	"github.com/responderhq/fieldsync/internal/client/models"
	"github.com/responderhq/fieldsync/internal/client/session"
	"github.com/responderhq/fieldsync/internal/logging"
)

// loginClient is the unauthenticated cloud surface the auth service needs.
// Satisfied by *api.Client.
type loginClient interface {
	Login(ctx context.Context, email, password string) (models.TokenPair, models.Identity, error)
}

// profileFetcher is the authenticated surface. Satisfied by *api.Gateway.
type profileFetcher interface {
	Profile(ctx context.Context) (models.Identity, error)
}

// AuthService defines session lifecycle operations for the CLI.
//
// Contract:
//   - Login: authenticate against the cloud backend and persist the token
//     pair plus identity snapshot atomically.
//   - Logout: clear the local session; absence of credentials afterwards is
//     the signed-out condition.
//   - RefreshProfile: fetch the authoritative identity and update the local
//     snapshot.
//   - Identity: return the cached snapshot, nil when signed out.
//
// All methods must honor context cancellation/timeouts.
type AuthService interface {
	Login(ctx context.Context, email, password string) (models.Identity, error)
	Logout(ctx context.Context) error
	RefreshProfile(ctx context.Context) (models.Identity, error)
	Identity(ctx context.Context) (*models.Identity, error)
}

type authService struct {
	api     loginClient
	gateway profileFetcher
	store   *session.Store
	log     logging.Logger
}

// NewAuthService constructs an AuthService bound to the cloud API client,
// the authenticated gateway, and the local credential store.
func NewAuthService(api loginClient, gateway profileFetcher, store *session.Store, log logging.Logger) AuthService {
	if log == nil {
		log = logging.Discard()
	}
	return &authService{api: api, gateway: gateway, store: store, log: log}
}

func (a *authService) Login(ctx context.Context, email, password string) (models.Identity, error) {
	pair, identity, err := a.api.Login(ctx, email, password)
	if err != nil {
		return models.Identity{}, fmt.Errorf("login: %w", err)
	}

	if err := a.store.SaveSession(ctx, pair, identity); err != nil {
		return models.Identity{}, fmt.Errorf("persisting session: %w", err)
	}

	a.log.Info(ctx, "signed in", "userId", identity.ID, "role", identity.Role)
	return identity, nil
}

func (a *authService) Logout(ctx context.Context) error {
	if err := a.store.Clear(ctx); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	a.log.Info(ctx, "signed out")
	return nil
}

func (a *authService) RefreshProfile(ctx context.Context) (models.Identity, error) {
	identity, err := a.gateway.Profile(ctx)
	if err != nil {
		return models.Identity{}, err
	}
	if err := a.store.SaveIdentity(ctx, identity); err != nil {
		return models.Identity{}, fmt.Errorf("updating identity snapshot: %w", err)
	}
	return identity, nil
}

func (a *authService) Identity(ctx context.Context) (*models.Identity, error) {
	return a.store.Identity(ctx)
}
