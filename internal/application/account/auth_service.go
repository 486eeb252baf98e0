package account

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bilemo/api/internal/domain/account"
	"github.com/bilemo/api/internal/domain/shared"
	"github.com/bilemo/api/internal/infrastructure/auth"
	"github.com/bilemo/api/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// TokenIssuer issues access tokens for authenticated clients
type TokenIssuer interface {
	Generate(input auth.GenerateTokenInput) (*auth.Token, error)
	Expiration() time.Duration
}

// TokenRevoker invalidates every token issued to a client so far
type TokenRevoker interface {
	RevokeClient(ctx context.Context, clientID int64, ttl time.Duration) error
}

var (
	errBadCredentials = shared.NewDomainError(shared.ErrUnauthorized.Code, "Identifiants invalides.")
	errNotOwnPassword = shared.NewForbiddenError("Vous ne pouvez modifier que votre propre mot de passe.")
)

// LoginResponse is the body returned by POST /api/login_check
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// AuthService authenticates clients and manages their credentials
type AuthService struct {
	clients account.ClientRepository
	txScope account.TransactionScope
	hasher  PasswordHasher
	tokens  TokenIssuer
	revoker TokenRevoker
}

// NewAuthService creates a new AuthService
func NewAuthService(
	clients account.ClientRepository,
	txScope account.TransactionScope,
	hasher PasswordHasher,
	tokens TokenIssuer,
	revoker TokenRevoker,
) *AuthService {
	return &AuthService{
		clients: clients,
		txScope: txScope,
		hasher:  hasher,
		tokens:  tokens,
		revoker: revoker,
	}
}

// Login exchanges an email and password for an access token
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	client, err := s.clients.FindByEmail(ctx, req.Username)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, errBadCredentials
	}
	if err != nil {
		return nil, err
	}

	ok, err := s.hasher.Verify(client.PasswordHash, req.Password)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		logger.L(ctx).Info("login rejected", zap.Int64("client_id", client.ID))
		return nil, errBadCredentials
	}

	token, err := s.tokens.Generate(auth.GenerateTokenInput{
		ClientID: client.ID,
		Email:    client.Email,
		Roles:    client.Roles(),
	})
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	return &LoginResponse{Token: token.Value, ExpiresAt: token.ExpiresAt}, nil
}

// ChangePassword replaces the actor's own password after checking the old one,
// then revokes every token issued before the change.
func (s *AuthService) ChangePassword(ctx context.Context, actorID, id int64, req ChangePasswordRequest) error {
	if actorID != id {
		return errNotOwnPassword
	}

	var v shared.Violations
	v.Merge("newPassword", account.ValidatePlainPassword(req.NewPassword))
	if err := v.Err(); err != nil {
		return err
	}

	return s.txScope.Execute(ctx, func(repos account.Repositories) error {
		client, err := repos.Clients().FindByID(ctx, id)
		if err != nil {
			return err
		}

		ok, err := s.hasher.Verify(client.PasswordHash, req.OldPassword)
		if err != nil {
			return fmt.Errorf("verify password: %w", err)
		}
		if !ok {
			var v shared.Violations
			v.Add("oldPassword", "L'ancien mot de passe est incorrect.")
			return v.Err()
		}

		hash, err := s.hasher.Hash(req.NewPassword)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		client.PasswordHash = hash
		if err := repos.Clients().Save(ctx, client); err != nil {
			return err
		}

		// revoking before commit lets a revocation failure roll the change back
		if err := s.revoker.RevokeClient(ctx, client.ID, s.tokens.Expiration()); err != nil {
			return fmt.Errorf("revoke tokens: %w", err)
		}
		return nil
	})
}
