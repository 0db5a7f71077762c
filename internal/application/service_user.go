package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rameshsapkota900/Konnect/internal/domain"
	"github.com/rameshsapkota900/Konnect/internal/ports"
)

// SyncUser materializes the externally-authenticated identity locally. The
// call is idempotent: repeat syncs refresh the email and return the same row.
func (s *Service) SyncUser(ctx context.Context, claims ports.AuthClaims, req SyncUserRequest) (domain.User, error) {
	if claims.SubjectID == "" {
		return domain.User{}, fmt.Errorf("%w: missing token subject", domain.ErrUnauthorized)
	}
	if err := domain.ValidateFullName(req.FullName); err != nil {
		return domain.User{}, err
	}
	if err := domain.ValidateUserType(req.UserType); err != nil {
		return domain.User{}, err
	}

	user, err := s.users.UpsertByExternalUID(ctx, ports.UpsertUserParams{
		ExternalUID: claims.SubjectID,
		Email:       strings.ToLower(strings.TrimSpace(claims.Email)),
		FullName:    strings.TrimSpace(req.FullName),
		UserType:    req.UserType,
		Now:         s.nowFn(),
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("sync user: %w", err)
	}
	return user, nil
}

func (s *Service) GetMe(ctx context.Context, claims ports.AuthClaims) (domain.User, error) {
	return s.actor(ctx, claims)
}

func (s *Service) UpdateMe(ctx context.Context, claims ports.AuthClaims, req UpdateMeRequest) (domain.User, error) {
	actor, err := s.actor(ctx, claims)
	if err != nil {
		return domain.User{}, err
	}
	if req.FullName != nil {
		if err := domain.ValidateFullName(*req.FullName); err != nil {
			return domain.User{}, err
		}
	}
	if req.ProfileImageURL != nil && *req.ProfileImageURL != "" {
		if err := domain.ValidateHTTPSURL("profile_image_url", *req.ProfileImageURL); err != nil {
			return domain.User{}, err
		}
	}
	return s.users.Update(ctx, ports.UpdateUserParams{
		UserID:          actor.UserID,
		FullName:        req.FullName,
		ProfileImageURL: req.ProfileImageURL,
		Location:        req.Location,
		Phone:           req.Phone,
		UpdatedAt:       s.nowFn(),
	})
}

// actor resolves the verified token subject to the local account. A valid
// token whose subject was never synced is treated as unauthorized, not
// missing, so the client knows to complete registration.
func (s *Service) actor(ctx context.Context, claims ports.AuthClaims) (domain.User, error) {
	if claims.SubjectID == "" {
		return domain.User{}, fmt.Errorf("%w: missing token subject", domain.ErrUnauthorized)
	}
	user, err := s.users.GetByExternalUID(ctx, claims.SubjectID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.User{}, fmt.Errorf("%w: account not registered", domain.ErrUnauthorized)
		}
		return domain.User{}, err
	}
	return user, nil
}
