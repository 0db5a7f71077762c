package application

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/rameshsapkota900/Konnect/internal/domain"
	"github.com/rameshsapkota900/Konnect/internal/ports"
)

func (s *Service) GetCreatorProfile(ctx context.Context, userID uuid.UUID) (domain.CreatorProfile, error) {
	return s.creators.GetByUserID(ctx, userID)
}

// PutCreatorProfile creates or replaces the caller's creator profile. Only
// accounts of the creator type carry one.
func (s *Service) PutCreatorProfile(ctx context.Context, claims ports.AuthClaims, req PutCreatorProfileRequest) (domain.CreatorProfile, error) {
	actor, err := s.actor(ctx, claims)
	if err != nil {
		return domain.CreatorProfile{}, err
	}
	if actor.UserType != domain.UserTypeCreator {
		return domain.CreatorProfile{}, fmt.Errorf("%w: only creator accounts hold a creator profile", domain.ErrForbidden)
	}
	for field, raw := range map[string]*string{
		"instagram_url": req.InstagramURL,
		"tiktok_url":    req.TikTokURL,
		"youtube_url":   req.YouTubeURL,
	} {
		if raw != nil && *raw != "" {
			if err := domain.ValidateHTTPSURL(field, *raw); err != nil {
				return domain.CreatorProfile{}, err
			}
		}
	}
	if req.FollowersCount != nil && *req.FollowersCount < 0 {
		return domain.CreatorProfile{}, fmt.Errorf("%w: followers_count must not be negative", domain.ErrInvalidInput)
	}
	if req.HourlyRate != nil && *req.HourlyRate < 0 {
		return domain.CreatorProfile{}, fmt.Errorf("%w: hourly_rate must not be negative", domain.ErrInvalidInput)
	}
	niches := make([]string, 0, len(req.Niches))
	for _, niche := range req.Niches {
		normalized := domain.NormalizeNiche(niche)
		if err := domain.ValidateNiche(normalized); err != nil {
			return domain.CreatorProfile{}, err
		}
		niches = append(niches, normalized)
	}
	for _, raw := range req.PortfolioURLs {
		if err := domain.ValidateHTTPSURL("portfolio_urls", raw); err != nil {
			return domain.CreatorProfile{}, err
		}
	}

	profile, err := s.creators.Put(ctx, ports.PutCreatorProfileParams{
		UserID:         actor.UserID,
		Bio:            req.Bio,
		InstagramURL:   req.InstagramURL,
		TikTokURL:      req.TikTokURL,
		YouTubeURL:     req.YouTubeURL,
		FollowersCount: req.FollowersCount,
		EngagementRate: req.EngagementRate,
		HourlyRate:     req.HourlyRate,
		Niches:         niches,
		PortfolioURLs:  req.PortfolioURLs,
		Now:            s.nowFn(),
	})
	if err != nil {
		return domain.CreatorProfile{}, err
	}
	return profile, nil
}

// SearchCreators reads through a short-lived cache; the search surface is the
// hottest read path and tolerates slightly stale results.
func (s *Service) SearchCreators(ctx context.Context, req SearchCreatorsRequest) (SearchCreatorsResponse, error) {
	if req.Niche != "" {
		req.Niche = domain.NormalizeNiche(req.Niche)
	}
	key := creatorSearchCacheKey(req)
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, key); err == nil {
			var cached SearchCreatorsResponse
			if json.Unmarshal([]byte(raw), &cached) == nil {
				return cached, nil
			}
		}
	}

	creators, total, err := s.creators.Search(ctx, ports.CreatorSearchFilter{
		Niche:        req.Niche,
		MinFollowers: req.MinFollowers,
		MaxHourly:    req.MaxHourly,
		VerifiedOnly: req.VerifiedOnly,
		Limit:        req.Limit,
		Offset:       req.Offset,
	})
	if err != nil {
		return SearchCreatorsResponse{}, err
	}
	resp := SearchCreatorsResponse{Creators: creators, Total: total}
	if s.cache != nil {
		if raw, err := json.Marshal(resp); err == nil {
			_ = s.cache.Set(ctx, key, string(raw), s.cfg.CreatorCacheTTL)
		}
	}
	return resp, nil
}
