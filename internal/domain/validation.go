package domain

import (
	"fmt"
	"net/url"
	"strings"
)

var knownNiches = map[string]struct{}{
	"food": {}, "fashion": {}, "technology": {}, "travel": {}, "fitness": {},
	"beauty": {}, "gaming": {}, "education": {}, "entertainment": {},
	"lifestyle": {}, "business": {}, "health": {}, "music": {}, "sports": {},
	"other": {},
}

func NormalizeNiche(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

func ValidateNiche(v string) error {
	if _, ok := knownNiches[NormalizeNiche(v)]; !ok {
		return fmt.Errorf("%w: unknown niche %q", ErrInvalidInput, v)
	}
	return nil
}

func ValidateFullName(v string) error {
	trimmed := strings.TrimSpace(v)
	if len(trimmed) < 2 || len(trimmed) > 100 {
		return fmt.Errorf("%w: full_name must be 2-100 chars", ErrInvalidInput)
	}
	return nil
}

func ValidateUserType(v UserType) error {
	switch v {
	case UserTypeCreator, UserTypeBusiness:
		return nil
	}
	return fmt.Errorf("%w: user_type must be creator or business", ErrInvalidInput)
}

func ValidateCampaignTitle(v string) error {
	trimmed := strings.TrimSpace(v)
	if len(trimmed) < 3 || len(trimmed) > 150 {
		return fmt.Errorf("%w: title must be 3-150 chars", ErrInvalidInput)
	}
	return nil
}

func ValidateBudget(v float64) error {
	if v <= 0 {
		return fmt.Errorf("%w: budget must be positive", ErrInvalidInput)
	}
	return nil
}

func ValidateAgreedPrice(v float64) error {
	if v <= 0 {
		return fmt.Errorf("%w: agreed_price must be positive", ErrInvalidInput)
	}
	return nil
}

func ValidateRating(v int) error {
	if v < 1 || v > 5 {
		return fmt.Errorf("%w: rating must be between 1 and 5", ErrInvalidInput)
	}
	return nil
}

func ValidateHTTPSURL(field, raw string) error {
	if raw == "" {
		return nil
	}
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Scheme != "https" || parsed.Host == "" {
		return fmt.Errorf("%w: %s must be a https url", ErrInvalidInput, field)
	}
	return nil
}
