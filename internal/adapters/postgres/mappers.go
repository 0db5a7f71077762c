package postgres

import (
	"encoding/json"

	"github.com/rameshsapkota900/Konnect/internal/domain"
)

func toDomainUser(m userModel) domain.User {
	return domain.User{
		UserID: m.UserID, ExternalUID: m.ExternalUID, Email: m.Email, FullName: m.FullName,
		UserType: domain.UserType(m.UserType), ProfileImageURL: m.ProfileImageURL,
		Location: m.Location, Phone: m.Phone, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt,
	}
}

func toDomainCreatorProfile(m creatorProfileModel) domain.CreatorProfile {
	return domain.CreatorProfile{
		ProfileID: m.ProfileID, UserID: m.UserID, Bio: m.Bio,
		InstagramURL: m.InstagramURL, TikTokURL: m.TikTokURL, YouTubeURL: m.YouTubeURL,
		FollowersCount: m.FollowersCount, EngagementRate: m.EngagementRate, HourlyRate: m.HourlyRate,
		Niches: fromJSONList(m.Niches), PortfolioURLs: fromJSONList(m.PortfolioURLs),
		IsVerified: m.IsVerified, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt,
	}
}

func toDomainCampaign(m campaignModel) domain.Campaign {
	return domain.Campaign{
		CampaignID: m.CampaignID, BusinessID: m.BusinessID, Title: m.Title,
		Description: m.Description, Budget: m.Budget, Deadline: m.Deadline,
		Niche: m.Niche, Status: domain.CampaignStatus(m.Status),
		Deliverables: fromJSONList(m.Deliverables), CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt,
	}
}

func toDomainDeal(m dealModel) domain.Deal {
	return domain.Deal{
		DealID: m.DealID, CampaignID: m.CampaignID, CreatorID: m.CreatorID, BusinessID: m.BusinessID,
		AgreedPrice: m.AgreedPrice, Status: domain.DealStatus(m.Status), Notes: m.Notes,
		CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt, CompletedAt: m.CompletedAt,
	}
}

func toDomainPayment(m paymentModel) domain.Payment {
	return domain.Payment{
		PaymentID: m.PaymentID, DealID: m.DealID, Amount: m.Amount,
		Status: domain.PaymentStatus(m.Status), GatewayRefID: m.GatewayRefID,
		CreatedAt: m.CreatedAt, PaidAt: m.PaidAt,
	}
}

func toDomainReview(m reviewModel) domain.Review {
	return domain.Review{
		ReviewID: m.ReviewID, DealID: m.DealID, FromUserID: m.FromUserID, ToUserID: m.ToUserID,
		Rating: m.Rating, Comment: m.Comment, CreatedAt: m.CreatedAt,
	}
}

// List columns hold JSON arrays in text columns; an empty column maps to nil.
func toJSONList(values []string) string {
	if len(values) == 0 {
		return "[]"
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return "[]"
	}
	return string(raw)
}

func fromJSONList(raw string) []string {
	if raw == "" || raw == "[]" {
		return nil
	}
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil
	}
	return out
}
