package application

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rameshsapkota900/Konnect/internal/domain"
	"github.com/rameshsapkota900/Konnect/internal/ports"
)

// memStore backs the in-memory repository fakes. It mirrors the transactional
// guarantees of the real adapters closely enough for the settlement and
// lifecycle semantics under test.
type memStore struct {
	mu        sync.Mutex
	users     map[uuid.UUID]domain.User
	byExtUID  map[string]uuid.UUID
	profiles  map[uuid.UUID]domain.CreatorProfile
	campaigns map[uuid.UUID]domain.Campaign
	deals     map[uuid.UUID]domain.Deal
	payments  map[uuid.UUID]domain.Payment
	reviews   []domain.Review
	outbox    []ports.OutboxRecord
}

func newMemStore() *memStore {
	return &memStore{
		users:     map[uuid.UUID]domain.User{},
		byExtUID:  map[string]uuid.UUID{},
		profiles:  map[uuid.UUID]domain.CreatorProfile{},
		campaigns: map[uuid.UUID]domain.Campaign{},
		deals:     map[uuid.UUID]domain.Deal{},
		payments:  map[uuid.UUID]domain.Payment{},
	}
}

func (s *memStore) eventTypes() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.outbox))
	for _, rec := range s.outbox {
		out = append(out, rec.EventType)
	}
	return out
}

type memUsers struct{ s *memStore }

func (r memUsers) UpsertByExternalUID(_ context.Context, params ports.UpsertUserParams) (domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if id, ok := r.s.byExtUID[params.ExternalUID]; ok {
		user := r.s.users[id]
		user.Email = params.Email
		now := params.Now
		user.UpdatedAt = &now
		r.s.users[id] = user
		return user, nil
	}
	user := domain.User{
		UserID:      uuid.New(),
		ExternalUID: params.ExternalUID,
		Email:       params.Email,
		FullName:    params.FullName,
		UserType:    params.UserType,
		CreatedAt:   params.Now,
	}
	r.s.users[user.UserID] = user
	r.s.byExtUID[user.ExternalUID] = user.UserID
	return user, nil
}

func (r memUsers) GetByID(_ context.Context, userID uuid.UUID) (domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	user, ok := r.s.users[userID]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return user, nil
}

func (r memUsers) GetByExternalUID(_ context.Context, externalUID string) (domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	id, ok := r.s.byExtUID[externalUID]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return r.s.users[id], nil
}

func (r memUsers) Update(_ context.Context, params ports.UpdateUserParams) (domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	user, ok := r.s.users[params.UserID]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	if params.FullName != nil {
		user.FullName = *params.FullName
	}
	if params.ProfileImageURL != nil {
		user.ProfileImageURL = *params.ProfileImageURL
	}
	if params.Location != nil {
		user.Location = *params.Location
	}
	if params.Phone != nil {
		user.Phone = *params.Phone
	}
	updatedAt := params.UpdatedAt
	user.UpdatedAt = &updatedAt
	r.s.users[params.UserID] = user
	return user, nil
}

type memCreators struct{ s *memStore }

func (r memCreators) GetByUserID(_ context.Context, userID uuid.UUID) (domain.CreatorProfile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	profile, ok := r.s.profiles[userID]
	if !ok {
		return domain.CreatorProfile{}, domain.ErrNotFound
	}
	return profile, nil
}

func (r memCreators) Put(_ context.Context, params ports.PutCreatorProfileParams) (domain.CreatorProfile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	profile, ok := r.s.profiles[params.UserID]
	if !ok {
		profile = domain.CreatorProfile{ProfileID: uuid.New(), UserID: params.UserID, CreatedAt: params.Now}
	}
	if params.Bio != nil {
		profile.Bio = *params.Bio
	}
	if params.InstagramURL != nil {
		profile.InstagramURL = *params.InstagramURL
	}
	if params.TikTokURL != nil {
		profile.TikTokURL = *params.TikTokURL
	}
	if params.YouTubeURL != nil {
		profile.YouTubeURL = *params.YouTubeURL
	}
	if params.FollowersCount != nil {
		profile.FollowersCount = *params.FollowersCount
	}
	if params.EngagementRate != nil {
		profile.EngagementRate = params.EngagementRate
	}
	if params.HourlyRate != nil {
		profile.HourlyRate = params.HourlyRate
	}
	if params.Niches != nil {
		profile.Niches = params.Niches
	}
	if params.PortfolioURLs != nil {
		profile.PortfolioURLs = params.PortfolioURLs
	}
	now := params.Now
	profile.UpdatedAt = &now
	r.s.profiles[params.UserID] = profile
	return profile, nil
}

func (r memCreators) Search(_ context.Context, filter ports.CreatorSearchFilter) ([]domain.CreatorProfile, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.CreatorProfile
	for _, profile := range r.s.profiles {
		if filter.Niche != "" {
			found := false
			for _, niche := range profile.Niches {
				if niche == filter.Niche {
					found = true
					break
				}
			}
			if !found {
				continue
			}
		}
		if profile.FollowersCount < filter.MinFollowers {
			continue
		}
		if filter.MaxHourly != nil && (profile.HourlyRate == nil || *profile.HourlyRate > *filter.MaxHourly) {
			continue
		}
		if filter.VerifiedOnly && !profile.IsVerified {
			continue
		}
		out = append(out, profile)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FollowersCount > out[j].FollowersCount })
	return out, int64(len(out)), nil
}

type memCampaigns struct{ s *memStore }

func (r memCampaigns) Create(_ context.Context, params ports.CreateCampaignParams) (domain.Campaign, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	campaign := domain.Campaign{
		CampaignID:   uuid.New(),
		BusinessID:   params.BusinessID,
		Title:        strings.TrimSpace(params.Title),
		Description:  params.Description,
		Budget:       params.Budget,
		Deadline:     params.Deadline,
		Niche:        params.Niche,
		Status:       domain.CampaignStatusOpen,
		Deliverables: params.Deliverables,
		CreatedAt:    params.Now,
	}
	r.s.campaigns[campaign.CampaignID] = campaign
	return campaign, nil
}

func (r memCampaigns) GetByID(_ context.Context, campaignID uuid.UUID) (domain.Campaign, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	campaign, ok := r.s.campaigns[campaignID]
	if !ok {
		return domain.Campaign{}, domain.ErrNotFound
	}
	return campaign, nil
}

func (r memCampaigns) Update(_ context.Context, params ports.UpdateCampaignParams) (domain.Campaign, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	campaign, ok := r.s.campaigns[params.CampaignID]
	if !ok {
		return domain.Campaign{}, domain.ErrNotFound
	}
	if params.Title != nil {
		campaign.Title = *params.Title
	}
	if params.Description != nil {
		campaign.Description = *params.Description
	}
	if params.Budget != nil {
		campaign.Budget = *params.Budget
	}
	if params.Status != nil {
		campaign.Status = *params.Status
	}
	if params.Niche != nil {
		campaign.Niche = *params.Niche
	}
	updatedAt := params.UpdatedAt
	campaign.UpdatedAt = &updatedAt
	r.s.campaigns[params.CampaignID] = campaign
	return campaign, nil
}

func (r memCampaigns) List(_ context.Context, filter ports.CampaignListFilter) ([]domain.Campaign, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.Campaign
	for _, campaign := range r.s.campaigns {
		if filter.BusinessID != nil && campaign.BusinessID != *filter.BusinessID {
			continue
		}
		if filter.Niche != "" && campaign.Niche != filter.Niche {
			continue
		}
		if filter.Status != "" && campaign.Status != filter.Status {
			continue
		}
		if filter.MaxBudget != nil && campaign.Budget > *filter.MaxBudget {
			continue
		}
		out = append(out, campaign)
	}
	return out, int64(len(out)), nil
}

func (r memCampaigns) Delete(_ context.Context, campaignID, businessID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	campaign, ok := r.s.campaigns[campaignID]
	if !ok || campaign.BusinessID != businessID {
		return domain.ErrNotFound
	}
	delete(r.s.campaigns, campaignID)
	return nil
}

type memDeals struct{ s *memStore }

func (r memDeals) Create(_ context.Context, params ports.CreateDealParams) (domain.Deal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	deal := domain.Deal{
		DealID:      uuid.New(),
		CampaignID:  params.CampaignID,
		CreatorID:   params.CreatorID,
		BusinessID:  params.BusinessID,
		AgreedPrice: params.AgreedPrice,
		Status:      domain.DealStatusPending,
		Notes:       params.Notes,
		CreatedAt:   params.Now,
		UpdatedAt:   params.Now,
	}
	r.s.deals[deal.DealID] = deal
	return deal, nil
}

func (r memDeals) GetByID(_ context.Context, dealID uuid.UUID) (domain.Deal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	deal, ok := r.s.deals[dealID]
	if !ok {
		return domain.Deal{}, domain.ErrNotFound
	}
	return deal, nil
}

func (r memDeals) ListByUserID(_ context.Context, userID uuid.UUID) ([]domain.Deal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.Deal
	for _, deal := range r.s.deals {
		if deal.CreatorID == userID || deal.BusinessID == userID {
			out = append(out, deal)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r memDeals) Advance(_ context.Context, params ports.AdvanceDealParams, expected domain.DealStatus) (domain.Deal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	deal, ok := r.s.deals[params.DealID]
	if !ok {
		return domain.Deal{}, domain.ErrNotFound
	}
	if deal.Status != expected {
		return domain.Deal{}, domain.ErrConflict
	}
	deal.Status = params.Status
	if params.Notes != nil {
		deal.Notes = *params.Notes
	}
	if params.CompletedAt != nil {
		deal.CompletedAt = params.CompletedAt
	}
	deal.UpdatedAt = params.UpdatedAt
	r.s.deals[params.DealID] = deal
	return deal, nil
}

type memPayments struct{ s *memStore }

func (r memPayments) Create(_ context.Context, params ports.CreatePaymentParams) (domain.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, exists := r.s.payments[params.PaymentID]; exists {
		return domain.Payment{}, domain.ErrConflict
	}
	payment := domain.Payment{
		PaymentID: params.PaymentID,
		DealID:    params.DealID,
		Amount:    params.Amount,
		Status:    domain.PaymentStatusPending,
		CreatedAt: params.Now,
	}
	r.s.payments[payment.PaymentID] = payment
	return payment, nil
}

func (r memPayments) GetByID(_ context.Context, paymentID uuid.UUID) (domain.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	payment, ok := r.s.payments[paymentID]
	if !ok {
		return domain.Payment{}, domain.ErrNotFound
	}
	return payment, nil
}

func (r memPayments) ListByDealID(_ context.Context, dealID uuid.UUID) ([]domain.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.Payment
	for _, payment := range r.s.payments {
		if payment.DealID == dealID {
			out = append(out, payment)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r memPayments) Settle(_ context.Context, params ports.SettlePaymentParams) (domain.Payment, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	payment, ok := r.s.payments[params.PaymentID]
	if !ok {
		return domain.Payment{}, false, domain.ErrNotFound
	}
	if payment.Status != domain.PaymentStatusPending {
		return payment, false, nil
	}
	deal, ok := r.s.deals[payment.DealID]
	if !ok {
		return domain.Payment{}, false, domain.ErrNotFound
	}
	switch {
	case deal.Status.CanConfirmPayment():
		deal.Status = domain.DealStatusInProgress
		deal.UpdatedAt = params.PaidAt
		r.s.deals[deal.DealID] = deal
	case deal.Status == domain.DealStatusCancelled || deal.Status == domain.DealStatusDisputed:
		return domain.Payment{}, false, fmt.Errorf("%w: deal %s is %s", domain.ErrInvalidTransition, deal.DealID, deal.Status)
	}
	payment.Status = domain.PaymentStatusEscrow
	payment.GatewayRefID = params.GatewayRefID
	paidAt := params.PaidAt
	payment.PaidAt = &paidAt
	r.s.payments[payment.PaymentID] = payment
	return payment, true, nil
}

func (r memPayments) MarkFailed(_ context.Context, paymentID uuid.UUID) (domain.Payment, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	payment, ok := r.s.payments[paymentID]
	if !ok {
		return domain.Payment{}, false, domain.ErrNotFound
	}
	if payment.Status != domain.PaymentStatusPending {
		return payment, false, nil
	}
	payment.Status = domain.PaymentStatusFailed
	r.s.payments[paymentID] = payment
	return payment, true, nil
}

type memReviews struct{ s *memStore }

func (r memReviews) Create(_ context.Context, params ports.CreateReviewParams) (domain.Review, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, review := range r.s.reviews {
		if review.DealID == params.DealID && review.FromUserID == params.FromUserID {
			return domain.Review{}, domain.ErrConflict
		}
	}
	review := domain.Review{
		ReviewID:   uuid.New(),
		DealID:     params.DealID,
		FromUserID: params.FromUserID,
		ToUserID:   params.ToUserID,
		Rating:     params.Rating,
		Comment:    params.Comment,
		CreatedAt:  params.Now,
	}
	r.s.reviews = append(r.s.reviews, review)
	return review, nil
}

func (r memReviews) ListByUserID(_ context.Context, userID uuid.UUID, _ int) ([]domain.Review, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.Review
	for _, review := range r.s.reviews {
		if review.ToUserID == userID {
			out = append(out, review)
		}
	}
	return out, nil
}

func (r memReviews) ExistsForDealAndAuthor(_ context.Context, dealID, fromUserID uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, review := range r.s.reviews {
		if review.DealID == dealID && review.FromUserID == fromUserID {
			return true, nil
		}
	}
	return false, nil
}

type memOutbox struct{ s *memStore }

func (r memOutbox) Enqueue(_ context.Context, event ports.OutboxEvent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.outbox = append(r.s.outbox, ports.OutboxRecord{
		OutboxID:     event.EventID,
		EventType:    event.EventType,
		PartitionKey: event.PartitionKey,
		Payload:      event.Payload,
		FirstSeenAt:  event.OccurredAt,
	})
	return nil
}

func (r memOutbox) FetchUnpublished(_ context.Context, limit int) ([]ports.OutboxRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []ports.OutboxRecord
	for _, rec := range r.s.outbox {
		if rec.PublishedAt == nil {
			out = append(out, rec)
		}
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (r memOutbox) MarkPublished(_ context.Context, outboxID uuid.UUID, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.outbox {
		if r.s.outbox[i].OutboxID == outboxID {
			published := at
			r.s.outbox[i].PublishedAt = &published
		}
	}
	return nil
}

func (r memOutbox) MarkFailed(_ context.Context, outboxID uuid.UUID, errMsg string, _ time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.outbox {
		if r.s.outbox[i].OutboxID == outboxID {
			r.s.outbox[i].RetryCount++
			msg := errMsg
			r.s.outbox[i].LastError = &msg
		}
	}
	return nil
}

type stubGateway struct {
	mu        sync.Mutex
	confirmed bool
	err       error
	refs      []string
	amounts   []float64
}

func (g *stubGateway) VerifyTransaction(_ context.Context, transactionUUID string, amount float64) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.refs = append(g.refs, transactionUUID)
	g.amounts = append(g.amounts, amount)
	return g.confirmed, g.err
}

type stubSigner struct{}

func (stubSigner) BuildForm(string, float64) (ports.PaymentForm, error) {
	return ports.PaymentForm{
		GatewayURL:       "https://rc-epay.esewa.com.np/api/epay/main/v2/form",
		ProductCode:      "EPAYTEST",
		SuccessURL:       "https://api.test/v1/payments/esewa/callback",
		FailureURL:       "https://app.test/payment/failed",
		SignedFieldNames: "total_amount,transaction_uuid,product_code",
		Signature:        "c2ln",
	}, nil
}

// stubDecoder maps encoded inputs to canned callbacks; unknown inputs are
// decode failures.
type stubDecoder struct {
	callbacks map[string]ports.GatewayCallback
}

func (d stubDecoder) DecodeCallback(encoded string) (ports.GatewayCallback, error) {
	cb, ok := d.callbacks[encoded]
	if !ok {
		return ports.GatewayCallback{}, fmt.Errorf("decode callback: bad payload")
	}
	return cb, nil
}
