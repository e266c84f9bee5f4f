// Package marketplace serves the public listings and the contact unlock flow. Credits and
// unlock records belong to the API; nothing here is persisted.
package marketplace

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"proptrackrr/web/config"
	"proptrackrr/web/internal/apiclient"
	"proptrackrr/web/internal/models"
	"proptrackrr/web/internal/validation"
)

// State is the lock state of one marketplace card
type State string

const (
	StateLocked              State = "locked"
	StateUnlocking           State = "unlocking"
	StateUnlocked            State = "unlocked"
	StateInsufficientCredits State = "insufficient_credits"
)

const (
	VerificationFailedMessage  = "Payment received but verification failed. Please contact support."
	InsufficientCreditsMessage = "You have no credits left. Buy credits to unlock this contact."
)

var (
	ErrVerificationFailed = errors.New("payment verification failed")
	ErrUnknownPack        = errors.New("unknown credit pack")
	ErrInvalidProperty    = errors.New("invalid property id")
)

// API is the part of the API client the marketplace needs
type API interface {
	PublicProperties(ctx context.Context) ([]models.Property, error)
	CheckUnlock(ctx context.Context, phone string, propertyID int64) (*models.UnlockStatus, error)
	Unlock(ctx context.Context, phone string, propertyID int64) (*models.UnlockResult, error)
	CreateOrder(ctx context.Context, phone string, amount int) (*models.Order, error)
	VerifyPayment(ctx context.Context, req models.PaymentVerification) (*models.VerifyResult, error)
	Wallet(ctx context.Context, phone string) (*models.Wallet, error)
}

// Outcome is the result of an unlock attempt for one card
type Outcome struct {
	PropertyID int64           `json:"property_id"`
	State      State           `json:"state"`
	Credits    int             `json:"credits"`
	Contact    *models.Contact `json:"contact,omitempty"`
	ChatLink   string          `json:"chat_link,omitempty"`
	Message    string          `json:"message,omitempty"`
}

// Listing is what the marketplace page renders
type Listing struct {
	Filter     Filter            `json:"filter"`
	Properties []models.Property `json:"properties"`
	Cities     []string          `json:"cities"`
	BHKOptions []string          `json:"bhk_options"`
	Total      int               `json:"total"`
}

type Service struct {
	api    API
	packs  []config.CreditPack
	logger *logrus.Logger
}

func NewService(api API, packs []config.CreditPack, logger *logrus.Logger) *Service {
	if logger == nil {
		logger = logrus.New()
	}
	return &Service{api: api, packs: packs, logger: logger}
}

func (s *Service) Packs() []config.CreditPack {
	return s.packs
}

// Listings fetches the public listings, newest first, and applies the filter
func (s *Service) Listings(ctx context.Context, filter Filter) (Listing, error) {
	filter = filter.Normalize()
	props, err := s.api.PublicProperties(ctx)
	if err != nil {
		return Listing{Filter: filter, Properties: []models.Property{}}, fmt.Errorf("failed to fetch marketplace properties: %w", err)
	}
	return Listing{
		Filter:     filter,
		Properties: filter.Apply(props),
		Cities:     Cities(props),
		BHKOptions: BHKOptions(props),
		Total:      len(props),
	}, nil
}

// Unlock runs the unlock sequence for one card. The API is asked first whether the pair
// is already unlocked; an unlocked pair is re-fetched, and with no credits left the unlock
// endpoint is never called.
func (s *Service) Unlock(ctx context.Context, phone string, propertyID int64) (*Outcome, error) {
	phone = strings.TrimSpace(phone)
	if err := validation.Phone(phone); err != nil {
		return nil, err
	}
	if propertyID <= 0 {
		return nil, ErrInvalidProperty
	}

	log := s.logger.WithFields(logrus.Fields{"property_id": propertyID})

	status, err := s.api.CheckUnlock(ctx, phone, propertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to check unlock: %w", err)
	}

	if !status.Unlocked && status.Credits < 1 {
		log.Debug("Unlock blocked, no credits left")
		return &Outcome{
			PropertyID: propertyID,
			State:      StateInsufficientCredits,
			Credits:    status.Credits,
			Message:    InsufficientCreditsMessage,
		}, nil
	}

	result, err := s.api.Unlock(ctx, phone, propertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to unlock property: %w", err)
	}

	credits := result.Credits
	if status.Unlocked {
		// nothing was charged
		credits = status.Credits
	}

	outcome := &Outcome{
		PropertyID: propertyID,
		State:      StateUnlocked,
		Credits:    credits,
		Contact:    result.Contact,
		Message:    result.Message,
	}
	if result.Contact != nil {
		outcome.ChatLink = chatLink(result.Contact)
	}
	log.WithField("already_unlocked", status.Unlocked).Info("Property contact unlocked")
	return outcome, nil
}

// chatLink prefers the link sent by the API and falls back to a wa.me link
func chatLink(c *models.Contact) string {
	if c.WhatsAppLink != "" {
		return c.WhatsAppLink
	}
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, c.Phone)
	if digits == "" {
		return ""
	}
	if len(digits) == 10 {
		digits = "91" + digits
	}
	return "https://wa.me/" + digits
}

// CreateOrder opens a gateway order for one of the configured credit packs
func (s *Service) CreateOrder(ctx context.Context, phone string, amount int) (*models.Order, config.CreditPack, error) {
	phone = strings.TrimSpace(phone)
	if err := validation.Phone(phone); err != nil {
		return nil, config.CreditPack{}, err
	}
	pack, ok := s.findPack(amount)
	if !ok {
		return nil, config.CreditPack{}, fmt.Errorf("%w: %d", ErrUnknownPack, amount)
	}

	order, err := s.api.CreateOrder(ctx, phone, pack.Amount)
	if err != nil {
		return nil, pack, fmt.Errorf("failed to create order: %w", err)
	}
	s.logger.WithFields(logrus.Fields{
		"order_id": order.OrderID,
		"credits":  pack.Credits,
	}).Info("Payment order created")
	return order, pack, nil
}

func (s *Service) findPack(amount int) (config.CreditPack, bool) {
	for _, p := range s.packs {
		if p.Amount == amount {
			return p, true
		}
	}
	return config.CreditPack{}, false
}

// Verify confirms a completed checkout. Any failure here means the gateway took the money
// but the credits were not granted, so it is reported as ErrVerificationFailed.
func (s *Service) Verify(ctx context.Context, v models.PaymentVerification) (*models.VerifyResult, error) {
	if err := validation.Struct(v); err != nil {
		return nil, err
	}
	result, err := s.api.VerifyPayment(ctx, v)
	if err != nil {
		s.logger.WithError(err).WithField("order_id", v.OrderID).Error("Payment verification failed")
		return nil, fmt.Errorf("%w: %w", ErrVerificationFailed, err)
	}
	s.logger.WithFields(logrus.Fields{
		"order_id":      v.OrderID,
		"credits_added": result.CreditsAdded,
	}).Info("Payment verified")
	return result, nil
}

// Balance returns the wallet of phone
func (s *Service) Balance(ctx context.Context, phone string) (*models.Wallet, error) {
	phone = strings.TrimSpace(phone)
	if err := validation.Phone(phone); err != nil {
		return nil, err
	}
	wallet, err := s.api.Wallet(ctx, phone)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch wallet: %w", err)
	}
	if wallet.Phone == "" {
		wallet.Phone = phone
	}
	return wallet, nil
}

// ErrorMessage maps an error from this package to the text shown to the buyer
func ErrorMessage(err error) string {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		return verr.Error()
	case errors.Is(err, ErrVerificationFailed):
		return VerificationFailedMessage
	case errors.Is(err, ErrUnknownPack):
		return "Please choose one of the available credit packs."
	case errors.Is(err, ErrInvalidProperty):
		return "This property is no longer available."
	}
	return apiclient.UserMessage(err, "")
}
