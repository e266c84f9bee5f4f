// Package dashboard holds a broker's listings between requests and runs the
// search/status/city pipeline and the card actions over them.
package dashboard

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"proptrackrr/web/internal/models"
)

const (
	NoticeSuccess = "success"
	NoticeError   = "error"
)

var ErrPropertyNotFound = errors.New("property not found")

// PropertyAPI is the part of the API client the dashboard needs
type PropertyAPI interface {
	ListProperties(ctx context.Context, token, brokerID string) ([]models.Property, error)
	UpdateProperty(ctx context.Context, token string, id int64, patch models.PropertyPatch) (*models.Property, error)
	DeleteProperty(ctx context.Context, token string, id int64) error
}

// Owner identifies whose board a call works on
type Owner struct {
	SessionID string
	Token     string
	BrokerID  string
}

// View is everything the dashboard page renders
type View struct {
	Filter     Filter
	Properties []models.Property
	Cities     []string
	Stats      models.PropertyStats
}

// Notice is the one-line outcome of a card action
type Notice struct {
	Kind    string
	Message string
}

// EditInput is the edit modal form
type EditInput struct {
	Title                 string `form:"title" json:"title"`
	City                  string `form:"city" json:"city"`
	Locality              string `form:"locality" json:"locality"`
	Price                 string `form:"price" json:"price"`
	BHK                   string `form:"bhk" json:"bhk"`
	AreaSqft              string `form:"area_sqft" json:"area_sqft"`
	DescriptionBeautified string `form:"description_beautified" json:"description_beautified"`
}

func (in EditInput) patch() models.PropertyPatch {
	price := models.NewNumber(in.Price)
	bhk := models.NewNumber(in.BHK)
	area := models.NewNumber(in.AreaSqft)
	return models.PropertyPatch{
		Title:                 &in.Title,
		City:                  &in.City,
		Locality:              &in.Locality,
		Price:                 &price,
		BHK:                   &bhk,
		AreaSqft:              &area,
		DescriptionBeautified: &in.DescriptionBeautified,
	}
}

type Service struct {
	api    PropertyAPI
	boards *Boards
	logger *logrus.Logger
}

func NewService(api PropertyAPI, boards *Boards, logger *logrus.Logger) *Service {
	if boards == nil {
		boards = NewBoards()
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Service{api: api, boards: boards, logger: logger}
}

func (s *Service) Boards() *Boards {
	return s.boards
}

// Refresh fetches the broker's listings and stores them on the board unless a newer
// fetch started in the meantime
func (s *Service) Refresh(ctx context.Context, owner Owner) error {
	board := s.boards.Get(owner.SessionID)
	gen := board.Begin()

	props, err := s.api.ListProperties(ctx, owner.Token, owner.BrokerID)
	if err != nil {
		return fmt.Errorf("failed to fetch properties: %w", err)
	}
	if !board.Apply(gen, props) {
		s.logger.WithFields(logrus.Fields{
			"broker_id":  owner.BrokerID,
			"generation": gen,
		}).Debug("Dropped stale property fetch")
	}
	return nil
}

// View filters the board's listings. The list is fetched first when refresh is set or
// nothing was fetched yet; otherwise the last fetched list is reused.
func (s *Service) View(ctx context.Context, owner Owner, filter Filter, refresh bool) (View, error) {
	board := s.boards.Get(owner.SessionID)
	if _, loaded := board.Snapshot(); refresh || !loaded {
		if err := s.Refresh(ctx, owner); err != nil {
			return View{Filter: filter.Normalize()}, err
		}
	}

	all, _ := board.Snapshot()
	filter = filter.Normalize()
	return View{
		Filter:     filter,
		Properties: filter.Apply(all),
		Cities:     Cities(all),
		Stats:      Summarize(all),
	}, nil
}

// ToggleStatus flips a listing between active and disabled
func (s *Service) ToggleStatus(ctx context.Context, owner Owner, id int64) (Notice, error) {
	const failure = "Failed to update status."

	prop, err := s.lookup(ctx, owner, id)
	if err != nil {
		return errorNotice(failure), err
	}

	next := models.StatusDisabled
	if !prop.IsActive() {
		next = models.StatusActive
	}
	if _, err := s.api.UpdateProperty(ctx, owner.Token, id, models.PropertyPatch{Status: &next}); err != nil {
		return errorNotice(failure), fmt.Errorf("failed to update status of property %d: %w", id, err)
	}
	s.refreshAfterMutation(ctx, owner)

	if next == models.StatusDisabled {
		return successNotice(prop.DisplayTitle() + " has been disabled."), nil
	}
	return successNotice(prop.DisplayTitle() + " is now active."), nil
}

func (s *Service) Delete(ctx context.Context, owner Owner, id int64) (Notice, error) {
	const failure = "Failed to delete property."

	prop, err := s.lookup(ctx, owner, id)
	if err != nil {
		return errorNotice(failure), err
	}
	if err := s.api.DeleteProperty(ctx, owner.Token, id); err != nil {
		return errorNotice(failure), fmt.Errorf("failed to delete property %d: %w", id, err)
	}
	s.refreshAfterMutation(ctx, owner)
	return successNotice(prop.DisplayTitle() + " has been deleted successfully."), nil
}

func (s *Service) Edit(ctx context.Context, owner Owner, id int64, in EditInput) (Notice, error) {
	const failure = "Failed to update property."

	if _, err := s.api.UpdateProperty(ctx, owner.Token, id, in.patch()); err != nil {
		return errorNotice(failure), fmt.Errorf("failed to edit property %d: %w", id, err)
	}
	s.refreshAfterMutation(ctx, owner)
	return successNotice("Property updated successfully!"), nil
}

// lookup finds a listing on the board, fetching the list once if it is not there
func (s *Service) lookup(ctx context.Context, owner Owner, id int64) (models.Property, error) {
	board := s.boards.Get(owner.SessionID)
	if p, ok := board.Find(id); ok {
		return p, nil
	}
	if err := s.Refresh(ctx, owner); err != nil {
		return models.Property{}, err
	}
	if p, ok := board.Find(id); ok {
		return p, nil
	}
	return models.Property{}, fmt.Errorf("property %d: %w", id, ErrPropertyNotFound)
}

// refreshAfterMutation re-fetches the list. The mutation already succeeded, so a failed
// re-fetch is only logged.
func (s *Service) refreshAfterMutation(ctx context.Context, owner Owner) {
	if err := s.Refresh(ctx, owner); err != nil {
		s.logger.WithError(err).WithField("broker_id", owner.BrokerID).Warn("Failed to refresh properties after update")
	}
}

func successNotice(msg string) Notice {
	return Notice{Kind: NoticeSuccess, Message: msg}
}

func errorNotice(msg string) Notice {
	return Notice{Kind: NoticeError, Message: msg}
}
