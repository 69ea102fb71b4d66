package client

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"drycleaning/internal/database"
	"drycleaning/internal/pkg/validator"
)

const (
	MinSearchLength  = 2
	MaxSearchResults = 20
)

type Service struct {
	repo    *Repository
	db      *gorm.DB
	loyalty LoyaltyRules
	log     *zap.Logger
	now     func() time.Time
}

func NewService(db *gorm.DB, loyalty LoyaltyRules, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		repo:    NewRepository(db),
		db:      db,
		loyalty: loyalty,
		log:     log,
		now:     time.Now,
	}
}

func (s *Service) Create(ctx context.Context, req ClientRequest) (*Client, error) {
	if err := ValidateRequest(req).Err(); err != nil {
		return nil, err
	}

	c := &Client{IsActive: true}
	applyRequest(c, req)

	if err := s.checkUnique(ctx, c); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, c); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, s.uniqueConflict(ctx, c, err)
		}
		return nil, err
	}

	s.log.Info("client created", zap.Int64("client_id", c.ID), zap.String("phone", c.Phone))
	return c, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Client, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, id int64, req ClientRequest) (*Client, error) {
	if err := ValidateRequest(req).Err(); err != nil {
		return nil, err
	}

	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	applyRequest(c, req)

	if err := s.checkUnique(ctx, c); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, c); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, s.uniqueConflict(ctx, c, err)
		}
		return nil, err
	}
	return c, nil
}

// Search matches name, phone, email and discount card.
func (s *Service) Search(ctx context.Context, query string, limit int) ([]Client, error) {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < MinSearchLength {
		return nil, ErrQueryTooShort
	}
	if limit <= 0 || limit > MaxSearchResults {
		limit = MaxSearchResults
	}
	return s.repo.Search(ctx, query, limit)
}

func (s *Service) SoftDelete(ctx context.Context, id int64) error {
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.log.Info("client deleted", zap.Int64("client_id", id))
	return nil
}

// AccrueLoyalty books a completed order onto the client's loyalty counters.
func (s *Service) AccrueLoyalty(ctx context.Context, clientID int64, orderTotal decimal.Decimal) (*Client, error) {
	var out *Client
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := s.AccrueLoyaltyTx(tx, clientID, orderTotal)
		out = c
		return err
	})
	return out, err
}

// AccrueLoyaltyTx is AccrueLoyalty inside a caller's transaction.
func (s *Service) AccrueLoyaltyTx(tx *gorm.DB, clientID int64, orderTotal decimal.Decimal) (*Client, error) {
	if !orderTotal.IsPositive() {
		return nil, ErrInvalidAmount
	}

	var c Client
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&c, clientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}

	before := c.LoyaltyTier
	s.loyalty.Apply(&c, orderTotal, s.now())

	err := tx.Model(&Client{}).Where("id = ?", c.ID).Updates(map[string]any{
		"loyalty_points":  c.LoyaltyPoints,
		"loyalty_tier":    c.LoyaltyTier,
		"total_spent":     c.TotalSpent,
		"order_count":     c.OrderCount,
		"last_order_at":   c.LastOrderAt,
		"recency_score":   c.RecencyScore,
		"frequency_score": c.FrequencyScore,
		"monetary_score":  c.MonetaryScore,
	}).Error
	if err != nil {
		return nil, err
	}

	if c.LoyaltyTier != before {
		s.log.Info("client tier changed",
			zap.Int64("client_id", c.ID),
			zap.String("from", string(before)),
			zap.String("to", string(c.LoyaltyTier)),
		)
	}
	return &c, nil
}

// uniqueConflict maps a unique violation that got past checkUnique, usually a concurrent
// insert, to the field it is about.
func (s *Service) uniqueConflict(ctx context.Context, c *Client, err error) error {
	switch name := database.UniqueConstraint(err); {
	case strings.Contains(name, "email"):
		return ErrEmailExists
	case strings.Contains(name, "card"):
		return ErrDiscountCardExists
	case strings.Contains(name, "phone"):
		return ErrPhoneExists
	}
	if uerr := s.checkUnique(ctx, c); uerr != nil {
		return uerr
	}
	return err
}

func (s *Service) checkUnique(ctx context.Context, c *Client) error {
	exists, err := s.repo.ExistsBy(ctx, "phone", c.Phone, c.ID)
	if err != nil {
		return err
	}
	if exists {
		return ErrPhoneExists
	}

	if c.Email != nil {
		exists, err = s.repo.ExistsBy(ctx, "email", *c.Email, c.ID)
		if err != nil {
			return err
		}
		if exists {
			return ErrEmailExists
		}
	}

	if c.DiscountCardNumber != nil {
		exists, err = s.repo.ExistsBy(ctx, "discount_card_number", *c.DiscountCardNumber, c.ID)
		if err != nil {
			return err
		}
		if exists {
			return ErrDiscountCardExists
		}
	}
	return nil
}

func applyRequest(c *Client, req ClientRequest) {
	c.FirstName = strings.TrimSpace(req.FirstName)
	c.LastName = strings.TrimSpace(req.LastName)
	c.Phone = validator.NormalizePhone(req.Phone)
	c.Email = optional(strings.ToLower(strings.TrimSpace(req.Email)))
	c.Address = strings.TrimSpace(req.Address)
	c.DiscountCardNumber = optional(strings.TrimSpace(req.DiscountCardNumber))
	c.Source = req.Source
	c.SourceDetails = strings.TrimSpace(req.SourceDetails)
	c.Notes = req.Notes

	seen := make(map[Channel]bool, len(req.Channels))
	c.Channels = make([]CommunicationChannel, 0, len(req.Channels))
	for _, ch := range req.Channels {
		if seen[ch] {
			continue
		}
		seen[ch] = true
		c.Channels = append(c.Channels, CommunicationChannel{ClientID: c.ID, Channel: ch})
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
