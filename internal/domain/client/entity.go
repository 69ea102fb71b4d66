package client

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Channel string

const (
	ChannelPhone Channel = "PHONE"
	ChannelSMS   Channel = "SMS"
	ChannelViber Channel = "VIBER"
	ChannelEmail Channel = "EMAIL"
)

func (c Channel) Valid() bool {
	switch c {
	case ChannelPhone, ChannelSMS, ChannelViber, ChannelEmail:
		return true
	}
	return false
}

type Source string

const (
	SourceInstagram      Source = "INSTAGRAM"
	SourceGoogle         Source = "GOOGLE"
	SourceRecommendation Source = "RECOMMENDATION"
	SourceOther          Source = "OTHER"
)

func (s Source) Valid() bool {
	switch s {
	case SourceInstagram, SourceGoogle, SourceRecommendation, SourceOther:
		return true
	}
	return false
}

type Tier string

const (
	TierBronze   Tier = "BRONZE"
	TierSilver   Tier = "SILVER"
	TierGold     Tier = "GOLD"
	TierPlatinum Tier = "PLATINUM"
)

type Client struct {
	ID                 int64           `json:"id" gorm:"primaryKey"`
	UUID               uuid.UUID       `json:"uuid" gorm:"type:uuid;uniqueIndex;not null"`
	FirstName          string          `json:"first_name" gorm:"size:50;not null"`
	LastName           string          `json:"last_name" gorm:"size:50;not null"`
	Phone              string          `json:"phone" gorm:"size:20;not null;index:idx_clients_phone_active,unique,where:deleted_at IS NULL"`
	Email              *string         `json:"email,omitempty" gorm:"size:255;index:idx_clients_email_active,unique,where:deleted_at IS NULL"`
	Address            string          `json:"address,omitempty" gorm:"size:500"`
	DiscountCardNumber *string         `json:"discount_card_number,omitempty" gorm:"size:50;index:idx_clients_card_active,unique,where:deleted_at IS NULL"`
	Source             Source          `json:"source,omitempty" gorm:"size:20"`
	SourceDetails      string          `json:"source_details,omitempty" gorm:"size:255"`
	Notes              string          `json:"notes,omitempty" gorm:"type:text"`
	LoyaltyPoints      int64           `json:"loyalty_points" gorm:"not null;default:0"`
	LoyaltyTier        Tier            `json:"loyalty_tier" gorm:"size:20;not null;default:'BRONZE'"`
	RecencyScore       int             `json:"recency_score" gorm:"not null;default:0"`
	FrequencyScore     int             `json:"frequency_score" gorm:"not null;default:0"`
	MonetaryScore      int             `json:"monetary_score" gorm:"not null;default:0"`
	TotalSpent         decimal.Decimal `json:"total_spent" gorm:"type:numeric(12,2);not null;default:0"`
	OrderCount         int             `json:"order_count" gorm:"not null;default:0"`
	LastOrderAt        *time.Time      `json:"last_order_at,omitempty"`
	IsActive           bool            `json:"is_active" gorm:"not null;default:true"`

	Channels []CommunicationChannel `json:"communication_channels" gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Client) TableName() string { return "clients" }

func (c *Client) BeforeCreate(_ *gorm.DB) error {
	if c.UUID == uuid.Nil {
		c.UUID = uuid.New()
	}
	if c.LoyaltyTier == "" {
		c.LoyaltyTier = TierBronze
	}
	return nil
}

func (c *Client) FullName() string {
	return strings.TrimSpace(c.LastName + " " + c.FirstName)
}

func (c *Client) ChannelList() []Channel {
	out := make([]Channel, 0, len(c.Channels))
	for _, ch := range c.Channels {
		out = append(out, ch.Channel)
	}
	return out
}

type CommunicationChannel struct {
	ID       int64   `json:"-" gorm:"primaryKey"`
	ClientID int64   `json:"-" gorm:"index;not null"`
	Channel  Channel `json:"channel" gorm:"size:20;not null"`
}

func (CommunicationChannel) TableName() string { return "client_communication_channels" }

func Models() []any {
	return []any{&Client{}, &CommunicationChannel{}}
}
