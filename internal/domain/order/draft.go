package order

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"drycleaning/internal/domain/catalog"
	"drycleaning/internal/domain/pricing"
	"drycleaning/internal/domain/recommendation"
)

// OrderInfo is the header of a new order. ReceiptNumber is allocated when the order is started
// and may be replaced on save if another order took it meanwhile.
type OrderInfo struct {
	ReceiptNumber string `json:"receipt_number"`
	TagNumber     string `json:"tag_number,omitempty"`
	BranchCode    string `json:"branch_code"`
}

// ItemBasicInfo is what identifies an item: the price list entry and how many pieces.
// Name, CategoryCode and Unit are copied from the price list when the entry is picked,
// ExcludeDiscount from the entry's category.
type ItemBasicInfo struct {
	PriceListItemID int64  `json:"price_list_item_id"`
	Name            string `json:"name"`
	CategoryCode    string `json:"category_code"`
	Unit            string `json:"unit"`
	Quantity        int    `json:"quantity"`
	ExcludeDiscount bool   `json:"-"`
}

// Characteristics describe the item physically. CustomColor is used when none of the standard colors fits.
type Characteristics struct {
	Material      string `json:"material"`
	Color         string `json:"color"`
	CustomColor   string `json:"custom_color,omitempty"`
	Filler        string `json:"filler,omitempty"`
	FillerClumped bool   `json:"filler_clumped"`
	WearPercent   int    `json:"wear_percent"`
}

func (c Characteristics) EffectiveColor() string {
	if s := strings.TrimSpace(c.CustomColor); s != "" {
		return s
	}
	return strings.TrimSpace(c.Color)
}

// PhotoMeta is enough of a photo to check the upload limits before storing it.
type PhotoMeta struct {
	FileName string `json:"file_name"`
	MimeType string `json:"mime_type"`
	Size     int64  `json:"size"`
}

type ItemDraft struct {
	ItemBasicInfo
	Characteristics
	Issues    recommendation.Selection `json:"issues"`
	Modifiers []catalog.ModifierChoice `json:"modifiers"`
	Photos    []PhotoMeta              `json:"photos,omitempty"`
	Notes     string                   `json:"notes,omitempty"`
}

type ExecutionParams struct {
	Urgency pricing.Urgency `json:"urgency"`
	// CompletionDate overrides the computed date when the client agreed to a later one.
	CompletionDate *time.Time `json:"completion_date,omitempty"`
}

type PaymentParams struct {
	Method     PaymentMethod   `json:"method"`
	Prepayment decimal.Decimal `json:"prepayment"`
}

type AdditionalInfo struct {
	Notes         string `json:"notes,omitempty"`
	CustomerNotes string `json:"customer_notes,omitempty"`
}

// Draft is a complete order ready to be priced and stored.
type Draft struct {
	ClientID   int64            `json:"client_id"`
	Info       OrderInfo        `json:"info"`
	Items      []ItemDraft      `json:"items"`
	Execution  ExecutionParams  `json:"execution"`
	Discount   pricing.Discount `json:"discount"`
	Payment    PaymentParams    `json:"payment"`
	Additional AdditionalInfo   `json:"additional"`

	TermsAccepted     bool `json:"terms_accepted"`
	SignatureProvided bool `json:"signature_provided"`
	// Accept moves the stored order straight to IN_PROGRESS.
	Accept bool `json:"accept"`
}
