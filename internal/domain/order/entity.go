package order

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"drycleaning/internal/domain/pricing"
)

type Status string

const (
	StatusDraft      Status = "DRAFT"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
	StatusCancelled  Status = "CANCELLED"
)

type PaymentMethod string

const (
	PaymentTerminal     PaymentMethod = "TERMINAL"
	PaymentCash         PaymentMethod = "CASH"
	PaymentBankTransfer PaymentMethod = "BANK_TRANSFER"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentTerminal, PaymentCash, PaymentBankTransfer:
		return true
	}
	return false
}

type Order struct {
	ID                   int64                `json:"id" gorm:"primaryKey"`
	ReceiptNumber        string               `json:"receipt_number" gorm:"size:60;uniqueIndex;not null"`
	TagNumber            string               `json:"tag_number,omitempty" gorm:"size:20;index"`
	ClientID             int64                `json:"client_id" gorm:"index;not null"`
	BranchCode           string               `json:"branch_code" gorm:"size:10;not null"`
	OperatorID           int64                `json:"operator_id" gorm:"index"`
	Status               Status               `json:"status" gorm:"size:20;index;not null;default:'DRAFT'"`
	Urgency              pricing.Urgency      `json:"urgency" gorm:"size:20;not null;default:'NORMAL'"`
	DiscountType         pricing.DiscountType `json:"discount_type" gorm:"size:20;not null;default:'NONE'"`
	DiscountPercent      decimal.Decimal      `json:"discount_percent" gorm:"type:numeric(5,2);not null;default:0"`
	Subtotal             decimal.Decimal      `json:"subtotal" gorm:"type:numeric(12,2);not null;default:0"`
	UrgencySurcharge     decimal.Decimal      `json:"urgency_surcharge" gorm:"type:numeric(12,2);not null;default:0"`
	DiscountAmount       decimal.Decimal      `json:"discount_amount" gorm:"type:numeric(12,2);not null;default:0"`
	Total                decimal.Decimal      `json:"total" gorm:"type:numeric(12,2);not null;default:0"`
	PaidAmount           decimal.Decimal      `json:"paid_amount" gorm:"type:numeric(12,2);not null;default:0"`
	PaymentMethod        PaymentMethod        `json:"payment_method,omitempty" gorm:"size:20"`
	ExpectedCompletionAt time.Time            `json:"expected_completion_at"`
	CompletedAt          *time.Time           `json:"completed_at,omitempty"`
	Notes                string               `json:"notes,omitempty" gorm:"type:text"`
	CustomerNotes        string               `json:"customer_notes,omitempty" gorm:"type:text"`
	TermsAccepted        bool                 `json:"terms_accepted" gorm:"not null;default:false"`
	SignatureProvided    bool                 `json:"signature_provided" gorm:"not null;default:false"`
	CreatedAt            time.Time            `json:"created_at"`
	UpdatedAt            time.Time            `json:"updated_at"`

	Items    []OrderItem `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Payments []Payment   `json:"payments,omitempty" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (Order) TableName() string { return "orders" }

// AmountDue is what the client still has to pay.
func (o *Order) AmountDue() decimal.Decimal {
	due := o.Total.Sub(o.PaidAmount)
	if due.IsNegative() {
		return decimal.Zero
	}
	return due
}

// AppliedModifier is the snapshot of a modifier as it was priced into an item.
type AppliedModifier struct {
	Code  string               `json:"code"`
	Name  string               `json:"name"`
	Type  pricing.ModifierType `json:"type"`
	Rate  decimal.Decimal      `json:"rate"`
	Delta decimal.Decimal      `json:"delta"`
}

// OrderItem is one priced line. Subtotal is the price after modifiers; FinalPrice adds the
// urgency surcharge and takes the discount off.
type OrderItem struct {
	ID               int64                                `json:"id" gorm:"primaryKey"`
	OrderID          int64                                `json:"order_id" gorm:"index;not null"`
	PriceListItemID  int64                                `json:"price_list_item_id" gorm:"index"`
	Name             string                               `json:"name" gorm:"size:255;not null"`
	CategoryCode     string                               `json:"category_code" gorm:"size:40;not null"`
	Quantity         int                                  `json:"quantity" gorm:"not null"`
	Unit             string                               `json:"unit" gorm:"size:20;not null;default:'шт'"`
	Material         string                               `json:"material,omitempty" gorm:"size:60"`
	Color            string                               `json:"color,omitempty" gorm:"size:60"`
	Filler           string                               `json:"filler,omitempty" gorm:"size:60"`
	FillerClumped    bool                                 `json:"filler_clumped" gorm:"not null;default:false"`
	WearPercent      int                                  `json:"wear_percent" gorm:"not null;default:0"`
	BasePrice        decimal.Decimal                      `json:"base_price" gorm:"type:numeric(12,2);not null"`
	Subtotal         decimal.Decimal                      `json:"subtotal" gorm:"type:numeric(12,2);not null;default:0"`
	UrgencySurcharge decimal.Decimal                      `json:"urgency_surcharge" gorm:"type:numeric(12,2);not null;default:0"`
	DiscountAmount   decimal.Decimal                      `json:"discount_amount" gorm:"type:numeric(12,2);not null;default:0"`
	FinalPrice       decimal.Decimal                      `json:"final_price" gorm:"type:numeric(12,2);not null"`
	Stains           datatypes.JSONSlice[string]          `json:"stains"`
	Defects          datatypes.JSONSlice[string]          `json:"defects"`
	Risks            datatypes.JSONSlice[string]          `json:"risks"`
	NoWarranty       bool                                 `json:"no_warranty" gorm:"not null;default:false"`
	NoWarrantyReason string                               `json:"no_warranty_reason,omitempty" gorm:"type:text"`
	Modifiers        datatypes.JSONSlice[AppliedModifier] `json:"modifiers"`
	Notes            string                               `json:"notes,omitempty" gorm:"type:text"`
	CreatedAt        time.Time                            `json:"created_at"`
}

func (OrderItem) TableName() string { return "order_items" }

// UnitPrice is the final line price per piece.
func (i *OrderItem) UnitPrice() decimal.Decimal {
	if i.Quantity <= 0 {
		return i.FinalPrice
	}
	return i.FinalPrice.DivRound(decimal.NewFromInt(int64(i.Quantity)), 2)
}

type Payment struct {
	ID        int64           `json:"id" gorm:"primaryKey"`
	OrderID   int64           `json:"order_id" gorm:"index;not null"`
	Amount    decimal.Decimal `json:"amount" gorm:"type:numeric(12,2);not null"`
	Method    PaymentMethod   `json:"method" gorm:"size:20;not null"`
	CreatedAt time.Time       `json:"created_at"`
}

func (Payment) TableName() string { return "order_payments" }

func Models() []any {
	return []any{&Order{}, &OrderItem{}, &Payment{}}
}
