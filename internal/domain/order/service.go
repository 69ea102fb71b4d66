package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"drycleaning/internal/database"
	"drycleaning/internal/domain/catalog"
	"drycleaning/internal/domain/client"
	"drycleaning/internal/domain/pricing"
	"drycleaning/internal/domain/recommendation"
)

const maxReceiptAttempts = 5

type Service struct {
	repo     *Repository
	db       *gorm.DB
	catalog  *catalog.Service
	clients  *client.Service
	calc     *pricing.Calculator
	rules    Rules
	issues   recommendation.Config
	notifier Notifier
	log      *zap.Logger
	now      func() time.Time
}

func NewService(
	db *gorm.DB,
	catalogService *catalog.Service,
	clients *client.Service,
	calc *pricing.Calculator,
	rules Rules,
	issues recommendation.Config,
	log *zap.Logger,
) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		repo:    NewRepository(db),
		db:      db,
		catalog: catalogService,
		clients: clients,
		calc:    calc,
		rules:   rules,
		issues:  issues,
		log:     log,
		now:     time.Now,
	}
}

// SetNotifier installs who is told about order changes.
func (s *Service) SetNotifier(n Notifier) {
	s.notifier = n
}

func (s *Service) Rules() Rules { return s.rules }

func (s *Service) IssueRules() recommendation.Config { return s.issues }

func (s *Service) PricingConfig() pricing.Config { return s.calc.Config() }

// NewOrderInfo starts the header of an order at the configured branch.
func (s *Service) NewOrderInfo() OrderInfo {
	return OrderInfo{
		ReceiptNumber: s.rules.NewReceiptNumber(s.now()),
		BranchCode:    strings.ToUpper(s.rules.BranchCode),
	}
}

// Quote prices a draft without storing it.
func (s *Service) Quote(ctx context.Context, d Draft) (*Order, error) {
	if len(d.Items) == 0 {
		return nil, ErrNoItems
	}

	inputs := make([]pricing.Input, 0, len(d.Items))
	lines := make([]OrderItem, 0, len(d.Items))
	codes := make([]string, 0, len(d.Items))
	for i, item := range d.Items {
		in, line, err := s.prepareItem(ctx, item)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i+1, err)
		}
		inputs = append(inputs, in)
		lines = append(lines, line)
		codes = append(codes, line.CategoryCode)
	}

	totals, err := s.calc.CalculateOrder(inputs, d.Execution.Urgency, d.Discount)
	if err != nil {
		return nil, err
	}
	for i := range lines {
		applyBreakdown(&lines[i], totals.Items[i])
	}

	first := totals.Items[0]
	now := s.now()
	o := &Order{
		ReceiptNumber:    d.Info.ReceiptNumber,
		TagNumber:        strings.TrimSpace(d.Info.TagNumber),
		ClientID:         d.ClientID,
		BranchCode:       strings.ToUpper(strings.TrimSpace(d.Info.BranchCode)),
		Status:           StatusDraft,
		Urgency:          first.Urgency,
		DiscountType:     first.DiscountType,
		DiscountPercent:  first.DiscountPercent,
		Subtotal:         totals.Subtotal,
		UrgencySurcharge: totals.UrgencySurcharge,
		DiscountAmount:   totals.DiscountAmount,
		Total:            totals.Total,
		PaidAmount:       decimal.Zero,
		Notes:            strings.TrimSpace(d.Additional.Notes),
		CustomerNotes:    strings.TrimSpace(d.Additional.CustomerNotes),
		Items:            lines,
	}
	if o.BranchCode == "" {
		o.BranchCode = strings.ToUpper(s.rules.BranchCode)
	}

	o.ExpectedCompletionAt, err = s.expectedCompletion(ctx, now, codes, first.Urgency)
	if err != nil {
		return nil, err
	}
	if c := d.Execution.CompletionDate; c != nil && c.After(o.ExpectedCompletionAt) {
		o.ExpectedCompletionAt = *c
	}
	return o, nil
}

// Create prices and stores a draft. The prepayment, if any, is booked as the first payment.
func (s *Service) Create(ctx context.Context, d Draft, operatorID int64) (*Order, error) {
	res := s.rules.ValidateDraft(s.issues, s.calc.Config(), d, s.now())
	if d.Accept {
		res = res.Combine(ValidateConfirmation(d.TermsAccepted, d.SignatureProvided))
	}
	if err := res.Err(); err != nil {
		return nil, err
	}
	if _, err := s.clients.Get(ctx, d.ClientID); err != nil {
		return nil, err
	}

	o, err := s.Quote(ctx, d)
	if err != nil {
		return nil, err
	}
	if err := ValidatePayment(d.Payment, o.Total).Err(); err != nil {
		return nil, err
	}

	o.OperatorID = operatorID
	o.PaymentMethod = d.Payment.Method
	o.TermsAccepted = d.TermsAccepted
	o.SignatureProvided = d.SignatureProvided
	if d.Accept {
		if err := ValidateStatusTransition(o.Status, StatusInProgress); err != nil {
			return nil, err
		}
		o.Status = StatusInProgress
	}

	if err := s.save(ctx, o, d.Payment.Prepayment.Round(2)); err != nil {
		return nil, err
	}

	s.log.Info("order created",
		zap.Int64("order_id", o.ID),
		zap.String("receipt_number", o.ReceiptNumber),
		zap.Int64("client_id", o.ClientID),
		zap.String("total", o.Total.StringFixed(2)),
	)
	return s.repo.GetByID(ctx, o.ID)
}

// save inserts the order, drawing a fresh receipt number whenever the current one is taken.
func (s *Service) save(ctx context.Context, o *Order, prepayment decimal.Decimal) error {
	for attempt := 0; attempt < maxReceiptAttempts; attempt++ {
		if attempt > 0 || o.ReceiptNumber == "" {
			o.ReceiptNumber = s.rules.NewReceiptNumber(s.now())
		}
		resetIDs(o)
		o.PaidAmount = prepayment

		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Omit("Payments").Create(o).Error; err != nil {
				return err
			}
			if !prepayment.IsPositive() {
				return nil
			}
			return tx.Create(&Payment{OrderID: o.ID, Amount: prepayment, Method: o.PaymentMethod}).Error
		})
		if err == nil {
			return nil
		}
		if !database.IsUniqueViolation(err) {
			return err
		}
		s.log.Warn("receipt number taken, retrying", zap.String("receipt_number", o.ReceiptNumber))
	}
	return ErrReceiptNumberExhausted
}

func resetIDs(o *Order) {
	o.ID = 0
	for i := range o.Items {
		o.Items[i].ID = 0
		o.Items[i].OrderID = 0
	}
}

func (s *Service) Get(ctx context.Context, id int64) (*Order, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByReceiptNumber(ctx context.Context, number string) (*Order, error) {
	return s.repo.GetByReceiptNumber(ctx, strings.ToUpper(strings.TrimSpace(number)))
}

func (s *Service) List(ctx context.Context, f Filter) ([]Order, int64, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, 0, fmt.Errorf("%w: unknown status %s", ErrInvalidStatusTransition, f.Status)
	}
	return s.repo.List(ctx, f)
}

// UpdateStatus moves an order along the allow-list. Completing an order books it on the client's loyalty.
func (s *Service) UpdateStatus(ctx context.Context, id int64, to Status) (*Order, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		o, err := lockByID(tx, id)
		if err != nil {
			return err
		}
		if err := ValidateStatusTransition(o.Status, to); err != nil {
			return err
		}

		updates := map[string]any{"status": to}
		if to == StatusCompleted {
			updates["completed_at"] = s.now()
			if o.Total.IsPositive() {
				if _, err := s.clients.AccrueLoyaltyTx(tx, o.ClientID, o.Total); err != nil {
					if !errors.Is(err, client.ErrClientNotFound) {
						return err
					}
					s.log.Warn("loyalty not accrued: client is gone",
						zap.Int64("order_id", o.ID), zap.Int64("client_id", o.ClientID))
				}
			}
		}
		return tx.Model(&Order{}).Where("id = ?", o.ID).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}

	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.log.Info("order status changed", zap.Int64("order_id", id), zap.String("status", string(to)))
	s.Announce(ctx, o, StatusEvent(to), decimal.Zero)
	return o, nil
}

// RecordPayment books a payment. The paid amount never exceeds the order total.
func (s *Service) RecordPayment(ctx context.Context, id int64, amount decimal.Decimal, method PaymentMethod) (*Order, error) {
	amount = amount.Round(2)
	if !amount.IsPositive() {
		return nil, ErrInvalidPayment
	}
	if !method.Valid() {
		return nil, ErrInvalidPaymentMethod
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		o, err := lockByID(tx, id)
		if err != nil {
			return err
		}
		if !o.Status.AcceptsPayments() {
			return ErrPaymentsClosed
		}
		paid := o.PaidAmount.Add(amount)
		if paid.GreaterThan(o.Total) {
			return fmt.Errorf("%w: %s left to pay", ErrOverpayment, o.AmountDue().StringFixed(2))
		}

		if err := tx.Create(&Payment{OrderID: o.ID, Amount: amount, Method: method}).Error; err != nil {
			return err
		}
		return tx.Model(&Order{}).Where("id = ?", o.ID).Updates(map[string]any{
			"paid_amount":    paid,
			"payment_method": method,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.log.Info("payment recorded",
		zap.Int64("order_id", id),
		zap.String("amount", amount.StringFixed(2)),
		zap.String("method", string(method)),
	)
	s.Announce(ctx, o, EventPaymentReceived, amount)
	return o, nil
}

// Delete removes a draft order with its items and payments.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		o, err := lockByID(tx, id)
		if err != nil {
			return err
		}
		if !o.Status.CanDelete() {
			return ErrNotDeletable
		}
		if err := tx.Where("order_id = ?", id).Delete(&Payment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("order_id = ?", id).Delete(&OrderItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&Order{}, id).Error
	})
}

func (s *Service) ChangeClient(ctx context.Context, id, clientID int64) (*Order, error) {
	if _, err := s.clients.Get(ctx, clientID); err != nil {
		return nil, err
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		o, err := lockByID(tx, id)
		if err != nil {
			return err
		}
		if !o.Status.CanEditClient() {
			return ErrNotEditable
		}
		return tx.Model(&Order{}).Where("id = ?", id).Update("client_id", clientID).Error
	})
	if err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// AddItem prices one more item with the order's urgency and discount.
func (s *Service) AddItem(ctx context.Context, id int64, item ItemDraft) (*Order, error) {
	if err := s.rules.ValidateItem(s.issues, item).Err(); err != nil {
		return nil, err
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !current.Status.CanEditItems() {
		return nil, ErrNotEditable
	}

	in, line, err := s.prepareItem(ctx, item)
	if err != nil {
		return nil, err
	}
	in.Urgency = current.Urgency
	in.Discount = discountOf(current)
	b, err := s.calc.Calculate(in)
	if err != nil {
		return nil, err
	}
	applyBreakdown(&line, *b)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		o, err := lockByID(tx, id)
		if err != nil {
			return err
		}
		if !o.Status.CanEditItems() {
			return ErrNotEditable
		}
		var count int64
		if err := tx.Model(&OrderItem{}).Where("order_id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if int(count) >= s.rules.MaxItems {
			return ErrTooManyItems
		}
		line.OrderID = id
		if err := tx.Create(&line).Error; err != nil {
			return err
		}
		return recalcTotals(tx, o)
	})
	if err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// RemoveItem drops an item from a draft. The last item cannot be removed.
func (s *Service) RemoveItem(ctx context.Context, id, itemID int64) (*Order, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		o, err := lockByID(tx, id)
		if err != nil {
			return err
		}
		if !o.Status.CanEditItems() {
			return ErrNotEditable
		}
		res := tx.Where("id = ? AND order_id = ?", itemID, id).Delete(&OrderItem{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrItemNotFound
		}
		return recalcTotals(tx, o)
	})
	if err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// Announce tells the notifier about an order change. Failures are logged, never returned.
func (s *Service) Announce(ctx context.Context, o *Order, t EventType, amount decimal.Decimal) {
	if s.notifier == nil || o == nil {
		return
	}
	e := NewEvent(t, o, s.now())
	e.Amount = amount
	if err := s.notifier.OrderChanged(ctx, e); err != nil {
		s.log.Warn("order notification failed",
			zap.Int64("order_id", o.ID),
			zap.String("event", string(t)),
			zap.Error(err),
		)
	}
}

func (s *Service) prepareItem(ctx context.Context, item ItemDraft) (pricing.Input, OrderItem, error) {
	pi, err := s.catalog.GetPriceItem(ctx, item.PriceListItemID)
	if err != nil {
		return pricing.Input{}, OrderItem{}, err
	}
	if !pi.Active {
		return pricing.Input{}, OrderItem{}, catalog.ErrPriceItemNotFound
	}

	cat, err := s.catalog.GetCategory(ctx, pi.CategoryCode)
	if err != nil {
		return pricing.Input{}, OrderItem{}, err
	}
	mods, err := s.catalog.ResolveModifiers(ctx, pi.CategoryCode, item.Modifiers)
	if err != nil {
		return pricing.Input{}, OrderItem{}, err
	}

	color := item.EffectiveColor()
	stains := append([]string{}, item.Issues.Stains...)
	if custom := strings.TrimSpace(item.Issues.CustomStain); custom != "" {
		stains = append(stains, custom)
	}
	defects := append([]string{}, item.Issues.Defects...)
	if custom := strings.TrimSpace(item.Issues.CustomDefect); custom != "" {
		defects = append(defects, custom)
	}

	line := OrderItem{
		PriceListItemID:  pi.ID,
		Name:             pi.Name,
		CategoryCode:     pi.CategoryCode,
		Quantity:         item.Quantity,
		Unit:             pi.Unit,
		Material:         strings.TrimSpace(item.Material),
		Color:            color,
		Filler:           strings.TrimSpace(item.Filler),
		FillerClumped:    item.FillerClumped,
		WearPercent:      item.WearPercent,
		Stains:           datatypes.JSONSlice[string](stains),
		Defects:          datatypes.JSONSlice[string](defects),
		Risks:            datatypes.JSONSlice[string](append([]string{}, item.Issues.Risks...)),
		NoWarranty:       item.Issues.NoWarranty,
		NoWarrantyReason: strings.TrimSpace(item.Issues.NoWarrantyReason),
		Notes:            strings.TrimSpace(item.Notes),
	}
	in := pricing.Input{
		CategoryCode:    pi.CategoryCode,
		BasePrice:       pi.PriceFor(color),
		Quantity:        item.Quantity,
		Modifiers:       mods,
		ExcludeDiscount: !cat.Discountable,
	}
	return in, line, nil
}

func applyBreakdown(line *OrderItem, b pricing.Breakdown) {
	line.BasePrice = b.BaseUnitPrice
	line.Subtotal = b.AfterModifiers
	line.UrgencySurcharge = b.UrgencySurcharge
	line.DiscountAmount = b.DiscountAmount
	line.FinalPrice = b.FinalPrice

	mods := make([]AppliedModifier, 0, len(b.Steps))
	for _, st := range b.Steps {
		mods = append(mods, AppliedModifier{Code: st.Code, Name: st.Name, Type: st.Type, Rate: st.Rate, Delta: st.Delta})
	}
	line.Modifiers = datatypes.JSONSlice[AppliedModifier](mods)
}

func discountOf(o *Order) pricing.Discount {
	d := pricing.Discount{Type: o.DiscountType}
	if o.DiscountType == pricing.DiscountCustom {
		pct := o.DiscountPercent
		d.Percent = &pct
	}
	return d
}

// recalcTotals sums the stored items back onto the order.
func recalcTotals(tx *gorm.DB, o *Order) error {
	var items []OrderItem
	if err := tx.Where("order_id = ?", o.ID).Find(&items).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return ErrNoItems
	}

	subtotal, surcharge, discount, total := decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(it.Subtotal)
		surcharge = surcharge.Add(it.UrgencySurcharge)
		discount = discount.Add(it.DiscountAmount)
		total = total.Add(it.FinalPrice)
	}
	if o.PaidAmount.GreaterThan(total) {
		return ErrOverpayment
	}
	return tx.Model(&Order{}).Where("id = ?", o.ID).Updates(map[string]any{
		"subtotal":          subtotal,
		"urgency_surcharge": surcharge,
		"discount_amount":   discount,
		"total":             total,
	}).Error
}

func (s *Service) expectedCompletion(ctx context.Context, now time.Time, codes []string, urgency pricing.Urgency) (time.Time, error) {
	cats, err := s.catalog.Repository().CategoriesByCode(ctx, codes)
	if err != nil {
		return time.Time{}, err
	}
	days := make([]int, 0, len(cats))
	for _, c := range cats {
		days = append(days, c.StandardDays)
	}
	tier, err := s.calc.Config().UrgencyTier(urgency)
	if err != nil {
		return time.Time{}, err
	}
	return s.rules.ExpectedCompletion(now, days, tier), nil
}
