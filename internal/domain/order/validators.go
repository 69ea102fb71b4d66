package order

import (
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"drycleaning/internal/domain/catalog"
	"drycleaning/internal/domain/pricing"
	"drycleaning/internal/domain/recommendation"
	"drycleaning/internal/pkg/validation"
)

func (r Rules) ValidateOrderInfo(info OrderInfo) validation.Result {
	var v validation.Collector
	if info.ReceiptNumber != "" {
		v.AddIf(!ValidReceiptNumber(info.ReceiptNumber), "receipt number has an invalid format")
	}
	if tag := strings.TrimSpace(info.TagNumber); tag != "" {
		v.AddIf(!ValidTagNumber(tag), "tag number must be 3-20 letters, digits, '-' or '_'")
	}
	v.AddIf(strings.TrimSpace(info.BranchCode) == "", "branch is required")
	return v.Result()
}

func (r Rules) ValidateItemBasicInfo(info ItemBasicInfo) validation.Result {
	var v validation.Collector
	v.AddIf(info.PriceListItemID <= 0, "select an item from the price list")
	v.AddIf(info.Quantity < r.MinQuantity || info.Quantity > r.MaxQuantity,
		fmt.Sprintf("quantity must be between %d and %d", r.MinQuantity, r.MaxQuantity))
	return v.Result()
}

// ValidateCharacteristics checks material, color and wear. A custom color replaces the standard
// picker and therefore must not repeat one of its colors.
func (r Rules) ValidateCharacteristics(c Characteristics) validation.Result {
	var v validation.Collector
	v.AddIf(strings.TrimSpace(c.Material) == "", "material is required")

	color := strings.TrimSpace(c.Color)
	custom := strings.TrimSpace(c.CustomColor)
	switch {
	case color == "" && custom == "":
		v.Add("color is required")
	case color != "" && custom != "":
		v.Add("choose either a standard color or a custom one")
	case custom != "":
		v.AddIf(r.isStandardColor(custom), "custom color "+custom+" is a standard color, pick it from the list")
		v.AddIf(utf8.RuneCountInString(custom) > 60, "custom color must be at most 60 characters")
	}

	if c.WearPercent != 0 && !slices.Contains(r.WearPercents, c.WearPercent) {
		v.Add(fmt.Sprintf("wear must be one of %v percent", r.WearPercents))
	}
	if c.FillerClumped && strings.TrimSpace(c.Filler) == "" {
		v.Add("filler type is required when the filler is clumped")
	}
	return v.Result()
}

func (r Rules) isStandardColor(s string) bool {
	for _, c := range r.StandardColors {
		if strings.EqualFold(c, s) {
			return true
		}
	}
	return false
}

// ValidateDefectsStains runs the stain and defect analysis of the recommendation rules.
func ValidateDefectsStains(cfg recommendation.Config, sel recommendation.Selection) validation.Result {
	return cfg.Analyze(sel)
}

func (r Rules) ValidatePhotos(photos []PhotoMeta) validation.Result {
	var v validation.Collector
	v.AddIf(len(photos) > r.MaxPhotosPerItem, fmt.Sprintf("at most %d photos per item", r.MaxPhotosPerItem))

	var total int64
	for _, p := range photos {
		total += p.Size
		v.AddIf(p.Size <= 0, p.FileName+": file is empty")
		v.AddIf(p.Size > r.MaxPhotoBytes, fmt.Sprintf("%s: photo must be at most %d MB", p.FileName, r.MaxPhotoBytes>>20))
		v.AddIf(!r.AllowedPhotoType(p.MimeType), p.FileName+": only JPEG, PNG and WebP photos are accepted")
	}
	v.AddIf(total > r.MaxTotalPhotoSize, fmt.Sprintf("photos of one item must total at most %d MB", r.MaxTotalPhotoSize>>20))
	return v.Result()
}

func (r Rules) AllowedPhotoType(mime string) bool {
	return slices.Contains(r.PhotoMimeTypes, strings.ToLower(strings.TrimSpace(mime)))
}

// ValidateModifiers rejects a modifier chosen more than once for the same item.
func ValidateModifiers(choices []catalog.ModifierChoice) validation.Result {
	var v validation.Collector
	seen := make(map[string]bool, len(choices))
	for _, c := range choices {
		v.AddIf(seen[c.Code], "modifier "+c.Code+" is chosen more than once")
		seen[c.Code] = true
	}
	return v.Result()
}

// ValidateItem combines the checks of every item step.
func (r Rules) ValidateItem(issues recommendation.Config, item ItemDraft) validation.Result {
	return r.ValidateItemBasicInfo(item.ItemBasicInfo).Combine(
		r.ValidateCharacteristics(item.Characteristics),
		ValidateDefectsStains(issues, item.Issues),
		ValidateModifiers(item.Modifiers),
		r.ValidatePhotos(item.Photos),
	)
}

func ValidateExecution(cfg pricing.Config, p ExecutionParams, now time.Time) validation.Result {
	var v validation.Collector
	if _, err := cfg.UrgencyTier(p.Urgency); err != nil {
		v.Add("unknown urgency " + string(p.Urgency))
	}
	if p.CompletionDate != nil {
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		v.AddIf(p.CompletionDate.Before(today), "completion date must not be in the past")
	}
	return v.Result()
}

// ValidateDiscount checks the discount choice. excluded holds one flag per item, set when the
// item's category takes no discount.
func ValidateDiscount(cfg pricing.Config, d pricing.Discount, excluded []bool) validation.Result {
	var v validation.Collector
	pct, err := cfg.DiscountPercent(d)
	if err != nil {
		v.Add(err.Error())
		return v.Result()
	}
	if d.Type != pricing.DiscountCustom && d.Percent != nil {
		v.Warn("percent is ignored for discount type " + string(d.Type))
	}
	if pct.IsPositive() && len(excluded) > 0 {
		skipped := 0
		for _, x := range excluded {
			if x {
				skipped++
			}
		}
		if skipped == len(excluded) {
			v.Warn("the discount does not apply to any item of this order")
		} else if skipped > 0 {
			v.Warn(fmt.Sprintf("the discount does not apply to %d of %d items", skipped, len(excluded)))
		}
	}
	return v.Result()
}

func ValidatePayment(p PaymentParams, total decimal.Decimal) validation.Result {
	var v validation.Collector
	v.AddIf(!p.Method.Valid(), "select a payment method")
	v.AddIf(p.Prepayment.IsNegative(), "prepayment must not be negative")
	v.AddIf(p.Prepayment.GreaterThan(total), "prepayment must not exceed the order total")
	return v.Result()
}

func (r Rules) ValidateAdditionalInfo(a AdditionalInfo) validation.Result {
	var v validation.Collector
	for _, f := range []struct{ name, text string }{
		{"notes", a.Notes},
		{"customer notes", a.CustomerNotes},
	} {
		n := utf8.RuneCountInString(f.text)
		if n > r.MaxNotes {
			v.Add(fmt.Sprintf("%s must be at most %d characters", f.name, r.MaxNotes))
		} else if n > r.NotesWarnAt {
			v.Warn(fmt.Sprintf("%s are long and may not fit on the receipt", f.name))
		}
	}
	return v.Result()
}

func ValidateConfirmation(termsAccepted, signatureProvided bool) validation.Result {
	var v validation.Collector
	v.AddIf(!termsAccepted, "the client must accept the terms of service")
	v.AddIf(!signatureProvided, "the client signature is required")
	return v.Result()
}

// ValidateDraft checks everything that can be checked before pricing.
func (r Rules) ValidateDraft(issues recommendation.Config, pricingCfg pricing.Config, d Draft, now time.Time) validation.Result {
	var v validation.Collector
	v.AddIf(d.ClientID <= 0, "select a client")
	v.AddIf(len(d.Items) == 0, "add at least one item")
	v.AddIf(len(d.Items) > r.MaxItems, fmt.Sprintf("an order can hold at most %d items", r.MaxItems))
	res := v.Result().Combine(r.ValidateOrderInfo(d.Info))

	excluded := make([]bool, 0, len(d.Items))
	for i, item := range d.Items {
		res = res.Combine(prefixed(fmt.Sprintf("item %d", i+1), r.ValidateItem(issues, item)))
		excluded = append(excluded, item.ExcludeDiscount)
	}

	return res.Combine(
		ValidateExecution(pricingCfg, d.Execution, now),
		ValidateDiscount(pricingCfg, d.Discount, excluded),
		r.ValidateAdditionalInfo(d.Additional),
	)
}

func prefixed(prefix string, r validation.Result) validation.Result {
	out := r.Combine()
	for i, e := range out.Errors {
		out.Errors[i] = prefix + ": " + e
	}
	for i, w := range out.Warnings {
		out.Warnings[i] = prefix + ": " + w
	}
	return out
}
