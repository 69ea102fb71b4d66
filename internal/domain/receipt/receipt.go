// Package receipt turns a stored order into a one-page A4 receipt.
package receipt

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"drycleaning/internal/domain/client"
	"drycleaning/internal/domain/order"
	"drycleaning/internal/pkg/money"
)

const dateLayout = "02.01.2006 15:04"

// Branch is the shop identity printed in the header.
type Branch struct {
	Code     string
	Name     string
	Address  string
	Phone    string
	Location *time.Location
}

// Line is one label/value row.
type Line struct {
	Label string
	Value string
	Bold  bool
}

type Header struct {
	Title    string
	Subtitle string
	Lines    []Line
}

type ItemRow struct {
	No        string
	Name      string
	Quantity  string
	UnitPrice string
	Total     string
	Details   string
}

type Items struct {
	Title   string
	Columns [5]string
	Rows    []ItemRow
}

type Section struct {
	Title string
	Lines []Line
}

type Footer struct {
	Lines    []Line
	ThankYou string
}

// Receipt is the five sections of a receipt with every value already formatted.
type Receipt struct {
	Locale   string
	Header   Header
	Customer Section
	Items    Items
	Summary  Section
	Footer   Footer
}

// Value returns the value of the first summary line with the given label.
func (s Section) Value(label string) (string, bool) {
	for _, l := range s.Lines {
		if l.Label == label {
			return l.Value, true
		}
	}
	return "", false
}

func Build(o *order.Order, c *client.Client, b Branch, m Messages) Receipt {
	loc := b.Location
	if loc == nil {
		loc = time.Local
	}

	r := Receipt{Locale: m.Locale}

	r.Header = Header{
		Title:    m.Title,
		Subtitle: fmt.Sprintf("%s %s %s %s", m.ReceiptNo, o.ReceiptNumber, m.From, o.CreatedAt.In(loc).Format(dateLayout)),
	}
	r.Header.Lines = appendNonEmpty(r.Header.Lines,
		Line{Label: m.Branch, Value: b.Name},
		Line{Label: m.Address, Value: b.Address},
		Line{Label: m.Phone, Value: b.Phone},
		Line{Label: m.TagNumber, Value: o.TagNumber},
	)

	r.Customer = Section{Title: m.Client}
	if c != nil {
		var email string
		if c.Email != nil {
			email = *c.Email
		}
		r.Customer.Lines = appendNonEmpty(r.Customer.Lines,
			Line{Label: m.Client, Value: strings.TrimSpace(c.LastName + " " + c.FirstName)},
			Line{Label: m.Phone, Value: c.Phone},
			Line{Label: m.Email, Value: email},
			Line{Label: m.Address, Value: c.Address},
		)
	}

	r.Items = Items{
		Title:   m.ItemsHeader,
		Columns: [5]string{m.ColNo, m.ColName, m.ColQuantity, m.ColPrice, m.ColTotal},
	}
	for i := range o.Items {
		r.Items.Rows = append(r.Items.Rows, itemRow(i+1, &o.Items[i], m))
	}

	r.Summary = summary(o, m)

	completion := o.ExpectedCompletionAt.In(loc).Format(dateLayout) + " (" + m.AfterHour + ")"
	r.Footer = Footer{ThankYou: m.ThankYou}
	r.Footer.Lines = appendNonEmpty(r.Footer.Lines,
		Line{Label: m.CompletionDate, Value: completion},
		Line{Label: m.Urgency, Value: lookup(m.Urgencies, o.Urgency)},
		Line{Label: m.Notes, Value: o.CustomerNotes},
	)
	return r
}

func itemRow(n int, it *order.OrderItem, m Messages) ItemRow {
	row := ItemRow{
		No:        strconv.Itoa(n),
		Name:      it.Name,
		Quantity:  strings.TrimSpace(fmt.Sprintf("%d %s", it.Quantity, it.Unit)),
		UnitPrice: money.FormatUAH(it.BasePrice),
		Total:     money.FormatUAH(it.FinalPrice),
	}

	var details []string
	if len(it.Modifiers) > 0 {
		names := make([]string, 0, len(it.Modifiers))
		for _, mod := range it.Modifiers {
			names = append(names, fmt.Sprintf("%s (%s)", mod.Name, signed(mod.Delta)))
		}
		details = append(details, m.ModifiersPrefix+": "+strings.Join(names, ", "))
	}
	if it.NoWarranty {
		details = append(details, m.NoWarranty)
	}
	row.Details = strings.Join(details, "; ")
	return row
}

func summary(o *order.Order, m Messages) Section {
	s := Section{Title: m.SummaryHeader}
	s.Lines = append(s.Lines, Line{Label: m.Subtotal, Value: money.FormatUAH(o.Subtotal)})
	if !o.UrgencySurcharge.IsZero() {
		s.Lines = append(s.Lines, Line{Label: m.Urgency, Value: money.FormatUAH(o.UrgencySurcharge)})
	}
	if !o.DiscountAmount.IsZero() {
		label := fmt.Sprintf("%s (%s, %s%%)", m.Discount, lookup(m.Discounts, o.DiscountType), o.DiscountPercent.String())
		s.Lines = append(s.Lines, Line{Label: label, Value: "-" + money.FormatUAH(o.DiscountAmount)})
	}
	s.Lines = append(s.Lines,
		Line{Label: m.Total, Value: money.FormatUAH(o.Total), Bold: true},
		Line{Label: m.Prepaid, Value: money.FormatUAH(o.PaidAmount)},
		Line{Label: m.Due, Value: money.FormatUAH(o.Total.Sub(o.PaidAmount)), Bold: true},
	)

	method := m.NotSpecified
	if o.PaymentMethod != "" {
		method = lookup(m.PaymentMethods, o.PaymentMethod)
	}
	s.Lines = append(s.Lines, Line{Label: m.PaymentMethod, Value: method})
	return s
}

func appendNonEmpty(lines []Line, add ...Line) []Line {
	for _, l := range add {
		if strings.TrimSpace(l.Value) != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

func signed(d decimal.Decimal) string {
	if d.IsPositive() {
		return "+" + money.FormatUAH(d)
	}
	return money.FormatUAH(d)
}
