package receipt

import (
	"strings"

	"drycleaning/internal/domain/order"
	"drycleaning/internal/domain/pricing"
)

// Messages holds every label printed on a receipt for one locale.
type Messages struct {
	Locale string

	Title           string
	ReceiptNo       string
	From            string
	TagNumber       string
	Branch          string
	Address         string
	Phone           string
	Email           string
	Client          string
	ItemsHeader     string
	ColNo           string
	ColName         string
	ColQuantity     string
	ColPrice        string
	ColTotal        string
	ModifiersPrefix string
	SummaryHeader   string
	Subtotal        string
	Urgency         string
	Discount        string
	Total           string
	Prepaid         string
	Due             string
	PaymentMethod   string
	NotSpecified    string
	CompletionDate  string
	AfterHour       string
	Notes           string
	ThankYou        string
	NoWarranty      string

	Urgencies      map[pricing.Urgency]string
	Discounts      map[pricing.DiscountType]string
	PaymentMethods map[order.PaymentMethod]string
}

func UkrainianMessages() Messages {
	return Messages{
		Locale:          "uk",
		Title:           "КВИТАНЦІЯ",
		ReceiptNo:       "Квитанція №",
		From:            "від",
		TagNumber:       "Унікальна мітка",
		Branch:          "Філія",
		Address:         "Адреса",
		Phone:           "Телефон",
		Email:           "Email",
		Client:          "Клієнт",
		ItemsHeader:     "Список предметів",
		ColNo:           "№",
		ColName:         "Найменування",
		ColQuantity:     "Кіл-ть",
		ColPrice:        "Ціна",
		ColTotal:        "Сума",
		ModifiersPrefix: "Модифікатори",
		SummaryHeader:   "Фінансова інформація",
		Subtotal:        "Загальна вартість",
		Urgency:         "Надбавка за терміновість",
		Discount:        "Знижка",
		Total:           "Фінальна сума",
		Prepaid:         "Передоплата",
		Due:             "Залишок до сплати",
		PaymentMethod:   "Спосіб оплати",
		NotSpecified:    "Не вказано",
		CompletionDate:  "Очікувана дата завершення",
		AfterHour:       "після 14:00",
		Notes:           "Примітки",
		ThankYou:        "Дякуємо за замовлення!",
		NoWarranty:      "без гарантії",
		Urgencies: map[pricing.Urgency]string{
			pricing.UrgencyNormal: "Звичайне",
			pricing.Urgency48h:    "Термінове 48 год",
			pricing.Urgency24h:    "Термінове 24 год",
		},
		Discounts: map[pricing.DiscountType]string{
			pricing.DiscountEvercard:    "Еверкард",
			pricing.DiscountSocialMedia: "Соцмережі",
			pricing.DiscountMilitary:    "ЗСУ",
			pricing.DiscountCustom:      "Інша",
		},
		PaymentMethods: map[order.PaymentMethod]string{
			order.PaymentTerminal:     "Термінал",
			order.PaymentCash:         "Готівка",
			order.PaymentBankTransfer: "На рахунок",
		},
	}
}

func EnglishMessages() Messages {
	return Messages{
		Locale:          "en",
		Title:           "RECEIPT",
		ReceiptNo:       "Receipt No.",
		From:            "of",
		TagNumber:       "Tag",
		Branch:          "Branch",
		Address:         "Address",
		Phone:           "Phone",
		Email:           "Email",
		Client:          "Client",
		ItemsHeader:     "Items",
		ColNo:           "No.",
		ColName:         "Item",
		ColQuantity:     "Qty",
		ColPrice:        "Price",
		ColTotal:        "Total",
		ModifiersPrefix: "Modifiers",
		SummaryHeader:   "Summary",
		Subtotal:        "Subtotal",
		Urgency:         "Urgency surcharge",
		Discount:        "Discount",
		Total:           "Total",
		Prepaid:         "Prepaid",
		Due:             "Amount due",
		PaymentMethod:   "Payment method",
		NotSpecified:    "Not specified",
		CompletionDate:  "Expected completion",
		AfterHour:       "after 14:00",
		Notes:           "Notes",
		ThankYou:        "Thank you for your order!",
		NoWarranty:      "no warranty",
		Urgencies: map[pricing.Urgency]string{
			pricing.UrgencyNormal: "Standard",
			pricing.Urgency48h:    "Urgent 48h",
			pricing.Urgency24h:    "Urgent 24h",
		},
		Discounts: map[pricing.DiscountType]string{
			pricing.DiscountEvercard:    "Evercard",
			pricing.DiscountSocialMedia: "Social media",
			pricing.DiscountMilitary:    "Military",
			pricing.DiscountCustom:      "Custom",
		},
		PaymentMethods: map[order.PaymentMethod]string{
			order.PaymentTerminal:     "Card terminal",
			order.PaymentCash:         "Cash",
			order.PaymentBankTransfer: "Bank transfer",
		},
	}
}

// MessagesFor picks the label set of a locale, falling back to Ukrainian.
func MessagesFor(locale string) Messages {
	switch strings.ToLower(strings.TrimSpace(locale)) {
	case "en":
		return EnglishMessages()
	default:
		return UkrainianMessages()
	}
}

func lookup[K ~string](labels map[K]string, key K) string {
	if v, ok := labels[key]; ok {
		return v
	}
	return string(key)
}
