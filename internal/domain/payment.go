package domain

import "github.com/shopspring/decimal"

// CartItem is one line of the buyer's cart as sent by the storefront.
type CartItem struct {
	Name        string          `json:"name" validate:"required"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity" validate:"gt=0"`
	ImageURL    string          `json:"imageUrl,omitempty"`
	Description string          `json:"description,omitempty"`
}

// LineItem is a cart item translated for the payment provider.
type LineItem struct {
	Title       string
	UnitPrice   decimal.Decimal
	Quantity    int
	CurrencyID  string
	PictureURL  string
	Description string
}

// BackURLs are the storefront pages the provider redirects the buyer to.
type BackURLs struct {
	Success string
	Pending string
	Failure string
}

// PaymentIntent is the purchase intent handed to the provider. It is never
// persisted.
type PaymentIntent struct {
	Items             []LineItem
	PayerEmail        string
	ExternalReference string
	NotificationURL   string
	BackURLs          BackURLs
	AutoReturn        string
}

// ToLineItem maps a cart item to a provider line item in currency. The
// description falls back to the item name.
func (c CartItem) ToLineItem(currency string) LineItem {
	desc := c.Description
	if desc == "" {
		desc = c.Name
	}
	return LineItem{
		Title:       c.Name,
		UnitPrice:   c.Price,
		Quantity:    c.Quantity,
		CurrencyID:  currency,
		PictureURL:  c.ImageURL,
		Description: desc,
	}
}

// PaymentStatus is the authoritative state of a payment as fetched from
// the provider.
type PaymentStatus struct {
	ID                int64
	Status            string
	PaymentTypeID     string
	ExternalReference string
}

// Approved reports whether the payment has been approved.
func (p *PaymentStatus) Approved() bool {
	return p.Status == PaymentStatusApproved
}
