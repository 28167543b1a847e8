package receipt

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zombor/receipt-processor/internal/parsing"
)

var (
	// ErrInvalidReceipt is returned when a receipt cannot be normalized
	ErrInvalidReceipt = errors.New("invalid receipt")

	// ErrNotFound is returned when no points are stored for an ID
	ErrNotFound = errors.New("receipt not found")
)

// Item is a line item as submitted by the client
type Item struct {
	ShortDescription string `json:"shortDescription"`
	Price            string `json:"price"`
}

// ProcessRequest is a receipt as submitted by the client
type ProcessRequest struct {
	Retailer     string `json:"retailer"`
	PurchaseDate string `json:"purchaseDate"`
	PurchaseTime string `json:"purchaseTime"`
	Items        []Item `json:"items"`
	Total        string `json:"total"`
}

// LineItem is a normalized line item
type LineItem struct {
	Description string
	Price       parsing.Amount
}

// Receipt is a normalized receipt. It only lives for one request; the store
// keeps its ID and points.
type Receipt struct {
	Retailer     string
	PurchaseDate parsing.Date
	PurchaseTime parsing.TimeOfDay
	Items        []LineItem
	Total        parsing.Amount
}

// Normalize validates a submitted receipt and converts its text fields into
// typed values. Every failure wraps ErrInvalidReceipt.
func Normalize(req ProcessRequest) (*Receipt, error) {
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: no items", ErrInvalidReceipt)
	}

	date, ok := parsing.ParseDate(req.PurchaseDate)
	if !ok {
		return nil, fmt.Errorf("%w: unparseable purchase date %q", ErrInvalidReceipt, req.PurchaseDate)
	}

	clock, ok := parsing.ParseTime(req.PurchaseTime)
	if !ok {
		return nil, fmt.Errorf("%w: unparseable purchase time %q", ErrInvalidReceipt, req.PurchaseTime)
	}

	total, err := parsing.ParseAmount(req.Total)
	if err != nil {
		return nil, fmt.Errorf("%w: total: %w", ErrInvalidReceipt, err)
	}

	items := make([]LineItem, 0, len(req.Items))
	for i, item := range req.Items {
		price, err := parsing.ParseAmount(item.Price)
		if err != nil {
			return nil, fmt.Errorf("%w: item %d price: %w", ErrInvalidReceipt, i, err)
		}
		items = append(items, LineItem{Description: item.ShortDescription, Price: price})
	}

	return &Receipt{
		Retailer:     req.Retailer,
		PurchaseDate: date,
		PurchaseTime: clock,
		Items:        items,
		Total:        total,
	}, nil
}

// Trimmed returns a copy of the receipt with whitespace removed from both
// ends of every item description.
func (r *Receipt) Trimmed() *Receipt {
	out := *r
	out.Items = make([]LineItem, len(r.Items))
	for i, item := range r.Items {
		out.Items[i] = LineItem{Description: strings.TrimSpace(item.Description), Price: item.Price}
	}
	return &out
}
