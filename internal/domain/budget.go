package domain

import (
	"math"
	"strconv"
	"time"

	"github.com/juju/errors"
)

// Budget (orçamento) quotes a set of services and parts for one client.
// Total and Discount are derived from the lines and are never taken from a
// caller.
type Budget struct {
	ID        int64
	ClientID  int64
	CreatedAt time.Time // date only
	Total     float64
	Discount  float64

	// Related data. The repository fills the lines; Client is set only by NewBudget.
	Client       *Client
	ServiceLines []*BudgetServiceLine
	PartLines    []*BudgetPartLine
}

type BudgetServiceLine struct {
	ID       int64
	BudgetID int64
	Service  *Service
	Quantity int
}

type BudgetPartLine struct {
	ID       int64
	BudgetID int64
	Part     *Part
	Quantity int
}

// NewBudget creates an empty budget for client dated on the day of now
func NewBudget(client *Client, now time.Time) *Budget {
	return &Budget{
		ClientID:     client.ID,
		Client:       client,
		CreatedAt:    DateOf(now),
		ServiceLines: make([]*BudgetServiceLine, 0),
		PartLines:    make([]*BudgetPartLine, 0),
	}
}

// DateOf truncates t to midnight in its own location
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// ReplaceLines discards every existing line and binds the given ones to the budget
func (b *Budget) ReplaceLines(services []*BudgetServiceLine, parts []*BudgetPartLine) {
	for _, l := range services {
		l.BudgetID = b.ID
	}
	for _, l := range parts {
		l.BudgetID = b.ID
	}
	b.ServiceLines = services
	b.PartLines = parts
}

// Recalculate overwrites Total and Discount from the current lines
func (b *Budget) Recalculate(policy DiscountPolicy) {
	t := ComputeTotals(b.ServiceLines, b.PartLines, policy)
	b.Total = t.Total
	b.Discount = t.Discount
}

// AmountDue returns the total after the discount
func (b *Budget) AmountDue() float64 {
	return roundCents(b.Total - b.Discount)
}

// Amount returns price times quantity for the line
func (l *BudgetServiceLine) Amount() float64 {
	return l.Service.Price * float64(l.Quantity)
}

// Amount returns price times quantity for the line
func (l *BudgetPartLine) Amount() float64 {
	return l.Part.Price * float64(l.Quantity)
}

// ValidateQuantity rejects zero and negative line quantities
func ValidateQuantity(kind string, refID int64, quantity int) error {
	if quantity <= 0 {
		return errors.NewNotValid(nil, kind+" quantity must be greater than zero: id "+strconv.FormatInt(refID, 10))
	}
	return nil
}

// Validate returns an error if the budget cannot be persisted
func (b *Budget) Validate() error {
	if b.ClientID <= 0 {
		return errors.NewNotValid(nil, "budget client is required")
	}
	if b.CreatedAt.IsZero() {
		return errors.NewNotValid(nil, "budget creation date is required")
	}
	for _, l := range b.ServiceLines {
		if l.Service == nil {
			return errors.NewNotValid(nil, "service line without service")
		}
		if err := ValidateQuantity("service", l.Service.ID, l.Quantity); err != nil {
			return err
		}
	}
	for _, l := range b.PartLines {
		if l.Part == nil {
			return errors.NewNotValid(nil, "part line without part")
		}
		if err := ValidateQuantity("part", l.Part.ID, l.Quantity); err != nil {
			return err
		}
	}
	return nil
}

// Totals is the derived money of a budget.
type Totals struct {
	Total    float64
	Discount float64
}

// DiscountPolicy maps the raw line sum to the amount deducted from it.
type DiscountPolicy func(subtotal float64) float64

// NoDiscount never deducts anything
func NoDiscount(float64) float64 { return 0 }

// ThresholdDiscount deducts rate*subtotal once subtotal reaches threshold.
func ThresholdDiscount(threshold, rate float64) DiscountPolicy {
	return func(subtotal float64) float64 {
		if rate <= 0 || subtotal < threshold {
			return 0
		}
		return subtotal * rate
	}
}

// ComputeTotals sums price*quantity over every line and applies policy to
// the sum. The discount is clamped to [0, total]. A nil policy means no discount.
func ComputeTotals(services []*BudgetServiceLine, parts []*BudgetPartLine, policy DiscountPolicy) Totals {
	var sum float64
	for _, l := range services {
		sum += l.Amount()
	}
	for _, l := range parts {
		sum += l.Amount()
	}
	sum = roundCents(sum)

	if policy == nil {
		policy = NoDiscount
	}
	discount := roundCents(policy(sum))
	if discount < 0 {
		discount = 0
	}
	if discount > sum {
		discount = sum
	}
	return Totals{Total: sum, Discount: discount}
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
