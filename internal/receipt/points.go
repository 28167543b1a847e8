package receipt

import (
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/zombor/receipt-processor/internal/parsing"
)

var (
	quarter         = decimal.RequireFromString("0.25")
	descriptionRate = decimal.RequireFromString("0.2")

	afternoonStart = parsing.NewTimeOfDay(14, 0, 0, 0)
	afternoonEnd   = parsing.NewTimeOfDay(16, 0, 0, 0)
)

// Rule awards points for one property of a receipt. Rules never subtract.
type Rule interface {
	Name() string
	Points(r *Receipt) int
}

type ruleFunc struct {
	name string
	fn   func(r *Receipt) int
}

func (f ruleFunc) Name() string { return f.name }
func (f ruleFunc) Points(r *Receipt) int { return f.fn(r) }

// NewRule builds a Rule from a function
func NewRule(name string, fn func(r *Receipt) int) Rule {
	return ruleFunc{name: name, fn: fn}
}

// DefaultRules returns the reward rules in evaluation order
func DefaultRules() []Rule {
	return []Rule{
		NewRule("retailer-name", retailerNamePoints),
		NewRule("round-total", roundTotalPoints),
		NewRule("quarter-total", quarterTotalPoints),
		NewRule("item-pairs", itemPairPoints),
		NewRule("odd-day", oddDayPoints),
		NewRule("description-length", descriptionLengthPoints),
		NewRule("afternoon", afternoonPoints),
	}
}

// RuleResult is the contribution of a single rule
type RuleResult struct {
	Rule   string `json:"rule"`
	Points int    `json:"points"`
}

// Scorer sums the points of a set of rules
type Scorer struct {
	rules []Rule
}

// NewScorer creates a Scorer. With no rules it uses DefaultRules.
func NewScorer(rules ...Rule) *Scorer {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Scorer{rules: rules}
}

// Score returns the total points for a receipt whose item descriptions have
// already been trimmed.
func (s *Scorer) Score(r *Receipt) int {
	return Total(s.Explain(r))
}

// Explain returns each rule's contribution in evaluation order
func (s *Scorer) Explain(r *Receipt) []RuleResult {
	results := make([]RuleResult, 0, len(s.rules))
	for _, rule := range s.rules {
		results = append(results, RuleResult{Rule: rule.Name(), Points: rule.Points(r)})
	}
	return results
}

// Total sums rule contributions
func Total(results []RuleResult) int {
	total := 0
	for _, res := range results {
		total += res.Points
	}
	return total
}

// One point for every alphanumeric character in the retailer name.
func retailerNamePoints(r *Receipt) int {
	n := 0
	for _, c := range r.Retailer {
		if unicode.IsLetter(c) || unicode.IsNumber(c) {
			n++
		}
	}
	return n
}

// 50 points if the total is a round dollar amount.
func roundTotalPoints(r *Receipt) int {
	if r.Total.Decimal().IsInteger() {
		return 50
	}
	return 0
}

// 25 points if the total is a multiple of 0.25.
func quarterTotalPoints(r *Receipt) int {
	if r.Total.Decimal().Mod(quarter).IsZero() {
		return 25
	}
	return 0
}

// 5 points for every two items.
func itemPairPoints(r *Receipt) int {
	return len(r.Items) / 2 * 5
}

// 6 points if the day of the purchase date is odd.
func oddDayPoints(r *Receipt) int {
	if r.PurchaseDate.Day%2 != 0 {
		return 6
	}
	return 0
}

// For each item whose description length is a multiple of 3, the price
// times 0.2 rounded up.
func descriptionLengthPoints(r *Receipt) int {
	n := 0
	for _, item := range r.Items {
		if utf8.RuneCountInString(item.Description)%3 != 0 {
			continue
		}
		n += int(item.Price.Decimal().Mul(descriptionRate).Ceil().IntPart())
	}
	return n
}

// 10 points if the purchase time is after 14:00 and before 16:00.
func afternoonPoints(r *Receipt) int {
	if r.PurchaseTime.After(afternoonStart) && r.PurchaseTime.Before(afternoonEnd) {
		return 10
	}
	return 0
}
