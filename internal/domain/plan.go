package domain

// Plan is a subscription tier with a fixed monthly price.
type Plan string

const (
	PlanBasic   Plan = "Basic"
	PlanPremium Plan = "Premium"
	PlanPro     Plan = "Pro"
)

var planPrices = map[Plan]float64{
	PlanBasic:   9.99,
	PlanPremium: 29.99,
	PlanPro:     49.99,
}

// Valid reports whether p is a known plan.
func (p Plan) Valid() bool {
	_, ok := planPrices[p]
	return ok
}

// PlanPrice returns the monthly price of a plan, or 0 for an unknown plan.
func PlanPrice(p Plan) float64 {
	return planPrices[p]
}
