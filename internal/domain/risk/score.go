// Package risk holds the deterministic invoice risk scoring engine. It is a
// pure function over invoice attributes and the fraud verdict; the same
// inputs always produce the same assessment.
package risk

import "time"

type Category string

const (
	CategoryLow    Category = "low"
	CategoryMedium Category = "medium"
	CategoryHigh   Category = "high"
)

type Verdict string

const (
	VerdictPending Verdict = "pending"
	VerdictPassed  Verdict = "passed"
	VerdictFailed  Verdict = "failed"
)

const (
	baseScore = 50

	largeAmount = 100_000
	smallAmount = 10_000
	shortDue    = 30
	longDue     = 90

	lowBand    = 70
	mediumBand = 40
)

type Input struct {
	Amount         float64
	DaysToDue      int
	BuyerConfirmed bool
	FraudVerdict   Verdict
}

type Factor struct {
	Factor string `json:"factor"`
	Weight int    `json:"weight"`
}

type Assessment struct {
	Score      int       `json:"score"`
	Category   Category  `json:"category"`
	Factors    []Factor  `json:"factors"`
	AssessedAt time.Time `json:"assessed_at"`
}

// Score starts from a base of 50 and applies signed adjustments for amount
// band, due-date horizon, buyer confirmation and fraud verdict, clamped to
// [0, 100]. The resulting score, not the raw fraud verdict, gates
// auto-listing.
func Score(in Input) Assessment {
	score := baseScore
	var factors []Factor

	apply := func(name string, weight int) {
		score += weight
		factors = append(factors, Factor{Factor: name, Weight: weight})
	}

	if in.Amount > largeAmount {
		apply("large_face_amount", -10)
	}
	if in.Amount < smallAmount {
		apply("small_face_amount", +10)
	}
	if in.DaysToDue < shortDue {
		apply("short_maturity", -15)
	}
	if in.DaysToDue > longDue {
		apply("long_maturity", +10)
	}
	if in.BuyerConfirmed {
		apply("buyer_confirmed", +20)
	}
	switch in.FraudVerdict {
	case VerdictPassed:
		apply("fraud_check_passed", +15)
	case VerdictFailed:
		apply("fraud_check_failed", -30)
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	return Assessment{
		Score:      score,
		Category:   Categorize(score),
		Factors:    factors,
		AssessedAt: time.Now().UTC(),
	}
}

// Categorize maps a score to its band: >=70 low risk, >=40 medium, else high.
func Categorize(score int) Category {
	switch {
	case score >= lowBand:
		return CategoryLow
	case score >= mediumBand:
		return CategoryMedium
	default:
		return CategoryHigh
	}
}
