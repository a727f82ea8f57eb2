package risk

import "testing"

func TestScore_ConfirmedMidRangeInvoice(t *testing.T) {
	// 50k face, 60 days out, confirmed, fraud passed:
	// 50 + 20 + 15 = 85 → low
	a := Score(Input{
		Amount:         50_000,
		DaysToDue:      60,
		BuyerConfirmed: true,
		FraudVerdict:   VerdictPassed,
	})
	if a.Score != 85 {
		t.Fatalf("score = %d, want 85", a.Score)
	}
	if a.Category != CategoryLow {
		t.Fatalf("category = %s, want low", a.Category)
	}
	if len(a.Factors) != 2 {
		t.Fatalf("factors = %+v, want buyer_confirmed and fraud_check_passed", a.Factors)
	}
}

func TestScore_Adjustments(t *testing.T) {
	tests := []struct {
		name string
		in   Input
		want int
	}{
		{"base only", Input{Amount: 50_000, DaysToDue: 60}, 50},
		{"large amount", Input{Amount: 150_000, DaysToDue: 60}, 40},
		{"small amount", Input{Amount: 5_000, DaysToDue: 60}, 60},
		{"short maturity", Input{Amount: 50_000, DaysToDue: 15}, 35},
		{"long maturity", Input{Amount: 50_000, DaysToDue: 120}, 60},
		{"fraud failed", Input{Amount: 50_000, DaysToDue: 60, FraudVerdict: VerdictFailed}, 20},
		{"fraud pending is neutral", Input{Amount: 50_000, DaysToDue: 60, FraudVerdict: VerdictPending}, 50},
		{
			"worst case clamps at zero",
			Input{Amount: 150_000, DaysToDue: 5, FraudVerdict: VerdictFailed},
			0, // 50-10-15-30 = -5 → 0
		},
		{
			"best case stays under cap",
			Input{Amount: 5_000, DaysToDue: 120, BuyerConfirmed: true, FraudVerdict: VerdictPassed},
			100, // 50+10+10+20+15 = 105 → 100
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Score(tc.in).Score; got != tc.want {
				t.Errorf("Score(%+v) = %d, want %d", tc.in, got, tc.want)
			}
		})
	}
}

func TestScore_Deterministic(t *testing.T) {
	in := Input{Amount: 80_000, DaysToDue: 45, BuyerConfirmed: true, FraudVerdict: VerdictPassed}
	first := Score(in)
	for i := 0; i < 10; i++ {
		if got := Score(in); got.Score != first.Score || got.Category != first.Category {
			t.Fatalf("non-deterministic score: %+v vs %+v", got, first)
		}
	}
}

func TestCategorize(t *testing.T) {
	tests := []struct {
		score int
		want  Category
	}{
		{100, CategoryLow},
		{70, CategoryLow},
		{69, CategoryMedium},
		{40, CategoryMedium},
		{39, CategoryHigh},
		{0, CategoryHigh},
	}
	for _, tc := range tests {
		if got := Categorize(tc.score); got != tc.want {
			t.Errorf("Categorize(%d) = %s, want %s", tc.score, got, tc.want)
		}
	}
}
