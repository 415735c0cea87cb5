package ledger

import (
	"math"
	"testing"
)

// applySuggestions plays the suggested payments back onto the balances and
// returns the residual per member.
func applySuggestions(balances []Balance, suggestions []SuggestedSettlement) map[string]float64 {
	residual := make(map[string]float64, len(balances))
	for _, b := range balances {
		residual[b.MemberID] = b.Total
	}
	for _, s := range suggestions {
		residual[s.FromID] += s.Amount
		residual[s.ToID] -= s.Amount
	}
	return residual
}

// assertConserved verifies the greedy precondition: total debt equals total
// credit. The matcher is only transaction-count optimal under conservation,
// so every fixture must satisfy it.
func assertConserved(t *testing.T, balances []Balance) {
	t.Helper()
	sum := 0.0
	for _, b := range balances {
		sum += b.Total
	}
	if math.Abs(sum) > 1e-6 {
		t.Fatalf("fixture violates conservation: balances sum to %v", sum)
	}
}

func TestSuggestSettlements(t *testing.T) {
	tests := []struct {
		name         string
		balances     []Balance
		validateFunc func(t *testing.T, got []SuggestedSettlement)
	}{
		{
			name: "one debtor one creditor",
			balances: []Balance{
				{MemberID: "A", Total: 25},
				{MemberID: "B", Total: -25},
			},
			validateFunc: func(t *testing.T, got []SuggestedSettlement) {
				if len(got) != 1 {
					t.Fatalf("got %d suggestions, want 1", len(got))
				}
				if got[0].FromID != "B" || got[0].ToID != "A" || got[0].Amount != 25 {
					t.Errorf("suggestion = %+v, want B pays A 25", got[0])
				}
			},
		},
		{
			name: "largest debtor pays largest creditor first",
			balances: []Balance{
				{MemberID: "A", Total: 50},
				{MemberID: "B", Total: -20},
				{MemberID: "C", Total: -30},
			},
			validateFunc: func(t *testing.T, got []SuggestedSettlement) {
				if len(got) != 2 {
					t.Fatalf("got %d suggestions, want 2", len(got))
				}
				if got[0].FromID != "C" || got[0].Amount != 30 {
					t.Errorf("first suggestion = %+v, want C pays 30", got[0])
				}
				if got[1].FromID != "B" || got[1].Amount != 20 {
					t.Errorf("second suggestion = %+v, want B pays 20", got[1])
				}
			},
		},
		{
			name: "one debtor split across two creditors",
			balances: []Balance{
				{MemberID: "A", Total: 60},
				{MemberID: "B", Total: 40},
				{MemberID: "C", Total: -100},
			},
			validateFunc: func(t *testing.T, got []SuggestedSettlement) {
				if len(got) != 2 {
					t.Fatalf("got %d suggestions, want 2", len(got))
				}
				if got[0].ToID != "A" || got[0].Amount != 60 {
					t.Errorf("first suggestion = %+v, want 60 to A", got[0])
				}
				if got[1].ToID != "B" || got[1].Amount != 40 {
					t.Errorf("second suggestion = %+v, want 40 to B", got[1])
				}
			},
		},
		{
			name: "equal amounts keep member order",
			balances: []Balance{
				{MemberID: "A", Total: 20},
				{MemberID: "B", Total: -10},
				{MemberID: "C", Total: -10},
			},
			validateFunc: func(t *testing.T, got []SuggestedSettlement) {
				if len(got) != 2 {
					t.Fatalf("got %d suggestions, want 2", len(got))
				}
				if got[0].FromID != "B" || got[1].FromID != "C" {
					t.Errorf("suggestions = %+v, want B before C", got)
				}
			},
		},
		{
			name: "sub-epsilon balances are already settled",
			balances: []Balance{
				{MemberID: "A", Total: 0.005},
				{MemberID: "B", Total: -0.005},
			},
			validateFunc: func(t *testing.T, got []SuggestedSettlement) {
				if len(got) != 0 {
					t.Errorf("suggestions = %+v, want none", got)
				}
			},
		},
		{
			name: "fractional cents round to paid resolution",
			balances: []Balance{
				{MemberID: "A", Total: 66.66},
				{MemberID: "B", Total: -33.33},
				{MemberID: "C", Total: -33.33},
			},
			validateFunc: func(t *testing.T, got []SuggestedSettlement) {
				for _, s := range got {
					if s.Amount != round2(s.Amount) {
						t.Errorf("amount %v not rounded to 2 decimals", s.Amount)
					}
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertConserved(t, tt.balances)

			got := suggestSettlements(tt.balances)

			// Applying every suggestion must settle everyone.
			for id, r := range applySuggestions(tt.balances, got) {
				if math.Abs(r) > epsilon {
					t.Errorf("%s residual = %v after applying suggestions, want 0", id, r)
				}
			}
			for _, s := range got {
				if s.Amount <= 0 {
					t.Errorf("non-positive suggestion amount: %+v", s)
				}
			}
			if tt.validateFunc != nil {
				tt.validateFunc(t, got)
			}
		})
	}
}

func TestSuggestSettlements_TransactionBound(t *testing.T) {
	// With d debtors and c creditors the greedy match emits at most
	// d+c-1 payments.
	balances := []Balance{
		{MemberID: "A", Total: 70},
		{MemberID: "B", Total: 30},
		{MemberID: "C", Total: 11},
		{MemberID: "D", Total: -41},
		{MemberID: "E", Total: -37},
		{MemberID: "F", Total: -33},
	}
	assertConserved(t, balances)

	got := suggestSettlements(balances)
	if max := 3 + 3 - 1; len(got) > max {
		t.Errorf("got %d suggestions, want at most %d", len(got), max)
	}

	for id, r := range applySuggestions(balances, got) {
		if math.Abs(r) > epsilon {
			t.Errorf("%s residual = %v, want 0", id, r)
		}
	}
}

func TestRound2(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{33.333333, 33.33},
		{33.336, 33.34},
		{0.004, 0.0},
		{19.999, 20.0},
	}
	for _, tt := range tests {
		if got := round2(tt.in); got != tt.want {
			t.Errorf("round2(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
