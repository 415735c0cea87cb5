package ledger

import (
	"math"
	"reflect"
	"testing"
)

func members(ids ...string) []Member {
	ms := make([]Member, len(ids))
	for i, id := range ids {
		ms[i] = Member{ID: id, DisplayName: id}
	}
	return ms
}

// checkConservation asserts that net balances sum to zero.
func checkConservation(t *testing.T, balances []Balance) {
	t.Helper()
	sum := 0.0
	for _, b := range balances {
		sum += b.Total
	}
	if math.Abs(sum) > 1e-6 {
		t.Errorf("balances sum to %v, want 0", sum)
	}
}

func TestCompute(t *testing.T) {
	tests := []struct {
		name         string
		snap         Snapshot
		validateFunc func(t *testing.T, res Result)
	}{
		{
			name: "equal split with one settlement",
			// A pays 90 split three ways; A's own share is excluded.
			// B then repays 10. Expected: A=+50, B=-20, C=-30, and the
			// suggestions settle the largest debtor first.
			snap: Snapshot{
				Members: members("A", "B", "C"),
				Expenses: []Expense{
					{PayerID: "A", Splits: []Split{
						{MemberID: "A", Amount: 30},
						{MemberID: "B", Amount: 30},
						{MemberID: "C", Amount: 30},
					}},
				},
				Settlements: []Settlement{
					{PayerID: "B", ReceiverID: "A", Amount: 10},
				},
			},
			validateFunc: func(t *testing.T, res Result) {
				want := map[string]float64{"A": 50, "B": -20, "C": -30}
				for _, b := range res.Balances {
					if math.Abs(b.Total-want[b.MemberID]) > 0.01 {
						t.Errorf("%s balance = %v, want %v", b.MemberID, b.Total, want[b.MemberID])
					}
				}

				wantSuggestions := []SuggestedSettlement{
					{FromID: "C", ToID: "A", Amount: 30},
					{FromID: "B", ToID: "A", Amount: 20},
				}
				if !reflect.DeepEqual(res.SuggestedSettlements, wantSuggestions) {
					t.Errorf("suggestions = %+v, want %+v", res.SuggestedSettlements, wantSuggestions)
				}
			},
		},
		{
			name: "mutual debts net to one direction",
			snap: Snapshot{
				Members: members("A", "B"),
				Expenses: []Expense{
					{PayerID: "B", Splits: []Split{{MemberID: "A", Amount: 40}}},
					{PayerID: "A", Splits: []Split{{MemberID: "B", Amount: 25}}},
				},
			},
			validateFunc: func(t *testing.T, res Result) {
				a := res.Balances[0]
				if math.Abs(a.Total-(-15)) > 0.01 {
					t.Errorf("A balance = %v, want -15", a.Total)
				}
				if len(a.Owes) != 1 || a.Owes[0].MemberID != "B" || math.Abs(a.Owes[0].Amount-15) > 0.01 {
					t.Errorf("A owes = %+v, want [{B 15}]", a.Owes)
				}
				if len(a.OwedBy) != 0 {
					t.Errorf("A owedBy = %+v, want empty", a.OwedBy)
				}

				b := res.Balances[1]
				if len(b.OwedBy) != 1 || b.OwedBy[0].MemberID != "A" || math.Abs(b.OwedBy[0].Amount-15) > 0.01 {
					t.Errorf("B owedBy = %+v, want [{A 15}]", b.OwedBy)
				}
			},
		},
		{
			name: "self split contributes nothing",
			snap: Snapshot{
				Members: members("A", "B"),
				Expenses: []Expense{
					{PayerID: "A", Splits: []Split{{MemberID: "A", Amount: 100}}},
				},
			},
			validateFunc: func(t *testing.T, res Result) {
				for _, b := range res.Balances {
					if b.Total != 0 {
						t.Errorf("%s balance = %v, want 0", b.MemberID, b.Total)
					}
				}
				if len(res.SuggestedSettlements) != 0 {
					t.Errorf("suggestions = %+v, want empty", res.SuggestedSettlements)
				}
			},
		},
		{
			name: "paid split contributes nothing regardless of amount",
			snap: Snapshot{
				Members: members("A", "B"),
				Expenses: []Expense{
					{PayerID: "A", Splits: []Split{
						{MemberID: "B", Amount: 9999.99, Paid: true},
					}},
				},
			},
			validateFunc: func(t *testing.T, res Result) {
				for _, b := range res.Balances {
					if b.Total != 0 {
						t.Errorf("%s balance = %v, want 0", b.MemberID, b.Total)
					}
				}
			},
		},
		{
			name: "zero amount splits are no-ops",
			snap: Snapshot{
				Members: members("A", "B", "C"),
				Expenses: []Expense{
					{PayerID: "A", Splits: []Split{
						{MemberID: "B", Amount: 0},
						{MemberID: "C", Amount: 12.50},
					}},
				},
			},
			validateFunc: func(t *testing.T, res Result) {
				if len(res.SuggestedSettlements) != 1 {
					t.Fatalf("suggestions = %+v, want exactly one", res.SuggestedSettlements)
				}
				s := res.SuggestedSettlements[0]
				if s.FromID != "C" || s.ToID != "A" || math.Abs(s.Amount-12.50) > 0.001 {
					t.Errorf("suggestion = %+v, want C pays A 12.50", s)
				}
			},
		},
		{
			name: "uneven three way rounding still conserves",
			snap: Snapshot{
				Members: members("A", "B", "C"),
				Expenses: []Expense{
					{PayerID: "A", Splits: []Split{
						{MemberID: "A", Amount: 33.34},
						{MemberID: "B", Amount: 33.33},
						{MemberID: "C", Amount: 33.33},
					}},
				},
			},
			validateFunc: func(t *testing.T, res Result) {
				a := res.Balances[0]
				if math.Abs(a.Total-66.66) > 0.01 {
					t.Errorf("A balance = %v, want 66.66", a.Total)
				}
			},
		},
		{
			name: "settlement overshoot reverses the debt direction",
			// B owes A 20, then pays A 50: A now owes B 30.
			snap: Snapshot{
				Members: members("A", "B"),
				Expenses: []Expense{
					{PayerID: "A", Splits: []Split{{MemberID: "B", Amount: 20}}},
				},
				Settlements: []Settlement{
					{PayerID: "B", ReceiverID: "A", Amount: 50},
				},
			},
			validateFunc: func(t *testing.T, res Result) {
				a := res.Balances[0]
				if math.Abs(a.Total-(-30)) > 0.01 {
					t.Errorf("A balance = %v, want -30", a.Total)
				}
				if len(a.Owes) != 1 || a.Owes[0].MemberID != "B" {
					t.Errorf("A owes = %+v, want [{B 30}]", a.Owes)
				}
			},
		},
		{
			name: "empty group yields empty output",
			snap: Snapshot{},
			validateFunc: func(t *testing.T, res Result) {
				if len(res.Balances) != 0 || len(res.SuggestedSettlements) != 0 {
					t.Errorf("got %+v, want empty result", res)
				}
			},
		},
		{
			name: "members with no activity have zero balances",
			snap: Snapshot{
				Members: members("A", "B", "C"),
			},
			validateFunc: func(t *testing.T, res Result) {
				if len(res.Balances) != 3 {
					t.Fatalf("got %d balances, want 3", len(res.Balances))
				}
				for _, b := range res.Balances {
					if b.Total != 0 || len(b.Owes) != 0 || len(b.OwedBy) != 0 {
						t.Errorf("%s = %+v, want all-zero", b.MemberID, b)
					}
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Compute(tt.snap)
			checkConservation(t, res.Balances)
			if tt.validateFunc != nil {
				tt.validateFunc(t, res)
			}
		})
	}
}

func TestNetPairs_Exclusivity(t *testing.T) {
	ms := members("A", "B", "C", "D")
	snap := Snapshot{
		Members: ms,
		Expenses: []Expense{
			{PayerID: "A", Splits: []Split{
				{MemberID: "B", Amount: 40}, {MemberID: "C", Amount: 10}, {MemberID: "D", Amount: 5},
			}},
			{PayerID: "B", Splits: []Split{
				{MemberID: "A", Amount: 25}, {MemberID: "C", Amount: 25},
			}},
			{PayerID: "C", Splits: []Split{
				{MemberID: "A", Amount: 8}, {MemberID: "D", Amount: 8},
			}},
		},
		Settlements: []Settlement{
			{PayerID: "B", ReceiverID: "A", Amount: 12},
			{PayerID: "D", ReceiverID: "C", Amount: 3},
		},
	}

	pairwise := buildLedger(snap, memberIndex(ms))
	netPairs(pairwise, ms)

	for _, a := range ms {
		for _, b := range ms {
			if a.ID == b.ID {
				continue
			}
			ab, ba := pairwise[a.ID][b.ID], pairwise[b.ID][a.ID]
			if ab < 0 || ba < 0 {
				t.Errorf("negative entry after netting: [%s][%s]=%v [%s][%s]=%v", a.ID, b.ID, ab, b.ID, a.ID, ba)
			}
			if ab > 0 && ba > 0 {
				t.Errorf("both directions non-zero for {%s,%s}: %v and %v", a.ID, b.ID, ab, ba)
			}
		}
	}
}

func TestCompute_Deterministic(t *testing.T) {
	snap := Snapshot{
		Members: members("u1", "u2", "u3", "u4"),
		Expenses: []Expense{
			{PayerID: "u1", Splits: []Split{
				{MemberID: "u2", Amount: 17.5}, {MemberID: "u3", Amount: 17.5}, {MemberID: "u4", Amount: 17.5},
			}},
			{PayerID: "u2", Splits: []Split{
				{MemberID: "u1", Amount: 17.5}, {MemberID: "u3", Amount: 8.33}, {MemberID: "u4", Amount: 8.33},
			}},
		},
		Settlements: []Settlement{
			{PayerID: "u3", ReceiverID: "u1", Amount: 5},
		},
	}

	first := Compute(snap)
	for i := 0; i < 10; i++ {
		if got := Compute(snap); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d differs:\n got %+v\nwant %+v", i, got, first)
		}
	}
}

// Compute must not mutate its input snapshot.
func TestCompute_InputUntouched(t *testing.T) {
	snap := Snapshot{
		Members: members("A", "B"),
		Expenses: []Expense{
			{PayerID: "A", Splits: []Split{{MemberID: "B", Amount: 30}}},
		},
		Settlements: []Settlement{
			{PayerID: "B", ReceiverID: "A", Amount: 10},
		},
	}
	want := Snapshot{
		Members: members("A", "B"),
		Expenses: []Expense{
			{PayerID: "A", Splits: []Split{{MemberID: "B", Amount: 30}}},
		},
		Settlements: []Settlement{
			{PayerID: "B", ReceiverID: "A", Amount: 10},
		},
	}

	Compute(snap)

	if !reflect.DeepEqual(snap, want) {
		t.Errorf("snapshot mutated:\n got %+v\nwant %+v", snap, want)
	}
}
