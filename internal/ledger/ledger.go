// Package ledger computes who owes whom within a group.
//
// The engine is a pure function over an immutable snapshot of a group's
// members, expenses, and settlements. It builds a pairwise net-debt matrix,
// derives each member's signed balance, and suggests a minimal set of
// payments that settles everything. It never mutates its inputs and keeps no
// state between calls, so it is safe to invoke concurrently.
package ledger

// epsilon is the minor-currency-unit tolerance: balances and remaining debts
// below this are treated as settled, absorbing floating-point drift.
const epsilon = 0.01

// Member identifies one group participant. ID is opaque to the engine; the
// display attributes are carried through to the output untouched.
type Member struct {
	ID          string
	DisplayName string
	ImageURL    string
}

// Split is one member's share of an expense.
type Split struct {
	MemberID string
	Amount   float64
	Paid     bool
}

// Expense is money paid by one member, divided into splits.
type Expense struct {
	PayerID string
	Splits  []Split
}

// Settlement is money that actually changed hands, reducing what the payer
// owes the receiver.
type Settlement struct {
	PayerID    string
	ReceiverID string
	Amount     float64
}

// Snapshot is the complete, internally consistent input for one computation.
// The member slice order is the canonical ordering: pairwise netting visits
// pairs by slice index, and all output is emitted in slice order, which is
// what makes the result reproducible for identical input.
type Snapshot struct {
	Members     []Member
	Expenses    []Expense
	Settlements []Settlement
}

// Debt is one directed entry of a member's balance breakdown.
type Debt struct {
	MemberID string
	Amount   float64
}

// Balance is one member's overall position after netting.
type Balance struct {
	MemberID string
	// Total is the signed net balance: positive means the member is owed
	// money, negative means the member owes.
	Total float64
	// Owes lists the members this member owes, and how much.
	Owes []Debt
	// OwedBy lists the members who owe this member, and how much.
	OwedBy []Debt
}

// SuggestedSettlement is a recommended payment that moves all balances
// toward zero. Suggestions are computed on demand, never stored.
type SuggestedSettlement struct {
	FromID string
	ToID   string
	Amount float64
}

// Result is the full output of one computation.
type Result struct {
	Balances             []Balance
	SuggestedSettlements []SuggestedSettlement
}

// Compute runs the full pipeline: fold expenses and settlements into a
// directed pairwise ledger, net each pair down to a single direction, derive
// per-member balances, and suggest a minimal settlement plan.
func Compute(snap Snapshot) Result {
	idx := memberIndex(snap.Members)

	pairwise := buildLedger(snap, idx)
	netPairs(pairwise, snap.Members)
	balances := deriveBalances(pairwise, snap.Members)

	return Result{
		Balances:             balances,
		SuggestedSettlements: suggestSettlements(balances),
	}
}

// memberIndex maps member IDs to their position in the snapshot's member
// slice. Position is the total order used everywhere downstream.
func memberIndex(members []Member) map[string]int {
	idx := make(map[string]int, len(members))
	for i, m := range members {
		idx[m.ID] = i
	}
	return idx
}

// buildLedger folds expenses and settlements into a directed debt matrix:
// ledger[debtor][creditor] = amount. Every ordered pair of distinct members
// gets an entry, initialized to zero, so folding is pure accumulation.
//
// After this pass both directions of a pair may be non-zero, and settlement
// folding may drive an entry negative. Both are resolved by netPairs; no
// invariant holds on the matrix until then.
func buildLedger(snap Snapshot, idx map[string]int) map[string]map[string]float64 {
	ledger := make(map[string]map[string]float64, len(snap.Members))
	for _, a := range snap.Members {
		row := make(map[string]float64, len(snap.Members)-1)
		for _, b := range snap.Members {
			if a.ID != b.ID {
				row[b.ID] = 0
			}
		}
		ledger[a.ID] = row
	}

	for _, exp := range snap.Expenses {
		if _, ok := idx[exp.PayerID]; !ok {
			continue
		}
		for _, split := range exp.Splits {
			// A member's own share is not a debt, and a share already
			// paid at expense time contributes nothing.
			if split.MemberID == exp.PayerID || split.Paid {
				continue
			}
			if _, ok := idx[split.MemberID]; !ok {
				continue
			}
			ledger[split.MemberID][exp.PayerID] += split.Amount
		}
	}

	for _, s := range snap.Settlements {
		if _, ok := idx[s.PayerID]; !ok {
			continue
		}
		if _, ok := idx[s.ReceiverID]; !ok || s.PayerID == s.ReceiverID {
			continue
		}
		// A repayment reduces what the payer owes the receiver. This may
		// overshoot into the negative; netting flips such entries around.
		ledger[s.PayerID][s.ReceiverID] -= s.Amount
	}

	return ledger
}

// netPairs collapses the two directional entries of every unordered pair
// into a single non-negative direction. Pairs are visited exactly once, by
// member slice index, though the visit order only affects iteration, not the
// final values.
//
// Postcondition: for any two distinct members A and B, at most one of
// ledger[A][B] and ledger[B][A] is non-zero, and neither is negative.
func netPairs(ledger map[string]map[string]float64, members []Member) {
	for i := 0; i < len(members); i++ {
		for j := i + 1; j < len(members); j++ {
			a, b := members[i].ID, members[j].ID
			diff := ledger[a][b] - ledger[b][a]
			switch {
			case diff > 0:
				ledger[a][b] = diff
				ledger[b][a] = 0
			case diff < 0:
				ledger[b][a] = -diff
				ledger[a][b] = 0
			default:
				ledger[a][b] = 0
				ledger[b][a] = 0
			}
		}
	}
}

// deriveBalances computes each member's signed net balance from the netted
// ledger, together with the per-counterparty breakdown. Output is in member
// slice order; breakdown entries are in member slice order too.
func deriveBalances(ledger map[string]map[string]float64, members []Member) []Balance {
	totals := make(map[string]float64, len(members))
	for _, debtor := range members {
		for _, creditor := range members {
			if debtor.ID == creditor.ID {
				continue
			}
			if amt := ledger[debtor.ID][creditor.ID]; amt > 0 {
				totals[debtor.ID] -= amt
				totals[creditor.ID] += amt
			}
		}
	}

	balances := make([]Balance, len(members))
	for i, m := range members {
		bal := Balance{MemberID: m.ID, Total: totals[m.ID]}
		for _, other := range members {
			if other.ID == m.ID {
				continue
			}
			if amt := ledger[m.ID][other.ID]; amt > 0 {
				bal.Owes = append(bal.Owes, Debt{MemberID: other.ID, Amount: amt})
			}
			if amt := ledger[other.ID][m.ID]; amt > 0 {
				bal.OwedBy = append(bal.OwedBy, Debt{MemberID: other.ID, Amount: amt})
			}
		}
		balances[i] = bal
	}
	return balances
}
