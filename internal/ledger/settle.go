package ledger

import (
	"math"
	"sort"
)

// party is one side of the greedy match: a member and how much they still
// owe (debtor) or are still owed (creditor). Both amounts are positive.
type party struct {
	memberID  string
	remaining float64
}

// suggestSettlements produces a minimal set of payments that zeroes out all
// balances, by greedily matching the largest debtor against the largest
// creditor. Because total debt equals total credit (conservation), this
// emits at most len(debtors)+len(creditors)-1 transactions, which is optimal
// for many-to-many netting.
//
// Balances must already be in canonical member order: the descending sorts
// are stable, so equal amounts keep member order and the output is
// reproducible for identical input.
func suggestSettlements(balances []Balance) []SuggestedSettlement {
	var debtors, creditors []party
	for _, bal := range balances {
		switch {
		case bal.Total < -epsilon:
			debtors = append(debtors, party{memberID: bal.MemberID, remaining: -bal.Total})
		case bal.Total > epsilon:
			creditors = append(creditors, party{memberID: bal.MemberID, remaining: bal.Total})
		}
	}

	// Largest obligations settle first, which keeps fractional-cent
	// remainders from lingering at the tail of the match.
	sort.SliceStable(debtors, func(i, j int) bool {
		return debtors[i].remaining > debtors[j].remaining
	})
	sort.SliceStable(creditors, func(i, j int) bool {
		return creditors[i].remaining > creditors[j].remaining
	})

	var suggestions []SuggestedSettlement
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		amount := math.Min(debtors[i].remaining, creditors[j].remaining)

		if rounded := round2(amount); rounded > 0 {
			suggestions = append(suggestions, SuggestedSettlement{
				FromID: debtors[i].memberID,
				ToID:   creditors[j].memberID,
				Amount: rounded,
			})
		}

		// Decrement by the unrounded amount so rounding error never
		// compounds across matches.
		debtors[i].remaining -= amount
		creditors[j].remaining -= amount

		if debtors[i].remaining < epsilon {
			i++
		}
		if creditors[j].remaining < epsilon {
			j++
		}
	}

	return suggestions
}

// round2 rounds to 2 decimal places, the resolution settlements are paid at.
func round2(amount float64) float64 {
	return math.Round(amount*100) / 100
}
