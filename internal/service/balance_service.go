package service

import (
	"context"
	"log/slog"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/settleup/ledger/internal/ledger"
	"github.com/settleup/ledger/internal/models"
	"github.com/settleup/ledger/internal/storage"
)

// BalanceService computes group balances and suggested settlements on demand.
// It assembles an immutable snapshot from storage and hands it to the ledger
// engine; nothing it produces is ever persisted.
type BalanceService struct {
	store storage.Store
}

// NewBalanceService creates a new BalanceService with the given storage backend.
func NewBalanceService(store storage.Store) *BalanceService {
	return &BalanceService{store: store}
}

type debtEntry struct {
	MemberID string  `json:"memberId"`
	Name     string  `json:"name"`
	Amount   float64 `json:"amount"`
}

type balanceResponse struct {
	MemberID     string      `json:"memberId"`
	Name         string      `json:"name"`
	TotalBalance float64     `json:"totalBalance"`
	Owes         []debtEntry `json:"owes"`
	OwedBy       []debtEntry `json:"owedBy"`
}

type suggestedSettlementResponse struct {
	FromID string  `json:"from"`
	ToID   string  `json:"to"`
	Amount float64 `json:"amount"`
}

type groupBalancesResponse struct {
	Balances             []balanceResponse             `json:"balances"`
	SuggestedSettlements []suggestedSettlementResponse `json:"suggestedSettlements"`
}

// HandleGet returns per-member balances and the minimal settlement plan for
// a group.
func (s *BalanceService) HandleGet(w http.ResponseWriter, r *http.Request) {
	group := loadMemberGroup(w, r, s.store, r.PathValue("id"))
	if group == nil {
		return
	}

	snap, err := s.loadSnapshot(r.Context(), group)
	if err != nil {
		slog.Error("Snapshot load failed", "group_id", group.ID, "error", err)
		writeStoreError(w, err)
		return
	}

	result := ledger.Compute(snap)

	slog.Info("Balances computed",
		"group_id", group.ID,
		"members_count", len(snap.Members),
		"expenses_count", len(snap.Expenses),
		"settlements_count", len(snap.Settlements),
		"suggestions_count", len(result.SuggestedSettlements),
	)
	writeJSON(w, http.StatusOK, toBalancesResponse(group, result))
}

// loadSnapshot fetches the group's expenses and settlements concurrently and
// assembles the engine input. The snapshot is complete and internally
// consistent before the engine ever sees it.
func (s *BalanceService) loadSnapshot(ctx context.Context, group *models.Group) (ledger.Snapshot, error) {
	var (
		expenses    []*models.Expense
		settlements []*models.Settlement
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		expenses, err = s.store.ListExpensesByGroup(ctx, group.ID)
		return err
	})
	g.Go(func() error {
		var err error
		settlements, err = s.store.ListSettlementsByGroup(ctx, group.ID)
		return err
	})
	if err := g.Wait(); err != nil {
		return ledger.Snapshot{}, err
	}

	snap := ledger.Snapshot{
		Members:     make([]ledger.Member, len(group.Members)),
		Expenses:    make([]ledger.Expense, len(expenses)),
		Settlements: make([]ledger.Settlement, len(settlements)),
	}
	for i, m := range group.Members {
		snap.Members[i] = ledger.Member{ID: m.UserID, DisplayName: m.DisplayName, ImageURL: m.ImageURL}
	}
	for i, e := range expenses {
		splits := make([]ledger.Split, len(e.Splits))
		for j, sp := range e.Splits {
			splits[j] = ledger.Split{MemberID: sp.MemberID, Amount: sp.Amount, Paid: sp.Paid}
		}
		snap.Expenses[i] = ledger.Expense{PayerID: e.PayerID, Splits: splits}
	}
	for i, st := range settlements {
		snap.Settlements[i] = ledger.Settlement{PayerID: st.PayerID, ReceiverID: st.ReceiverID, Amount: st.Amount}
	}
	return snap, nil
}

func toBalancesResponse(group *models.Group, result ledger.Result) groupBalancesResponse {
	names := make(map[string]string, len(group.Members))
	for _, m := range group.Members {
		names[m.UserID] = m.DisplayName
	}

	balances := make([]balanceResponse, len(result.Balances))
	for i, b := range result.Balances {
		owes := make([]debtEntry, len(b.Owes))
		for j, d := range b.Owes {
			owes[j] = debtEntry{MemberID: d.MemberID, Name: names[d.MemberID], Amount: d.Amount}
		}
		owedBy := make([]debtEntry, len(b.OwedBy))
		for j, d := range b.OwedBy {
			owedBy[j] = debtEntry{MemberID: d.MemberID, Name: names[d.MemberID], Amount: d.Amount}
		}
		balances[i] = balanceResponse{
			MemberID:     b.MemberID,
			Name:         names[b.MemberID],
			TotalBalance: b.Total,
			Owes:         owes,
			OwedBy:       owedBy,
		}
	}

	suggestions := make([]suggestedSettlementResponse, len(result.SuggestedSettlements))
	for i, sg := range result.SuggestedSettlements {
		suggestions[i] = suggestedSettlementResponse{FromID: sg.FromID, ToID: sg.ToID, Amount: sg.Amount}
	}

	return groupBalancesResponse{
		Balances:             balances,
		SuggestedSettlements: suggestions,
	}
}
