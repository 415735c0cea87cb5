package service

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/settleup/ledger/internal/middleware"
	"github.com/settleup/ledger/internal/models"
	"github.com/settleup/ledger/internal/storage"
)

// ExpenseService handles expense records and their splits.
type ExpenseService struct {
	store storage.Store
}

// NewExpenseService creates a new ExpenseService with the given storage backend.
func NewExpenseService(store storage.Store) *ExpenseService {
	return &ExpenseService{store: store}
}

type splitRequest struct {
	MemberID string  `json:"memberId"`
	Amount   float64 `json:"amount"`
	Paid     bool    `json:"paid"`
}

type createExpenseRequest struct {
	PayerID     string         `json:"payerId"`
	Description string         `json:"description"`
	Amount      float64        `json:"amount"`
	Splits      []splitRequest `json:"splits"`
}

type splitResponse struct {
	MemberID string  `json:"memberId"`
	Amount   float64 `json:"amount"`
	Paid     bool    `json:"paid"`
}

type expenseResponse struct {
	ID          string          `json:"id"`
	GroupID     string          `json:"groupId"`
	PayerID     string          `json:"payerId"`
	Description string          `json:"description"`
	Amount      float64         `json:"amount"`
	Splits      []splitResponse `json:"splits"`
	CreatedAt   int64           `json:"createdAt"`
	CreatedBy   string          `json:"createdBy"`
}

func toExpenseResponse(e *models.Expense) expenseResponse {
	splits := make([]splitResponse, len(e.Splits))
	for i, s := range e.Splits {
		splits[i] = splitResponse{MemberID: s.MemberID, Amount: s.Amount, Paid: s.Paid}
	}
	return expenseResponse{
		ID:          e.ID,
		GroupID:     e.GroupID,
		PayerID:     e.PayerID,
		Description: e.Description,
		Amount:      e.Amount,
		Splits:      splits,
		CreatedAt:   e.CreatedAt,
		CreatedBy:   e.CreatedBy,
	}
}

// validateExpense checks referential integrity against the group before the
// record is stored: the ledger engine assumes validated input, so this is the
// place that guarantee is established.
func validateExpense(req *createExpenseRequest, group *models.Group) error {
	if req.PayerID == "" {
		return fmt.Errorf("payerId is required")
	}
	if !group.IsMember(req.PayerID) {
		return fmt.Errorf("payer %s is not a group member", req.PayerID)
	}
	if req.Amount < 0 {
		return fmt.Errorf("amount must not be negative")
	}
	if len(req.Splits) == 0 {
		return fmt.Errorf("at least one split is required")
	}
	seen := make(map[string]bool, len(req.Splits))
	for _, s := range req.Splits {
		if !group.IsMember(s.MemberID) {
			return fmt.Errorf("split member %s is not a group member", s.MemberID)
		}
		if seen[s.MemberID] {
			return fmt.Errorf("duplicate split for member %s", s.MemberID)
		}
		seen[s.MemberID] = true
		if s.Amount < 0 {
			return fmt.Errorf("split amount must not be negative")
		}
	}
	return nil
}

// HandleCreate records an expense with its splits.
func (s *ExpenseService) HandleCreate(w http.ResponseWriter, r *http.Request) {
	group := loadMemberGroup(w, r, s.store, r.PathValue("id"))
	if group == nil {
		return
	}

	var req createExpenseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validateExpense(&req, group); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	splits := make([]models.Split, len(req.Splits))
	for i, sp := range req.Splits {
		splits[i] = models.Split{MemberID: sp.MemberID, Amount: sp.Amount, Paid: sp.Paid}
	}

	expense := &models.Expense{
		GroupID:     group.ID,
		PayerID:     req.PayerID,
		Description: req.Description,
		Amount:      req.Amount,
		Splits:      splits,
		CreatedBy:   middleware.GetUserID(r.Context()),
	}
	if err := s.store.CreateExpense(r.Context(), expense); err != nil {
		slog.Error("CreateExpense failed", "group_id", group.ID, "error", err)
		writeStoreError(w, err)
		return
	}

	slog.Info("Expense created", "expense_id", expense.ID, "group_id", group.ID, "amount", expense.Amount)
	writeJSON(w, http.StatusCreated, toExpenseResponse(expense))
}

// HandleList returns a group's expenses, oldest first.
func (s *ExpenseService) HandleList(w http.ResponseWriter, r *http.Request) {
	group := loadMemberGroup(w, r, s.store, r.PathValue("id"))
	if group == nil {
		return
	}

	expenses, err := s.store.ListExpensesByGroup(r.Context(), group.ID)
	if err != nil {
		slog.Error("ListExpenses failed", "group_id", group.ID, "error", err)
		writeStoreError(w, err)
		return
	}

	resp := make([]expenseResponse, len(expenses))
	for i, e := range expenses {
		resp[i] = toExpenseResponse(e)
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleDelete removes an expense. The caller must belong to the expense's group.
func (s *ExpenseService) HandleDelete(w http.ResponseWriter, r *http.Request) {
	expense, err := s.store.GetExpense(r.Context(), r.PathValue("id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if loadMemberGroup(w, r, s.store, expense.GroupID) == nil {
		return
	}

	if err := s.store.DeleteExpense(r.Context(), expense.ID); err != nil {
		slog.Error("DeleteExpense failed", "expense_id", expense.ID, "error", err)
		writeStoreError(w, err)
		return
	}

	slog.Info("Expense deleted", "expense_id", expense.ID, "group_id", expense.GroupID)
	writeJSON(w, http.StatusOK, nil)
}
