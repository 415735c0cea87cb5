package service

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/settleup/ledger/internal/middleware"
	"github.com/settleup/ledger/internal/models"
	"github.com/settleup/ledger/internal/storage"
)

// SettlementService handles recorded payments between members.
type SettlementService struct {
	store storage.Store
}

// NewSettlementService creates a new SettlementService with the given storage backend.
func NewSettlementService(store storage.Store) *SettlementService {
	return &SettlementService{store: store}
}

type createSettlementRequest struct {
	PayerID    string  `json:"payerId"`
	ReceiverID string  `json:"receiverId"`
	Amount     float64 `json:"amount"`
	Note       string  `json:"note"`
}

type settlementResponse struct {
	ID         string  `json:"id"`
	GroupID    string  `json:"groupId"`
	PayerID    string  `json:"payerId"`
	ReceiverID string  `json:"receiverId"`
	Amount     float64 `json:"amount"`
	CreatedAt  int64   `json:"createdAt"`
	CreatedBy  string  `json:"createdBy"`
	Note       string  `json:"note,omitempty"`
}

func toSettlementResponse(s *models.Settlement) settlementResponse {
	return settlementResponse{
		ID:         s.ID,
		GroupID:    s.GroupID,
		PayerID:    s.PayerID,
		ReceiverID: s.ReceiverID,
		Amount:     s.Amount,
		CreatedAt:  s.CreatedAt,
		CreatedBy:  s.CreatedBy,
		Note:       s.Note,
	}
}

func validateSettlement(req *createSettlementRequest, group *models.Group) error {
	if !group.IsMember(req.PayerID) {
		return fmt.Errorf("payer %s is not a group member", req.PayerID)
	}
	if !group.IsMember(req.ReceiverID) {
		return fmt.Errorf("receiver %s is not a group member", req.ReceiverID)
	}
	if req.PayerID == req.ReceiverID {
		return fmt.Errorf("payer and receiver must differ")
	}
	if req.Amount <= 0 {
		return fmt.Errorf("amount must be positive")
	}
	return nil
}

// HandleCreate records a payment between two members.
func (s *SettlementService) HandleCreate(w http.ResponseWriter, r *http.Request) {
	group := loadMemberGroup(w, r, s.store, r.PathValue("id"))
	if group == nil {
		return
	}

	var req createSettlementRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validateSettlement(&req, group); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	settlement := &models.Settlement{
		GroupID:    group.ID,
		PayerID:    req.PayerID,
		ReceiverID: req.ReceiverID,
		Amount:     req.Amount,
		CreatedBy:  middleware.GetUserID(r.Context()),
		Note:       req.Note,
	}
	if err := s.store.CreateSettlement(r.Context(), settlement); err != nil {
		slog.Error("CreateSettlement failed", "group_id", group.ID, "error", err)
		writeStoreError(w, err)
		return
	}

	slog.Info("Settlement recorded",
		"settlement_id", settlement.ID,
		"group_id", group.ID,
		"payer_id", settlement.PayerID,
		"receiver_id", settlement.ReceiverID,
		"amount", settlement.Amount,
	)
	writeJSON(w, http.StatusCreated, toSettlementResponse(settlement))
}

// HandleList returns a group's settlements, oldest first.
func (s *SettlementService) HandleList(w http.ResponseWriter, r *http.Request) {
	group := loadMemberGroup(w, r, s.store, r.PathValue("id"))
	if group == nil {
		return
	}

	settlements, err := s.store.ListSettlementsByGroup(r.Context(), group.ID)
	if err != nil {
		slog.Error("ListSettlements failed", "group_id", group.ID, "error", err)
		writeStoreError(w, err)
		return
	}

	resp := make([]settlementResponse, len(settlements))
	for i, st := range settlements {
		resp[i] = toSettlementResponse(st)
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleDelete removes a settlement. The caller must belong to its group.
func (s *SettlementService) HandleDelete(w http.ResponseWriter, r *http.Request) {
	settlement, err := s.store.GetSettlement(r.Context(), r.PathValue("id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if loadMemberGroup(w, r, s.store, settlement.GroupID) == nil {
		return
	}

	if err := s.store.DeleteSettlement(r.Context(), settlement.ID); err != nil {
		slog.Error("DeleteSettlement failed", "settlement_id", settlement.ID, "error", err)
		writeStoreError(w, err)
		return
	}

	slog.Info("Settlement deleted", "settlement_id", settlement.ID, "group_id", settlement.GroupID)
	writeJSON(w, http.StatusOK, nil)
}
