package service

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/settleup/ledger/internal/middleware"
	"github.com/settleup/ledger/internal/models"
	"github.com/settleup/ledger/internal/storage"
)

// GroupService handles group lifecycle and membership.
type GroupService struct {
	store      storage.Store
	maxMembers int
}

// NewGroupService creates a new GroupService with the given storage backend.
// maxMembers caps the membership list of any one group.
func NewGroupService(store storage.Store, maxMembers int) *GroupService {
	return &GroupService{store: store, maxMembers: maxMembers}
}

type createGroupRequest struct {
	Name      string   `json:"name"`
	MemberIDs []string `json:"memberIds"`
}

type updateGroupRequest struct {
	Name string `json:"name"`
}

type addMembersRequest struct {
	MemberIDs []string `json:"memberIds"`
}

type memberResponse struct {
	UserID   string `json:"userId"`
	Name     string `json:"name"`
	ImageURL string `json:"imageUrl,omitempty"`
}

type groupResponse struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	CreatedBy string           `json:"createdBy"`
	Members   []memberResponse `json:"members"`
	CreatedAt int64            `json:"createdAt"`
}

func toGroupResponse(g *models.Group) groupResponse {
	members := make([]memberResponse, len(g.Members))
	for i, m := range g.Members {
		members[i] = memberResponse{UserID: m.UserID, Name: m.DisplayName, ImageURL: m.ImageURL}
	}
	return groupResponse{
		ID:        g.ID,
		Name:      g.Name,
		CreatedBy: g.CreatedBy,
		Members:   members,
		CreatedAt: g.CreatedAt,
	}
}

// loadMemberGroup fetches a group and verifies the caller belongs to it.
// On failure it writes the response and returns nil.
func loadMemberGroup(w http.ResponseWriter, r *http.Request, store storage.Store, groupID string) *models.Group {
	group, err := store.GetGroup(r.Context(), groupID)
	if err != nil {
		writeStoreError(w, err)
		return nil
	}
	if !group.IsMember(middleware.GetUserID(r.Context())) {
		writeError(w, http.StatusForbidden, "you must be a member of this group")
		return nil
	}
	return group
}

// resolveMembers turns user IDs into members, carrying over each user's
// display attributes. Unknown IDs are rejected.
func (s *GroupService) resolveMembers(r *http.Request, ids []string) ([]models.Member, error) {
	members := make([]models.Member, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true

		user, err := s.store.GetUserByID(r.Context(), id)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, fmt.Errorf("unknown user: %s", id)
		}
		members = append(members, models.Member{
			UserID:      user.ID,
			DisplayName: user.DisplayName,
			ImageURL:    user.ImageURL,
		})
	}
	return members, nil
}

// HandleCreate creates a new group. The caller becomes the group's admin and
// is always included in the membership list.
func (s *GroupService) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req createGroupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	ids := append([]string{userID}, req.MemberIDs...)
	members, err := s.resolveMembers(r, ids)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(members) > s.maxMembers {
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("group size %d exceeds the limit of %d members", len(members), s.maxMembers))
		return
	}

	group := &models.Group{
		Name:      req.Name,
		CreatedBy: userID,
		Members:   members,
	}
	if err := s.store.CreateGroup(r.Context(), group); err != nil {
		slog.Error("CreateGroup failed", "error", err)
		writeStoreError(w, err)
		return
	}

	slog.Info("Group created", "group_id", group.ID, "members_count", len(group.Members))
	writeJSON(w, http.StatusCreated, toGroupResponse(group))
}

// HandleList returns every group the caller belongs to.
func (s *GroupService) HandleList(w http.ResponseWriter, r *http.Request) {
	groups, err := s.store.ListGroupsByMember(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		slog.Error("ListGroups failed", "error", err)
		writeStoreError(w, err)
		return
	}

	resp := make([]groupResponse, len(groups))
	for i, g := range groups {
		resp[i] = toGroupResponse(g)
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleGet returns one group with its member list.
func (s *GroupService) HandleGet(w http.ResponseWriter, r *http.Request) {
	group := loadMemberGroup(w, r, s.store, r.PathValue("id"))
	if group == nil {
		return
	}
	writeJSON(w, http.StatusOK, toGroupResponse(group))
}

// HandleUpdate renames a group. Admin only.
func (s *GroupService) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	group := loadMemberGroup(w, r, s.store, r.PathValue("id"))
	if group == nil {
		return
	}
	if !group.IsAdmin(middleware.GetUserID(r.Context())) {
		writeError(w, http.StatusForbidden, "only the group admin can update the group")
		return
	}

	var req updateGroupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	group.Name = req.Name
	if err := s.store.UpdateGroup(r.Context(), group); err != nil {
		slog.Error("UpdateGroup failed", "group_id", group.ID, "error", err)
		writeStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toGroupResponse(group))
}

// HandleDelete removes a group and all its records. Admin only.
func (s *GroupService) HandleDelete(w http.ResponseWriter, r *http.Request) {
	group := loadMemberGroup(w, r, s.store, r.PathValue("id"))
	if group == nil {
		return
	}
	if !group.IsAdmin(middleware.GetUserID(r.Context())) {
		writeError(w, http.StatusForbidden, "only the group admin can delete the group")
		return
	}

	if err := s.store.DeleteGroup(r.Context(), group.ID); err != nil {
		slog.Error("DeleteGroup failed", "group_id", group.ID, "error", err)
		writeStoreError(w, err)
		return
	}

	slog.Info("Group deleted", "group_id", group.ID)
	writeJSON(w, http.StatusOK, nil)
}

// HandleAddMembers appends members to a group. Admin only, capped by the
// membership-size policy.
func (s *GroupService) HandleAddMembers(w http.ResponseWriter, r *http.Request) {
	group := loadMemberGroup(w, r, s.store, r.PathValue("id"))
	if group == nil {
		return
	}
	if !group.IsAdmin(middleware.GetUserID(r.Context())) {
		writeError(w, http.StatusForbidden, "only the group admin can add members")
		return
	}

	var req addMembersRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.MemberIDs) == 0 {
		writeError(w, http.StatusBadRequest, "memberIds is required")
		return
	}

	members, err := s.resolveMembers(r, req.MemberIDs)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	newOnes := 0
	for _, m := range members {
		if !group.IsMember(m.UserID) {
			newOnes++
		}
	}
	if len(group.Members)+newOnes > s.maxMembers {
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("group size %d exceeds the limit of %d members", len(group.Members)+newOnes, s.maxMembers))
		return
	}

	if err := s.store.AddGroupMembers(r.Context(), group.ID, members); err != nil {
		slog.Error("AddGroupMembers failed", "group_id", group.ID, "error", err)
		writeStoreError(w, err)
		return
	}

	updated, err := s.store.GetGroup(r.Context(), group.ID)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	slog.Info("Members added", "group_id", group.ID, "added_count", newOnes)
	writeJSON(w, http.StatusOK, toGroupResponse(updated))
}
