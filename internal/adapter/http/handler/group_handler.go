package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/splitledger/internal/adapter/http/dto"
	"github.com/iho/splitledger/internal/domain"
	"github.com/iho/splitledger/internal/usecase"
)

// GroupService defines the behavior needed by GroupHandler.
type GroupService interface {
	CreateGroup(ctx context.Context, input usecase.CreateGroupInput) (*domain.Group, error)
	AddMember(ctx context.Context, groupID, userID string) error
	RemoveMember(ctx context.Context, groupID, userID string) error
	GroupsForUser(ctx context.Context, userID string) ([]*domain.Group, error)
}

// GroupHandler handles group-related HTTP requests.
type GroupHandler struct {
	groupUC GroupService
}

// NewGroupHandler creates a new GroupHandler.
func NewGroupHandler(groupUC GroupService) *GroupHandler {
	return &GroupHandler{groupUC: groupUC}
}

// Create creates a new group with the creator enrolled as a member.
func (h *GroupHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	group, err := h.groupUC.CreateGroup(r.Context(), usecase.CreateGroupInput{
		Name:      req.Name,
		Currency:  req.Currency,
		CreatedBy: req.CreatedBy,
	})
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to create group", err.Error())

		return
	}

	writeJSON(w, http.StatusCreated, dto.GroupFromDomain(group))
}

// AddMember adds a user to a group. Re-adding a removed member
// reactivates the membership.
func (h *GroupHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "id")
	if groupID == "" {
		writeError(w, http.StatusBadRequest, "missing group ID", "")
		return
	}

	var req dto.AddMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := h.groupUC.AddMember(r.Context(), groupID, req.UserID); err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to add member", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "member added"})
}

// RemoveMember removes a user from a group. Past expenses are unaffected.
func (h *GroupHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "id")
	userID := chi.URLParam(r, "userId")
	if groupID == "" || userID == "" {
		writeError(w, http.StatusBadRequest, "missing group or user ID", "")
		return
	}

	if err := h.groupUC.RemoveMember(r.Context(), groupID, userID); err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to remove member", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "member removed"})
}

// ListForUser lists groups where the user is an active member.
func (h *GroupHandler) ListForUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "missing user ID", "")
		return
	}

	groups, err := h.groupUC.GroupsForUser(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list groups", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.GroupsFromDomain(groups))
}
