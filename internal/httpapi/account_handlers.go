package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/relaycrm/relay/internal/auth"
)

type updateProfileRequest struct {
	FullName  *string `json:"full_name"`
	Phone     *string `json:"phone"`
	AvatarURL *string `json:"avatar_url"`
}

type inviteRequest struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

type changeRoleRequest struct {
	Role string `json:"role"`
}

type setActiveRequest struct {
	Active *bool `json:"is_active"`
}

type setActiveResponse struct {
	Account *auth.Account `json:"account"`
	Message string        `json:"message"`
}

func (a *API) handleMe(w http.ResponseWriter, r *http.Request) {
	if !a.authorize(w, r) {
		return
	}
	identity, _ := auth.IdentityFromContext(r.Context())

	switch r.Method {
	case http.MethodGet:
		account, err := a.accounts.GetProfile(r.Context(), identity.AccountID)
		if err != nil {
			handleAccountError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, account)
	case http.MethodPatch:
		var req updateProfileRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		account, err := a.accounts.UpdateProfile(r.Context(), identity.AccountID, auth.ProfileUpdate{
			FullName:  req.FullName,
			Phone:     req.Phone,
			AvatarURL: req.AvatarURL,
		})
		if err != nil {
			handleAccountError(w, r, err)
			return
		}
		a.audit(r.Context(), "account.profile.update", map[string]any{
			"account_id": account.ID,
		})
		writeJSON(w, http.StatusOK, account)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPatch)
	}
}

func (a *API) handleUsers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	if !a.authorize(w, r) {
		return
	}
	accounts, err := a.accounts.ListAccounts(r.Context())
	if err != nil {
		handleAccountError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items": accounts,
		"count": len(accounts),
	})
}

func (a *API) handleInvite(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	if !a.authorize(w, r) {
		return
	}
	var req inviteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	role, ok := auth.ParseRole(req.Role)
	if !ok {
		writeError(w, r, http.StatusBadRequest, "unknown role "+strings.TrimSpace(req.Role))
		return
	}
	invitation, err := a.accounts.Invite(r.Context(), req.Email, req.FullName, role)
	if err != nil {
		handleAccountError(w, r, err)
		return
	}
	a.audit(r.Context(), "account.invite", map[string]any{
		"account_id": invitation.AccountID,
		"email":      invitation.Email,
		"role":       invitation.Role,
	})
	w.Header().Set("Location", fmt.Sprintf("/v1/users/%s", invitation.AccountID))
	writeJSON(w, http.StatusCreated, invitation)
}

// handleUserScoped dispatches /v1/users/{id}, /v1/users/{id}/role and
// /v1/users/{id}/active.
func (a *API) handleUserScoped(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/v1/users/")
	path = strings.Trim(path, "/")
	if path == "" {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	parts := strings.Split(path, "/")
	if _, err := uuid.Parse(parts[0]); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid account id")
		return
	}
	targetID := parts[0]

	switch {
	case len(parts) == 1:
		a.handleUserDelete(w, r, targetID)
	case len(parts) == 2 && parts[1] == "role":
		a.handleUserRole(w, r, targetID)
	case len(parts) == 2 && parts[1] == "active":
		a.handleUserActive(w, r, targetID)
	default:
		writeError(w, r, http.StatusNotFound, "resource not found")
	}
}

func (a *API) handleUserDelete(w http.ResponseWriter, r *http.Request, targetID string) {
	if r.Method != http.MethodDelete {
		methodNotAllowed(w, r, http.MethodDelete)
		return
	}
	if !a.authorize(w, r) {
		return
	}
	identity, _ := auth.IdentityFromContext(r.Context())
	if err := a.accounts.Delete(r.Context(), identity.AccountID, targetID); err != nil {
		handleAccountError(w, r, err)
		return
	}
	a.audit(r.Context(), "account.delete", map[string]any{
		"account_id": targetID,
	})
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleUserRole(w http.ResponseWriter, r *http.Request, targetID string) {
	if r.Method != http.MethodPatch {
		methodNotAllowed(w, r, http.MethodPatch)
		return
	}
	if !a.authorize(w, r) {
		return
	}
	var req changeRoleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	role, ok := auth.ParseRole(req.Role)
	if !ok {
		writeError(w, r, http.StatusBadRequest, "unknown role "+strings.TrimSpace(req.Role))
		return
	}
	identity, _ := auth.IdentityFromContext(r.Context())
	account, err := a.accounts.ChangeRole(r.Context(), identity.AccountID, targetID, role)
	if err != nil {
		handleAccountError(w, r, err)
		return
	}
	a.audit(r.Context(), "account.role.change", map[string]any{
		"account_id": account.ID,
		"role":       account.Role,
	})
	writeJSON(w, http.StatusOK, account)
}

func (a *API) handleUserActive(w http.ResponseWriter, r *http.Request, targetID string) {
	if r.Method != http.MethodPatch {
		methodNotAllowed(w, r, http.MethodPatch)
		return
	}
	if !a.authorize(w, r) {
		return
	}
	var req setActiveRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.Active == nil {
		writeError(w, r, http.StatusBadRequest, "is_active is required")
		return
	}
	identity, _ := auth.IdentityFromContext(r.Context())
	account, err := a.accounts.SetActive(r.Context(), identity.AccountID, targetID, *req.Active)
	if err != nil {
		handleAccountError(w, r, err)
		return
	}
	a.audit(r.Context(), "account.active.change", map[string]any{
		"account_id": account.ID,
		"is_active":  account.Active,
	})
	state := "deactivated"
	if account.Active {
		state = "activated"
	}
	name := account.FullName
	if name == "" {
		name = account.ID
	}
	writeJSON(w, http.StatusOK, setActiveResponse{
		Account: account,
		Message: fmt.Sprintf("account %s %s", name, state),
	})
}

func handleAccountError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, auth.ErrInvalidInput):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, auth.ErrSelfAction):
		writeError(w, r, http.StatusForbidden, err.Error())
	case errors.Is(err, auth.ErrNotFound):
		writeError(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, auth.ErrConflict):
		writeError(w, r, http.StatusConflict, err.Error())
	default:
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}
