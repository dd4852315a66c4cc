// internal/matching/handlers.go

package matching

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/lonetown/lonetown-backend/internal/common/utils"
)

type Handler struct {
	engine *Engine
	store  Store
}

func NewHandler(engine *Engine, store Store) *Handler {
	return &Handler{engine: engine, store: store}
}

// GetCurrentMatch returns the caller's active match, or null when there is
// none.
func (h *Handler) GetCurrentMatch(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	match, err := h.store.GetActiveMatchForUser(r.Context(), userID)
	if errors.Is(err, ErrMatchNotFound) {
		utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"match": nil})
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to load current match")
		return
	}

	other, err := h.store.GetUser(r.Context(), match.OtherUser(userID))
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to load match partner")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"match": CurrentMatchResponse{
			ID: match.ID,
			User: MatchCardUser{
				ID:        other.ID,
				FirstName: other.FirstName,
				LastName:  other.LastName,
			},
			CompatibilityScore: match.CompatibilityScore,
			MessageCount:       match.MessageCount,
			VideoCallUnlocked:  match.VideoCallUnlocked,
			ExpiresAt:          match.ExpiresAt,
			CreatedAt:          match.CreatedAt,
		},
	})
}

// GenerateMatch attempts match generation for the caller only.
func (h *Handler) GenerateMatch(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	created := h.engine.GenerateMatchForUser(r.Context(), userID)
	utils.RespondWithJSON(w, http.StatusOK, map[string]bool{"matched": created})
}

// ProcessDailyMatches runs the full daily batch. Exposed for manual
// triggering; the scheduler calls the same engine entry point.
func (h *Handler) ProcessDailyMatches(w http.ResponseWriter, r *http.Request) {
	if err := h.engine.ProcessDailyMatches(r.Context()); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to process daily matches")
		return
	}
	utils.RespondWithMessage(w, http.StatusOK, "Daily matches processed")
}

// UnpinMatch ends the caller's active match.
func (h *Handler) UnpinMatch(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req UnpinMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	if !h.engine.UnpinMatch(r.Context(), req.MatchID, userID) {
		utils.RespondWithError(w, http.StatusBadRequest, "Failed to unpin match")
		return
	}
	utils.RespondWithMessage(w, http.StatusOK, "Match unpinned successfully")
}

// GetFeedback lists feedback addressed to the caller.
func (h *Handler) GetFeedback(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	feedback, err := h.store.ListFeedbackForUser(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to load feedback")
		return
	}
	if feedback == nil {
		feedback = []*MatchFeedback{}
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"feedback": feedback})
}
