package handler

import (
	"encoding/json"
	"log"
	"net/http"

	"cp_journey/internal/api/middleware"
	"cp_journey/internal/app/service"
	"cp_journey/internal/common"
	"cp_journey/internal/domain/model"

	"github.com/go-chi/chi/v5"
)

type SyncHandler struct {
	syncService    *service.SyncService
	journeyService *service.JourneyService
}

func NewSyncHandler(ss *service.SyncService, js *service.JourneyService) *SyncHandler {
	return &SyncHandler{syncService: ss, journeyService: js}
}

func (h *SyncHandler) RegisterRoutes(r chi.Router) {
	r.Use(middleware.Authenticator)
	r.Post("/cses", h.syncCSES)         // POST /api/v1/sync/cses
	r.Post("/codeforces", h.syncCodeforces)
	r.Post("/vjudge", h.syncVJudge)
	r.Post("/all", h.syncAll)
}

type syncRequest struct {
	Username string `json:"username"`
}

type syncAllRequest struct {
	Usernames model.PlatformHandles `json:"usernames"`
}

func (h *SyncHandler) syncCSES(w http.ResponseWriter, r *http.Request) {
	req, userID, ok := h.decodeSyncRequest(w, r)
	if !ok {
		return
	}
	result, err := h.syncService.SyncCSES(r.Context(), req.Username)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	h.mergeResults(r, userID, service.SyncResults{CSES: result})
	common.RespondWithJSON(w, http.StatusOK, result)
}

func (h *SyncHandler) syncCodeforces(w http.ResponseWriter, r *http.Request) {
	req, userID, ok := h.decodeSyncRequest(w, r)
	if !ok {
		return
	}
	result, err := h.syncService.SyncCodeforces(r.Context(), req.Username)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	h.mergeResults(r, userID, service.SyncResults{Codeforces: result})
	common.RespondWithJSON(w, http.StatusOK, result)
}

func (h *SyncHandler) syncVJudge(w http.ResponseWriter, r *http.Request) {
	req, userID, ok := h.decodeSyncRequest(w, r)
	if !ok {
		return
	}
	result, err := h.syncService.SyncVJudge(r.Context(), req.Username)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	h.mergeResults(r, userID, service.SyncResults{VJudge: result})
	common.RespondWithJSON(w, http.StatusOK, result)
}

func (h *SyncHandler) syncAll(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	var req syncAllRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	resp, err := h.syncService.SyncAll(r.Context(), req.Usernames)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	h.mergeResults(r, userID, resp.Results)
	common.RespondWithJSON(w, http.StatusOK, resp)
}

func (h *SyncHandler) decodeSyncRequest(w http.ResponseWriter, r *http.Request) (syncRequest, string, bool) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return syncRequest{}, "", false
	}

	var req syncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return syncRequest{}, "", false
	}
	if req.Username == "" {
		common.RespondWithError(w, http.StatusBadRequest, "username is required")
		return syncRequest{}, "", false
	}
	return req, userID, true
}

// mergeResults folds successful platform results into the caller's journey.
// A merge failure is logged but does not fail the sync response: the fetched
// data is still returned to the caller.
func (h *SyncHandler) mergeResults(r *http.Request, userID string, results service.SyncResults) {
	snapshot := h.syncService.Aggregate(results)
	if _, err := h.journeyService.ApplySnapshot(r.Context(), userID, snapshot, false); err != nil {
		log.Printf("ERROR: Failed to merge sync results for user %s: %v", userID, err)
	}
}
