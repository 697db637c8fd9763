package handler

import (
	"encoding/json"
	"net/http"

	"cp_journey/internal/api/middleware"
	"cp_journey/internal/app/service"
	"cp_journey/internal/common"

	"github.com/go-chi/chi/v5"
)

type JourneyHandler struct {
	journeyService *service.JourneyService
}

func NewJourneyHandler(js *service.JourneyService) *JourneyHandler {
	return &JourneyHandler{journeyService: js}
}

func (h *JourneyHandler) RegisterRoutes(r chi.Router) {
	r.Use(middleware.Authenticator)
	r.Get("/", h.getJourney) // GET /api/v1/journey
	r.Put("/handles", h.updateHandles)
	r.Post("/manual", h.incrementManual)
	r.Post("/reset", h.resetProgress)
}

func (h *JourneyHandler) getJourney(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}
	record, err := h.journeyService.GetJourney(r.Context(), userID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, record)
}

func (h *JourneyHandler) updateHandles(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	var req service.UpdateHandlesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	record, err := h.journeyService.UpdateHandles(r.Context(), userID, req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, record)
}

func (h *JourneyHandler) incrementManual(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	var req struct {
		Count int `json:"count"`
	}
	if r.Body != nil {
		// An empty body means increment by one.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	record, err := h.journeyService.IncrementManualSolves(r.Context(), userID, req.Count)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, record)
}

func (h *JourneyHandler) resetProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}
	record, err := h.journeyService.ResetProgress(r.Context(), userID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, record)
}
