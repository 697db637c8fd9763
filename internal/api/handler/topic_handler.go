package handler

import (
	"net/http"

	"cp_journey/internal/app/service"
	"cp_journey/internal/common"

	"github.com/go-chi/chi/v5"
)

type TopicHandler struct {
	topicService *service.TopicService
}

func NewTopicHandler(ts *service.TopicService) *TopicHandler {
	return &TopicHandler{topicService: ts}
}

func (h *TopicHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.getTopicCatalog) // GET /api/v1/topics
}

func (h *TopicHandler) getTopicCatalog(w http.ResponseWriter, r *http.Request) {
	resp := h.topicService.GetTopicCatalog(r.Context())
	common.RespondWithJSON(w, http.StatusOK, resp)
}
