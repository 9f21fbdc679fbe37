package handlers

import (
	"net/http"

	"snow-route-pricing/internal/domain"
)

type RateCardHandler struct {
	RateCard domain.RateCard
}

func (h *RateCardHandler) Get(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, r, http.StatusOK, h.RateCard)
}
