package http

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	r "github.com/InnoTechCollege/StripeExample/internal/repository"
)

type ItemsHandler struct {
	repo    r.RepoInterface
	timeout time.Duration
}

func NewItemsHandler(repo r.RepoInterface, timeout time.Duration) *ItemsHandler {
	return &ItemsHandler{
		repo:    repo,
		timeout: timeout,
	}
}

type ItemResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	ImageURL string `json:"image_url"`
	Currency string `json:"currency"`
}

type ErrorResponse struct {
	Message string `json:"message"`
}

// GET /api/items
func (h *ItemsHandler) List(w http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), h.timeout)
	defer cancel()

	items, err := h.repo.ListItems(ctx)
	if err != nil {
		log.Printf("failed to list items: %v", err)
		respondError(w, http.StatusInternalServerError, "Something has gone wrong!")
		return
	}

	response := make([]ItemResponse, len(items))
	for i, item := range items {
		response[i] = ItemResponse{
			ID:       item.ID,
			Name:     item.Name,
			Price:    item.Price,
			ImageURL: item.ImageURL,
			Currency: item.Currency,
		}
	}

	respondJSON(w, http.StatusOK, response)
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Message: message})
}
