package categories

import (
	"context"
	"net/http"

	"github.com/sandyspace/catalog-manager/app/api"
	"github.com/sandyspace/catalog-manager/models"
)

type CategoryResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image"`
}

type CategoryProvider interface {
	ListCategories(ctx context.Context) []models.Category
}

type CategoryHandler struct {
	repo CategoryProvider
}

func NewCategoryHandler(r CategoryProvider) *CategoryHandler {
	return &CategoryHandler{repo: r}
}

func (h *CategoryHandler) HandleGetAll(w http.ResponseWriter, r *http.Request) {
	categories := h.repo.ListCategories(r.Context())

	response := make([]CategoryResponse, len(categories))
	for i, c := range categories {
		response[i] = CategoryResponse{
			ID:    c.ID,
			Name:  c.Name,
			Image: c.Image,
		}
	}

	api.WriteJSON(w, http.StatusOK, response)
}
