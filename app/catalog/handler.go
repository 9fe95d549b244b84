package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sandyspace/catalog-manager/ai"
	"github.com/sandyspace/catalog-manager/app/api"
	"github.com/sandyspace/catalog-manager/logger"
	"github.com/sandyspace/catalog-manager/messages"
	"github.com/sandyspace/catalog-manager/models"
	"github.com/sandyspace/catalog-manager/remote"
)

type Response struct {
	Total    int       `json:"total"`
	Products []Product `json:"products"`
}

// Product is a stored product plus its display strings.
type Product struct {
	models.Product
	DisplayPrice   string `json:"displayPrice"`
	DisplayCreated string `json:"displayCreatedAt"`
}

func newProduct(p models.Product) Product {
	return Product{
		Product:        p,
		DisplayPrice:   models.FormatPrice(p.Price),
		DisplayCreated: models.FormatDate(p.CreatedAt),
	}
}

type ProductProvider interface {
	ListProducts(ctx context.Context) []models.Product
	ListProductsByCategory(ctx context.Context, categoryID string) []models.Product
	GetProduct(ctx context.Context, id string) (models.Product, error)
	SaveProduct(ctx context.Context, p models.Product) (models.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	MarkUploaded(ctx context.Context, ids ...string) (int, error)
}

// Publisher pushes products to the shop backend.
type Publisher interface {
	SyncProduct(ctx context.Context, p models.Product) error
	CreateProduct(ctx context.Context, p models.Product, images []remote.Image) (json.RawMessage, error)
}

type Describer interface {
	Generate(ctx context.Context, base64Image, categoryID string) (ai.Description, error)
}

type CatalogHandler struct {
	repo      ProductProvider
	uploader  remote.ImageUploader
	publisher Publisher
	describer Describer
	responder *api.Responder
	logger    logger.ZapLogger
}

func NewCatalogHandler(
	r ProductProvider,
	uploader remote.ImageUploader,
	publisher Publisher,
	describer Describer,
	responder *api.Responder,
	log logger.ZapLogger,
) *CatalogHandler {
	return &CatalogHandler{
		repo:      r,
		uploader:  uploader,
		publisher: publisher,
		describer: describer,
		responder: responder,
		logger:    log,
	}
}

// HandleGet lists products, optionally filtered by ?category= and paged with
// ?offset= and ?limit= (1..100). Without limit every product is returned.
func (h *CatalogHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	offset := 0
	limit := 0

	if oStr := r.URL.Query().Get("offset"); oStr != "" {
		if o, err := strconv.Atoi(oStr); err == nil && o >= 0 {
			offset = o
		}
	}

	if lStr := r.URL.Query().Get("limit"); lStr != "" {
		if l, err := strconv.Atoi(lStr); err == nil {
			if l < 1 {
				limit = 1
			} else if l > 100 {
				limit = 100
			} else {
				limit = l
			}
		}
	}

	var res []models.Product
	if categoryID := r.URL.Query().Get("category"); categoryID != "" {
		res = h.repo.ListProductsByCategory(r.Context(), categoryID)
	} else {
		res = h.repo.ListProducts(r.Context())
	}

	total := len(res)
	if offset > len(res) {
		offset = len(res)
	}
	res = res[offset:]
	if limit > 0 && limit < len(res) {
		res = res[:limit]
	}

	products := make([]Product, len(res))
	for i, p := range res {
		products[i] = newProduct(p)
	}

	api.WriteJSON(w, http.StatusOK, Response{
		Total:    total,
		Products: products,
	})
}

// HandleCreate validates a draft, uploads its photo and stores the product.
func (h *CatalogHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var draft models.ProductDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		h.responder.BadRequest(w, r, messages.InvalidJSON)
		return
	}

	if err := draft.Validate(); err != nil {
		h.responder.Error(w, r, err)
		return
	}

	img, err := remote.DecodeImage(draft.ImageData, draft.ImageURI)
	if err != nil {
		h.responder.BadRequest(w, r, messages.InvalidImage)
		return
	}

	url, err := h.uploader.UploadImage(r.Context(), img)
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}

	saved, err := h.repo.SaveProduct(r.Context(), draft.Product(uuid.New().String(), url))
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}

	h.logger.Info("product created", zap.String("product_id", saved.ID), zap.String("category_id", saved.CategoryID))
	api.WriteJSON(w, http.StatusCreated, newProduct(saved))
}

// HandleUpdate replaces an existing product. The edited product is pending
// sync again.
func (h *CatalogHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	existing, err := h.repo.GetProduct(r.Context(), id)
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}

	var input models.Product
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.responder.BadRequest(w, r, messages.InvalidJSON)
		return
	}

	input.ID = id
	input.CreatedAt = existing.CreatedAt
	input.Uploaded = false

	saved, err := h.repo.SaveProduct(r.Context(), input)
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, newProduct(saved))
}

func (h *CatalogHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.DeleteProduct(r.Context(), r.PathValue("id")); err != nil {
		h.responder.Error(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleSync sends one product to the backend and marks it uploaded.
func (h *CatalogHandler) HandleSync(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	product, err := h.repo.GetProduct(r.Context(), id)
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}

	if err := h.publisher.SyncProduct(r.Context(), product); err != nil {
		h.responder.Error(w, r, err)
		return
	}

	if _, err := h.repo.MarkUploaded(r.Context(), id); err != nil {
		h.responder.Error(w, r, err)
		return
	}

	product, err = h.repo.GetProduct(r.Context(), id)
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, newProduct(product))
}

// HandlePublish creates the product on the commerce API with all its photos
// and relays the API's answer.
func (h *CatalogHandler) HandlePublish(w http.ResponseWriter, r *http.Request) {
	product, err := h.repo.GetProduct(r.Context(), r.PathValue("id"))
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}

	images, err := remote.ProductImages(product)
	if err != nil {
		h.responder.BadRequest(w, r, messages.InvalidImage)
		return
	}

	resp, err := h.publisher.CreateProduct(r.Context(), product, images)
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}

	api.WriteJSON(w, http.StatusOK, struct {
		ID       string          `json:"id"`
		Response json.RawMessage `json:"response"`
	}{ID: product.ID, Response: resp})
}

// HandleDescribe asks the AI service for a name and description.
func (h *CatalogHandler) HandleDescribe(w http.ResponseWriter, r *http.Request) {
	var input struct {
		ImageData  string `json:"base64Image"`
		CategoryID string `json:"categoryId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.responder.BadRequest(w, r, messages.InvalidJSON)
		return
	}
	if input.ImageData == "" {
		h.responder.Error(w, r, &models.ValidationError{Field: "image", MessageID: messages.ImageRequired})
		return
	}

	desc, err := h.describer.Generate(r.Context(), input.ImageData, input.CategoryID)
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, desc)
}
