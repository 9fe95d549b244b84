package settings

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/sandyspace/catalog-manager/app/api"
	"github.com/sandyspace/catalog-manager/logger"
	"github.com/sandyspace/catalog-manager/messages"
	"github.com/sandyspace/catalog-manager/models"
)

type SettingsResponse struct {
	AIAPIKey    string `json:"aiApiKey"`
	APIEndpoint string `json:"apiEndpoint"`
}

type SyncResponse struct {
	SyncedCount int    `json:"syncedCount"`
	Message     string `json:"message"`
}

type SettingsProvider interface {
	GetSettings(ctx context.Context) models.AppSettings
	UpdateSettings(ctx context.Context, patch models.SettingsPatch) (models.AppSettings, error)
	SetPIN(ctx context.Context, pin string) error
	VerifyPIN(ctx context.Context, pin string) bool
	ListUnsynced(ctx context.Context) []models.Product
	MarkUploaded(ctx context.Context, ids ...string) (int, error)
	SyncStatus(ctx context.Context) models.SyncStatus
}

// BatchSyncer sends many products in one request.
type BatchSyncer interface {
	SyncProducts(ctx context.Context, products []models.Product) (int, error)
}

type SettingsHandler struct {
	repo      SettingsProvider
	syncer    BatchSyncer
	responder *api.Responder
	logger    logger.ZapLogger
}

func NewSettingsHandler(r SettingsProvider, syncer BatchSyncer, responder *api.Responder, log logger.ZapLogger) *SettingsHandler {
	return &SettingsHandler{
		repo:      r,
		syncer:    syncer,
		responder: responder,
		logger:    log,
	}
}

func newSettingsResponse(s models.AppSettings) SettingsResponse {
	return SettingsResponse{AIAPIKey: s.AIAPIKey, APIEndpoint: s.APIEndpoint}
}

func (h *SettingsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	api.WriteJSON(w, http.StatusOK, newSettingsResponse(h.repo.GetSettings(r.Context())))
}

// HandlePatch merges the given fields into the stored settings.
func (h *SettingsHandler) HandlePatch(w http.ResponseWriter, r *http.Request) {
	var patch models.SettingsPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		h.responder.BadRequest(w, r, messages.InvalidJSON)
		return
	}

	updated, err := h.repo.UpdateSettings(r.Context(), patch)
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, newSettingsResponse(updated))
}

func (h *SettingsHandler) HandleChangePIN(w http.ResponseWriter, r *http.Request) {
	var input struct {
		NewPIN     string `json:"newPin"`
		ConfirmPIN string `json:"confirmPin"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.responder.BadRequest(w, r, messages.InvalidJSON)
		return
	}

	if err := models.ValidatePINChange(input.NewPIN, input.ConfirmPIN); err != nil {
		h.responder.Error(w, r, err)
		return
	}
	if err := h.repo.SetPIN(r.Context(), input.NewPIN); err != nil {
		h.responder.Error(w, r, err)
		return
	}

	h.logger.Info("pin changed")
	w.WriteHeader(http.StatusNoContent)
}

func (h *SettingsHandler) HandleVerifyPIN(w http.ResponseWriter, r *http.Request) {
	var input struct {
		PIN string `json:"pin"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.responder.BadRequest(w, r, messages.InvalidJSON)
		return
	}

	if !h.repo.VerifyPIN(r.Context(), input.PIN) {
		h.responder.Error(w, r, models.ErrPINIncorrect)
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]bool{"valid": true})
}

func (h *SettingsHandler) HandleSyncStatus(w http.ResponseWriter, r *http.Request) {
	api.WriteJSON(w, http.StatusOK, h.repo.SyncStatus(r.Context()))
}

// HandleSync sends every product not yet uploaded in one batch and marks
// them uploaded on success.
func (h *SettingsHandler) HandleSync(w http.ResponseWriter, r *http.Request) {
	pending := h.repo.ListUnsynced(r.Context())
	if len(pending) == 0 {
		api.WriteJSON(w, http.StatusOK, SyncResponse{
			SyncedCount: 0,
			Message:     h.responder.Message(r, messages.NothingToSync, nil),
		})
		return
	}

	count, err := h.syncer.SyncProducts(r.Context(), pending)
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}

	ids := make([]string, len(pending))
	for i, p := range pending {
		ids[i] = p.ID
	}
	if _, err := h.repo.MarkUploaded(r.Context(), ids...); err != nil {
		h.responder.Error(w, r, err)
		return
	}

	h.logger.Info("products synced", zap.Int("count", count))
	api.WriteJSON(w, http.StatusOK, SyncResponse{
		SyncedCount: count,
		Message:     h.responder.Message(r, messages.SyncSucceeded, map[string]any{"Count": count}),
	})
}
