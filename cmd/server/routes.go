package main

import (
	"net/http"

	"github.com/rs/cors"

	"github.com/sandyspace/catalog-manager/app/api"
	"github.com/sandyspace/catalog-manager/app/catalog"
	"github.com/sandyspace/catalog-manager/app/categories"
	"github.com/sandyspace/catalog-manager/app/settings"
	"github.com/sandyspace/catalog-manager/logger"
	"github.com/sandyspace/catalog-manager/models"
	"github.com/sandyspace/catalog-manager/remote"
)

// remoteAPI is everything the handlers need from the shop backend.
type remoteAPI interface {
	catalog.Publisher
	settings.BatchSyncer
}

func newRouter(
	store *models.Store,
	uploader remote.ImageUploader,
	backend remoteAPI,
	describer catalog.Describer,
	responder *api.Responder,
	allowedOrigins []string,
	log logger.ZapLogger,
) http.Handler {
	catHandler := categories.NewCategoryHandler(store)
	prodHandler := catalog.NewCatalogHandler(store, uploader, backend, describer, responder, log)
	setHandler := settings.NewSettingsHandler(store, backend, responder, log)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /categories", catHandler.HandleGetAll)

	mux.HandleFunc("GET /products", prodHandler.HandleGet)
	mux.HandleFunc("POST /products", prodHandler.HandleCreate)
	mux.HandleFunc("POST /products/describe", prodHandler.HandleDescribe)
	mux.HandleFunc("PUT /products/{id}", prodHandler.HandleUpdate)
	mux.HandleFunc("DELETE /products/{id}", prodHandler.HandleDelete)
	mux.HandleFunc("POST /products/{id}/sync", prodHandler.HandleSync)
	mux.HandleFunc("POST /products/{id}/publish", prodHandler.HandlePublish)

	mux.HandleFunc("GET /settings", setHandler.HandleGet)
	mux.HandleFunc("PATCH /settings", setHandler.HandlePatch)
	mux.HandleFunc("PUT /pin", setHandler.HandleChangePIN)
	mux.HandleFunc("POST /pin/verify", setHandler.HandleVerifyPIN)
	mux.HandleFunc("GET /sync", setHandler.HandleSyncStatus)
	mux.HandleFunc("POST /sync", setHandler.HandleSync)

	gated := api.RequirePIN(store, responder, mux)

	return cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowedHeaders: []string{"Content-Type", "Accept-Language", api.PINHeader},
	}).Handler(gated)
}
