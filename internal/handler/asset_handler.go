package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"ops-portal/configs"
	"ops-portal/internal/models"
	"ops-portal/internal/service"
	"ops-portal/pkg/utils"
)

// AssetHandler handles inventory-related HTTP requests
type AssetHandler struct {
	assetService  service.AssetService
	exportService service.ExportService
	logger        *logrus.Logger
	config        *configs.Config
}

// NewAssetHandler creates a new AssetHandler
func NewAssetHandler(assetService service.AssetService, exportService service.ExportService, logger *logrus.Logger, config *configs.Config) *AssetHandler {
	return &AssetHandler{
		assetService:  assetService,
		exportService: exportService,
		logger:        logger,
		config:        config,
	}
}

// Create handles asset registration
func (h *AssetHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.AssetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	defer r.Body.Close()

	id, err := h.assetService.Create(r.Context(), &req)
	if err != nil {
		h.logger.Warnf("Failed to create asset: %v", err)
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.RespondWithSuccess(w, http.StatusCreated, "asset created successfully", map[string]interface{}{
		"asset_id": id,
	})
}

// GetAll handles listing assets, optionally filtered by status
func (h *AssetHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	status := models.AssetStatus(r.URL.Query().Get("status"))

	assets, err := h.assetService.GetAll(r.Context(), status)
	if err != nil {
		h.logger.Warnf("Failed to get assets: %v", err)
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, "assets retrieved successfully", assets)
}

// GetByID handles retrieving one asset
func (h *AssetHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := h.assetID(w, r)
	if !ok {
		return
	}

	asset, err := h.assetService.GetByID(r.Context(), id)
	if err != nil {
		h.logger.Warnf("Failed to get asset: %v", err)
		utils.RespondWithError(w, http.StatusNotFound, "asset not found")
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, "asset retrieved successfully", asset)
}

// Update handles asset updates
func (h *AssetHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.assetID(w, r)
	if !ok {
		return
	}

	var req models.AssetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	defer r.Body.Close()

	if err := h.assetService.Update(r.Context(), id, &req); err != nil {
		h.logger.Warnf("Failed to update asset: %v", err)
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, "asset updated successfully", nil)
}

// Assign handles handing an asset to a staff member or back to storage
func (h *AssetHandler) Assign(w http.ResponseWriter, r *http.Request) {
	id, ok := h.assetID(w, r)
	if !ok {
		return
	}

	var req struct {
		StaffID *int `json:"staff_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	defer r.Body.Close()

	if err := h.assetService.Assign(r.Context(), id, req.StaffID); err != nil {
		h.logger.Warnf("Failed to assign asset: %v", err)
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, "asset assignment updated successfully", nil)
}

// Delete handles asset deletion
func (h *AssetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.assetID(w, r)
	if !ok {
		return
	}

	if err := h.assetService.Delete(r.Context(), id); err != nil {
		h.logger.Warnf("Failed to delete asset: %v", err)
		utils.RespondWithError(w, http.StatusNotFound, "asset not found")
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, "asset deleted successfully", nil)
}

// Export handles downloading the inventory as csv or xlsx
func (h *AssetHandler) Export(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")

	data, filename, err := h.exportService.Assets(r.Context(), format)
	if err != nil {
		h.logger.Warnf("Failed to export assets: %v", err)
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.RespondWithFile(w, filename, exportContentType(filename), data)
}

func (h *AssetHandler) assetID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid asset ID")
		return 0, false
	}
	return id, true
}
