package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"labinventory-backend/internal/importer"
	"labinventory-backend/internal/model"
	"labinventory-backend/internal/store"
)

type createAssetRequest struct {
	AssetTag       string           `json:"assetTag" binding:"required"`
	LabID          int64            `json:"labId" binding:"required"`
	Status         string           `json:"status"`
	Model          model.AssetModel `json:"model"`
	SerialNumber   *string          `json:"serialNumber"`
	PurchaseDate   string           `json:"purchaseDate"`
	WarrantyExpiry string           `json:"warrantyExpiry"`
	Remarks        *string          `json:"remarks"`
}

// ListAssets handles GET /api/assets?labId=&status=.
func (h *Handler) ListAssets(c *gin.Context) {
	var filter store.AssetFilter

	if raw := c.Query("labId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			message(c, http.StatusBadRequest, "Invalid labId")
			return
		}
		filter.LabID = id
	}
	if raw := c.Query("status"); raw != "" {
		status, err := importer.ParseStatus(raw)
		if err != nil {
			message(c, http.StatusBadRequest, "Invalid status")
			return
		}
		filter.Status = status
	}

	assets, err := h.store.ListAssets(c.Request.Context(), filter)
	if err != nil {
		serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, assets)
}

// GetAsset handles GET /api/assets/:id.
func (h *Handler) GetAsset(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	asset, err := h.store.GetAsset(c.Request.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		message(c, http.StatusNotFound, "Asset not found")
		return
	}
	if err != nil {
		serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, asset)
}

// CreateAsset handles POST /api/assets.
func (h *Handler) CreateAsset(c *gin.Context) {
	var req createAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		message(c, http.StatusBadRequest, "Asset tag and lab are required")
		return
	}

	status, err := importer.ParseStatus(req.Status)
	if err != nil {
		message(c, http.StatusBadRequest, "Invalid status")
		return
	}
	purchased, err := importer.ParseDate(req.PurchaseDate)
	if err != nil {
		message(c, http.StatusBadRequest, "Invalid purchase date")
		return
	}
	warranty, err := importer.ParseDate(req.WarrantyExpiry)
	if err != nil {
		message(c, http.StatusBadRequest, "Invalid warranty expiry")
		return
	}

	ctx := c.Request.Context()
	if _, err := h.store.GetLab(ctx, req.LabID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			message(c, http.StatusBadRequest, "Lab not found")
			return
		}
		serverError(c, err)
		return
	}

	asset := model.Asset{
		AssetTag:       req.AssetTag,
		LabID:          req.LabID,
		Status:         status,
		Model:          req.Model,
		SerialNumber:   req.SerialNumber,
		PurchaseDate:   purchased,
		WarrantyExpiry: warranty,
		Remarks:        req.Remarks,
	}
	err = h.store.CreateAsset(ctx, &asset)
	if errors.Is(err, store.ErrDuplicate) {
		message(c, http.StatusBadRequest, "Asset tag already exists")
		return
	}
	if err != nil {
		serverError(c, err)
		return
	}
	c.JSON(http.StatusCreated, asset)
}
