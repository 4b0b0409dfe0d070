package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"labinventory-backend/internal/model"
	"labinventory-backend/internal/store"
)

type createLabRequest struct {
	Code       string  `json:"code" binding:"required"`
	Name       string  `json:"name" binding:"required"`
	Department string  `json:"department" binding:"required"`
	Location   *string `json:"location"`
	Remarks    *string `json:"remarks"`
}

// labDetail is a lab with the assets it owns.
type labDetail struct {
	model.Lab
	Assets []model.Asset `json:"assets"`
}

// ListLabs handles GET /api/labs.
func (h *Handler) ListLabs(c *gin.Context) {
	labs, err := h.store.ListLabs(c.Request.Context())
	if err != nil {
		serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, labs)
}

// GetLab handles GET /api/labs/:id.
func (h *Handler) GetLab(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	lab, err := h.store.GetLab(c.Request.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		message(c, http.StatusNotFound, "Lab not found")
		return
	}
	if err != nil {
		serverError(c, err)
		return
	}

	assets, err := h.store.ListAssets(c.Request.Context(), store.AssetFilter{LabID: lab.ID})
	if err != nil {
		serverError(c, err)
		return
	}
	for i := range assets {
		assets[i].Lab = nil
	}
	c.JSON(http.StatusOK, labDetail{Lab: *lab, Assets: assets})
}

// CreateLab handles POST /api/labs.
func (h *Handler) CreateLab(c *gin.Context) {
	var req createLabRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		message(c, http.StatusBadRequest, "Code, name and department are required")
		return
	}

	lab := model.Lab{
		Code:       req.Code,
		Name:       req.Name,
		Department: req.Department,
		Location:   req.Location,
		Remarks:    req.Remarks,
	}
	err := h.store.CreateLab(c.Request.Context(), &lab)
	if errors.Is(err, store.ErrDuplicate) {
		message(c, http.StatusBadRequest, "Lab code already exists")
		return
	}
	if err != nil {
		serverError(c, err)
		return
	}
	c.JSON(http.StatusCreated, lab)
}
