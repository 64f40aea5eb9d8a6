package api

import (
	"fmt"
	"net/http"

	"gymhero/training-api/internal/domain"
	"gymhero/training-api/internal/service"

	"github.com/gin-gonic/gin"
)

// ReferenceHandler serves one kind of reference data. Reads are public.
type ReferenceHandler[T domain.Named] struct {
	refService service.ReferenceService[T]
	label      string
}

func NewReferenceHandler[T domain.Named](refService service.ReferenceService[T], label string) *ReferenceHandler[T] {
	return &ReferenceHandler[T]{refService: refService, label: label}
}

type NameRequest struct {
	Name string `json:"name" binding:"required"`
}

// List godoc
// @Summary List reference records (levels, body parts, exercise types)
// @Tags Reference
// @Produce json
// @Param skip query int false "Records to skip" default(0)
// @Param limit query int false "Maximum records" default(10)
// @Success 200 {array} domain.Level
// @Router /levels/all [get]
func (h *ReferenceHandler[T]) List(c *gin.Context) {
	page, ok := parsePage(c)
	if !ok {
		return
	}
	recs, err := h.refService.List(c.Request.Context(), page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recs)
}

// Get godoc
// @Summary Get a reference record by id
// @Tags Reference
// @Produce json
// @Param id path int true "ID"
// @Success 200 {object} domain.Level
// @Failure 404 {object} gin.H "Not found"
// @Router /levels/{id} [get]
func (h *ReferenceHandler[T]) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	rec, err := h.refService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// GetByName godoc
// @Summary Get a reference record by name
// @Tags Reference
// @Produce json
// @Param name path string true "Name"
// @Success 200 {object} domain.Level
// @Failure 404 {object} gin.H "Not found"
// @Router /levels/name/{name} [get]
func (h *ReferenceHandler[T]) GetByName(c *gin.Context) {
	rec, err := h.refService.GetByName(c.Request.Context(), c.Param("name"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// Create godoc
// @Summary Create a reference record
// @Tags Reference
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param record body NameRequest true "Name"
// @Success 201 {object} domain.Level
// @Failure 403 {object} gin.H "Not a superuser"
// @Failure 409 {object} gin.H "Name already exists"
// @Router /levels [post]
func (h *ReferenceHandler[T]) Create(c *gin.Context) {
	var req NameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	rec, err := h.refService.Create(c.Request.Context(), currentUser(c), req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rec)
}

// Update godoc
// @Summary Rename a reference record
// @Tags Reference
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID"
// @Param record body domain.NamePatch true "Fields to change"
// @Success 200 {object} domain.Level
// @Router /levels/{id} [put]
func (h *ReferenceHandler[T]) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var patch domain.NamePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		bindError(c, err)
		return
	}
	rec, err := h.refService.Update(c.Request.Context(), currentUser(c), id, patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// Delete godoc
// @Summary Delete a reference record
// @Tags Reference
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID"
// @Success 200 {object} gin.H "detail"
// @Failure 409 {object} gin.H "Still used by exercises"
// @Router /levels/{id} [delete]
func (h *ReferenceHandler[T]) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if _, err := h.refService.Delete(c.Request.Context(), currentUser(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"detail": fmt.Sprintf("%s with id %d deleted.", h.label, id)})
}
