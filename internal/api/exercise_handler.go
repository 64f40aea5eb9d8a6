package api

import (
	"fmt"
	"net/http"
	"time"

	"gymhero/training-api/internal/domain"
	"gymhero/training-api/internal/service"

	"github.com/gin-gonic/gin"
)

// ExerciseHandler holds the exercise service dependency.
type ExerciseHandler struct {
	exerciseService service.ExerciseService
}

// NewExerciseHandler creates a new ExerciseHandler.
func NewExerciseHandler(exerciseService service.ExerciseService) *ExerciseHandler {
	return &ExerciseHandler{exerciseService: exerciseService}
}

// --- DTOs for API (Data Transfer Objects) ---

// CreateExerciseRequest defines the expected JSON for creating an exercise.
type CreateExerciseRequest struct {
	Name             string  `json:"name" binding:"required"`
	Description      *string `json:"description"`
	TargetBodyPartID int64   `json:"target_body_part_id" binding:"required,gt=0"`
	ExerciseTypeID   int64   `json:"exercise_type_id" binding:"required,gt=0"`
	LevelID          int64   `json:"level_id" binding:"required,gt=0"`
}

// ExerciseResponse is the DTO for returning exercise details.
type ExerciseResponse struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name"`
	Description      *string   `json:"description"`
	TargetBodyPartID int64     `json:"target_body_part_id"`
	ExerciseTypeID   int64     `json:"exercise_type_id"`
	LevelID          int64     `json:"level_id"`
	OwnerID          int64     `json:"owner_id"`
	HasMedia         bool      `json:"has_media"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type MediaUploadRequest struct {
	ContentType string `json:"content_type" binding:"required"`
}

type MediaResponse struct {
	URL       string    `json:"url"`
	Method    string    `json:"method"`
	ExpiresAt time.Time `json:"expires_at"`
}

// MapExerciseToResponse converts a domain.Exercise to ExerciseResponse DTO.
func MapExerciseToResponse(ex *domain.Exercise) ExerciseResponse {
	if ex == nil {
		return ExerciseResponse{}
	}
	return ExerciseResponse{
		ID:               ex.ID,
		Name:             ex.Name,
		Description:      ex.Description,
		TargetBodyPartID: ex.TargetBodyPartID,
		ExerciseTypeID:   ex.ExerciseTypeID,
		LevelID:          ex.LevelID,
		OwnerID:          ex.OwnerID,
		HasMedia:         ex.MediaKey != nil,
		CreatedAt:        ex.CreatedAt,
		UpdatedAt:        ex.UpdatedAt,
	}
}

// MapExercisesToResponse converts a slice of domain.Exercise to a slice of ExerciseResponse DTO.
func MapExercisesToResponse(exercises []domain.Exercise) []ExerciseResponse {
	responses := make([]ExerciseResponse, len(exercises))
	for i := range exercises {
		responses[i] = MapExerciseToResponse(&exercises[i])
	}
	return responses
}

// --- Handler Methods ---

// CreateExercise godoc
// @Summary Create a new exercise
// @Description Creates an exercise owned by the authenticated user.
// @Tags Exercises
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param exercise body CreateExerciseRequest true "Exercise details"
// @Success 201 {object} ExerciseResponse "Exercise created successfully"
// @Failure 400 {object} gin.H "Invalid input or unknown level, body part or exercise type"
// @Failure 401 {object} gin.H "Unauthorized"
// @Router /exercises [post]
func (h *ExerciseHandler) CreateExercise(c *gin.Context) {
	var req CreateExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	exercise, err := h.exerciseService.Create(c.Request.Context(), currentUser(c), service.ExerciseInput{
		Name:             req.Name,
		Description:      req.Description,
		TargetBodyPartID: req.TargetBodyPartID,
		ExerciseTypeID:   req.ExerciseTypeID,
		LevelID:          req.LevelID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, MapExerciseToResponse(exercise))
}

// ListExercises godoc
// @Summary List all exercises
// @Tags Exercises
// @Produce json
// @Param skip query int false "Records to skip" default(0)
// @Param limit query int false "Maximum records" default(10)
// @Success 200 {array} ExerciseResponse
// @Router /exercises/all [get]
func (h *ExerciseHandler) ListExercises(c *gin.Context) {
	page, ok := parsePage(c)
	if !ok {
		return
	}
	exercises, err := h.exerciseService.ListAll(c.Request.Context(), page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapExercisesToResponse(exercises))
}

// ListMyExercises godoc
// @Summary List the caller's exercises
// @Tags Exercises
// @Produce json
// @Security BearerAuth
// @Param skip query int false "Records to skip" default(0)
// @Param limit query int false "Maximum records" default(10)
// @Success 200 {array} ExerciseResponse
// @Router /exercises/all/my [get]
func (h *ExerciseHandler) ListMyExercises(c *gin.Context) {
	page, ok := parsePage(c)
	if !ok {
		return
	}
	exercises, err := h.exerciseService.ListMine(c.Request.Context(), currentUser(c), page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapExercisesToResponse(exercises))
}

// GetExercise godoc
// @Summary Get an exercise by id
// @Description Non-owners get 404.
// @Tags Exercises
// @Produce json
// @Security BearerAuth
// @Param id path int true "Exercise ID"
// @Success 200 {object} ExerciseResponse
// @Failure 404 {object} gin.H "Exercise not found"
// @Router /exercises/{id} [get]
func (h *ExerciseHandler) GetExercise(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	exercise, err := h.exerciseService.Get(c.Request.Context(), currentUser(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapExerciseToResponse(exercise))
}

// GetExerciseByName godoc
// @Summary Get one of the caller's exercises by name
// @Tags Exercises
// @Produce json
// @Security BearerAuth
// @Param name path string true "Exercise name"
// @Success 200 {object} ExerciseResponse
// @Failure 404 {object} gin.H "Exercise not found"
// @Router /exercises/name/{name} [get]
func (h *ExerciseHandler) GetExerciseByName(c *gin.Context) {
	exercise, err := h.exerciseService.GetByName(c.Request.Context(), currentUser(c), c.Param("name"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapExerciseToResponse(exercise))
}

// UpdateExercise godoc
// @Summary Update an exercise
// @Description Fields absent from the body are left unchanged; description may be set to null.
// @Tags Exercises
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Exercise ID"
// @Param exercise body domain.ExercisePatch true "Fields to change"
// @Success 200 {object} ExerciseResponse
// @Failure 403 {object} gin.H "Not the owner"
// @Failure 404 {object} gin.H "Exercise not found"
// @Router /exercises/{id} [put]
func (h *ExerciseHandler) UpdateExercise(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var patch domain.ExercisePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		bindError(c, err)
		return
	}
	exercise, err := h.exerciseService.Update(c.Request.Context(), currentUser(c), id, patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapExerciseToResponse(exercise))
}

// DeleteExercise godoc
// @Summary Delete an exercise
// @Description Also removes the exercise from every training unit.
// @Tags Exercises
// @Produce json
// @Security BearerAuth
// @Param id path int true "Exercise ID"
// @Success 200 {object} gin.H "detail"
// @Failure 403 {object} gin.H "Not the owner"
// @Failure 404 {object} gin.H "Exercise not found"
// @Router /exercises/{id} [delete]
func (h *ExerciseHandler) DeleteExercise(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if _, err := h.exerciseService.Delete(c.Request.Context(), currentUser(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"detail": fmt.Sprintf("Exercise with id %d deleted.", id)})
}

// CreateMediaUpload godoc
// @Summary Get an upload URL for exercise media
// @Description Returns a presigned PUT URL; the client uploads with the same Content-Type.
// @Tags Exercises
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Exercise ID"
// @Param media body MediaUploadRequest true "Content type"
// @Success 200 {object} MediaResponse
// @Failure 503 {object} gin.H "Media storage disabled"
// @Router /exercises/{id}/media [post]
func (h *ExerciseHandler) CreateMediaUpload(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req MediaUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	media, err := h.exerciseService.CreateMediaUpload(c.Request.Context(), currentUser(c), id, req.ContentType)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MediaResponse{URL: media.URL, Method: media.Method, ExpiresAt: media.ExpiresAt})
}

// GetMedia godoc
// @Summary Get a download URL for exercise media
// @Tags Exercises
// @Produce json
// @Security BearerAuth
// @Param id path int true "Exercise ID"
// @Success 200 {object} MediaResponse
// @Failure 404 {object} gin.H "Exercise or media not found"
// @Failure 503 {object} gin.H "Media storage disabled"
// @Router /exercises/{id}/media [get]
func (h *ExerciseHandler) GetMedia(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	media, err := h.exerciseService.MediaDownload(c.Request.Context(), currentUser(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MediaResponse{URL: media.URL, Method: media.Method, ExpiresAt: media.ExpiresAt})
}
