package api

import (
	"context"
	"fmt"
	"net/http"

	"gymhero/training-api/internal/domain"
	"gymhero/training-api/internal/repository"
	"gymhero/training-api/internal/service"

	"github.com/gin-gonic/gin"
)

// trainingService is the CRUD surface shared by the training unit and plan
// services.
type trainingService[T any] interface {
	Create(ctx context.Context, actor *domain.User, in service.TrainingInput) (*T, error)
	Get(ctx context.Context, actor *domain.User, id int64) (*T, error)
	GetByName(ctx context.Context, actor *domain.User, name string) (*T, error)
	ListAll(ctx context.Context, page repository.Page) ([]T, error)
	ListMine(ctx context.Context, actor *domain.User, page repository.Page) ([]T, error)
	Update(ctx context.Context, actor *domain.User, id int64, patch domain.TrainingPatch) (*T, error)
	Delete(ctx context.Context, actor *domain.User, id int64) (*T, error)
}

type TrainingRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
}

// trainingHandler serves the owned-data routes of units and plans.
type trainingHandler[T any] struct {
	svc   trainingService[T]
	label string
}

// List godoc
// @Summary List all training units or plans
// @Tags Training
// @Produce json
// @Param skip query int false "Records to skip" default(0)
// @Param limit query int false "Maximum records" default(10)
// @Success 200 {array} domain.TrainingPlan
// @Router /training-plans/all [get]
func (h *trainingHandler[T]) List(c *gin.Context) {
	page, ok := parsePage(c)
	if !ok {
		return
	}
	recs, err := h.svc.ListAll(c.Request.Context(), page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recs)
}

// ListMine godoc
// @Summary List the caller's training units or plans
// @Tags Training
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.TrainingPlan
// @Router /training-plans/all/my [get]
func (h *trainingHandler[T]) ListMine(c *gin.Context) {
	page, ok := parsePage(c)
	if !ok {
		return
	}
	recs, err := h.svc.ListMine(c.Request.Context(), currentUser(c), page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recs)
}

// Get godoc
// @Summary Get a training unit or plan by id
// @Description Non-owners get 404.
// @Tags Training
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID"
// @Success 200 {object} domain.TrainingPlan
// @Failure 404 {object} gin.H "Not found"
// @Router /training-plans/{id} [get]
func (h *trainingHandler[T]) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	rec, err := h.svc.Get(c.Request.Context(), currentUser(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// GetByName godoc
// @Summary Get one of the caller's training units or plans by name
// @Tags Training
// @Produce json
// @Security BearerAuth
// @Param name path string true "Name"
// @Success 200 {object} domain.TrainingPlan
// @Failure 404 {object} gin.H "Not found"
// @Router /training-plans/name/{name} [get]
func (h *trainingHandler[T]) GetByName(c *gin.Context) {
	rec, err := h.svc.GetByName(c.Request.Context(), currentUser(c), c.Param("name"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// Create godoc
// @Summary Create a training unit or plan
// @Tags Training
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param record body TrainingRequest true "Name and description"
// @Success 201 {object} domain.TrainingPlan
// @Failure 409 {object} gin.H "Name already used by the caller"
// @Router /training-plans [post]
func (h *trainingHandler[T]) Create(c *gin.Context) {
	var req TrainingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	rec, err := h.svc.Create(c.Request.Context(), currentUser(c), service.TrainingInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rec)
}

// Update godoc
// @Summary Update a training unit or plan
// @Tags Training
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID"
// @Param record body domain.TrainingPatch true "Fields to change"
// @Success 200 {object} domain.TrainingPlan
// @Failure 403 {object} gin.H "Not the owner"
// @Router /training-plans/{id} [put]
func (h *trainingHandler[T]) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var patch domain.TrainingPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		bindError(c, err)
		return
	}
	rec, err := h.svc.Update(c.Request.Context(), currentUser(c), id, patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// Delete godoc
// @Summary Delete a training unit or plan
// @Tags Training
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID"
// @Success 200 {object} gin.H "detail"
// @Failure 403 {object} gin.H "Not the owner"
// @Router /training-plans/{id} [delete]
func (h *trainingHandler[T]) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if _, err := h.svc.Delete(c.Request.Context(), currentUser(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"detail": fmt.Sprintf("%s with id %d deleted.", h.label, id)})
}

// --- Training units ---

// TrainingUnitWithExercises is a unit with its current exercises.
type TrainingUnitWithExercises struct {
	domain.TrainingUnit
	Exercises []ExerciseResponse `json:"exercises"`
}

type TrainingUnitHandler struct {
	trainingHandler[domain.TrainingUnit]
	unitService service.TrainingUnitService
}

func NewTrainingUnitHandler(unitService service.TrainingUnitService) *TrainingUnitHandler {
	return &TrainingUnitHandler{
		trainingHandler: trainingHandler[domain.TrainingUnit]{svc: unitService, label: "Training unit"},
		unitService:     unitService,
	}
}

// AddExercise godoc
// @Summary Add an exercise to a training unit
// @Tags Training
// @Produce json
// @Security BearerAuth
// @Param id path int true "Training unit ID"
// @Param exercise_id path int true "Exercise ID"
// @Success 200 {object} TrainingUnitWithExercises
// @Failure 403 {object} gin.H "Not the owner of the unit"
// @Failure 404 {object} gin.H "Unit or exercise not found"
// @Failure 409 {object} gin.H "Exercise already in the unit"
// @Router /training-units/{id}/exercises/{exercise_id}/add [put]
func (h *TrainingUnitHandler) AddExercise(c *gin.Context) {
	h.changeExercises(c, h.unitService.AddExercise)
}

// RemoveExercise godoc
// @Summary Remove an exercise from a training unit
// @Tags Training
// @Produce json
// @Security BearerAuth
// @Param id path int true "Training unit ID"
// @Param exercise_id path int true "Exercise ID"
// @Success 200 {object} TrainingUnitWithExercises
// @Failure 409 {object} gin.H "Exercise not in the unit"
// @Router /training-units/{id}/exercises/{exercise_id}/remove [put]
func (h *TrainingUnitHandler) RemoveExercise(c *gin.Context) {
	h.changeExercises(c, h.unitService.RemoveExercise)
}

type unitChange func(ctx context.Context, actor *domain.User, unitID, exerciseID int64) (*service.Members[domain.TrainingUnit, domain.Exercise], error)

func (h *TrainingUnitHandler) changeExercises(c *gin.Context, change unitChange) {
	unitID, ok := pathID(c, "id")
	if !ok {
		return
	}
	exerciseID, ok := pathID(c, "exercise_id")
	if !ok {
		return
	}
	m, err := change(c.Request.Context(), currentUser(c), unitID, exerciseID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, TrainingUnitWithExercises{
		TrainingUnit: m.Parent,
		Exercises:    MapExercisesToResponse(m.Children),
	})
}

// ListExercises godoc
// @Summary List the exercises of a training unit
// @Tags Training
// @Produce json
// @Security BearerAuth
// @Param id path int true "Training unit ID"
// @Success 200 {array} ExerciseResponse
// @Failure 404 {object} gin.H "Unit not found"
// @Router /training-units/{id}/exercises [get]
func (h *TrainingUnitHandler) ListExercises(c *gin.Context) {
	unitID, ok := pathID(c, "id")
	if !ok {
		return
	}
	exercises, err := h.unitService.ListExercises(c.Request.Context(), currentUser(c), unitID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapExercisesToResponse(exercises))
}

// --- Training plans ---

// TrainingPlanWithUnits is a plan with its current training units.
type TrainingPlanWithUnits struct {
	domain.TrainingPlan
	TrainingUnits []domain.TrainingUnit `json:"training_units"`
}

type TrainingPlanHandler struct {
	trainingHandler[domain.TrainingPlan]
	planService service.TrainingPlanService
}

func NewTrainingPlanHandler(planService service.TrainingPlanService) *TrainingPlanHandler {
	return &TrainingPlanHandler{
		trainingHandler: trainingHandler[domain.TrainingPlan]{svc: planService, label: "Training plan"},
		planService:     planService,
	}
}

// AddUnit godoc
// @Summary Add a training unit to a training plan
// @Tags Training
// @Produce json
// @Security BearerAuth
// @Param id path int true "Training plan ID"
// @Param unit_id path int true "Training unit ID"
// @Success 200 {object} TrainingPlanWithUnits
// @Failure 403 {object} gin.H "Not the owner of the plan"
// @Failure 404 {object} gin.H "Plan or unit not found"
// @Failure 409 {object} gin.H "Unit already in the plan"
// @Router /training-plans/{id}/training-units/{unit_id}/add [put]
func (h *TrainingPlanHandler) AddUnit(c *gin.Context) {
	h.changeUnits(c, h.planService.AddUnit)
}

// RemoveUnit godoc
// @Summary Remove a training unit from a training plan
// @Tags Training
// @Produce json
// @Security BearerAuth
// @Param id path int true "Training plan ID"
// @Param unit_id path int true "Training unit ID"
// @Success 200 {object} TrainingPlanWithUnits
// @Failure 409 {object} gin.H "Unit not in the plan"
// @Router /training-plans/{id}/training-units/{unit_id}/remove [put]
func (h *TrainingPlanHandler) RemoveUnit(c *gin.Context) {
	h.changeUnits(c, h.planService.RemoveUnit)
}

type planChange func(ctx context.Context, actor *domain.User, planID, unitID int64) (*service.Members[domain.TrainingPlan, domain.TrainingUnit], error)

func (h *TrainingPlanHandler) changeUnits(c *gin.Context, change planChange) {
	planID, ok := pathID(c, "id")
	if !ok {
		return
	}
	unitID, ok := pathID(c, "unit_id")
	if !ok {
		return
	}
	m, err := change(c.Request.Context(), currentUser(c), planID, unitID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, TrainingPlanWithUnits{TrainingPlan: m.Parent, TrainingUnits: m.Children})
}

// ListUnits godoc
// @Summary List the training units of a plan
// @Tags Training
// @Produce json
// @Security BearerAuth
// @Param id path int true "Training plan ID"
// @Success 200 {array} domain.TrainingUnit
// @Failure 404 {object} gin.H "Plan not found"
// @Router /training-plans/{id}/training-units [get]
func (h *TrainingPlanHandler) ListUnits(c *gin.Context) {
	planID, ok := pathID(c, "id")
	if !ok {
		return
	}
	units, err := h.planService.ListUnits(c.Request.Context(), currentUser(c), planID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, units)
}
