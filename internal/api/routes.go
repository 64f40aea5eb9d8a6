package api

import (
	"net/http"

	"gymhero/training-api/internal/domain"
	"gymhero/training-api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Services bundles what the router needs.
type Services struct {
	Auth          service.AuthService
	Users         service.UserService
	Levels        service.ReferenceService[domain.Level]
	BodyParts     service.ReferenceService[domain.BodyPart]
	ExerciseTypes service.ReferenceService[domain.ExerciseType]
	Exercises     service.ExerciseService
	TrainingUnits service.TrainingUnitService
	TrainingPlans service.TrainingPlanService
}

// NewRouter builds the engine with recovery, request ids, request logging
// and every route.
func NewRouter(log zerolog.Logger, svc Services) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestID(), RequestLogger(log))
	SetupRoutes(router, svc)
	return router
}

func SetupRoutes(router *gin.Engine, svc Services) {
	authHandler := NewAuthHandler(svc.Auth)
	userHandler := NewUserHandler(svc.Users)
	exerciseHandler := NewExerciseHandler(svc.Exercises)
	unitHandler := NewTrainingUnitHandler(svc.TrainingUnits)
	planHandler := NewTrainingPlanHandler(svc.TrainingPlans)

	authMiddleware := AuthMiddleware(svc.Auth)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")

	authGroup := apiV1.Group("/auth")
	{
		authGroup.POST("/login", authHandler.Login)
		authGroup.GET("/me", authMiddleware, authHandler.Me)
	}

	// --- Users (superuser only) ---
	userGroup := apiV1.Group("/users", authMiddleware)
	{
		userGroup.GET("/all", userHandler.List)
		userGroup.GET("/email/:email", userHandler.GetByEmail)
		userGroup.GET("/:id", userHandler.Get)
		userGroup.POST("", userHandler.Create)
		userGroup.PUT("/:id", userHandler.Update)
		userGroup.DELETE("/:id", userHandler.Delete)
	}

	// --- Reference data: public reads, superuser writes ---
	referenceRoutes(apiV1.Group("/levels"), NewReferenceHandler(svc.Levels, "Level"), authMiddleware)
	referenceRoutes(apiV1.Group("/body-parts"), NewReferenceHandler(svc.BodyParts, "Body part"), authMiddleware)
	referenceRoutes(apiV1.Group("/exercise-types"), NewReferenceHandler(svc.ExerciseTypes, "Exercise type"), authMiddleware)

	// --- Exercises ---
	exerciseGroup := apiV1.Group("/exercises")
	{
		exerciseGroup.GET("/all", exerciseHandler.ListExercises)

		protected := exerciseGroup.Group("", authMiddleware)
		protected.GET("/all/my", exerciseHandler.ListMyExercises)
		protected.GET("/name/:name", exerciseHandler.GetExerciseByName)
		protected.GET("/:id", exerciseHandler.GetExercise)
		protected.POST("", exerciseHandler.CreateExercise)
		protected.PUT("/:id", exerciseHandler.UpdateExercise)
		protected.DELETE("/:id", exerciseHandler.DeleteExercise)
		protected.POST("/:id/media", exerciseHandler.CreateMediaUpload)
		protected.GET("/:id/media", exerciseHandler.GetMedia)
	}

	// --- Training units ---
	unitGroup := apiV1.Group("/training-units")
	{
		protected := trainingRoutes(unitGroup, &unitHandler.trainingHandler, authMiddleware)
		protected.GET("/:id/exercises", unitHandler.ListExercises)
		protected.PUT("/:id/exercises/:exercise_id/add", unitHandler.AddExercise)
		protected.PUT("/:id/exercises/:exercise_id/remove", unitHandler.RemoveExercise)
	}

	// --- Training plans ---
	planGroup := apiV1.Group("/training-plans")
	{
		protected := trainingRoutes(planGroup, &planHandler.trainingHandler, authMiddleware)
		protected.GET("/:id/training-units", planHandler.ListUnits)
		protected.PUT("/:id/training-units/:unit_id/add", planHandler.AddUnit)
		protected.PUT("/:id/training-units/:unit_id/remove", planHandler.RemoveUnit)
	}
}

func referenceRoutes[T domain.Named](group *gin.RouterGroup, h *ReferenceHandler[T], authMiddleware gin.HandlerFunc) {
	group.GET("/all", h.List)
	group.GET("/name/:name", h.GetByName)
	group.GET("/:id", h.Get)

	protected := group.Group("", authMiddleware)
	protected.POST("", h.Create)
	protected.PUT("/:id", h.Update)
	protected.DELETE("/:id", h.Delete)
}

// trainingRoutes registers the owned-data routes and returns the
// authenticated subgroup for relation routes.
func trainingRoutes[T any](group *gin.RouterGroup, h *trainingHandler[T], authMiddleware gin.HandlerFunc) *gin.RouterGroup {
	group.GET("/all", h.List)

	protected := group.Group("", authMiddleware)
	protected.GET("/all/my", h.ListMine)
	protected.GET("/name/:name", h.GetByName)
	protected.GET("/:id", h.Get)
	protected.POST("", h.Create)
	protected.PUT("/:id", h.Update)
	protected.DELETE("/:id", h.Delete)
	return protected
}
