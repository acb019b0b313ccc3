package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/campus-portal-api/api/swagger"
	"github.com/noah-isme/campus-portal-api/internal/handler"
	"github.com/noah-isme/campus-portal-api/internal/middleware"
	"github.com/noah-isme/campus-portal-api/internal/models"
	"github.com/noah-isme/campus-portal-api/internal/repository"
	"github.com/noah-isme/campus-portal-api/internal/service"
	"github.com/noah-isme/campus-portal-api/pkg/cache"
	"github.com/noah-isme/campus-portal-api/pkg/config"
	"github.com/noah-isme/campus-portal-api/pkg/database"
	"github.com/noah-isme/campus-portal-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/campus-portal-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/campus-portal-api/pkg/middleware/requestid"
)

// @title Campus Portal API
// @version 0.1.0
// @description Academic progression and assessment engine for the student portal
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		// The cache repository degrades to pass-through on a nil client.
		logr.Sugar().Warnw("redis unavailable, publication cache disabled", "error", err)
		redisClient = nil
	}

	validate := validator.New()

	courseRepo := repository.NewCourseRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	assessmentRepo := repository.NewAssessmentRepository(db)
	publicationRepo := repository.NewPublicationRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	metricsSvc := service.NewMetricsService()
	authSvc := service.NewAuthService(cfg.JWT, logr)
	courseSvc := service.NewCourseService(courseRepo, logr)
	publicationSvc := service.NewPublicationService(publicationRepo, cacheRepo, metricsSvc, cfg.Publications.CacheTTL, validate, logr)
	enrollmentSvc := service.NewEnrollmentService(enrollmentRepo, courseRepo, assessmentRepo, validate, logr)
	grader := service.NewSimulatedGrader(cfg.Assessment, time.Now().UnixNano())
	assessmentSvc := service.NewAssessmentService(
		assessmentRepo, enrollmentRepo, courseRepo, publicationSvc, grader,
		cfg.Assessment.QuestionCount, cfg.Assessment.FinalExamThreshold, validate, logr,
	)
	transcriptSvc := service.NewTranscriptService(enrollmentRepo, assessmentRepo, publicationSvc, logr)

	courseHandler := handler.NewCourseHandler(courseSvc)
	enrollmentHandler := handler.NewEnrollmentHandler(enrollmentSvc)
	assessmentHandler := handler.NewAssessmentHandler(assessmentSvc)
	publicationHandler := handler.NewPublicationHandler(publicationSvc)
	transcriptHandler := handler.NewTranscriptHandler(transcriptSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.JWT(authSvc))

	courses := api.Group("/courses")
	{
		courses.GET("", courseHandler.List)
		courses.GET("/:courseId", courseHandler.Get)
	}

	enrollments := api.Group("/enrollments")
	{
		enrollments.POST("", enrollmentHandler.Enroll)
		enrollments.POST("/bulk", enrollmentHandler.EnrollMany)
		enrollments.GET("", enrollmentHandler.List)
		enrollments.GET("/gpa", enrollmentHandler.GPA)
		enrollments.POST("/payments", enrollmentHandler.MarkAllPaid)
		enrollments.GET("/:courseId", enrollmentHandler.Get)
		enrollments.GET("/:courseId/grade", enrollmentHandler.Grade)
		enrollments.DELETE("/:courseId", enrollmentHandler.Unenroll)
		enrollments.POST("/:courseId/payment", enrollmentHandler.MarkPaid)
	}

	assessments := api.Group("/assessments")
	{
		assessments.POST("/assignments", assessmentHandler.SubmitAssignment)
		assessments.POST("/tests", assessmentHandler.SubmitTest)
	}

	exams := api.Group("/exams")
	{
		exams.GET("/:courseId/questions", assessmentHandler.Questions)
		exams.GET("/:courseId/eligibility", assessmentHandler.Eligibility)
		exams.POST("/midterm", assessmentHandler.SubmitMidterm)
		exams.POST("/final", assessmentHandler.SubmitFinal)
	}

	publications := api.Group("/publications")
	{
		publications.GET("/:courseId", publicationHandler.Info)

		reviewerOnly := publications.Group("")
		reviewerOnly.Use(middleware.RequireRoles(models.RoleReviewer, models.RoleAdmin))
		reviewerOnly.POST("", publicationHandler.Publish)
		reviewerOnly.DELETE("", publicationHandler.Unpublish)
		reviewerOnly.POST("/batch", publicationHandler.BatchPublish)
	}

	if cfg.Exports.Enabled {
		api.GET("/transcript/export", transcriptHandler.Export)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
