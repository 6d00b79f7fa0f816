package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/schooltrack/attendance-api/api/swagger"
	"github.com/schooltrack/attendance-api/internal/handler"
	"github.com/schooltrack/attendance-api/internal/middleware"
	"github.com/schooltrack/attendance-api/internal/models"
	"github.com/schooltrack/attendance-api/internal/repository"
	"github.com/schooltrack/attendance-api/internal/service"
	"github.com/schooltrack/attendance-api/pkg/cache"
	"github.com/schooltrack/attendance-api/pkg/config"
	"github.com/schooltrack/attendance-api/pkg/database"
	"github.com/schooltrack/attendance-api/pkg/logger"
	corsmiddleware "github.com/schooltrack/attendance-api/pkg/middleware/cors"
	reqidmiddleware "github.com/schooltrack/attendance-api/pkg/middleware/requestid"
)

// @title SchoolTrack Attendance API
// @version 1.0.0
// @description Attendance tracking, reporting and roster management
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to redis", "error", err)
	}
	defer redisClient.Close()

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	validate := validator.New()

	studentRepo := repository.NewStudentRepository(db)
	teacherRepo := repository.NewTeacherRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	userRepo := repository.NewUserRepository(db)
	storeRepo := repository.NewStoreRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	metricsSvc := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Reports.CacheTTL, logr, cfg.Reports.CacheEnabled)
	storeSvc := service.NewStoreService(studentRepo, teacherRepo, subjectRepo, assignmentRepo, attendanceRepo, storeRepo, logr)

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	policy := service.AccountPolicy{
		StudentEmailDomain: cfg.Accounts.StudentEmailDomain,
		TeacherEmailDomain: cfg.Accounts.TeacherEmailDomain,
		StudentPassword:    cfg.Accounts.StudentPassword,
		TeacherPassword:    cfg.Accounts.TeacherPassword,
	}

	studentSvc := service.NewStudentService(storeSvc, studentRepo, storeSvc, authSvc, cacheSvc, policy, validate, logr)
	teacherSvc := service.NewTeacherService(storeSvc, teacherRepo, storeSvc, authSvc, policy, validate, logr)
	subjectSvc := service.NewSubjectService(storeSvc)
	assignmentSvc := service.NewAssignmentService(storeSvc, assignmentRepo, storeSvc, validate, logr)
	attendanceSvc := service.NewAttendanceService(storeSvc, attendanceRepo, storeSvc, cacheSvc, validate, logr)
	reportSvc := service.NewReportService(storeSvc, cacheSvc, validate, logr)
	exportSvc := service.NewExportService(storeSvc, validate, logr)
	importSvc := service.NewImportService(studentSvc, metricsSvc, logr)
	dashboardSvc := service.NewDashboardService(storeSvc, reportSvc, cfg.Reports.WindowDays, logr)

	authHandler := handler.NewAuthHandler(authSvc)
	studentHandler := handler.NewStudentHandler(studentSvc, importSvc)
	teacherHandler := handler.NewTeacherHandler(teacherSvc)
	subjectHandler := handler.NewSubjectHandler(subjectSvc)
	assignmentHandler := handler.NewAssignmentHandler(assignmentSvc)
	attendanceHandler := handler.NewAttendanceHandler(attendanceSvc)
	reportHandler := handler.NewReportHandler(reportSvc, exportSvc)
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Scrape)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.POST("/forgot-password", authHandler.ForgotPassword)

	protected := api.Group("")
	protected.Use(middleware.JWT(authSvc))

	protected.GET("/dashboard", dashboardHandler.Get)

	students := protected.Group("/students")
	students.GET("", middleware.RequireRoles(models.RoleAdmin, models.RoleTeacher), studentHandler.List)
	students.POST("", middleware.RequireRoles(models.RoleAdmin), studentHandler.Create)
	students.POST("/import", middleware.RequireRoles(models.RoleAdmin), studentHandler.Import)
	students.GET("/:id", middleware.RBAC(string(models.RoleAdmin), string(models.RoleTeacher), "SELF"), studentHandler.Get)

	teachers := protected.Group("/teachers")
	teachers.GET("", middleware.RequireRoles(models.RoleAdmin, models.RoleTeacher), teacherHandler.List)
	teachers.POST("", middleware.RequireRoles(models.RoleAdmin), teacherHandler.Create)

	protected.GET("/subjects", subjectHandler.List)

	assignments := protected.Group("/assignments")
	assignments.GET("", middleware.RequireRoles(models.RoleAdmin, models.RoleTeacher), assignmentHandler.List)
	assignments.POST("", middleware.RequireRoles(models.RoleAdmin), assignmentHandler.Create)

	attendance := protected.Group("/attendance")
	attendance.Use(middleware.RequireRoles(models.RoleAdmin, models.RoleTeacher))
	attendance.GET("", attendanceHandler.List)
	attendance.POST("", attendanceHandler.Mark)
	attendance.POST("/bulk", attendanceHandler.BulkMark)

	reports := protected.Group("/reports")
	reports.GET("", middleware.RequireRoles(models.RoleAdmin, models.RoleTeacher), reportHandler.List)
	reports.GET("/trend", middleware.RequireRoles(models.RoleAdmin, models.RoleTeacher), reportHandler.Trend)
	reports.GET("/students/:id", middleware.RBAC(string(models.RoleAdmin), string(models.RoleTeacher), "SELF"), reportHandler.StudentCard)
	reports.GET("/students/:id/subjects", middleware.RBAC(string(models.RoleAdmin), string(models.RoleTeacher), "SELF"), reportHandler.StudentSubjects)
	reports.GET("/export", middleware.RequireRoles(models.RoleAdmin, models.RoleTeacher), reportHandler.Export)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
