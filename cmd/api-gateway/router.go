package main

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/00DarkGhost00/Tracking-absence/internal/app"
	"github.com/00DarkGhost00/Tracking-absence/internal/handler"
	"github.com/00DarkGhost00/Tracking-absence/internal/middleware"
	"github.com/00DarkGhost00/Tracking-absence/internal/models"
	"github.com/00DarkGhost00/Tracking-absence/pkg/config"
	"github.com/00DarkGhost00/Tracking-absence/pkg/logger"
	corsmiddleware "github.com/00DarkGhost00/Tracking-absence/pkg/middleware/cors"
	reqidmiddleware "github.com/00DarkGhost00/Tracking-absence/pkg/middleware/requestid"
)

func newRouter(a *app.App) *gin.Engine {
	cfg := a.Config

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(a.Logger))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(a.Metrics))

	metricsHandler := handler.NewMetricsHandler(a.Metrics, a.DB)
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	semesterHandler := handler.NewSemesterHandler(a.Semester)
	timetableHandler := handler.NewTimetableHandler(a.Timetable)
	holidayHandler := handler.NewHolidayHandler(a.Holidays)
	absenceHandler := handler.NewAbsenceHandler(a.Absences)
	makeupHandler := handler.NewMakeupHandler(a.Makeups)
	hoursHandler := handler.NewHoursHandler(a.Ledger, a.Professors)
	dashboardHandler := handler.NewDashboardHandler(a.Dashboard)

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.WithResponseMeta())

	if a.Reports != nil {
		reportHandler := handler.NewReportHandler(a.Reports)
		// The signed token authorizes downloads, so browsers can follow the link directly.
		api.GET("/reports/download", reportHandler.Download)
		reports := api.Group("/reports", middleware.JWT(a.Tokens, cfg.JWT.Enabled))
		reports.POST("", reportHandler.Create)
		reports.GET("/:id", reportHandler.Status)
	}

	secured := api.Group("")
	secured.Use(middleware.JWT(a.Tokens, cfg.JWT.Enabled))

	admin := middleware.RequireRoles(models.RoleAdmin)
	guards := middleware.RequireRoles(models.RoleAdmin, models.RoleGuard)

	secured.GET("/semester", semesterHandler.Get)
	secured.PUT("/semester", admin, semesterHandler.Update)
	secured.POST("/semester/reset", admin, semesterHandler.Reset)

	secured.GET("/timetable", timetableHandler.List)
	secured.PUT("/timetable", admin, timetableHandler.Replace)
	secured.GET("/search", timetableHandler.Search)

	secured.GET("/holidays", holidayHandler.List)
	secured.POST("/holidays", admin, holidayHandler.Create)
	secured.DELETE("/holidays/:id", admin, holidayHandler.Delete)

	secured.GET("/absences", absenceHandler.List)
	secured.POST("/absences/reconcile", guards, absenceHandler.Reconcile)
	secured.DELETE("/absences/:id", admin, absenceHandler.Delete)

	secured.GET("/makeups", makeupHandler.List)
	secured.GET("/makeups/available-rooms", makeupHandler.AvailableRooms)
	secured.POST("/makeups", admin, makeupHandler.Create)
	secured.DELETE("/makeups/:id", admin, makeupHandler.Delete)

	secured.GET("/hours/fleet", hoursHandler.Fleet)
	secured.GET("/hours/professors/:name", hoursHandler.ProfessorSummary)

	secured.GET("/professors", hoursHandler.ListProfessors)
	secured.POST("/professors/statuses/sync", admin, hoursHandler.SyncStatuses)
	secured.GET("/professors/:name", hoursHandler.ProfessorDetail)
	secured.PUT("/professors/:name/status", admin, hoursHandler.SetStatus)

	secured.GET("/dashboard", dashboardHandler.Overview)

	return r
}
