package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthChecker reports the status of one backing service.
type HealthChecker func(ctx context.Context) error

type RouterConfig struct {
	Auth     *AuthHandler
	User     *UserHandler
	Cv       *CvHandler
	Skill    *SkillHandler
	Job      *JobHandler
	Analysis *AnalysisHandler

	// RequireAuth guards every route that needs a user.
	RequireAuth gin.HandlerFunc
	// Middleware runs before every route, after panic recovery.
	Middleware []gin.HandlerFunc
	Health     map[string]HealthChecker
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cfg.Middleware...)

	api := router.Group("/api/v1")
	api.GET("/health", healthHandler(cfg.Health))

	auth := api.Group("/auth")
	{
		auth.POST("/register", cfg.Auth.Register)
		auth.POST("/login", cfg.Auth.Login)
		auth.POST("/refresh", cfg.Auth.RefreshToken)
		auth.POST("/exchange-code", cfg.Auth.ExchangeAuthCode)
		auth.GET("/google", cfg.Auth.GoogleAuth)
		auth.GET("/google/callback", cfg.Auth.GoogleCallback)

		auth.POST("/logout", cfg.RequireAuth, cfg.Auth.Logout)
		auth.GET("/sessions", cfg.RequireAuth, cfg.Auth.GetSessions)
		auth.DELETE("/sessions/:sessionId", cfg.RequireAuth, cfg.Auth.RevokeSession)
		auth.DELETE("/sessions", cfg.RequireAuth, cfg.Auth.RevokeAllSessions)
	}

	protected := api.Group("")
	protected.Use(cfg.RequireAuth)
	{
		protected.GET("/profile", cfg.User.GetProfile)
		protected.PUT("/profile", cfg.User.UpdateProfile)

		cvs := protected.Group("/cvs")
		{
			cvs.GET("", cfg.Cv.ListCvs)
			cvs.POST("", cfg.Cv.CreateCv)
			cvs.GET("/:id", cfg.Cv.GetCv)
			cvs.PUT("/:id", cfg.Cv.UpdateCv)
			cvs.DELETE("/:id", cfg.Cv.DeleteCv)

			cvs.POST("/:id/components", cfg.Cv.AddComponent)
			cvs.PUT("/:id/components/order", cfg.Cv.ReorderComponents)
			cvs.PUT("/:id/components/:componentId", cfg.Cv.UpdateComponent)
			cvs.DELETE("/:id/components/:componentId", cfg.Cv.DeleteComponent)

			cvs.GET("/:id/skills", cfg.Skill.GetCvSkills)
			cvs.POST("/:id/skills", cfg.Skill.CreateSkill)
			cvs.POST("/:id/skills/batch", cfg.Skill.CreateSkillsBatch)
		}

		protected.GET("/skills/categories", cfg.Skill.GetSkillCategories)

		jobs := protected.Group("/jobs")
		{
			jobs.POST("/analyze", cfg.Job.AnalyzeJob)
			jobs.GET("", cfg.Job.ListJobs)
			jobs.GET("/:id", cfg.Job.GetJob)
			jobs.DELETE("/:id", cfg.Job.DeleteJob)
		}

		analyses := protected.Group("/analyses")
		{
			analyses.POST("", cfg.Analysis.CreateAnalysis)
			analyses.GET("", cfg.Analysis.ListAnalyses)
			analyses.GET("/:id", cfg.Analysis.GetAnalysis)
			analyses.DELETE("/:id", cfg.Analysis.DeleteAnalysis)
		}
	}

	return router
}

func healthHandler(checks map[string]HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		services := gin.H{}
		for name, check := range checks {
			if err := check(ctx); err != nil {
				services[name] = "unavailable"
				status = http.StatusServiceUnavailable
				continue
			}
			services[name] = "connected"
		}

		state := "healthy"
		if status != http.StatusOK {
			state = "degraded"
		}
		c.JSON(status, gin.H{
			"status":    state,
			"timestamp": time.Now().Unix(),
			"services":  services,
		})
	}
}
