package handler

import (
	"html/template"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ibrahimGoumrane/pfeManagerFront/internal/cache"
	"github.com/ibrahimGoumrane/pfeManagerFront/internal/limiter"
	"github.com/ibrahimGoumrane/pfeManagerFront/internal/middleware"
	"github.com/ibrahimGoumrane/pfeManagerFront/internal/scheduler"
	"github.com/ibrahimGoumrane/pfeManagerFront/internal/search"
	"github.com/ibrahimGoumrane/pfeManagerFront/internal/upload"
	"github.com/ibrahimGoumrane/pfeManagerFront/internal/web"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps is everything the routes need. Limiter and Refresher may be nil.
type Deps struct {
	Sessions    *middleware.Sessions
	Views       *search.Registry
	Uploads     *upload.Tracker
	Lists       *cache.Lists
	Limiter     *limiter.Limiter
	Refresher   *scheduler.ListRefresher
	Templates   *template.Template
	CORSOrigins []string
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.MetricsMiddleware())
	if len(d.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     d.CORSOrigins,
			AllowMethods:     []string{"GET", "POST"},
			AllowHeaders:     []string{"Origin", "Content-Type", "X-Requested-With"},
			ExposeHeaders:    []string{"X-Search-Location", "X-Upload-Location"},
			AllowCredentials: true,
		}))
	}
	r.SetHTMLTemplate(d.Templates)
	r.StaticFS("/static", web.Static())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/scheduler/status", func(c *gin.Context) {
		if d.Refresher == nil {
			c.JSON(http.StatusOK, gin.H{"running": false, "message": "List refresher is disabled"})
			return
		}
		c.JSON(http.StatusOK, d.Refresher.GetStatus())
	})

	pages := r.Group("/", middleware.Identity(d.Sessions))

	authH := NewAuthHandler(d.Sessions)
	searchH := NewSearchHandler(d.Sessions, d.Views, d.Lists)
	reportH := NewReportHandler(d.Sessions)
	uploadH := NewUploadHandler(d.Sessions, d.Uploads, d.Lists)
	adminH := NewAdminHandler(d.Sessions, d.Lists)

	limit := func(action string) gin.HandlerFunc {
		return limiter.Middleware(d.Limiter, action, TooManyRequests(action))
	}

	pages.GET("/", Home)

	// Auth
	pages.GET("/login", authH.LoginPage)
	pages.POST("/login", limit(limiter.ActionLogin), authH.Login)
	pages.GET("/signup", authH.SignupPage)
	pages.POST("/signup", limit(limiter.ActionSignup), authH.Signup)
	pages.POST("/logout", authH.Logout)

	// Search
	pages.GET("/reports/search", searchH.Page)
	pages.POST("/reports/search/submit", searchH.Submit)
	pages.GET("/reports/search/more", searchH.More)
	pages.GET("/reports/search/results", searchH.Results)

	// Reports
	pages.GET("/reports/:id", reportH.Show)
	pages.GET("/reports/:id/download", reportH.Download)
	pages.POST("/reports/:id/delete", middleware.RequireAuth(), reportH.Delete)

	// Upload
	up := pages.Group("/upload", middleware.RequireAuth())
	up.GET("", uploadH.Form)
	up.POST("", limit(limiter.ActionUpload), uploadH.Submit)
	up.GET("/progress/:id", uploadH.Progress)
	up.GET("/tags", uploadH.Tags)

	// Admin
	admin := pages.Group("/admin", middleware.RequireAdmin(Forbidden))
	admin.GET("", func(c *gin.Context) { c.Redirect(http.StatusFound, "/admin/reports") })
	admin.GET("/reports", adminH.Reports)
	admin.POST("/reports/:id/validate", adminH.ValidateReport)
	admin.POST("/reports/:id/delete", reportH.Delete)
	admin.GET("/users", adminH.Users)
	admin.GET("/users/:id", adminH.User)
	admin.POST("/users/:id", adminH.UpdateUser)
	admin.POST("/users/:id/password", adminH.UpdatePassword)
	admin.POST("/users/:id/delete", adminH.DeleteUser)
	admin.GET("/sectors", adminH.Sectors)
	admin.POST("/sectors", adminH.CreateSector)
	admin.POST("/sectors/:id", adminH.UpdateSector)
	admin.POST("/sectors/:id/delete", adminH.DeleteSector)
	admin.GET("/tags", adminH.Tags)
	admin.POST("/tags", adminH.CreateTag)
	admin.POST("/tags/:id", adminH.UpdateTag)
	admin.POST("/tags/:id/delete", adminH.DeleteTag)

	r.NoRoute(middleware.Identity(d.Sessions), notFound)
	return r
}
