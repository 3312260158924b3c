package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/writespace/internal/config"
	"github.com/writespace/internal/handler"
)

const sessionName = "writespace_session"

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(cfg config.AppConfig, api *handler.API) *gin.Engine {
	r := gin.New()
	r.Use(handler.RequestID(), gin.Logger(), gin.Recovery())

	if origins := cfg.CORSOrigins(); len(origins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     origins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", handler.RequestIDHeader},
			ExposeHeaders:    []string{handler.RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	// 配置会话中间件
	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   7 * 24 * 60 * 60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(sessionName, store))

	r.GET("/ping", api.Ping)
	r.GET("/healthz", api.Healthz)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/posts", api.ListPosts)
		apiGroup.GET("/posts/:id", api.GetPost)
		apiGroup.GET("/posts/:id/html", api.GetPostHTML)
		apiGroup.GET("/categories", api.ListCategories)
		apiGroup.GET("/users/:id", api.GetUser)
		apiGroup.GET("/users/:id/posts", api.GetUserPosts)
		apiGroup.POST("/ai-suggestions", api.AISuggestions)

		authGroup := apiGroup.Group("/auth")
		{
			authGroup.POST("/signup", api.Signup)
			authGroup.POST("/login", api.Login)
			authGroup.POST("/logout", api.Logout)
			authGroup.GET("/me", api.AuthRequired(), api.Me)
		}

		// 需要认证的路由
		protected := apiGroup.Group("")
		protected.Use(api.AuthRequired())
		{
			protected.POST("/posts", api.CreatePost)
			protected.PATCH("/posts/:id", api.UpdatePost)
			protected.PUT("/posts/:id", api.UpdatePost)
			protected.POST("/posts/:id/publish", api.PublishPost)
			protected.POST("/posts/:id/unpublish", api.UnpublishPost)
			protected.DELETE("/posts/:id", api.DeletePost)
			protected.GET("/me/posts", api.MyPosts)
			protected.GET("/me/stats", api.MyStats)
		}
	}

	return r
}
