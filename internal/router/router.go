package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	_ "github.com/slyt3/pagedrop/docs"
	"github.com/slyt3/pagedrop/internal/config"
	"github.com/slyt3/pagedrop/internal/middleware"
	"github.com/slyt3/pagedrop/internal/modules/handler"
	"github.com/slyt3/pagedrop/internal/modules/serializer"
	"github.com/slyt3/pagedrop/internal/telemetry"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	Config          *config.Config
	Log             *zap.Logger
	ProjectHandler  *handler.ProjectHandler
	DeliveryHandler *handler.DeliveryHandler
}

func NewRouter(d RouterDeps) *gin.Engine {
	r := gin.New()
	r.MaxMultipartMemory = d.Config.Upload.MaxMultipartMemory
	r.Use(gin.Recovery())

	if telemetry.Enabled(d.Config) {
		r.Use(middleware.OtelTracing(d.Config.App.Name))
		r.Use(middleware.TraceID())
	}

	r.Use(middleware.ZapLogger(d.Log))
	r.Use(middleware.CORS(d.Config.CORS))

	// health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, serializer.Response{Msg: "ok"}) })

	// swagger
	r.GET("/swagger", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	{
		api.POST("/upload", d.ProjectHandler.Upload)

		projects := api.Group("/projects")
		{
			projects.GET("", d.ProjectHandler.ListProjects)
			projects.PATCH("/:slug/toggle", middleware.SlugAttribute(), d.ProjectHandler.ToggleProject)
			projects.DELETE("/:slug", middleware.SlugAttribute(), d.ProjectHandler.DeleteProject)
		}
	}

	served := r.Group("/projects", middleware.SlugAttribute())
	{
		served.GET("/:slug", d.DeliveryHandler.ServeProject)
		served.GET("/:slug/", d.DeliveryHandler.ServeProject)
	}

	return r
}
