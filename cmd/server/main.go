package main

import (
	"log"

	"github.com/fattern/fattern-backend/internal"
	"github.com/fattern/fattern-backend/internal/config"
	"github.com/fattern/fattern-backend/internal/handlers"
	"github.com/fattern/fattern-backend/internal/services"
	"github.com/fattern/fattern-backend/internal/storage"
	"github.com/fattern/fattern-backend/internal/template"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	if err := internal.InitDB(cfg); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer internal.CloseDB()

	var gcsClient *storage.GCSClient
	if cfg.GCS.BucketName != "" {
		gcsClient, err = storage.NewGCSClient(cfg.GCS.BucketName, cfg.GCS.CredentialsPath)
		if err != nil {
			log.Fatal("Failed to initialize GCS client:", err)
		}
		log.Println("GCS client initialized, package sharing enabled")
	} else {
		log.Println("No GCS bucket configured, package sharing disabled")
	}

	templateService := services.NewTemplateService(cfg.Assets.RootDir)
	assetService := services.NewAssetService(templateService)

	if err := templateService.CreateDefault(); err != nil {
		log.Fatal("Failed to seed default template:", err)
	}

	formatter := template.NewFormatter(cfg.Renderer.Locale, cfg.Renderer.Currency)
	renderer := template.NewRenderer(formatter, template.AssetResolverFunc(templateService.ReadImage))

	templateHandler := handlers.NewTemplateHandler(templateService)
	renderHandler := handlers.NewRenderHandler(templateService, renderer)
	packHandler := handlers.NewPackHandler(templateService, gcsClient)
	assetHandler := handlers.NewAssetHandler(assetService, templateService)

	r := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.Server.AllowOrigins
	corsConfig.AllowCredentials = true
	r.Use(cors.New(corsConfig))

	api := r.Group("/api")
	{
		api.GET("/templates", templateHandler.GetAll)
		api.GET("/templates/:id", templateHandler.GetByID)
		api.POST("/templates", templateHandler.Create)
		api.PUT("/templates/:id", templateHandler.Update)
		api.DELETE("/templates/:id", templateHandler.Delete)
		api.POST("/templates/:id/duplicate", templateHandler.Duplicate)
		api.POST("/templates/seed/:set", templateHandler.Seed)

		api.POST("/templates/:id/render", renderHandler.Render)
		api.POST("/templates/:id/pdf", renderHandler.RenderPDF)

		api.GET("/templates/:id/export", packHandler.Export)
		api.POST("/templates/:id/share", packHandler.Share)
		api.POST("/packages/import", packHandler.Import)
		api.POST("/packages/validate", packHandler.Validate)

		api.POST("/templates/:id/assets", assetHandler.Upload)
		api.GET("/templates/:id/assets", assetHandler.List)
		api.GET("/templates/:id/assets/read", assetHandler.Read)
		api.DELETE("/templates/:id/assets", assetHandler.Delete)

		api.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{"status": "ok", "version": config.AppVersion})
		})
	}

	log.Printf("Server starting on :%s", cfg.Server.Port)
	r.Run(":" + cfg.Server.Port)
}
