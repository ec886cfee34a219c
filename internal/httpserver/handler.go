package httpserver

import (
	"context"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"gitcord/internal/model"
)

func (srv HTTPServer) mapHandlers() {
	srv.registerMiddlewares()
	srv.registerSystemRoutes()
	srv.registerDomainRoutes()
}

func (srv HTTPServer) registerMiddlewares() {
	srv.gin.Use(gin.Recovery())

	ctx := context.Background()
	if srv.environment == string(model.EnvironmentProduction) {
		srv.l.Infof(ctx, "Recovery middleware registered, environment: production")
	} else {
		srv.l.Infof(ctx, "Recovery middleware registered, environment: %s", srv.environment)
	}
}

func (srv HTTPServer) registerSystemRoutes() {
	srv.gin.GET("/health", srv.healthCheck)
	srv.gin.GET("/ready", srv.readyCheck)
	srv.gin.GET("/live", srv.liveCheck)

	srv.gin.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
	))
}

// registerDomainRoutes registers all domain routes.
func (srv HTTPServer) registerDomainRoutes() {
	ctx := context.Background()

	if srv.webhookHandler != nil {
		srv.gin.POST("/webhook/github", srv.webhookHandler.HandleGitHubWebhook)
		srv.l.Infof(ctx, "GitHub webhook route registered at POST /webhook/github")
	} else {
		srv.l.Infof(ctx, "Webhook handler not configured, skipping webhook route")
	}

	if srv.commandHandler != nil {
		srv.gin.POST("/interactions", srv.commandHandler.HandleInteraction)
		srv.l.Infof(ctx, "Interactions route registered at POST /interactions")
	} else {
		srv.l.Infof(ctx, "Command handler not configured, skipping interactions route")
	}
}
