package routes

import (
	"Dilemma/controllers"
	"Dilemma/services/flows"
	roomsync "Dilemma/sync"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SetupRoutes configures all API routes. The session middleware must
// already be installed on the router.
func SetupRoutes(router *gin.Engine, fl *flows.Flows, sm *roomsync.SyncManager, sessionKey []byte, publicURL string) {
	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/ping", controllers.Ping)
	router.GET("/rooms/:code/qr", controllers.RoomQRCode(publicURL))
	router.GET("/ws/dashboard", controllers.DashboardStream(sm, sessionKey))

	api := router.Group("/api")

	api.GET("/session", controllers.GetSession(fl))

	rooms := api.Group("/rooms")
	{
		rooms.POST("", controllers.CreateRoom(fl, publicURL))
		rooms.POST("/join", controllers.JoinRoom(fl))
	}

	choice := api.Group("/choice")
	{
		choice.GET("", controllers.GetChoice(fl))
		choice.POST("", controllers.SubmitChoice(fl))
		choice.DELETE("", controllers.ResetChoice(fl))
		choice.POST("/leave", controllers.LeaveRoom(fl))
	}

	dashboard := api.Group("/dashboard")
	{
		dashboard.GET("", controllers.GetDashboard(fl, sessionKey, publicURL))
		dashboard.POST("/close", controllers.CloseRoom(fl))
		dashboard.POST("/new", controllers.NewRoom(fl))
	}
}
