package http

import (
	"github.com/gin-gonic/gin"

	"github.com/haiminh/geoatlas/pkg/logger"
)

// NewRouter wires middleware and routes. Paths are part of the external
// contract and kept stable.
func NewRouter(accountHandler *AccountHandler, geoHandler *GeoHandler, log logger.Logger, trustProxy bool) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(ChannelMiddleware(trustProxy))
	router.Use(ErrorMiddleware(log))

	router.POST("/user", accountHandler.Signup)
	router.POST("/login", accountHandler.Login)
	router.GET("/logout", accountHandler.Logout)
	router.GET("/user", accountHandler.WhoAmI)
	router.POST("/user/forgot", accountHandler.Forgot)
	router.POST("/user/reset", accountHandler.Reset)

	router.GET("/places", geoHandler.Places)
	router.GET("/places/near", geoHandler.Near)

	return router
}
