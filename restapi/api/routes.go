package api

import (
	"github.com/gin-gonic/gin"
)

func registerRoutes(router *gin.RouterGroup) {
	router.GET("/devices", Devices)
	device := router.Group("/device/:serial")
	device.Use(DeviceMiddleware())
	device.GET("/accessibility/services", Services)
	device.GET("/accessibility/has-services", HasServices)
	device.POST("/accessibility/settings", OpenSettings)
	device.GET("/remote-apps", RemoteApps)

	streaming := device.Group("")
	streaming.Use(StreamingHeaderMiddleware())
	streaming.GET("/accessibility/listen", Listen)
}
