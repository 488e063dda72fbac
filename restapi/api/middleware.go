package api

import (
	"net/http"
	"strings"

	"github.com/axdroid/go-axdroid/adb"
	"github.com/gin-gonic/gin"
)

const DEVICE_KEY = "axdroid_device"

// DeviceMiddleware makes sure a serial was specified and that a device with
// that serial is known to the adb server. Will return 404 if the device is not
// found or 500 if something else went wrong. Use
// `device := c.MustGet(DEVICE_KEY).(adb.DeviceEntry)` to acquire the device in
// downstream handlers.
func DeviceMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		serial := c.Param("serial")
		if serial == "" {
			c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"message": "serial is missing"})
			return
		}
		device, err := adb.GetDevice(serial)
		if err != nil {
			if strings.Contains(err.Error(), "not found") {
				c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "device not found on the host"})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Set(DEVICE_KEY, device)
		c.Next()
	}
}

// StreamingHeaderMiddleware adds event-streaming headers
func StreamingHeaderMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "text/event-stream")
		c.Writer.Header().Set("Cache-Control", "no-cache")
		c.Writer.Header().Set("Connection", "keep-alive")
		c.Writer.Header().Set("Transfer-Encoding", "chunked")
		c.Next()
	}
}
