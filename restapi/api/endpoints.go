package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/axdroid/go-axdroid/adb"
	"github.com/axdroid/go-axdroid/adb/accessibility"
	"github.com/axdroid/go-axdroid/adb/remoteaccess"
	"github.com/axdroid/go-axdroid/config"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// Devices lists all devices the adb server knows about.
func Devices(c *gin.Context) {
	deviceList, err := adb.ListDevices()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.IndentedJSON(http.StatusOK, deviceList.DeviceList)
}

// Services returns the currently enabled accessibility services of the device.
func Services(c *gin.Context) {
	device := c.MustGet(DEVICE_KEY).(adb.DeviceEntry)
	services, err := accessibility.New(device).EnabledServices()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.IndentedJSON(http.StatusOK, services)
}

// HasServices reports whether any accessibility service is enabled on the device.
func HasServices(c *gin.Context) {
	device := c.MustGet(DEVICE_KEY).(adb.DeviceEntry)
	enabled, err := accessibility.New(device).HasEnabledServices()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"hasEnabledServices": enabled})
}

// OpenSettings opens the accessibility settings screen on the device.
// Fire and forget, always returns 200.
func OpenSettings(c *gin.Context) {
	device := c.MustGet(DEVICE_KEY).(adb.DeviceEntry)
	accessibility.New(device).OpenAccessibilitySettings()
	c.JSON(http.StatusOK, gin.H{"status": "requested"})
}

// RemoteApps returns the installed well-known remote-access apps.
func RemoteApps(c *gin.Context) {
	device := c.MustGet(DEVICE_KEY).(adb.DeviceEntry)
	apps, err := remoteaccess.ListInstalled(device, config.CustomRemoteAccessPackages())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.IndentedJSON(http.StatusOK, apps)
}

// Listen streams enabled-service snapshots whenever the set changes, one JSON
// array per line, until the client disconnects.
func Listen(c *gin.Context) {
	device := c.MustGet(DEVICE_KEY).(adb.DeviceEntry)
	multiplexer := multiplexerFor(device)

	snapshots := make(chan []accessibility.ServiceInfo, 8)
	subscription, err := multiplexer.AddListener(func(services []accessibility.ServiceInfo) {
		select {
		case snapshots <- services:
		default:
			log.Warnf("dropping accessibility snapshot for slow client of %s", device.Serial)
		}
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer subscription.Remove()

	clientGone := c.Request.Context().Done()
	c.Stream(func(w io.Writer) bool {
		select {
		case services := <-snapshots:
			err := json.NewEncoder(w).Encode(services)
			return err == nil
		case <-clientGone:
			return false
		}
	})
}
