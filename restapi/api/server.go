package api

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// Main starts the REST API server on port 8080 or AXDROID_API_PORT and blocks
// until SIGINT or SIGTERM. On shutdown every active multiplexer is stopped so
// their monitors get disarmed before the process exits.
func Main() {
	router := gin.Default()
	router.Use(gin.Recovery())

	v1 := router.Group("/api/v1")
	registerRoutes(v1)

	port := os.Getenv("AXDROID_API_PORT")
	if port == "" {
		port = "8080"
	}
	go func() {
		err := router.Run(":" + port)
		if err != nil {
			log.Fatal(err)
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c
	log.Info("shutting down, stopping accessibility listeners")
	closeMultiplexers()
}
