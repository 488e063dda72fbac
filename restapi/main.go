package main

import (
	"os"

	"github.com/axdroid/go-axdroid/restapi/api"
	log "github.com/sirupsen/logrus"
)

func main() {
	log.WithFields(log.Fields{"args": os.Args}).Infof("starting axdroid-api")
	api.Main()
}
