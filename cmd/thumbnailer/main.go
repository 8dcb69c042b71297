package main

import (
	"github.com/ds124wfegd/WB_L3/thumbnailer/config"
	"github.com/ds124wfegd/WB_L3/thumbnailer/internal/appServer"
	"github.com/sirupsen/logrus"
)

func main() {
	viperInstance, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("cannot load config: %s", err.Error())
	}

	cfg, err := config.ParseConfig(viperInstance)
	if err != nil {
		logrus.Fatalf("cannot parse config: %s", err.Error())
	}

	if err := appServer.NewServer(cfg); err != nil {
		logrus.Fatalf("thumbnailer stopped: %s", err.Error())
	}
}
