package main

import (
	"fmt"
	"os"

	clickcount "clickcount/internal/app"
	"clickcount/internal/config"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(2)
	}

	log := cfg.NewLogger()

	app.SetMetadata(fyne.AppMetadata{
		ID:      clickcount.AppID,
		Name:    clickcount.AppName,
		Version: clickcount.AppVersion,
	})
	fyneApp := app.NewWithID(clickcount.AppID)

	application, err := clickcount.New(fyneApp, cfg, log)
	if err != nil {
		log.Error("Main", err, map[string]interface{}{"stage": "initialization"})
		os.Exit(1)
	}

	application.Run()

	log.Info("Main", "application terminated", nil)
}
