package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"

	"tasklist/app/config"
	"tasklist/app/controllers"
	"tasklist/app/routes"
	"tasklist/app/services"

	"github.com/go-logr/stdr"
)

func main() {
	configPath := flag.String("config", "", "path to config.json")
	verbose := flag.Bool("v", false, "log every request")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid config:", err)
	}

	logger := stdr.New(log.New(os.Stderr, "", log.LstdFlags))
	if *verbose {
		stdr.SetVerbosity(1)
	}

	ctx := context.Background()

	// Initialize the storage slot
	slot, err := config.OpenSlot(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to open storage:", err)
	}
	defer slot.Close(ctx)

	// Initialize the service layer
	taskService := services.NewTaskService(slot, services.WithLogger(logger))
	if err := taskService.Load(ctx); err != nil {
		log.Fatal("Failed to load tasks:", err)
	}

	// Initialize the controller layer
	taskController := controllers.NewTaskController(taskService)

	// Setup HTTP server
	router := routes.NewRouter(taskController, logger)

	fmt.Printf("Server is running on http://%s (backend %s)\n", cfg.Addr, cfg.Backend)
	log.Fatal(http.ListenAndServe(cfg.Addr, router))
}
