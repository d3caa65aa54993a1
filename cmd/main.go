package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/todaysfinds/tkd-car/config"
	"github.com/todaysfinds/tkd-car/database"
	"github.com/todaysfinds/tkd-car/handlers"
	"github.com/todaysfinds/tkd-car/routes"
)

func main() {
	// .env is optional, real deployments set env vars directly
	_ = godotenv.Load()

	cfg := config.Load()

	// fail fast when the DB is down
	database.Connect(cfg)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())
	e.Use(middleware.CORS())
	e.Validator = handlers.NewValidator()

	routes.RegisterRoutes(e)

	addr := ":" + cfg.AppPort
	log.Printf("server listening at %s", addr)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
