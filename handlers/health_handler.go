package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/todaysfinds/tkd-car/database"
)

// Health serves /health: process is up and the store answers.
func Health(c echo.Context) error {
	sqlDB, err := database.DB.DB()
	if err != nil || sqlDB.Ping() != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "db unreachable"})
	}
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}
