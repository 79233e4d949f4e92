// Package api is the REST face of the directory service: the people and
// departments resources the directory client consumes.
package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/UnknownOlympus/atlas/internal/metrics"
	"github.com/UnknownOlympus/atlas/internal/models"
	"github.com/UnknownOlympus/atlas/internal/repository"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

// NewApp builds the fiber application with middlewares and routes registered.
func NewApp(log *slog.Logger, handler *Handler, appMetrics *metrics.Metrics) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "atlas",
		DisableStartupMessage: true,
	})

	app.Use(requestid.New())
	app.Use(requestMetrics(log, appMetrics))
	app.Use(errorHandling(log))
	app.Use(recover.New())

	RegisterRoutes(app, handler)

	return app
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/people", handler.ListPeople)
	app.Post("/people", handler.CreatePerson)
	app.Get("/people/:id", handler.GetPerson)
	app.Put("/people/:id", handler.UpdatePerson)
	app.Delete("/people/:id", handler.DeletePerson)

	app.Get("/departments", handler.ListDepartments)
}

// requestMetrics counts every served request and logs it with its request id.
func requestMetrics(log *slog.Logger, appMetrics *metrics.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		status := c.Response().StatusCode()
		appMetrics.APIRequests.WithLabelValues(c.Method(), c.Route().Path, strconv.Itoa(status)).Inc()
		log.DebugContext(c.UserContext(), "Request served",
			"method", c.Method(),
			"path", c.Path(),
			"status", status,
			"request_id", c.GetRespHeader(fiber.HeaderXRequestID),
		)

		return err
	}
}

// errorHandling turns handler errors into JSON error bodies.
func errorHandling(log *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		if err == nil {
			return nil
		}

		status, message := http.StatusInternalServerError, "internal server error"
		var fiberErr *fiber.Error
		switch {
		case errors.As(err, &fiberErr):
			status, message = fiberErr.Code, fiberErr.Message
		case errors.Is(err, repository.ErrPersonNotFound):
			status, message = http.StatusNotFound, err.Error()
		case errors.Is(err, models.ErrMissingFields):
			status, message = http.StatusBadRequest, err.Error()
		}

		if status >= http.StatusInternalServerError {
			log.ErrorContext(c.UserContext(), "Request failed", "path", c.Path(), "error", err)
		}

		return c.Status(status).JSON(fiber.Map{"error": message})
	}
}
