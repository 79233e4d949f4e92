package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/UnknownOlympus/atlas/internal/metrics"
	"github.com/UnknownOlympus/atlas/internal/models"
	"github.com/UnknownOlympus/atlas/internal/repository"
	"github.com/gofiber/fiber/v2"
)

// Handler serves the people and departments resources.
type Handler struct {
	repo    repository.Interface
	log     *slog.Logger
	metrics *metrics.Metrics
}

// NewHandler constructs handler.
func NewHandler(log *slog.Logger, repo repository.Interface, appMetrics *metrics.Metrics) *Handler {
	return &Handler{repo: repo, log: log, metrics: appMetrics}
}

func (h *Handler) observe(queryType string, startTime time.Time) {
	h.metrics.DBQueryDuration.WithLabelValues(queryType).Observe(time.Since(startTime).Seconds())
}

// ListPeople handles GET /people.
func (h *Handler) ListPeople(c *fiber.Ctx) error {
	startTime := time.Now()
	people, err := h.repo.ListPeople(c.UserContext())
	h.observe("list_people", startTime)
	if err != nil {
		return err
	}

	return c.JSON(people)
}

// GetPerson handles GET /people/:id.
func (h *Handler) GetPerson(c *fiber.Ctx) error {
	id, err := personID(c)
	if err != nil {
		return err
	}

	startTime := time.Now()
	person, err := h.repo.GetPerson(c.UserContext(), id)
	h.observe("get_person", startTime)
	if err != nil {
		return err
	}

	return c.JSON(person)
}

// CreatePerson handles POST /people.
func (h *Handler) CreatePerson(c *fiber.Ctx) error {
	person, err := parsePerson(c)
	if err != nil {
		return err
	}

	startTime := time.Now()
	created, err := h.repo.CreatePerson(c.UserContext(), person)
	h.observe("create_person", startTime)
	if err != nil {
		return err
	}

	h.log.InfoContext(c.UserContext(), "Staff member added", "id", created.ID)
	return c.Status(http.StatusCreated).JSON(created)
}

// UpdatePerson handles PUT /people/:id.
func (h *Handler) UpdatePerson(c *fiber.Ctx) error {
	id, err := personID(c)
	if err != nil {
		return err
	}
	person, err := parsePerson(c)
	if err != nil {
		return err
	}

	startTime := time.Now()
	updated, err := h.repo.UpdatePerson(c.UserContext(), id, person)
	h.observe("update_person", startTime)
	if err != nil {
		return err
	}

	h.log.InfoContext(c.UserContext(), "Staff member updated", "id", id)
	return c.JSON(updated)
}

// DeletePerson handles DELETE /people/:id.
func (h *Handler) DeletePerson(c *fiber.Ctx) error {
	id, err := personID(c)
	if err != nil {
		return err
	}

	startTime := time.Now()
	err = h.repo.DeletePerson(c.UserContext(), id)
	h.observe("delete_person", startTime)
	if err != nil {
		return err
	}

	h.log.InfoContext(c.UserContext(), "Staff member deleted", "id", id)
	return c.SendStatus(http.StatusNoContent)
}

// ListDepartments handles GET /departments.
func (h *Handler) ListDepartments(c *fiber.Ctx) error {
	startTime := time.Now()
	departments, err := h.repo.ListDepartments(c.UserContext())
	h.observe("list_departments", startTime)
	if err != nil {
		return err
	}

	return c.JSON(departments)
}

func personID(c *fiber.Ctx) (int, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, fiber.NewError(http.StatusBadRequest, "invalid person id")
	}

	return id, nil
}

// parsePerson decodes a write payload. Identifiers may arrive as numbers or numeric strings.
func parsePerson(c *fiber.Ctx) (models.Person, error) {
	var raw models.RawStaffRecord
	if err := c.BodyParser(&raw); err != nil {
		return models.Person{}, fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	person := raw.ToPerson()
	if err := person.Validate(); err != nil {
		return models.Person{}, err
	}

	return person, nil
}
