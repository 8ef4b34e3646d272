package handlers

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/coordination-audit/internal/api/dto"
	"github.com/spec-kit/coordination-audit/internal/service"
	apperrors "github.com/spec-kit/coordination-audit/pkg/util/errorutil"
)

const defaultSearchLimit = 20

// DirectoryHandler exposes the people directory.
type DirectoryHandler struct {
	service *service.DirectoryService
}

// NewDirectoryHandler constructs handler.
func NewDirectoryHandler(directoryService *service.DirectoryService) *DirectoryHandler {
	return &DirectoryHandler{service: directoryService}
}

// List GET /directory.
func (h *DirectoryHandler) List(c *fiber.Ctx) error {
	dir := h.service.Snapshot()
	return c.JSON(fiber.Map{"data": dto.DirectoryResponse{
		People:    dto.NewPersonResponses(dir.People()),
		Companies: dir.Companies(),
		Total:     dir.Len(),
	}})
}

// Search GET /directory/search?q=.
func (h *DirectoryHandler) Search(c *fiber.Ctx) error {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		return apperrors.NewValidationError("q required", nil)
	}
	limit := defaultSearchLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return apperrors.NewValidationError("limit must be a positive integer", map[string]any{"limit": raw})
		}
		limit = n
	}

	hits := h.service.Search(query, limit)
	resp := make([]dto.SearchHitResponse, 0, len(hits))
	for _, hit := range hits {
		resp = append(resp, dto.SearchHitResponse{Person: dto.NewPersonResponse(hit.Person), Distance: hit.Distance})
	}
	return c.JSON(fiber.Map{"data": resp})
}

// Import POST /directory/imports.
func (h *DirectoryHandler) Import(c *fiber.Ctx) error {
	filename, file, err := uploadedFile(c)
	if err != nil {
		return err
	}
	defer file.Close()

	var assignments map[string]string
	if raw := strings.TrimSpace(c.FormValue("assignments")); raw != "" {
		if err := json.Unmarshal([]byte(raw), &assignments); err != nil {
			return apperrors.NewValidationError("assignments must be a JSON object of email to company", nil)
		}
	}

	res, err := h.service.Import(c.UserContext(), filename, file, assignments)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.ImportResponse{
		Added:   dto.NewPersonResponses(res.Added),
		Pending: res.Pending,
		Skipped: res.Skipped,
		Total:   res.Total,
	}})
}
