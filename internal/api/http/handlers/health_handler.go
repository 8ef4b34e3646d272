package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/coordination-audit/internal/observability"
	"github.com/spec-kit/coordination-audit/internal/persistence"
	"github.com/spec-kit/coordination-audit/internal/service"
)

const readinessTimeout = 2 * time.Second

// Dependency states reported by the readiness probe.
const (
	dependencyOK          = "ok"
	dependencyDisabled    = "disabled"
	dependencyUnreachable = "unreachable"
)

// HealthDependencies lists what the probes inspect. Nil connections are reported as disabled.
type HealthDependencies struct {
	ServiceName      string
	Version          string
	DirectoryBackend string
	Postgres         *persistence.Postgres
	Redis            *persistence.Redis
	Directory        *service.DirectoryService
	Metrics          *observability.Metrics
}

// HealthHandler serves liveness, readiness and the metrics snapshot.
type HealthHandler struct {
	deps HealthDependencies
}

func NewHealthHandler(deps HealthDependencies) *HealthHandler {
	return &HealthHandler{deps: deps}
}

func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "alive",
		"service": h.deps.ServiceName,
		"version": h.deps.Version,
	})
}

// Ready pings the configured backends and reports the loaded directory size.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), readinessTimeout)
	defer cancel()

	deps := fiber.Map{
		"postgres": probe(ctx, h.deps.Postgres.Configured(), h.deps.Postgres.Ping),
		"redis":    probe(ctx, h.deps.Redis != nil, h.deps.Redis.Ping),
	}

	ready := true
	for _, state := range deps {
		if state == dependencyUnreachable {
			ready = false
		}
	}

	if !ready {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    "DEPENDENCY_UNAVAILABLE",
				"message": "one or more dependencies unavailable",
				"details": deps,
			},
		})
	}

	body := fiber.Map{
		"status":       "ready",
		"dependencies": deps,
	}
	if h.deps.Directory != nil {
		body["directory"] = fiber.Map{
			"backend": h.deps.DirectoryBackend,
			"people":  h.deps.Directory.Snapshot().Len(),
		}
	}
	return c.JSON(body)
}

func (h *HealthHandler) Metrics(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.deps.Metrics.Snapshot()})
}

func probe(ctx context.Context, configured bool, ping func(context.Context) error) string {
	switch {
	case !configured:
		return dependencyDisabled
	case ping(ctx) != nil:
		return dependencyUnreachable
	default:
		return dependencyOK
	}
}
