package controllers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

type OutcomeCounter interface {
	Snapshot(ctx context.Context) (map[string]int64, error)
	Drain(ctx context.Context) (map[string]int64, error)
}

type MetricsController struct {
	outcomes OutcomeCounter
}

func NewMetricsController(outcomes OutcomeCounter) *MetricsController {
	return &MetricsController{outcomes: outcomes}
}

// HandlePaymentOutcomes returns the per-status attempt counters.
// ?reset=true drains them.
func (mc *MetricsController) HandlePaymentOutcomes(c *fiber.Ctx) error {
	read := mc.outcomes.Snapshot
	if c.QueryBool("reset") {
		read = mc.outcomes.Drain
	}

	counts, err := read(c.UserContext())
	if err != nil {
		log.Errorf("[Metrics] failed to read payment outcomes: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "could not read payment outcomes"})
	}

	var total int64
	for _, n := range counts {
		total += n
	}
	return c.JSON(fiber.Map{"total": total, "outcomes": counts})
}
