package nodes

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/propertytek/chatflow/scheduler"
	"github.com/propertytek/chatflow/workflow"
)

// SlotFinder fetches the tour slots offered for scheduling.
type SlotFinder struct {
	scheduler scheduler.Provider
	logger    *zap.Logger
}

func (n *SlotFinder) Execute(ctx context.Context, st workflow.State, cfg workflow.RunConfig) (workflow.Delta, error) {
	slots, err := n.scheduler.AvailableSlots(ctx, cfg.SlotDurationMinutes)
	if err != nil {
		return workflow.Delta{}, fmt.Errorf("fetch available slots: %w", err)
	}

	n.logger.Info("available slots fetched", zap.Int("count", len(slots)))

	d := workflow.NewDelta().AvailableSlots(slots)
	if len(slots) == 0 {
		d = d.Fallback(&workflow.Fallback{
			Kind: workflow.FallbackNoAppointments,
			Details: map[string]any{
				"requested_timeframe": "next 7 days",
				"user_query":          st.UserQuery,
			},
		})
	}
	return d, nil
}
