package nodes

import (
	"context"

	"go.uber.org/zap"

	"github.com/propertytek/chatflow/workflow"
)

// Reflector evaluates the search outcome and decides whether another
// search pass is worth taking. It owns the reflection loop counter; the
// router enforces the ceiling.
type Reflector struct {
	logger *zap.Logger
}

func (n *Reflector) Execute(_ context.Context, st workflow.State, cfg workflow.RunConfig) (workflow.Delta, error) {
	if st.Fallback != nil && st.Fallback.Kind == workflow.FallbackNeedCriteria {
		n.logger.Info("no meaningful search criteria, ending search loop")
		return workflow.NewDelta().
			ReflectionNotes("User needs to provide more specific search criteria.").
			NeedsMoreResearch(false).
			NextStep(workflow.NodeGenerateResponse), nil
	}

	needsMore := len(st.Properties) == 0
	if needsMore && st.ReflectionLoops < cfg.MaxResearchLoops {
		n.logger.Info("insufficient results, looping back to search",
			zap.Int("loop", st.ReflectionLoops+1),
			zap.Int("max_loops", cfg.MaxResearchLoops))
		return workflow.NewDelta().
			ReflectionNotes("Insufficient results. Try refining search.").
			NeedsMoreResearch(true).
			ReflectionLoops(st.ReflectionLoops + 1).
			NextStep(workflow.NodeSearchProperties), nil
	}

	return workflow.NewDelta().
		ReflectionNotes("Results sufficient or loop budget exhausted. Proceed to finalize.").
		NeedsMoreResearch(false).
		NextStep(workflow.NodeGenerateResponse), nil
}
