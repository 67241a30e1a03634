package nodes

import (
	"context"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/propertytek/chatflow/catalog"
	"github.com/propertytek/chatflow/llm"
	"github.com/propertytek/chatflow/workflow"
)

// IntentAnalyzer is the entry node. A keyword heuristic runs first and
// takes precedence over the model's classification; the model still runs
// so entities and confidence are captured.
type IntentAnalyzer struct {
	llm    llm.Client
	logger *zap.Logger
}

var (
	bedroomKeywords = []string{"bed", "beds", "bedroom", "br", "studio"}
	housingKeywords = []string{"apartment", "house", "condo", "rental", "rent", "lease", "property"}
	bookingKeywords = []string{
		"book", "booking", "schedule", "viewing", "tour", "available dates",
		"available date", "schedule viewing", "schedule a tour", "check dates",
	}
	greetingKeywords = []string{
		"hi", "hello", "hey", "good morning", "good afternoon", "good evening",
		"how are you", "how are you doing", "what's up", "whats up", "howdy",
	}
	selfIntroPrefixes = []string{"i am ", "i'm ", "im ", "this is ", "my name is "}
)

func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}

// heuristicIntent classifies obvious queries without a model call. Returns
// "" when no rule fires.
func heuristicIntent(query string) string {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return ""
	}

	intent := ""
	if containsAny(q, selfIntroPrefixes) && len(q) <= 60 {
		intent = workflow.IntentSelfIntro
	}
	if intent == "" && containsAny(q, greetingKeywords) && len(q) <= 60 {
		intent = workflow.IntentGreeting
	}
	if containsAny(q, bedroomKeywords) || containsAny(q, housingKeywords) {
		intent = workflow.IntentPropertySearch
	}
	if containsAny(q, bookingKeywords) {
		if intent == "" {
			intent = workflow.IntentScheduleTour
		}
	} else if intent == "" && catalog.LooksNonProperty(q) {
		intent = workflow.IntentNonProperty
	}
	if containsAny(q, bedroomKeywords) && strings.ContainsFunc(q, unicode.IsDigit) {
		intent = workflow.IntentPropertySearch
	}
	return intent
}

func (n *IntentAnalyzer) Execute(ctx context.Context, st workflow.State, cfg workflow.RunConfig) (workflow.Delta, error) {
	heuristic := heuristicIntent(st.UserQuery)

	result, err := n.llm.ClassifyIntent(ctx, st.UserQuery, cfg.IntentModel)
	if err != nil {
		if heuristic == "" {
			return workflow.Delta{}, err
		}
		// The heuristic stands on its own when the model is unreachable.
		n.logger.Warn("intent classification failed, using heuristic",
			zap.String("intent", heuristic), zap.Error(err))
		result = llm.IntentResult{Intent: heuristic}
	}

	intent := heuristic
	if intent == "" {
		intent = result.Intent
	}
	if intent == "" {
		intent = workflow.IntentGeneralInfo
	}

	n.logger.Info("intent analyzed",
		zap.String("intent", intent),
		zap.String("confidence", result.Confidence))

	d := workflow.NewDelta().
		Intent(intent).
		Entities(result.Entities).
		Confidence(result.Confidence)

	// Non-property queries skip the search node entirely; any criteria in
	// the query are still captured so a follow-up search starts warm.
	if intent == workflow.IntentNonProperty {
		d = d.
			SearchFilters(st.SearchFilters.Merge(catalog.ExtractCriteria(st.UserQuery))).
			Properties(nil)
	}
	return d, nil
}
