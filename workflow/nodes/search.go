package nodes

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/propertytek/chatflow/catalog"
	"github.com/propertytek/chatflow/types"
	"github.com/propertytek/chatflow/workflow"
)

// PropertySearcher extracts criteria from the turn, merges them with the
// carried filters and queries the catalog. Every exit path sets both the
// property list and the filters, plus a fallback when the search could not
// produce candidates.
type PropertySearcher struct {
	catalog *catalog.Store
	logger  *zap.Logger
}

func (n *PropertySearcher) Execute(ctx context.Context, st workflow.State, _ workflow.RunConfig) (workflow.Delta, error) {
	extracted := catalog.ExtractCriteria(st.UserQuery)
	criteria := st.SearchFilters.Merge(extracted)
	iterations := st.SearchIterations + 1

	n.logger.Info("searching properties",
		zap.String("query", st.UserQuery),
		zap.String("criteria", criteria.String()),
		zap.Int("iteration", iterations))

	base := workflow.NewDelta().SearchIterations(iterations)

	// A turn with no property hints and nothing extracted must not reuse
	// stale filters; reset and ask for criteria instead.
	if extracted.IsEmpty() && !catalog.HasPropertyHints(st.UserQuery) {
		return base.
			Properties(nil).
			SearchFilters(types.Criteria{}).
			Fallback(needCriteriaFallback(clarificationPrompt(st.UserQuery))), nil
	}

	// Quick screen for retail queries that slipped past intent analysis.
	if catalog.LooksNonProperty(st.UserQuery) && criteria.IsEmpty() {
		return base.
			Properties(nil).
			SearchFilters(criteria).
			Fallback(&workflow.Fallback{
				Kind: workflow.FallbackGeneralFailure,
				Details: map[string]any{
					"reason":  "non_property",
					"message": "I can help with Texas home rentals: city, budget, bedrooms, pets, move-in date.",
				},
			}), nil
	}

	// Out-of-state locations get a friendly redirect instead of a futile
	// search. The stale city is cleared from the carried filters.
	if criteria.City != "" && !catalog.InTexas(criteria.City) {
		original := criteria.City
		criteria.City = ""
		return base.
			Properties(nil).
			SearchFilters(criteria).
			Fallback(&workflow.Fallback{
				Kind: workflow.FallbackNoProperties,
				Details: map[string]any{
					"query":             st.UserQuery,
					"filters":           criteria.String(),
					"suggested_areas":   n.catalog.SuggestAreas(""),
					"original_location": original,
				},
			}), nil
	}

	if criteria.IsEmpty() {
		return base.
			Properties(nil).
			SearchFilters(criteria).
			Fallback(needCriteriaFallback(priorityPrompt(st, criteria))), nil
	}

	properties, err := n.catalog.Search(ctx, criteria)
	if err != nil {
		return workflow.Delta{}, fmt.Errorf("catalog search: %w", err)
	}

	d := base.Properties(properties).SearchFilters(criteria)
	if len(properties) == 0 {
		d = d.Fallback(&workflow.Fallback{
			Kind: workflow.FallbackNoProperties,
			Details: map[string]any{
				"query":             st.UserQuery,
				"filters":           criteria.String(),
				"suggested_areas":   n.catalog.SuggestAreas(criteria.City),
				"original_location": extracted.City,
				"suggestions":       tailoredSuggestions(criteria),
			},
		})
	}

	n.logger.Info("property search done", zap.Int("results", len(properties)))
	return d, nil
}

func needCriteriaFallback(prompt string) *workflow.Fallback {
	return &workflow.Fallback{
		Kind: workflow.FallbackNeedCriteria,
		Details: map[string]any{
			"missing":        []string{"location", "budget", "bedrooms", "pets", "available date"},
			"clarify_prompt": prompt,
		},
	}
}

// clarificationPrompt picks a targeted question based on what the query
// mentions.
func clarificationPrompt(query string) string {
	q := strings.ToLower(query)
	switch {
	case strings.Contains(q, "pet"):
		return "Do you have cats, dogs, both, or no pets?"
	case strings.Contains(q, "bed"):
		return "How many bedrooms do you need: 1, 2, 3, or 4+?"
	case strings.Contains(q, "location"), strings.Contains(q, "area"), strings.Contains(q, "city"):
		return "Which city or neighborhood are you looking in?"
	case strings.Contains(q, "budget"), strings.Contains(q, "price"), strings.Contains(q, "rent"):
		return "What's your monthly budget range?"
	default:
		return "Could you tell me your preferred location, budget, and number of bedrooms?"
	}
}

// priorityPrompt asks for the highest-priority missing filter in strict
// order: location, bedrooms, budget, then pets when hinted.
func priorityPrompt(st workflow.State, c types.Criteria) string {
	switch {
	case c.City == "":
		return "Which city or area are you looking for? I have properties in Austin, Dallas, Houston, San Antonio, and Fort Worth."
	case c.Bedrooms == 0:
		return "How many bedrooms do you need?"
	case !c.HasBudget():
		return "What's your monthly budget range?"
	case c.Pets == "" && strings.Contains(strings.ToLower(st.UserQuery), "pet"):
		return "Do you have any pets I should know about?"
	default:
		return clarificationPrompt(st.UserQuery)
	}
}

// tailoredSuggestions explains a zero-result search per filter so the
// response node can offer concrete adjustments.
func tailoredSuggestions(c types.Criteria) map[string]string {
	suggestions := make(map[string]string)
	if c.HasBudget() {
		target := c.RentExact
		if target == 0 {
			target = c.RentMax
		}
		if target == 0 {
			target = c.RentMin
		}
		suggestions["budget"] = fmt.Sprintf(
			"I couldn't find anything at $%.0f. Would you like to adjust your budget a little?", target)
	}
	if c.Bedrooms > 0 {
		alts := make([]string, 0, 2)
		if c.Bedrooms > 1 {
			alts = append(alts, fmt.Sprintf("%d", c.Bedrooms-1))
		}
		alts = append(alts, fmt.Sprintf("%d", c.Bedrooms+1))
		suggestions["bedrooms"] = fmt.Sprintf(
			"No %d-bed listings match. Would you consider %s bedrooms?", c.Bedrooms, strings.Join(alts, " or "))
	}
	if c.Pets != "" {
		suggestions["pets"] = "No listings match this pet policy. Should I try a different pets option, or no pets allowed?"
	}
	if c.AvailableDate != "" {
		suggestions["available_date"] = "Nothing for that date. Would you like me to check earlier or later availability?"
	}
	if len(suggestions) == 0 {
		suggestions["general"] = "No exact matches. Try adjusting city, budget, bedrooms, or pet policy."
	}
	return suggestions
}
