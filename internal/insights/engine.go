package insights

import (
	"sort"

	"github.com/shoplens/shoplens-backend/internal/logger"
)

// Engine runs the registered rules in order and turns their candidates into
// a deduplicated, confidence-ordered insight list.
type Engine struct {
	rules []Rule
	log   *logger.Logger
}

func NewEngine(log *logger.Logger, rules []Rule) *Engine {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Engine{
		rules: rules,
		log:   log.With("service", "insight_engine"),
	}
}

// Evaluate runs every rule against the inputs. A rule that panics is logged
// and skipped; one bad rule never blocks the rest. Duplicate insight ids
// keep the first occurrence. The result is ordered high, medium, low, and
// within a tier by generation order.
func (e *Engine) Evaluate(in Inputs) []Candidate {
	var all []Candidate
	for _, r := range e.rules {
		all = append(all, e.evalSafe(r, in)...)
	}

	seen := make(map[string]struct{}, len(all))
	deduped := make([]Candidate, 0, len(all))
	for _, c := range all {
		if _, dup := seen[c.InsightID]; dup {
			continue
		}
		seen[c.InsightID] = struct{}{}
		c.Confidence = ScoreConfidence(Evidence{
			Completeness:  in.Completeness,
			Significance:  c.Significance,
			MatchStrength: c.MatchStrength,
		})
		deduped = append(deduped, c)
	}

	sort.SliceStable(deduped, func(i, j int) bool {
		return tierRank(deduped[i].Confidence) < tierRank(deduped[j].Confidence)
	})
	return deduped
}

func (e *Engine) evalSafe(r Rule, in Inputs) (out []Candidate) {
	defer func() {
		if rec := recover(); rec != nil {
			e.log.Error("insight rule panicked, skipping", "rule", r.Name, "panic", rec)
			out = nil
		}
	}()
	return r.Eval(in)
}

func tierRank(confidence string) int {
	switch confidence {
	case ConfidenceHigh:
		return 0
	case ConfidenceMedium:
		return 1
	default:
		return 2
	}
}
