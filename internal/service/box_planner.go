package service

import (
	"fmt"
	"sort"

	"github.com/guttosm/assembly-service/internal/domain/model"
	"github.com/guttosm/assembly-service/internal/metrics"
)

// maxUniformBoxCount bounds the uniform-split search in spacious mode.
const maxUniformBoxCount = 20

// BoxPlanner recommends a box type and box count for a portion total.
type BoxPlanner interface {
	Plan(portions int, boxes []model.BoxDefinition, mode model.PlanMode) model.BoxPlan
}

// BoxPlannerService implements BoxPlanner over a box catalog snapshot.
type BoxPlannerService struct{}

// NewBoxPlannerService creates a new BoxPlannerService.
func NewBoxPlannerService() *BoxPlannerService {
	return &BoxPlannerService{}
}

// Plan computes a box recommendation. An impossible configuration yields a
// structured no-solution plan (Feasible=false), never an error.
func (s *BoxPlannerService) Plan(portions int, boxes []model.BoxDefinition, mode model.PlanMode) model.BoxPlan {
	if portions <= 0 || len(boxes) == 0 {
		metrics.PlansTotal.WithLabelValues(string(mode), "infeasible").Inc()
		return model.NoPlan(mode)
	}

	sorted := make([]model.BoxDefinition, len(boxes))
	copy(sorted, boxes)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].QntTo < sorted[j].QntTo })

	var plan model.BoxPlan
	switch mode {
	case model.PlanModeEconomical:
		plan = planEconomical(portions, sorted)
	default:
		plan = planSpacious(portions, sorted)
	}

	outcome := "ok"
	if !plan.Feasible {
		outcome = "infeasible"
	}
	metrics.PlansTotal.WithLabelValues(string(plan.Mode), outcome).Inc()
	return plan
}

// planSpacious prefers the smallest single box whose nominal range contains
// the portion count. Failing that it searches uniform multi-box fills and a
// largest-box fallback, preferring fewer boxes; on equal box count the
// uniform split wins.
func planSpacious(portions int, sorted []model.BoxDefinition) model.BoxPlan {
	// Exact single-box fit, smallest box first.
	for i := range sorted {
		if sorted[i].Fits(portions) {
			return buildPlan(model.PlanModeSpacious, sorted[i], 1, []int{portions})
		}
	}

	// Uniform multi-box fill: portions split evenly with each box inside its
	// nominal range. Minimal box count wins across box types.
	var uniformBox *model.BoxDefinition
	uniformCount := 0
	for count := 2; count <= maxUniformBoxCount; count++ {
		if portions%count != 0 {
			continue
		}
		perBox := portions / count
		for i := range sorted {
			if sorted[i].Fits(perBox) {
				uniformBox = &sorted[i]
				uniformCount = count
				break
			}
		}
		if uniformBox != nil {
			break
		}
	}

	// Largest-box fallback: chunk the portions into as few largest boxes as
	// possible, each within nominal capacity.
	largest := sorted[len(sorted)-1]
	fallbackCount := 0
	if largest.QntTo > 0 {
		fallbackCount = (portions + largest.QntTo - 1) / largest.QntTo
	}

	if uniformBox != nil && (fallbackCount == 0 || uniformCount <= fallbackCount) {
		perBox := portions / uniformCount
		fills := make([]int, uniformCount)
		for i := range fills {
			fills[i] = perBox
		}
		return buildPlan(model.PlanModeSpacious, *uniformBox, uniformCount, fills)
	}

	if fallbackCount > 0 {
		return buildPlan(model.PlanModeSpacious, largest, fallbackCount, spreadPortions(portions, fallbackCount))
	}

	return model.NoPlan(model.PlanModeSpacious)
}

// planEconomical minimizes box count using the overflow allowance. Among
// candidates with equal box count the smallest box wins.
func planEconomical(portions int, sorted []model.BoxDefinition) model.BoxPlan {
	bestCount := -1
	var best *model.BoxDefinition
	for i := range sorted {
		ceiling := sorted[i].MaxWithOverflow()
		if ceiling <= 0 {
			continue
		}
		count := (portions + ceiling - 1) / ceiling
		maxPerBox := (portions + count - 1) / count
		if maxPerBox > ceiling {
			continue
		}
		// sorted ascending by QntTo, so the first candidate with a given
		// count is already the smallest box for that count.
		if bestCount == -1 || count < bestCount {
			bestCount = count
			best = &sorted[i]
		}
	}

	if best == nil {
		return model.NoPlan(model.PlanModeEconomical)
	}

	plan := buildPlan(model.PlanModeEconomical, *best, bestCount, spreadPortions(portions, bestCount))
	for _, d := range plan.Details {
		if d.OverCapacity > 0 {
			plan.HasOverflow = true
			plan.OverflowWarning = fmt.Sprintf(
				"box %s filled beyond nominal capacity %d using overflow allowance %d",
				best.Marking, best.QntTo, best.Overflow)
			break
		}
	}
	return plan
}

// spreadPortions splits portions over count boxes as evenly as possible,
// with the remainder going to the first boxes.
func spreadPortions(portions, count int) []int {
	fills := make([]int, count)
	base := portions / count
	remainder := portions % count
	for i := range fills {
		fills[i] = base
		if i < remainder {
			fills[i]++
		}
	}
	return fills
}

func buildPlan(mode model.PlanMode, box model.BoxDefinition, count int, fills []int) model.BoxPlan {
	details := make([]model.BoxPlanDetail, count)
	perBox := 0
	for i, portions := range fills {
		over := portions - box.QntTo
		if over < 0 {
			over = 0
		}
		details[i] = model.BoxPlanDetail{BoxIndex: i, Portions: portions, OverCapacity: over}
		if portions > perBox {
			perBox = portions
		}
	}

	boxCopy := box
	return model.BoxPlan{
		Mode:           mode,
		Feasible:       true,
		BoxCount:       count,
		Box:            &boxCopy,
		PortionsPerBox: perBox,
		TotalCapacity:  count * box.QntTo,
		Details:        details,
	}
}
