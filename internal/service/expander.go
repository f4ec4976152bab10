// Package service contains the business logic of the order assembly engine.
package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/guttosm/assembly-service/internal/domain/model"
	"github.com/guttosm/assembly-service/internal/metrics"
)

const (
	// DefaultMaxKitDepth bounds kit nesting; deeper branches are abandoned.
	DefaultMaxKitDepth = 10
	// defaultWeightCategoryOne is the fallback unit weight (kg) for category 1 products.
	defaultWeightCategoryOne = 0.45
	// defaultWeightOther is the fallback unit weight (kg) for every other category.
	defaultWeightOther = 0.25
)

// ProductResolver is the port to the product catalog.
type ProductResolver interface {
	// Resolve returns the product for the given SKU, or an error when the SKU
	// is unknown or the catalog is unreachable.
	Resolve(ctx context.Context, sku string) (*model.Product, error)
}

// IssueKind classifies a non-fatal problem encountered during expansion.
type IssueKind string

const (
	// IssueLookupFailed means a SKU could not be resolved; the line was kept
	// with a conservative fallback weight.
	IssueLookupFailed IssueKind = "lookup_failed"
	// IssueDepthExceeded means a kit branch was abandoned because nesting
	// exceeded the configured depth.
	IssueDepthExceeded IssueKind = "depth_exceeded"
	// IssueCycleDetected means a kit (directly or transitively) contained
	// itself; the offending branch was skipped.
	IssueCycleDetected IssueKind = "cycle_detected"
	// IssueBadComponent means a kit referenced a component with a
	// non-positive quantity or empty SKU.
	IssueBadComponent IssueKind = "bad_component"
)

// ExpansionIssue reports one isolated expansion problem.
type ExpansionIssue struct {
	SKU  string    `json:"sku"`
	Kind IssueKind `json:"kind"`
	Err  error     `json:"-"`
	// Message is the operator-facing description of Err.
	Message string `json:"message,omitempty"`
}

// ExpansionResult is the outcome of flattening an order: atomic items keyed
// by resolved leaf name, plus every issue that was isolated along the way.
// Issues never abort the batch; a result with issues is a partial success.
type ExpansionResult struct {
	Items  map[string]model.ExpandedItem `json:"items"`
	Issues []ExpansionIssue              `json:"issues,omitempty"`
}

// TotalPortions returns the sum of all expanded item quantities.
func (r ExpansionResult) TotalPortions() int {
	total := 0
	for _, item := range r.Items {
		total += item.Quantity
	}
	return total
}

// TotalWeight returns the sum of all expanded expected weights in kilograms.
func (r ExpansionResult) TotalWeight() float64 {
	total := 0.0
	for _, item := range r.Items {
		total += item.ExpectedWeight
	}
	return total
}

// SetExpander flattens order lines that may reference nested kits into
// atomic purchasable items with aggregated quantities and weights.
type SetExpander interface {
	Expand(ctx context.Context, lines []model.OrderLine) ExpansionResult
}

// ExpanderOption configures a SetExpanderService.
type ExpanderOption func(*SetExpanderService)

// SetExpanderService implements SetExpander over a ProductResolver.
type SetExpanderService struct {
	resolver          ProductResolver
	maxDepth          int
	categoryOneWeight float64
	defaultWeight     float64
}

// NewSetExpanderService creates a new SetExpanderService.
func NewSetExpanderService(resolver ProductResolver, opts ...ExpanderOption) *SetExpanderService {
	s := &SetExpanderService{
		resolver:          resolver,
		maxDepth:          DefaultMaxKitDepth,
		categoryOneWeight: defaultWeightCategoryOne,
		defaultWeight:     defaultWeightOther,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WithMaxKitDepth overrides the kit nesting limit.
func WithMaxKitDepth(depth int) ExpanderOption {
	return func(s *SetExpanderService) {
		if depth > 0 {
			s.maxDepth = depth
		}
	}
}

// WithFallbackWeights overrides the category fallback unit weights.
func WithFallbackWeights(categoryOne, other float64) ExpanderOption {
	return func(s *SetExpanderService) {
		if categoryOne > 0 {
			s.categoryOneWeight = categoryOne
		}
		if other > 0 {
			s.defaultWeight = other
		}
	}
}

// Expand flattens the order lines. Each line is expanded in isolation: a
// failure in one line is recorded as an issue and never aborts the others.
func (s *SetExpanderService) Expand(ctx context.Context, lines []model.OrderLine) ExpansionResult {
	result := ExpansionResult{Items: make(map[string]model.ExpandedItem, len(lines))}

	for _, line := range lines {
		if line.SKU == "" || line.Quantity <= 0 {
			result.Issues = append(result.Issues, issue(line.SKU, IssueBadComponent,
				fmt.Errorf("order line %q has no resolvable sku/quantity", line.SKU)))
			continue
		}
		issues := s.expandNode(ctx, line.SKU, line.Quantity, 0, map[string]struct{}{}, result.Items)
		result.Issues = append(result.Issues, issues...)
	}

	status := "ok"
	if len(result.Issues) > 0 {
		status = "partial"
	}
	metrics.ExpansionsTotal.WithLabelValues(status).Inc()
	for _, is := range result.Issues {
		metrics.ExpansionIssuesTotal.WithLabelValues(string(is.Kind)).Inc()
	}

	return result
}

// expandNode resolves one SKU and either merges it as an atomic item or
// recurses into its kit components. The visited set is copied per branch so
// a kit may legitimately appear in two independent branches of the same
// order line; only a path that reaches itself counts as a cycle.
func (s *SetExpanderService) expandNode(
	ctx context.Context,
	sku string,
	quantity int,
	depth int,
	visited map[string]struct{},
	out map[string]model.ExpandedItem,
) []ExpansionIssue {
	if _, seen := visited[sku]; seen {
		log.Warn().Str("sku", sku).Msg("Kit contains itself, skipping branch")
		return []ExpansionIssue{issue(sku, IssueCycleDetected,
			fmt.Errorf("kit %q reached itself", sku))}
	}

	product, err := s.resolver.Resolve(ctx, sku)
	if err != nil || product == nil {
		if err == nil {
			err = fmt.Errorf("product %q not found", sku)
		}
		log.Warn().Err(err).Str("sku", sku).Msg("Product lookup failed, using fallback weight")
		s.merge(out, model.Product{SKU: sku, Name: sku}, quantity)
		return []ExpansionIssue{issue(sku, IssueLookupFailed, err)}
	}

	if !product.IsKit() {
		s.merge(out, *product, quantity)
		return nil
	}

	if depth >= s.maxDepth {
		log.Warn().Str("sku", sku).Int("depth", depth).Msg("Kit nesting too deep, abandoning branch")
		return []ExpansionIssue{issue(sku, IssueDepthExceeded,
			fmt.Errorf("kit %q exceeds nesting depth %d", sku, s.maxDepth))}
	}

	branchVisited := copyVisited(visited)
	branchVisited[sku] = struct{}{}

	var issues []ExpansionIssue
	for _, component := range product.Set {
		if component.SKU == "" || component.Quantity <= 0 {
			issues = append(issues, issue(sku, IssueBadComponent,
				fmt.Errorf("kit %q has a malformed component %q", sku, component.SKU)))
			continue
		}
		childIssues := s.expandNode(ctx, component.SKU, quantity*component.Quantity, depth+1, branchVisited, out)
		issues = append(issues, childIssues...)
	}
	return issues
}

// merge accumulates a resolved atomic product into the result map. Quantities
// of the same leaf reached through different kits are summed, and the expected
// weight is recomputed from the running total so repeated merges cannot drift.
func (s *SetExpanderService) merge(out map[string]model.ExpandedItem, product model.Product, quantity int) {
	unitWeight := product.Weight
	if unitWeight <= 0 {
		unitWeight = s.fallbackUnitWeight(product.CategoryID)
	}

	name := product.Name
	if name == "" {
		name = product.SKU
	}

	item, ok := out[name]
	if !ok {
		item = model.ExpandedItem{
			Name:        name,
			SKU:         product.SKU,
			Barcode:     product.Barcode,
			UnitWeight:  unitWeight,
			ManualOrder: product.ManualOrder,
		}
	}
	item.Quantity += quantity
	item.ExpectedWeight = item.UnitWeight * float64(item.Quantity)
	out[name] = item
}

// fallbackUnitWeight returns the category-based default unit weight.
func (s *SetExpanderService) fallbackUnitWeight(categoryID int) float64 {
	if categoryID == 1 {
		return s.categoryOneWeight
	}
	return s.defaultWeight
}

func issue(sku string, kind IssueKind, err error) ExpansionIssue {
	return ExpansionIssue{SKU: sku, Kind: kind, Err: err, Message: err.Error()}
}

func copyVisited(visited map[string]struct{}) map[string]struct{} {
	branch := make(map[string]struct{}, len(visited)+1)
	for sku := range visited {
		branch[sku] = struct{}{}
	}
	return branch
}
