// Package routing maps raw user text onto a coordination strategy. The
// classification is deliberately keyword-membership only: downstream UI
// preview logic mirrors the same table, so any change to the vocabularies
// or precedence order is a behavior change, not a bug fix.
package routing

import "strings"

// Strategy is a coordination pattern executed by the orchestrator.
type Strategy string

const (
	// StrategyDirect calls a single agent.
	StrategyDirect Strategy = "direct"
	// StrategySequential runs the structural agent, then the visualization
	// agent over its output.
	StrategySequential Strategy = "sequential"
	// StrategyConcurrent fans the query out to the structural and catalog
	// agents in parallel.
	StrategyConcurrent Strategy = "concurrent"
	// StrategyThreeStage fans out to structural and catalog, then feeds both
	// outputs to the visualization agent.
	StrategyThreeStage Strategy = "three_stage"
)

// AgentID identifies one of the four remote agents.
type AgentID string

const (
	AgentStructural    AgentID = "structural"
	AgentCatalog       AgentID = "catalog"
	AgentVisualization AgentID = "visualization"
	AgentSearch        AgentID = "search"
)

// Facets are the four independent boolean classifications of a query.
type Facets struct {
	Visualization bool
	Catalog       bool
	Structural    bool
	Costing       bool
}

// Decision is the routing outcome for one request. It is created fresh per
// request and never mutated.
type Decision struct {
	Strategy Strategy
	Workflow string
	Agents   []AgentID
	Facets   Facets
}

var (
	visualizationKeywords = []string{
		"chart", "graph", "plot", "visualiz", "bar", "line", "pie",
	}
	catalogKeywords = []string{
		"gdot", "standard", "material", "databricks", "catalog",
		"environmental", "compliance", "beam type", "design parameter",
	}
	costingKeywords = []string{
		"cost", "price", "pricing", "market", "budget", "vendor",
		"supplier", "economic", "forecast", "trend", "inflation",
	}
	structuralKeywords = []string{
		"bridge", "span", "beam", "1001", "structural",
	}
)

// Classify maps query text to a routing decision. Matching is
// case-insensitive substring membership; the precedence order below is
// fixed. Costing is checked first because its vocabulary ("cost", "price")
// overlaps engineering terms, and precedence resolves the ambiguity
// deterministically.
func Classify(query string) Decision {
	q := strings.ToLower(query)

	facets := Facets{
		Visualization: containsAny(q, visualizationKeywords),
		Catalog:       containsAny(q, catalogKeywords),
		Structural:    containsAny(q, structuralKeywords),
		Costing:       containsAny(q, costingKeywords),
	}

	switch {
	case facets.Costing:
		return Decision{
			Strategy: StrategyDirect,
			Agents:   []AgentID{AgentSearch},
			Facets:   facets,
		}
	case facets.Visualization && facets.Catalog && facets.Structural:
		return Decision{
			Strategy: StrategyThreeStage,
			Workflow: "comparison_chart",
			Agents:   []AgentID{AgentStructural, AgentCatalog, AgentVisualization},
			Facets:   facets,
		}
	case facets.Visualization && facets.Structural:
		return Decision{
			Strategy: StrategySequential,
			Workflow: "chart_workflow",
			Agents:   []AgentID{AgentStructural, AgentVisualization},
			Facets:   facets,
		}
	case facets.Catalog && facets.Structural:
		return Decision{
			Strategy: StrategyConcurrent,
			Workflow: "data_workflow",
			Agents:   []AgentID{AgentStructural, AgentCatalog},
			Facets:   facets,
		}
	case facets.Catalog:
		return Decision{
			Strategy: StrategyDirect,
			Agents:   []AgentID{AgentCatalog},
			Facets:   facets,
		}
	default:
		// Structural, or nothing matched: the structural agent is the default.
		return Decision{
			Strategy: StrategyDirect,
			Agents:   []AgentID{AgentStructural},
			Facets:   facets,
		}
	}
}

func containsAny(q string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(q, kw) {
			return true
		}
	}
	return false
}
