package routing

import "testing"

func TestClassifyDirectStructuralDefault(t *testing.T) {
	d := Classify("Get girder details for the I-85 crossing")
	if d.Strategy != StrategyDirect {
		t.Fatalf("expected direct strategy, got %s", d.Strategy)
	}
	if len(d.Agents) != 1 || d.Agents[0] != AgentStructural {
		t.Fatalf("expected structural agent, got %v", d.Agents)
	}
	if d.Workflow != "" {
		t.Fatalf("expected no workflow, got %q", d.Workflow)
	}
}

func TestClassifyStructural(t *testing.T) {
	d := Classify("Show span lengths for Bridge 1001")
	if d.Strategy != StrategyDirect {
		t.Fatalf("expected direct strategy, got %s", d.Strategy)
	}
	if d.Agents[0] != AgentStructural {
		t.Fatalf("expected structural agent, got %v", d.Agents)
	}
	if !d.Facets.Structural {
		t.Fatalf("expected structural facet")
	}
}

func TestClassifyCatalogOnly(t *testing.T) {
	d := Classify("What are the GDOT material requirements?")
	if d.Strategy != StrategyDirect {
		t.Fatalf("expected direct strategy, got %s", d.Strategy)
	}
	if len(d.Agents) != 1 || d.Agents[0] != AgentCatalog {
		t.Fatalf("expected catalog agent, got %v", d.Agents)
	}
}

func TestClassifyConcurrent(t *testing.T) {
	d := Classify("Get Bridge 1001 structural data and GDOT material standards")
	if d.Strategy != StrategyConcurrent {
		t.Fatalf("expected concurrent strategy, got %s", d.Strategy)
	}
	if d.Workflow != "data_workflow" {
		t.Fatalf("expected data_workflow, got %q", d.Workflow)
	}
	want := []AgentID{AgentStructural, AgentCatalog}
	if len(d.Agents) != len(want) {
		t.Fatalf("expected %v, got %v", want, d.Agents)
	}
	for i := range want {
		if d.Agents[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, d.Agents)
		}
	}
}

func TestClassifySequential(t *testing.T) {
	d := Classify("Show me Bridge 1001 span lengths as a bar chart")
	if d.Strategy != StrategySequential {
		t.Fatalf("expected sequential strategy, got %s", d.Strategy)
	}
	if d.Workflow != "chart_workflow" {
		t.Fatalf("expected chart_workflow, got %q", d.Workflow)
	}
	if len(d.Agents) != 2 || d.Agents[0] != AgentStructural || d.Agents[1] != AgentVisualization {
		t.Fatalf("unexpected agents %v", d.Agents)
	}
}

func TestClassifyThreeStage(t *testing.T) {
	d := Classify("Chart Bridge 1001 beam data against GDOT standards")
	if d.Strategy != StrategyThreeStage {
		t.Fatalf("expected three_stage strategy, got %s", d.Strategy)
	}
	if d.Workflow != "comparison_chart" {
		t.Fatalf("expected comparison_chart, got %q", d.Workflow)
	}
	if len(d.Agents) != 3 {
		t.Fatalf("expected 3 agents, got %v", d.Agents)
	}
}

func TestClassifyCostingOverridesEverything(t *testing.T) {
	// Every other facet matches too; costing still wins.
	d := Classify("Chart the cost of Bridge 1001 beams per GDOT standards")
	if d.Strategy != StrategyDirect {
		t.Fatalf("expected direct strategy, got %s", d.Strategy)
	}
	if len(d.Agents) != 1 || d.Agents[0] != AgentSearch {
		t.Fatalf("expected search agent, got %v", d.Agents)
	}
	if !d.Facets.Visualization || !d.Facets.Catalog || !d.Facets.Structural || !d.Facets.Costing {
		t.Fatalf("expected all facets set, got %+v", d.Facets)
	}
}

func TestClassifyCostingKeywords(t *testing.T) {
	queries := []string{
		"What is the current steel price trend?",
		"Find a vendor forecast for concrete",
		"Budget estimate for the project",
	}
	for _, q := range queries {
		d := Classify(q)
		if d.Agents[0] != AgentSearch {
			t.Fatalf("query %q: expected search agent, got %v", q, d.Agents)
		}
	}
}

func TestClassifyCaseInsensitive(t *testing.T) {
	d := Classify("SHOW BRIDGE 1001 SPANS AS A BAR CHART")
	if d.Strategy != StrategySequential {
		t.Fatalf("expected sequential strategy, got %s", d.Strategy)
	}
}

func TestClassifyVisualizationWithoutStructural(t *testing.T) {
	// Visualization facet alone does not select a chart workflow; the
	// default direct structural route applies.
	d := Classify("Draw me a pie diagram")
	if d.Strategy != StrategyDirect {
		t.Fatalf("expected direct strategy, got %s", d.Strategy)
	}
	if d.Agents[0] != AgentStructural {
		t.Fatalf("expected structural agent, got %v", d.Agents)
	}
}
