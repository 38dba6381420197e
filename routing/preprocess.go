package routing

import "strings"

// visualizationPhrases are stripped from the text forwarded to the data
// agents when a query carries visualization intent. Order matters: longer
// phrases come before their substrings.
var visualizationPhrases = []string{
	"as a bar chart", "as a chart", "as a graph", "as a plot",
	"visualize", "visualization", "create a chart", "show chart",
	"plot this", "graph this",
}

// Preprocess strips visualization-intent phrasing from the query when the
// decision includes the visualization facet, so agents that do not render
// charts are not confused by chart instructions. The visualization agent
// itself always receives the original query, never this cleaned form.
// Matching is case-insensitive; deletion preserves the surrounding text
// as written. Non-visualization decisions return the query unchanged.
func Preprocess(query string, decision Decision) string {
	if !decision.Facets.Visualization {
		return query
	}

	cleaned := query
	for _, phrase := range visualizationPhrases {
		cleaned = removeAll(cleaned, phrase)
	}
	return strings.TrimSpace(cleaned)
}

// removeAll deletes every case-insensitive occurrence of phrase.
func removeAll(s, phrase string) string {
	for {
		idx := strings.Index(strings.ToLower(s), phrase)
		if idx < 0 {
			return s
		}
		s = s[:idx] + s[idx+len(phrase):]
	}
}
