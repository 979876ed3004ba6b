package quoting

import "encoding/json"

// KnowledgeDoc is the parsed form of the singleton quote-knowledge blob:
// a rate table, formula notes, company context and free-text rules.
type KnowledgeDoc struct {
	Rates    map[string]map[string]float64 `json:"rates,omitempty"`
	Formulas map[string]string             `json:"formulas,omitempty"`
	Context  KnowledgeContext              `json:"context,omitempty"`
	Rules    []string                      `json:"rules,omitempty"`
}

// KnowledgeContext identifies the company preparing quotes.
type KnowledgeContext struct {
	Name    string `json:"name,omitempty"`
	Website string `json:"website,omitempty"`
	Email   string `json:"email,omitempty"`
}

// rawKnowledge defers rules decoding so a malformed rules value degrades to
// "no rules" instead of failing the whole document.
type rawKnowledge struct {
	Rates    map[string]map[string]float64 `json:"rates"`
	Formulas map[string]string             `json:"formulas"`
	Context  KnowledgeContext              `json:"context"`
	Rules    json.RawMessage               `json:"rules"`
}

// ParseKnowledge decodes a JSON knowledge blob. Returns nil for content
// that is not a JSON object; the composer treats nil as "no knowledge".
func ParseKnowledge(content string) *KnowledgeDoc {
	var raw rawKnowledge
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return nil
	}
	doc := &KnowledgeDoc{
		Rates:    raw.Rates,
		Formulas: raw.Formulas,
		Context:  raw.Context,
	}
	if len(raw.Rules) > 0 {
		var rules []string
		if err := json.Unmarshal(raw.Rules, &rules); err == nil {
			doc.Rules = rules
		}
	}
	return doc
}

// DefaultKnowledge is the template served when no knowledge row exists yet.
func DefaultKnowledge() KnowledgeDoc {
	return KnowledgeDoc{
		Rates: map[string]map[string]float64{
			"constructionSite":   {"unarmed": 25, "armed": 35, "patrol": 45},
			"commercialProperty": {"unarmed": 28, "armed": 38, "patrol": 50},
			"event":              {"unarmed": 30, "armed": 45},
		},
		Formulas: map[string]string{
			"monthlyEstimate": "hourlyRate * hoursPerWeek * 4.33",
		},
		Context: KnowledgeContext{
			Name:    "Elite 24 Security",
			Website: "https://www.elite24security.com",
			Email:   "sales@elite24.com",
		},
		Rules: []string{
			"Construction GC jobs usually need at least 40 hours per week.",
		},
	}
}

// DefaultKnowledgeContent renders the default template as the raw content
// blob handed to clients.
func DefaultKnowledgeContent() string {
	b, _ := json.MarshalIndent(DefaultKnowledge(), "", "  ")
	return string(b)
}
