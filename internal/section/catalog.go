package section

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Topic is one independently generated unit of the profile, identified by a
// stable numeric key. Topics are loaded once and never mutated.
type Topic struct {
	ID    int    `yaml:"id"`
	Title string `yaml:"title"`
	Spec  string `yaml:"spec"`
}

// DefaultCatalog is the built-in set of company profile sections.
var DefaultCatalog = []Topic{
	{ID: 1, Title: "KEY DECISION MAKERS", Spec: "Identify the board of directors, executive management and, where disclosed, the supervisory bodies. For each person give role, tenure, background and notable prior affiliations, most influential figures first. Include a table of key decision makers with role and tenure."},
	{ID: 2, Title: "BUSINESS OVERVIEW", Spec: "Describe what the company does, its operating segments, products and services, customer groups and geographic footprint, most important segment first. Include a table of revenue by segment with reference periods."},
	{ID: 3, Title: "OWNERSHIP STRUCTURE", Spec: "Lay out the shareholder base: major holders with stakes and dates, free float, any controlling or family ownership, dual share classes and recent changes in ownership."},
	{ID: 4, Title: "KEY FINANCIALS", Spec: "Present revenues, EBITDA, operating profit, net income, cash flow and leverage for the periods disclosed, most recent first. Calculate margins where the inputs exist and mark them [calc]. Use tables for the figures."},
	{ID: 5, Title: "STRATEGY AND OUTLOOK", Spec: "Summarize the stated strategy, medium-term targets and management guidance, then assess how credible they look against the delivered track record."},
	{ID: 6, Title: "COMPETITIVE LANDSCAPE", Spec: "Map the main competitors per segment and the company's relative position: share, pricing power, moats and threats. Name competitors only where the documents support it."},
	{ID: 7, Title: "KEY RISKS", Spec: "List the principal risks to the business: operational, financial, regulatory and strategic, ordered by potential impact, each tied to evidence in the documents."},
	{ID: 8, Title: "RECENT EVENTS", Spec: "Cover acquisitions, divestitures, financings, management changes and other material events from the most recent periods, newest first, with dates."},
}

// LoadCatalog reads a topic catalog from a YAML file, sorted by id.
func LoadCatalog(path string) ([]Topic, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	var topics []Topic
	if err := yaml.Unmarshal(data, &topics); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	for _, t := range topics {
		if t.ID <= 0 || t.Title == "" {
			return nil, fmt.Errorf("catalog entry needs a positive id and a title: %+v", t)
		}
	}
	sort.Slice(topics, func(i, j int) bool { return topics[i].ID < topics[j].ID })
	return topics, nil
}
