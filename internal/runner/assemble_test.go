package runner

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"profileforge/internal/section"
)

func TestAssembleOrdersSectionsAndFillsGaps(t *testing.T) {
	topics := []section.Topic{
		{ID: 1, Title: "KEY DECISION MAKERS"},
		{ID: 2, Title: "BUSINESS OVERVIEW"},
		{ID: 3, Title: "OWNERSHIP STRUCTURE"},
	}
	results := map[int]string{
		1: `<div class="section" id="section-1"><h2>1. KEY DECISION MAKERS</h2><p>one</p></div>`,
		3: `<div class="section" id="section-3"><h2>3. OWNERSHIP STRUCTURE</h2><p>three</p></div>`,
	}

	doc := Assemble("Acme", topics, results)

	assert.Contains(t, doc, "<title>Acme Company Profile</title>")
	assert.Contains(t, doc, `href="#section-2"`)
	assert.Less(t, strings.Index(doc, "section-1"), strings.Index(doc, `id="section-2"`))
	assert.Less(t, strings.Index(doc, `id="section-2"`), strings.Index(doc, `id="section-3"`))
	assert.Contains(t, doc, "no result for section 2")
}
