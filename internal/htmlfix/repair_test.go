package htmlfix

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepairEmptyInput(t *testing.T) {
	got := Repair("", 1, "BUSINESS OVERVIEW")
	assert.Equal(t, `<div class="section" id="section-1"><h2>1. BUSINESS OVERVIEW</h2></div>`, got)
	assert.True(t, Validate(got))
}

func TestRepairWrapsPlainText(t *testing.T) {
	got := Repair("The company operates in three segments.", 2, "BUSINESS OVERVIEW")
	assert.Contains(t, got, `id="section-2"`)
	assert.Contains(t, got, "<h2>2. BUSINESS OVERVIEW</h2>")
	assert.Contains(t, got, "<p>The company operates in three segments.</p>")
	assert.True(t, Validate(got))
}

func TestRepairStripsCodeFences(t *testing.T) {
	in := "```html\n<p>Revenue grew 12%.</p>\n```"
	got := Repair(in, 4, "KEY FINANCIALS")
	assert.NotContains(t, got, "```")
	assert.Contains(t, got, "<p>Revenue grew 12%.</p>")
	assert.True(t, Validate(got))
}

func TestRepairDropsDuplicateHeading(t *testing.T) {
	in := `<div class="section" id="section-2"><h2>2. BUSINESS OVERVIEW</h2><p>Body text.</p></div>`
	got := Repair(in, 2, "BUSINESS OVERVIEW")
	assert.Equal(t, 1, strings.Count(got, "<h2>"))
	assert.Contains(t, got, "<p>Body text.</p>")
	assert.True(t, Validate(got))
}

func TestRepairDropsTitleEchoParagraph(t *testing.T) {
	in := "<p>BUSINESS OVERVIEW</p><p>Actual content.</p>"
	got := Repair(in, 2, "BUSINESS OVERVIEW")
	assert.Equal(t, 1, strings.Count(got, "BUSINESS OVERVIEW"))
	assert.Contains(t, got, "<p>Actual content.</p>")
}

func TestRepairDemotesForeignHeadings(t *testing.T) {
	in := "<h2>Segment deep dive</h2><p>Details.</p>"
	got := Repair(in, 6, "COMPETITIVE LANDSCAPE")
	assert.Equal(t, 1, strings.Count(got, "<h2>"))
	assert.Contains(t, got, "<h3>Segment deep dive</h3>")
	assert.True(t, Validate(got))
}

func TestRepairAddsTableHeaderAndBodyGroups(t *testing.T) {
	in := `<table class="data-table"><tr><td>Metric</td><td>FY24</td></tr><tr><td>Revenue</td><td>100</td></tr></table>`
	got := Repair(in, 4, "KEY FINANCIALS")
	assert.Contains(t, got, "<thead>")
	assert.Contains(t, got, "<tbody>")
	assert.True(t, Validate(got))
}

func TestRepairEmptyTable(t *testing.T) {
	got := Repair("<table></table>", 4, "KEY FINANCIALS")
	assert.Contains(t, got, "<thead>")
	assert.Contains(t, got, "<tbody>")
	assert.True(t, Validate(got))
}

func TestRepairClosesUnbalancedTags(t *testing.T) {
	in := "<p>Opening<ul><li>first<li>second"
	got := Repair(in, 7, "KEY RISKS")
	assert.True(t, Validate(got))
	assert.Contains(t, got, "<li>first")
	assert.Contains(t, got, "<li>second")
}

func TestRepairIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"   \n  ",
		"plain text only",
		"```html\n<p>fenced</p>\n```",
		`<div class="section" id="section-5"><h2>5. STRATEGY AND OUTLOOK</h2><p>ok</p></div>`,
		"<p>unclosed<ul><li>a<li>b",
		`<table><tr><th>A</th></tr><tr><td>1</td></tr></table>`,
		"<h2>5. STRATEGY AND OUTLOOK</h2><h2>Other heading</h2><p>text</p>",
		"<td>orphan cell</td>",
	}
	for _, in := range inputs {
		once := Repair(in, 5, "STRATEGY AND OUTLOOK")
		twice := Repair(once, 5, "STRATEGY AND OUTLOOK")
		assert.Equal(t, once, twice, "repair not idempotent for input %q", in)
	}
}

func TestRepairOutputAlwaysValidates(t *testing.T) {
	inputs := []string{
		"",
		"just words",
		"<<< not html >>>",
		"<div><div><p>nested unclosed",
		"```html```",
		"<table><tr><td>a</td></tr></table> trailing text",
		`<div class="section" id="section-9"><h2>9. X</h2></div>`,
	}
	for _, in := range inputs {
		got := Repair(in, 9, "RECENT EVENTS")
		require.True(t, Validate(got), "repair output failed validation for input %q: %s", in, got)
	}
}

func TestValidateRejectsDefects(t *testing.T) {
	cases := map[string]string{
		"empty":            "",
		"plain text":       "no markup at all",
		"missing close":    `<div class="section" id="section-1"><h2>1. X</h2><p>y</p>`,
		"no container":     `<h2>1. X</h2><p>y</p>`,
		"two headings":     `<div class="section" id="section-1"><h2>1. X</h2><h2>extra</h2></div>`,
		"table sans thead": `<div class="section" id="section-1"><h2>1. X</h2><table><tbody><tr><td>a</td></tr></tbody></table></div>`,
		"misnested list":   `<div class="section" id="section-1"><h2>1. X</h2><ul><li>a</ul></li></div>`,
	}
	for name, markup := range cases {
		assert.False(t, Validate(markup), "expected %s to be rejected", name)
	}
}

func TestValidateAcceptsCanonicalFragment(t *testing.T) {
	markup := `<div class="section" id="section-3"><h2>3. OWNERSHIP STRUCTURE</h2>` +
		`<p>Text.</p><table class="data-table"><thead><tr><th>Holder</th></tr></thead>` +
		`<tbody><tr><td>Family trust</td></tr></tbody></table></div>`
	assert.True(t, Validate(markup))
}
