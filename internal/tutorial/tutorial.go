// Package tutorial drives the four-step onboarding walkthrough shown
// in the dashboard's help modal.
package tutorial

import (
	"html/template"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// Step is one page of the walkthrough. Body is markdown.
type Step struct {
	Index int    `json:"index"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

var steps = []Step{
	{
		Index: 0,
		Title: "Getting Started",
		Body: `Select the states and year you're interested in exploring:

- Use the search box to quickly find specific states
- Select multiple states for comparison
- Use the 'Select All States' button to quickly select or deselect all states
- Choose a year from the dropdown to view data for that time period`,
	},
	{
		Index: 1,
		Title: "Choose Health Indicators",
		Body: `Select a health metric to visualize:

- Obesity Rate - Shows the percentage of adults with obesity
- Smoking Rate - Shows the percentage of adults who smoke
- Physically Unhealthy Days - Average days of poor physical health
- Mentally Unhealthy Days - Average days of poor mental health

The selected indicator will be displayed in all visualizations and the data table.`,
	},
	{
		Index: 2,
		Title: "Exploring Visualizations",
		Body: `Analyze data using different visualization types:

- Bar Chart: Compare values across states for the selected year
- Trend Line Chart: View how indicators change over time for each state
- Data Table: Explore detailed data with options to customize columns

Hover over charts for more details, or expand them to full screen using the icon in the top-right corner.`,
	},
	{
		Index: 3,
		Title: "Accessibility Features",
		Body: `Customize the interface to suit your needs:

- Dark Mode: Toggle between light and dark themes
- Theme Picker: Choose from various theme options
- Zoom Control: Adjust the interface size for better visibility
- Keyboard Navigation: Use Tab, arrow keys, and Enter to navigate without a mouse

All visualizations are accessible with keyboard navigation and screen readers.`,
	},
}

// Steps returns all walkthrough pages in order.
func Steps() []Step {
	return append([]Step(nil), steps...)
}

// StepCount is the number of walkthrough pages.
func StepCount() int {
	return len(steps)
}

// HTML renders the step body for the modal.
func (s Step) HTML() template.HTML {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	doc := p.Parse([]byte(s.Body))
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return template.HTML(markdown.Render(doc, renderer))
}

// Guide tracks one session's position in the walkthrough. Movement is
// clamped to the step range; walking past either end stays put.
type Guide struct {
	step     int
	finished bool
}

// NewGuide starts a walkthrough at the first step.
func NewGuide() *Guide {
	return &Guide{}
}

// Current returns the step the guide points at.
func (g *Guide) Current() Step {
	return steps[g.step]
}

// StepIndex returns the current position.
func (g *Guide) StepIndex() int {
	return g.step
}

// Next advances one step and returns the new current step.
func (g *Guide) Next() Step {
	if g.step < len(steps)-1 {
		g.step++
	}
	return steps[g.step]
}

// Prev steps back and returns the new current step.
func (g *Guide) Prev() Step {
	if g.step > 0 {
		g.step--
	}
	return steps[g.step]
}

// Seek jumps to a step, clamping out-of-range positions.
func (g *Guide) Seek(index int) Step {
	switch {
	case index < 0:
		g.step = 0
	case index >= len(steps):
		g.step = len(steps) - 1
	default:
		g.step = index
	}
	return steps[g.step]
}

// Restart rewinds to the first step and clears the finished flag.
func (g *Guide) Restart() Step {
	g.step = 0
	g.finished = false
	return steps[g.step]
}

// Finish marks the walkthrough complete and rewinds so the next
// opening starts from the beginning.
func (g *Guide) Finish() {
	g.step = 0
	g.finished = true
}

// Finished reports whether the walkthrough was completed or dismissed.
func (g *Guide) Finished() bool {
	return g.finished
}

// AtStart reports whether Prev would be a no-op.
func (g *Guide) AtStart() bool {
	return g.step == 0
}

// AtEnd reports whether Next would be a no-op.
func (g *Guide) AtEnd() bool {
	return g.step == len(steps)-1
}
