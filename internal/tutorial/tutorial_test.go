package tutorial

import (
	"strings"
	"testing"
)

func TestStepsContent(t *testing.T) {
	all := Steps()
	if len(all) != 4 {
		t.Fatalf("StepCount = %d, want 4", len(all))
	}

	wantTitles := []string{
		"Getting Started",
		"Choose Health Indicators",
		"Exploring Visualizations",
		"Accessibility Features",
	}
	for i, step := range all {
		if step.Title != wantTitles[i] {
			t.Errorf("step %d title = %q, want %q", i, step.Title, wantTitles[i])
		}
		if step.Index != i {
			t.Errorf("step %d carries index %d", i, step.Index)
		}
		if step.Body == "" {
			t.Errorf("step %d has no body", i)
		}
	}
}

func TestGuideNavigation(t *testing.T) {
	g := NewGuide()

	if !g.AtStart() || g.AtEnd() {
		t.Error("new guide should sit at the first step")
	}

	// Prev at the first step stays put.
	if got := g.Prev(); got.Index != 0 {
		t.Errorf("Prev at start moved to %d", got.Index)
	}

	g.Next()
	g.Next()
	g.Next()
	if !g.AtEnd() {
		t.Errorf("after three Next, index = %d", g.StepIndex())
	}

	// Next at the last step stays put.
	if got := g.Next(); got.Index != 3 {
		t.Errorf("Next at end moved to %d", got.Index)
	}

	g.Finish()
	if !g.Finished() || g.StepIndex() != 0 {
		t.Error("Finish should mark the guide done and rewind it")
	}

	g.Next()
	g.Restart()
	if g.StepIndex() != 0 || g.Finished() {
		t.Error("Restart should rewind and clear the finished flag")
	}
}

func TestGuideSeekClamps(t *testing.T) {
	g := NewGuide()

	if got := g.Seek(99); got.Index != 3 {
		t.Errorf("Seek(99) = %d, want last step", got.Index)
	}
	if got := g.Seek(-5); got.Index != 0 {
		t.Errorf("Seek(-5) = %d, want first step", got.Index)
	}
	if got := g.Seek(2); got.Index != 2 {
		t.Errorf("Seek(2) = %d", got.Index)
	}
}

func TestStepHTML(t *testing.T) {
	html := string(Steps()[0].HTML())
	if !strings.Contains(html, "<ul>") || !strings.Contains(html, "<li>") {
		t.Errorf("rendered body missing list markup: %s", html)
	}
	if !strings.Contains(html, "search box") {
		t.Errorf("rendered body lost its content: %s", html)
	}
}
