package prompt

import (
	"strings"
	"testing"
)

func TestLoadPromptSet(t *testing.T) {
	t.Parallel()

	set := LoadPromptSet()
	for name, content := range map[string]string{
		"sentiment": set.Sentiment,
		"purchase":  set.Purchase,
		"campaign":  set.Campaign,
		"marketer":  set.Marketer,
	} {
		if strings.TrimSpace(content) == "" {
			t.Fatalf("prompt %s is empty", name)
		}
	}

	for _, specialist := range []string{set.Sentiment, set.Purchase, set.Campaign} {
		if !strings.Contains(specialist, "{user_prompt}") || !strings.Contains(specialist, "{evidence}") {
			t.Fatalf("specialist prompt missing placeholders")
		}
	}
	if !strings.Contains(set.Marketer, "{agent_insights}") {
		t.Fatalf("marketer prompt missing agent_insights placeholder")
	}
}

func TestRender(t *testing.T) {
	t.Parallel()

	got := Render("Hi {name}, about {topic}: {topic}", map[string]string{
		"name":  "team",
		"topic": "launch",
	})
	if got != "Hi team, about launch: launch" {
		t.Fatalf("Render() = %q", got)
	}

	unchanged := Render("no placeholders", nil)
	if unchanged != "no placeholders" {
		t.Fatalf("Render() = %q", unchanged)
	}
}
