package specialist

import (
	"math"
	"reflect"
	"strings"
	"testing"

	contractx "github.com/sudeep-c/NEXTGENMARKETER/agent/contract"
)

func TestNormalizeSentinels(t *testing.T) {
	t.Parallel()

	out := Normalize(contractx.AgentOutput{
		Insights: []contractx.Insight{{Signal: "spike in returns"}},
	})

	if out.Summary != "No summary available" {
		t.Fatalf("unexpected summary: %q", out.Summary)
	}
	if out.KeyMetrics == nil {
		t.Fatalf("key metrics must never be nil after normalization")
	}
	ins := out.Insights[0]
	if ins.AudienceSegment != "General" || ins.ProductFocus != "All" || ins.Region != "All" {
		t.Fatalf("unexpected sentinel fill: %+v", ins)
	}
}

func TestNormalizeConfidenceClamping(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   float64
		want float64
	}{
		{"negative", -0.4, 0},
		{"above one", 1.7, 1},
		{"in range", 0.62, 0.62},
		{"nan", math.NaN(), 0},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			out := Normalize(contractx.AgentOutput{
				Insights:        []contractx.Insight{{Signal: "s", Confidence: tc.in}},
				Recommendations: []contractx.Recommendation{{Idea: "i", Confidence: tc.in}},
			})
			if got := out.Insights[0].Confidence; got != tc.want {
				t.Fatalf("insight confidence = %v, want %v", got, tc.want)
			}
			if got := out.Recommendations[0].Confidence; got != tc.want {
				t.Fatalf("recommendation confidence = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestNormalizeCapsListsAndSummary(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("x", 1000)
	out := Normalize(contractx.AgentOutput{
		Summary: long,
		Insights: []contractx.Insight{
			{Signal: "a"}, {Signal: "b"}, {Signal: "c"}, {Signal: "d"},
		},
		Recommendations: []contractx.Recommendation{
			{Idea: "1"}, {Idea: "2"}, {Idea: "3"}, {Idea: "4"},
		},
	})

	if len(out.Summary) != 400 {
		t.Fatalf("summary length = %d, want 400", len(out.Summary))
	}
	if len(out.Insights) != 3 {
		t.Fatalf("insights = %d, want 3", len(out.Insights))
	}
	if len(out.Recommendations) != 3 {
		t.Fatalf("recommendations = %d, want 3", len(out.Recommendations))
	}
}

func TestNormalizeFallbackRecommendations(t *testing.T) {
	t.Parallel()

	out := Normalize(contractx.AgentOutput{
		Insights: []contractx.Insight{
			{AudienceSegment: "Young Professionals", ProductFocus: "Smartwatch", Signal: "a", Confidence: 0.8},
			{AudienceSegment: "Parents", ProductFocus: "Tablets", Signal: "b", Confidence: 0.6},
			{AudienceSegment: "Retirees", ProductFocus: "Hearing Aids", Signal: "c", Confidence: 0.5},
		},
	})

	if len(out.Recommendations) != 2 {
		t.Fatalf("expected 2 fallback recommendations, got %d", len(out.Recommendations))
	}
	first := out.Recommendations[0]
	if !strings.Contains(first.Idea, "Young Professionals") || !strings.Contains(first.Idea, "Smartwatch") {
		t.Fatalf("fallback idea must mention segment and product: %q", first.Idea)
	}
	if first.Confidence != 0.8 {
		t.Fatalf("fallback confidence = %v, want 0.8", first.Confidence)
	}
}

func TestNormalizeNoInsightsNoFallback(t *testing.T) {
	t.Parallel()

	out := Normalize(contractx.AgentOutput{Summary: "nothing to work with"})
	if len(out.Recommendations) != 0 {
		t.Fatalf("no insights must mean no fallback recommendations, got %v", out.Recommendations)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	t.Parallel()

	once := Normalize(contractx.AgentOutput{
		Summary: "  trimmed  ",
		Insights: []contractx.Insight{
			{Signal: "s", Confidence: 1.5},
		},
	})
	twice := Normalize(once)

	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("Normalize is not idempotent:\nonce:  %+v\ntwice: %+v", once, twice)
	}
}

func TestOutputFromMappingLegacyCandidates(t *testing.T) {
	t.Parallel()

	out := outputFromMapping(map[string]any{
		"rationale":  "legacy shaped reply",
		"candidates": []any{"Idea A", "Idea B", ""},
		"scores":     []any{0.9, "0.3"},
	})

	if out.Summary != "legacy shaped reply" {
		t.Fatalf("rationale must feed summary: %q", out.Summary)
	}
	if len(out.Recommendations) != 2 {
		t.Fatalf("expected 2 recommendations, got %d", len(out.Recommendations))
	}
	if out.Recommendations[0].Idea != "Idea A" || out.Recommendations[0].Confidence != 0.9 {
		t.Fatalf("unexpected first recommendation: %+v", out.Recommendations[0])
	}
	if out.Recommendations[1].Confidence != 0.3 {
		t.Fatalf("string score must parse: %+v", out.Recommendations[1])
	}
}

func TestOutputFromMappingTolerantShapes(t *testing.T) {
	t.Parallel()

	out := outputFromMapping(map[string]any{
		"summary": "mixed shapes",
		"insights": []any{
			map[string]any{
				"audience_segment": "Students",
				"product_focus":    "Laptops",
				"region":           []any{"North", "East"},
				"signal":           "high engagement",
				"confidence":       "0.7",
			},
			"not an object",
		},
		"recommendations": []any{
			"bare string idea",
			map[string]any{"recommendation": "aliased key", "confidence": 2.0},
		},
	})

	if len(out.Insights) != 1 {
		t.Fatalf("non-object insights must be skipped, got %d", len(out.Insights))
	}
	if out.Insights[0].Region != "North, East" {
		t.Fatalf("list region must join: %q", out.Insights[0].Region)
	}
	if out.Insights[0].Confidence != 0.7 {
		t.Fatalf("string confidence must parse: %v", out.Insights[0].Confidence)
	}
	if len(out.Recommendations) != 2 {
		t.Fatalf("expected 2 recommendations, got %d", len(out.Recommendations))
	}
	if out.Recommendations[0].Idea != "bare string idea" || out.Recommendations[0].Confidence != 0 {
		t.Fatalf("bare string recommendation mishandled: %+v", out.Recommendations[0])
	}
	if out.Recommendations[1].Idea != "aliased key" {
		t.Fatalf("aliased recommendation key mishandled: %+v", out.Recommendations[1])
	}
}

func TestAsConfidenceNonNumeric(t *testing.T) {
	t.Parallel()

	if got := asConfidence("very confident"); got != 0 {
		t.Fatalf("non-numeric confidence = %v, want 0", got)
	}
	if got := asConfidence(nil); got != 0 {
		t.Fatalf("nil confidence = %v, want 0", got)
	}
	if got := asConfidence([]any{0.5}); got != 0 {
		t.Fatalf("container confidence = %v, want 0", got)
	}
}

func TestWrapRawTextFirstLineSignal(t *testing.T) {
	t.Parallel()

	out := wrapRawText("Customers are unhappy.\nMore detail follows.")
	if len(out.Insights) != 1 {
		t.Fatalf("expected one wrapped insight, got %d", len(out.Insights))
	}
	if out.Insights[0].Signal != "Customers are unhappy." {
		t.Fatalf("unexpected signal: %q", out.Insights[0].Signal)
	}
	if out.Insights[0].Confidence != 0 {
		t.Fatalf("wrapped insight confidence must be 0")
	}
}
