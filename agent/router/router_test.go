package router

import (
	"testing"

	contractx "github.com/sudeep-c/NEXTGENMARKETER/agent/contract"
)

func TestRoute(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		prompt string
		want   []contractx.AgentName
	}{
		{
			name:   "single keyword routes one specialist",
			prompt: "How are customers feeling about our brand? Check the sentiment.",
			want:   []contractx.AgentName{contractx.AgentSentiment, contractx.AgentMarketer},
		},
		{
			name:   "purchase keywords only",
			prompt: "Show me the latest purchase trends in the transaction data",
			want:   []contractx.AgentName{contractx.AgentPurchase, contractx.AgentMarketer},
		},
		{
			name:   "campaign metrics keywords",
			prompt: "Why did the CTR drop on the spring promotion?",
			want:   []contractx.AgentName{contractx.AgentCampaign, contractx.AgentMarketer},
		},
		{
			name:   "focused clause wins over other keywords",
			prompt: "Plan the next launch based on campaign performance",
			want:   []contractx.AgentName{contractx.AgentCampaign, contractx.AgentMarketer},
		},
		{
			name:   "ambiguous clause falls back to full keyword scan",
			prompt: "Recommend a strategy using sentiments and purchase behavior",
			want:   []contractx.AgentName{contractx.AgentSentiment, contractx.AgentPurchase, contractx.AgentMarketer},
		},
		{
			name:   "strategy keyword routes everything",
			prompt: "Give me the overall picture for next quarter",
			want: []contractx.AgentName{
				contractx.AgentSentiment, contractx.AgentPurchase,
				contractx.AgentCampaign, contractx.AgentMarketer,
			},
		},
		{
			name:   "no keywords defaults to all specialists",
			prompt: "Help me with the Q3 launch in Mumbai",
			want: []contractx.AgentName{
				contractx.AgentSentiment, contractx.AgentPurchase,
				contractx.AgentCampaign, contractx.AgentMarketer,
			},
		},
		{
			name:   "multiple keyword sets keep canonical order",
			prompt: "Compare payment volumes against customer reviews",
			want:   []contractx.AgentName{contractx.AgentSentiment, contractx.AgentPurchase, contractx.AgentMarketer},
		},
		{
			name:   "clause matching nothing is ignored",
			prompt: "Decide the budget based on last year, focusing on sales orders",
			want:   []contractx.AgentName{contractx.AgentPurchase, contractx.AgentMarketer},
		},
		{
			name:   "uppercase prompt",
			prompt: "WHAT IS THE CUSTOMER FEEDBACK SAYING?",
			want:   []contractx.AgentName{contractx.AgentSentiment, contractx.AgentMarketer},
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := Route(tc.prompt)
			if len(got) != len(tc.want) {
				t.Fatalf("Route(%q) = %v, want %v", tc.prompt, got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("Route(%q) = %v, want %v", tc.prompt, got, tc.want)
				}
			}
		})
	}
}

func TestRouteIsDeterministic(t *testing.T) {
	t.Parallel()

	prompt := "Recommend a strategy using sentiments and purchase behavior"
	first := Route(prompt)
	for i := 0; i < 10; i++ {
		again := Route(prompt)
		if len(again) != len(first) {
			t.Fatalf("route changed between runs: %v vs %v", first, again)
		}
		for j := range again {
			if again[j] != first[j] {
				t.Fatalf("route changed between runs: %v vs %v", first, again)
			}
		}
	}
}

func TestRouteMarketerAlwaysLast(t *testing.T) {
	t.Parallel()

	prompts := []string{
		"",
		"sentiment",
		"campaign conversion sales feedback",
		"anything at all",
	}
	for _, prompt := range prompts {
		route := Route(prompt)
		if len(route) == 0 {
			t.Fatalf("Route(%q) returned empty route", prompt)
		}
		if route[len(route)-1] != contractx.AgentMarketer {
			t.Fatalf("Route(%q) = %v, marketer not terminal", prompt, route)
		}
		for _, name := range route[:len(route)-1] {
			if name == contractx.AgentMarketer {
				t.Fatalf("Route(%q) = %v, marketer appears twice", prompt, route)
			}
		}
	}
}
