package contract

// AgentName identifies one node of the marketing workflow on the wire.
type AgentName string

const (
	AgentSentiment AgentName = "sentiment"
	AgentPurchase  AgentName = "purchase"
	AgentCampaign  AgentName = "campaign"
	AgentMarketer  AgentName = "marketer"
)

// SpecialistOrder is the canonical execution order for specialist agents.
// Routes are always a subsequence of this order with the marketer appended.
var SpecialistOrder = []AgentName{AgentSentiment, AgentPurchase, AgentCampaign}

// EvidenceHit is one retrieval result. Ephemeral: produced per query and
// never persisted by the core.
type EvidenceHit struct {
	ID       string         `json:"id"`
	Text     string         `json:"text"`
	Metadata map[string]any `json:"metadata,omitempty"`
	Distance float64        `json:"distance"`
}

// Insight is a normalized audience/product/region-level pattern extracted
// from a specialist's model reply. String fields are never empty after
// normalization; Confidence is always within [0,1].
type Insight struct {
	AudienceSegment string  `json:"audience_segment"`
	ProductFocus    string  `json:"product_focus"`
	Region          string  `json:"region"`
	Signal          string  `json:"signal"`
	Confidence      float64 `json:"confidence"`
}

// Recommendation is a campaign-style idea with a clamped confidence.
type Recommendation struct {
	Idea       string  `json:"idea"`
	Confidence float64 `json:"confidence"`
}

// AgentOutput is the common schema every specialist converges on. Outputs are
// appended to the workflow state in execution order and never mutated.
type AgentOutput struct {
	Agent           AgentName        `json:"agent"`
	Summary         string           `json:"summary"`
	KeyMetrics      map[string]any   `json:"key_metrics"`
	Insights        []Insight        `json:"insights"`
	Recommendations []Recommendation `json:"recommendations"`
}

// FinalCampaign is the fixed-shape campaign record inside a FinalDecision.
// Every field is populated with a default when upstream data is absent.
type FinalCampaign struct {
	CampaignName    string   `json:"campaign_name"`
	Product         string   `json:"product"`
	Region          string   `json:"region"`
	AudienceSegment string   `json:"audience_segment"`
	Concept         string   `json:"concept"`
	Channels        []string `json:"channels"`
	ContentBrief    string   `json:"content_brief"`
	KPIs            []string `json:"kpis"`
	Rationale       string   `json:"rationale"`
}

// FinalDecision is the terminal artifact of a workflow run. It is always
// schema-valid: KeyFindings carries exactly the three specialist keys,
// Channels and KPIs are non-empty, and ExecutiveSummary is never blank.
type FinalDecision struct {
	ExecutiveSummary string                 `json:"executive_summary"`
	KeyFindings      map[AgentName][]string `json:"key_findings"`
	FinalCampaign    FinalCampaign          `json:"final_campaign"`
	SourceAgents     []AgentName            `json:"source_agents"`
	Conflicts        []string               `json:"conflicts,omitempty"`
}

// WorkflowState is the accumulating state threaded through one workflow
// invocation. Route is set once by the router; AgentOutputs grows
// monotonically; FinalDecision is set once at the terminal node. Failures
// records specialists that could not run because of infrastructure errors.
type WorkflowState struct {
	UserPrompt    string               `json:"user_prompt"`
	Route         []AgentName          `json:"route"`
	AgentOutputs  []AgentOutput        `json:"agent_outputs"`
	FinalDecision *FinalDecision       `json:"final_decision,omitempty"`
	ThreadID      string               `json:"thread_id"`
	Failures      map[AgentName]string `json:"failures,omitempty"`
}

// OutputFor returns the first output produced by the named agent.
func (s *WorkflowState) OutputFor(name AgentName) (AgentOutput, bool) {
	if s == nil {
		return AgentOutput{}, false
	}
	for _, out := range s.AgentOutputs {
		if out.Agent == name {
			return out, true
		}
	}
	return AgentOutput{}, false
}
