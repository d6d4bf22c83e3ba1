package prompt

import (
	_ "embed"
	"strings"
)

var (
	//go:embed template/sentiment.txt
	sentimentRaw string

	//go:embed template/purchase.txt
	purchaseRaw string

	//go:embed template/campaign.txt
	campaignRaw string

	//go:embed template/marketer.txt
	marketerRaw string
)

// PromptSet holds loaded prompt content.
type PromptSet struct {
	Sentiment string
	Purchase  string
	Campaign  string
	Marketer  string
}

// LoadPromptSet returns a PromptSet with trimmed prompt strings.
func LoadPromptSet() PromptSet {
	return PromptSet{
		Sentiment: strings.TrimSpace(sentimentRaw),
		Purchase:  strings.TrimSpace(purchaseRaw),
		Campaign:  strings.TrimSpace(campaignRaw),
		Marketer:  strings.TrimSpace(marketerRaw),
	}
}

// Render substitutes {placeholder} markers in a template.
func Render(template string, vars map[string]string) string {
	out := template
	for k, v := range vars {
		out = strings.ReplaceAll(out, "{"+k+"}", v)
	}
	return out
}
