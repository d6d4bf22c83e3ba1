package llm

import "time"

const (
	defaultRepairAttempts  = 2
	defaultRepairMaxTokens = 800
	defaultCallTimeout     = 60 * time.Second
)

// Config tunes the repair ladder, not the model itself. Model selection and
// sampling parameters belong to the chat-model builder.
type Config struct {
	RepairAttempts  int           `envconfig:"REPAIR_ATTEMPTS" split_words:"true" default:"2"`
	RepairMaxTokens int           `envconfig:"REPAIR_MAX_TOKENS" split_words:"true" default:"800"`
	CallTimeout     time.Duration `envconfig:"CALL_TIMEOUT" split_words:"true" default:"60s"`
}

func (c Config) withDefaults() Config {
	if c.RepairAttempts <= 0 {
		c.RepairAttempts = defaultRepairAttempts
	}
	if c.RepairMaxTokens <= 0 {
		c.RepairMaxTokens = defaultRepairMaxTokens
	}
	if c.CallTimeout <= 0 {
		c.CallTimeout = defaultCallTimeout
	}
	return c
}
