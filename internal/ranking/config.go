package ranking

// DefaultTopK is the default number of ranked candidates.
const DefaultTopK = 5

// Config selects the ranking policy.
type Config struct {
	// Weighted selects score-based ranking; false ranks by keyword order only.
	Weighted bool `yaml:"weighted"`
	// TopK caps the weighted result; <= 0 disables the cap.
	TopK int `yaml:"top_k"`
	// TieExtension keeps every candidate tied with the TopK-th score.
	TieExtension bool `yaml:"tie_extension"`
}

// DefaultConfig returns weighted ranking with a fixed top 5.
func DefaultConfig() *Config {
	return &Config{Weighted: true, TopK: DefaultTopK}
}

// New returns the ranker selected by cfg. A nil cfg means DefaultConfig.
func New(cfg *Config) Ranker {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if !cfg.Weighted {
		return OrderRanker{}
	}
	return WeightedRanker{TopK: cfg.TopK, TieExtension: cfg.TieExtension}
}
