package models

// Status describes the loaded table and the source it came from.
type Status struct {
	Backend              string                 `json:"backend"`
	Categories           int                    `json:"categories"`
	ConfiguredCategories int                    `json:"configured_categories"`
	VocabularySize       int                    `json:"vocabulary_size"`
	Missing              []string               `json:"missing,omitempty"`
	Failed               []string               `json:"failed,omitempty"`
	Retries              int                    `json:"retries"`
	Sessions             int                    `json:"sessions"`
	DiskUsageBytes       int64                  `json:"disk_usage_bytes,omitempty"`
	Config               map[string]interface{} `json:"config,omitempty"`
}
