package model

// Settings is the global configuration singleton. ManualReview is a pointer so
// a stored null can be told apart from false; nil means enabled.
type Settings struct {
	ManualReview *bool  `json:"manualReview"`
	LatestNews   string `json:"latestNews"`
}

func DefaultSettings() Settings {
	enabled := true
	return Settings{ManualReview: &enabled}
}

func (s Settings) ManualReviewEnabled() bool {
	return s.ManualReview == nil || *s.ManualReview
}
