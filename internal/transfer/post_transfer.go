package transfer

type PostCreation struct {
	Platform      string `json:"platform"`
	Content       string `json:"content"`
	MediaPath     string `json:"media_path"`
	ScheduledTime string `json:"scheduled_time"`
}

type DispatchReport struct {
	Due       int `json:"due"`
	Published int `json:"published"`
	Failed    int `json:"failed"`
}

type SentimentRequest struct {
	Texts []string `json:"texts"`
}

type SentimentResult struct {
	Text      string `json:"text"`
	Sentiment string `json:"sentiment"`
}

type SentimentResponse struct {
	Results []SentimentResult `json:"results"`
	Summary map[string]int    `json:"summary"`
}

type HashtagRequest struct {
	Text string `json:"text"`
}

type PlatformInfo struct {
	Platform   string `json:"platform"`
	Configured bool   `json:"configured"`
	CharLimit  int    `json:"char_limit"`
}
