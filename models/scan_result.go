package models

// RedirectStep records one HTTP exchange in a redirect chain.
type RedirectStep struct {
	URL    string `json:"url" yaml:"url"`
	Status int    `json:"status" yaml:"status"`
}

// ScanResult is the outcome of analyzing a single submitted URL.
// BlankReason is non-nil exactly when IsBlankPage is true.
type ScanResult struct {
	OriginalURL       string         `json:"original_url" yaml:"original_url"`
	FinalURL          string         `json:"final_url" yaml:"final_url"`
	StatusCode        int            `json:"status_code" yaml:"status_code"`
	Redirected        bool           `json:"redirected" yaml:"redirected"`
	RedirectHops      int            `json:"redirect_hops" yaml:"redirect_hops"`
	RedirectChain     []RedirectStep `json:"redirect_chain" yaml:"redirect_chain"`
	ContentLength     int            `json:"content_length" yaml:"content_length"`
	VisibleTextLength int            `json:"visible_text_length" yaml:"visible_text_length"`
	HasImagesOnly     bool           `json:"has_images_only" yaml:"has_images_only"`
	BlankReason       *string        `json:"blank_reason" yaml:"blank_reason"`
	IsBlankPage       bool           `json:"is_blank_page" yaml:"is_blank_page"`
	Error             string         `json:"error,omitempty" yaml:"error,omitempty"`
}

// NewScanResult returns the starting record for an analysis.
func NewScanResult(originalURL, normalizedURL string) ScanResult {
	return ScanResult{
		OriginalURL:   originalURL,
		FinalURL:      normalizedURL,
		RedirectChain: []RedirectStep{},
	}
}

// Blank returns a copy of r marked blank for reason.
func (r ScanResult) Blank(reason string) ScanResult {
	r.IsBlankPage = true
	r.BlankReason = &reason
	return r
}

// Reason returns the blank reason, or "" when the page is not blank.
func (r ScanResult) Reason() string {
	if r.BlankReason == nil {
		return ""
	}
	return *r.BlankReason
}

// Summary aggregates a batch of results.
type Summary struct {
	Total      int            `json:"total" yaml:"total"`
	Blank      int            `json:"blank" yaml:"blank"`
	NotBlank   int            `json:"not_blank" yaml:"not_blank"`
	Errored    int            `json:"errored" yaml:"errored"`
	Redirected int            `json:"redirected" yaml:"redirected"`
	Reasons    map[string]int `json:"reasons,omitempty" yaml:"reasons,omitempty"`
}
