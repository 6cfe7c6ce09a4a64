package models

import "time"

// URLResult maps each parameter of a URL to its synthesized payloads
type URLResult struct {
	URL      string                   `json:"url"`
	Payloads map[string][]string      `json:"payloads"`
	Profiles map[string]*ParamProfile `json:"profiles,omitempty"`
}

// Report is the aggregated outcome of one run
type Report struct {
	ScanID        string       `json:"scan_id"`
	StartedAt     time.Time    `json:"started_at"`
	Duration      string       `json:"duration"`
	URLsProcessed int          `json:"urls_processed"`
	TotalPayloads int          `json:"total_payloads"`
	Unique        []string     `json:"unique_payloads"`
	Results       []*URLResult `json:"results"`
	OutputFile    string       `json:"output_file,omitempty"`
	Interrupted   bool         `json:"interrupted,omitempty"`
}
