package models

// ParamProfile records what one parameter on one URL was found to permit.
// It is built once by the analyzer and never mutated afterwards.
type ParamProfile struct {
	Param         string  `json:"param"`
	URL           string  `json:"url"`
	AllowedChars  CharSet `json:"allowed_chars"`
	BlockedChars  CharSet `json:"blocked_chars"`
	MaxLength     *int    `json:"max_length,omitempty"`
	AllowsSpaces  bool    `json:"allows_spaces"`
	AllowsQuotes  bool    `json:"allows_quotes"`
	AllowsAngles  bool    `json:"allows_angles"`
	AllowsParens  bool    `json:"allows_parens"`
	AllowsScripts bool    `json:"allows_scripts"`
	AllowsEvents  bool    `json:"allows_events"`

	// Reflective is false when the viability gate found no reflection
	Reflective bool `json:"reflective"`
	// WAF is the name of a passively detected firewall, if any
	WAF string `json:"waf,omitempty"`
}

// ProbeResults holds the outcome of the targeted probe sequences
type ProbeResults struct {
	Scripts   bool
	Events    bool
	MaxLength *int
}

// NewParamProfile classifies the sweep outcomes and derives the boolean
// capabilities from the allowed set.
func NewParamProfile(url, param string, outcomes map[rune]bool, probes ProbeResults) *ParamProfile {
	allowed := make(CharSet)
	blocked := make(CharSet)
	for c, ok := range outcomes {
		if ok {
			allowed.Add(c)
		} else {
			blocked.Add(c)
		}
	}

	return &ParamProfile{
		Param:         param,
		URL:           url,
		AllowedChars:  allowed,
		BlockedChars:  blocked,
		MaxLength:     probes.MaxLength,
		AllowsSpaces:  allowed.Has(' '),
		AllowsQuotes:  allowed.Has('"') || allowed.Has('\''),
		AllowsAngles:  allowed.Has('<') && allowed.Has('>'),
		AllowsParens:  allowed.Has('(') && allowed.Has(')'),
		AllowsScripts: probes.Scripts,
		AllowsEvents:  probes.Events,
		Reflective:    true,
	}
}

// EmptyProfile is the profile of a parameter that never reflects
func EmptyProfile(url, param string) *ParamProfile {
	return &ParamProfile{
		Param:        param,
		URL:          url,
		AllowedChars: make(CharSet),
		BlockedChars: make(CharSet),
	}
}
