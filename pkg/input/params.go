// Package input reads target URLs, filters them and handles their query
// parameters.
package input

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// Param is one query parameter. Value is empty both for "a=" and "a".
type Param struct {
	Name  string
	Value string
}

var pairSep = regexp.MustCompile(`[&;]`)

// ExtractParameters returns the query parameters of rawURL in order of
// first appearance. Pairs may be separated by '&' or ';'. Names and values
// are percent-decoded ('+' is kept literally); a pair that fails to decode
// is skipped. A repeated name keeps its first position and its last value.
func ExtractParameters(rawURL string) ([]Param, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parsing url: %w", err)
	}
	if u.RawQuery == "" {
		return nil, nil
	}

	var params []Param
	index := make(map[string]int)
	for _, pair := range pairSep.Split(u.RawQuery, -1) {
		if pair == "" {
			continue
		}
		rawName, rawValue, _ := strings.Cut(pair, "=")
		name, err := url.PathUnescape(rawName)
		if err != nil {
			continue
		}
		value, err := url.PathUnescape(rawValue)
		if err != nil {
			continue
		}
		if i, ok := index[name]; ok {
			params[i].Value = value
			continue
		}
		index[name] = len(params)
		params = append(params, Param{Name: name, Value: value})
	}
	return params, nil
}

// ParamNames returns just the names of ExtractParameters, or nil on error
func ParamNames(rawURL string) []string {
	params, err := ExtractParameters(rawURL)
	if err != nil {
		return nil
	}
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.Name
	}
	return names
}

// ProbeURL returns rawURL with param set to value. Every other pair is
// kept byte for byte; the target pair is re-encoded in place, or appended
// when the URL does not carry it.
func ProbeURL(rawURL, param, value string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parsing url: %w", err)
	}

	encoded := url.QueryEscape(param) + "=" + url.QueryEscape(value)
	var pairs []string
	replaced := false
	for _, pair := range pairSep.Split(u.RawQuery, -1) {
		if pair == "" {
			continue
		}
		rawName, _, _ := strings.Cut(pair, "=")
		if name, err := url.PathUnescape(rawName); err == nil && name == param {
			if !replaced {
				pairs = append(pairs, encoded)
				replaced = true
			}
			continue
		}
		pairs = append(pairs, pair)
	}
	if !replaced {
		pairs = append(pairs, encoded)
	}

	u.RawQuery = strings.Join(pairs, "&")
	return u.String(), nil
}
