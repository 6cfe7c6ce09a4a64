package models

import (
	"encoding/json"
	"sort"
	"strings"
)

// CharSet is a set of single characters
type CharSet map[rune]struct{}

// NewCharSet builds a set from the given characters
func NewCharSet(chars ...rune) CharSet {
	cs := make(CharSet, len(chars))
	for _, c := range chars {
		cs[c] = struct{}{}
	}
	return cs
}

// CharSetOf builds a set from every character of s
func CharSetOf(s string) CharSet {
	return NewCharSet([]rune(s)...)
}

// Has reports whether c is in the set
func (cs CharSet) Has(c rune) bool {
	_, ok := cs[c]
	return ok
}

// HasAll reports whether every character of s is in the set.
// An empty string is trivially contained.
func (cs CharSet) HasAll(s string) bool {
	for _, c := range s {
		if !cs.Has(c) {
			return false
		}
	}
	return true
}

// HasAny reports whether at least one character of s is in the set
func (cs CharSet) HasAny(s string) bool {
	for _, c := range s {
		if cs.Has(c) {
			return true
		}
	}
	return false
}

// Add inserts c into the set
func (cs CharSet) Add(c rune) {
	cs[c] = struct{}{}
}

// Sorted returns the characters in code point order
func (cs CharSet) Sorted() []rune {
	out := make([]rune, 0, len(cs))
	for c := range cs {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// String renders the set as its sorted characters
func (cs CharSet) String() string {
	return string(cs.Sorted())
}

// MarshalJSON encodes the set as a sorted list of one-character strings
func (cs CharSet) MarshalJSON() ([]byte, error) {
	sorted := cs.Sorted()
	list := make([]string, len(sorted))
	for i, c := range sorted {
		list[i] = string(c)
	}
	return json.Marshal(list)
}

// UnmarshalJSON decodes a list of strings, keeping every character
func (cs *CharSet) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	*cs = CharSetOf(strings.Join(list, ""))
	return nil
}
