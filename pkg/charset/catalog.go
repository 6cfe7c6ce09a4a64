// Package charset provides the named groups of characters probed against
// every parameter.
package charset

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/lcalzada-xor/xssdynagen/pkg/logger"
)

// Group is a named, ordered, duplicate-free sequence of characters
type Group struct {
	Name  string
	Chars []rune
}

// Catalog is an ordered collection of uniquely named groups
type Catalog struct {
	groups []Group
	index  map[string]int
}

// defaultGroups mirrors the built-in character universe
var defaultGroups = []struct {
	name  string
	chars string
}{
	{"basic", "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"},
	{"special", "<>()'\"`{}[];/@\\*&^%$#!"},
	{"spaces", " \t\n\r"},
	{"encoded", "%20%0A%0D%3C%3E%22%27%3B%28%29"},
	{"unicode", "\u0022\u0027\u003C\u003E"},
	{"null_bytes", "\x00\x0D\x0A"},
	{"alternating_case", "ScRiPt"},
	{"double_encoding", "%253C%253E%2522%2527"},
	{"html_entities", "&lt;&gt;&quot;&apos;"},
	{"comments", "<!---->/**/<!--"},
	{"protocol_handlers", "javascript:data:vbscript:"},
	{"event_handlers", "onmouseover=onload=onerror=onfocus="},
}

// New creates an empty catalog
func New() *Catalog {
	return &Catalog{index: make(map[string]int)}
}

// Default returns the built-in catalog
func Default() *Catalog {
	c := New()
	for _, g := range defaultGroups {
		c.AddChars(g.name, g.chars)
	}
	return c
}

// AddChars appends the unique characters of s to the named group,
// creating the group at the end of the catalog if needed.
func (c *Catalog) AddChars(name, s string) {
	i, ok := c.index[name]
	if !ok {
		c.groups = append(c.groups, Group{Name: name})
		i = len(c.groups) - 1
		c.index[name] = i
	}
	g := &c.groups[i]
	for _, r := range s {
		if !containsRune(g.Chars, r) {
			g.Chars = append(g.Chars, r)
		}
	}
}

// Groups returns the groups in catalog order
func (c *Catalog) Groups() []Group {
	return c.groups
}

// Group returns the characters of the named group
func (c *Catalog) Group(name string) ([]rune, bool) {
	i, ok := c.index[name]
	if !ok {
		return nil, false
	}
	return c.groups[i].Chars, true
}

// Len returns the number of groups
func (c *Catalog) Len() int {
	return len(c.groups)
}

// TotalChars counts characters across all groups, duplicates between
// groups included.
func (c *Catalog) TotalChars() int {
	n := 0
	for _, g := range c.groups {
		n += len(g.Chars)
	}
	return n
}

// UniqueChars returns every distinct character of the catalog in first-seen order
func (c *Catalog) UniqueChars() []rune {
	seen := make(map[rune]struct{})
	var out []rune
	for _, g := range c.groups {
		for _, r := range g.Chars {
			if _, ok := seen[r]; ok {
				continue
			}
			seen[r] = struct{}{}
			out = append(out, r)
		}
	}
	return out
}

// Sample returns up to n leading characters of the named group, falling
// back to the first group when the name is unknown.
func (c *Catalog) Sample(name string, n int) []rune {
	chars, ok := c.Group(name)
	if !ok {
		if len(c.groups) == 0 {
			return nil
		}
		chars = c.groups[0].Chars
	}
	if len(chars) > n {
		chars = chars[:n]
	}
	return chars
}

// Parse reads a line-oriented catalog. A "[name]" line opens a group;
// other non-empty lines not starting with "#" add their characters to the
// current group. Lines are trimmed, group names lower-cased, and lines
// before the first header are ignored.
func Parse(r io.Reader) (*Catalog, error) {
	c := New()
	current := ""
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			current = strings.ToLower(strings.TrimSpace(line[1 : len(line)-1]))
			c.AddChars(current, "")
			continue
		}
		if current != "" {
			c.AddChars(current, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return c, nil
}

// Load reads the catalog at path. Any failure, or a file without groups,
// falls back to the built-in catalog and is logged rather than returned.
func Load(path string, log *logger.Logger) *Catalog {
	if path == "" {
		return Default()
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Warn("Character file not found: %s", path)
		} else {
			log.Error("Error loading character file: %v", err)
		}
		return Default()
	}
	defer f.Close()

	c, err := Parse(f)
	if err != nil {
		log.Error("Error loading character file: %v", fmt.Errorf("parsing %s: %w", path, err))
		return Default()
	}
	if c.Len() == 0 {
		log.Warn("Character file %s defines no groups, using defaults", path)
		return Default()
	}
	return c
}

func containsRune(rs []rune, r rune) bool {
	for _, x := range rs {
		if x == r {
			return true
		}
	}
	return false
}
