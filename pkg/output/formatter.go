package output

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lcalzada-xor/xssdynagen/pkg/models"
)

// Format returns the formatted profile string based on the selected format
func Format(p *models.ParamProfile, format string) string {
	switch format {
	case "human":
		// Human-readable format (Purple Gothic Theme)
		cPurple := "\x1b[38;5;129m"
		cLightPurple := "\x1b[38;5;141m"
		cDarkPurple := "\x1b[38;5;93m"
		cRed := "\x1b[38;5;196m"
		cReset := "\x1b[0m"

		var sb strings.Builder

		if !p.Reflective {
			sb.WriteString(fmt.Sprintf("\n%s[-] Parameter not reflected%s\n", cDarkPurple, cReset))
			sb.WriteString(fmt.Sprintf("    %sURL:%s        %s%s%s\n", cDarkPurple, cReset, cLightPurple, p.URL, cReset))
			sb.WriteString(fmt.Sprintf("    %sParameter:%s  %s%s%s\n", cDarkPurple, cReset, cLightPurple, p.Param, cReset))
			return sb.String()
		}

		sb.WriteString(fmt.Sprintf("\n%s[+] Parameter Profile%s\n", cPurple, cReset))
		sb.WriteString(fmt.Sprintf("    %sURL:%s        %s%s%s\n", cDarkPurple, cReset, cLightPurple, p.URL, cReset))
		sb.WriteString(fmt.Sprintf("    %sParameter:%s  %s%s%s\n", cDarkPurple, cReset, cLightPurple, p.Param, cReset))
		if p.WAF != "" {
			sb.WriteString(fmt.Sprintf("    %sWAF:%s        %s%s%s\n", cDarkPurple, cReset, cRed, p.WAF, cReset))
		}
		sb.WriteString(fmt.Sprintf("    %sAllowed:%s    %s%s%s\n", cDarkPurple, cReset, cLightPurple, printable(p.AllowedChars), cReset))
		sb.WriteString(fmt.Sprintf("    %sBlocked:%s    %s%s%s\n", cDarkPurple, cReset, cLightPurple, printable(p.BlockedChars), cReset))

		maxLen := "unknown"
		if p.MaxLength != nil {
			maxLen = fmt.Sprint(*p.MaxLength)
		}
		sb.WriteString(fmt.Sprintf("    %sMax length:%s %s%s%s\n", cDarkPurple, cReset, cLightPurple, maxLen, cReset))

		flags := []struct {
			name string
			on   bool
		}{
			{"spaces", p.AllowsSpaces},
			{"quotes", p.AllowsQuotes},
			{"angles", p.AllowsAngles},
			{"parens", p.AllowsParens},
			{"scripts", p.AllowsScripts},
			{"events", p.AllowsEvents},
		}
		var allows []string
		for _, f := range flags {
			if f.on {
				allows = append(allows, f.name)
			}
		}
		if len(allows) == 0 {
			allows = []string{"none"}
		}
		sb.WriteString(fmt.Sprintf("    %sAllows:%s     %s%s%s\n", cDarkPurple, cReset, cLightPurple, strings.Join(allows, ", "), cReset))
		return sb.String()

	case "json":
		// JSON format
		output, err := json.Marshal(p)
		if err != nil {
			// Return error as JSON instead of empty string
			return fmt.Sprintf("{\"error\":\"failed to marshal profile: %v\"}", err)
		}
		return string(output)

	default:
		return p.URL + " " + p.Param
	}
}

// printable renders a character set with control characters escaped
func printable(cs models.CharSet) string {
	if len(cs) == 0 {
		return "-"
	}
	var sb strings.Builder
	for _, c := range cs.Sorted() {
		switch {
		case c == ' ':
			sb.WriteString("␠")
		case c < 0x20 || c == 0x7f:
			sb.WriteString(fmt.Sprintf("\\x%02x", c))
		default:
			sb.WriteRune(c)
		}
	}
	return sb.String()
}
