package payloads

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lcalzada-xor/xssdynagen/pkg/charset"
	"github.com/lcalzada-xor/xssdynagen/pkg/models"
)

// profileFor classifies the default catalog: chars in blocked are
// rejected, everything else (plus extra) is reflected.
func profileFor(blocked, extra string, scripts bool, maxLen *int) *models.ParamProfile {
	outcomes := make(map[rune]bool)
	for _, c := range charset.Default().UniqueChars() {
		outcomes[c] = !strings.ContainsRune(blocked, c)
	}
	for _, c := range extra {
		outcomes[c] = true
	}
	return models.NewParamProfile("http://x/?q=1", "q", outcomes, models.ProbeResults{
		Scripts:   scripts,
		Events:    scripts,
		MaxLength: maxLen,
	})
}

// profileAllowing reflects only the given characters
func profileAllowing(allowed string, scripts bool) *models.ParamProfile {
	outcomes := make(map[rune]bool)
	for _, c := range charset.Default().UniqueChars() {
		outcomes[c] = strings.ContainsRune(allowed, c)
	}
	return models.NewParamProfile("http://x/?q=1", "q", outcomes, models.ProbeResults{Scripts: scripts, Events: scripts})
}

func family(name string) Family {
	for _, f := range Families {
		if f.Name == name {
			return f
		}
	}
	panic("unknown family " + name)
}

func TestSynthesize_EverythingReflected(t *testing.T) {
	basic, _ := charset.Default().Group("basic")
	p := profileAllowing(string(basic)+"<>\"'()=/", true)
	got := Synthesize(p, Options{})

	assert.Contains(t, got, "<script>alert(1)</script>")
	assert.Contains(t, got, "<script>confirm(1)</script>")
	assert.Contains(t, got, "\"><script>prompt()</script>")
	for _, payload := range got {
		assert.False(t, p.BlockedChars.HasAny(payload), payload)
	}

	// Both families pass their gates, so the only losses are to the filter
	pred := Predefined(p)
	for _, f := range []string{"script-tag", "script-tag-quoted", "css-injection"} {
		for _, payload := range family(f).Payloads {
			assert.Contains(t, pred, payload)
		}
	}
	assert.NotContains(t, pred, "javascript:alert(1)")
}

func TestSynthesize_AnglesStripped(t *testing.T) {
	p := profileFor("<>", "", true, nil)
	require.False(t, p.AllowsAngles)

	assert.ElementsMatch(t, family("angle-blocked-encoded").Payloads, Predefined(p))

	got := Synthesize(p, Options{})
	require.NotEmpty(t, got)
	for _, payload := range family("angle-blocked-encoded").Payloads {
		assert.Contains(t, got, payload)
	}
	for _, payload := range got {
		assert.NotContains(t, payload, "<")
		assert.NotContains(t, payload, ">")
	}
}

func TestSynthesize_NoAnglesNoLessThan(t *testing.T) {
	profiles := []*models.ParamProfile{
		profileFor("<>", "", true, nil),
		profileFor(">", "", true, nil),  // '<' alone is not enough
		profileFor("<", "", false, nil), // '>' alone is not enough
		profileFor("<>\"'", "", true, nil),
		models.EmptyProfile("http://x/?q=1", "q"),
	}
	for _, p := range profiles {
		require.False(t, p.AllowsAngles)
		for _, payload := range Synthesize(p, Options{}) {
			assert.NotContains(t, payload, "<")
		}
	}
}

func TestSynthesize_EmptyProfile(t *testing.T) {
	got := Synthesize(models.EmptyProfile("http://x/?q=1", "q"), Options{})
	want := append([]string(nil), family("angle-blocked-encoded").Payloads...)
	assert.ElementsMatch(t, want, got)
}

func TestSynthesize_SortedUnique(t *testing.T) {
	got := Synthesize(profileFor("", "", true, nil), Options{})
	require.NotEmpty(t, got)
	for i := 1; i < len(got); i++ {
		assert.Less(t, got[i-1], got[i])
	}
}

func TestSynthesize_MaxLength(t *testing.T) {
	got := Synthesize(profileFor("", "", true, intPtr(21)), Options{})
	require.NotEmpty(t, got)
	for _, payload := range got {
		assert.LessOrEqual(t, len([]rune(payload)), 21, payload)
	}
	assert.Contains(t, got, "<svg onload=alert(1)>")
}

func TestSynthesize_StrictJS(t *testing.T) {
	p := profileFor("", "", true, nil)
	loose := Synthesize(p, Options{})
	strict := Synthesize(p, Options{StrictJS: true})

	assert.Contains(t, loose, "<script>new Function\\`alert\\`1\\`\\`</script>")
	assert.NotContains(t, strict, "<script>new Function\\`alert\\`1\\`\\`</script>")
	assert.Contains(t, strict, "<script>alert(1)</script>")
	assert.Contains(t, strict, "<svg onload=alert(1)>")
	assert.Less(t, len(strict), len(loose))
}

func TestFilter(t *testing.T) {
	p := &models.ParamProfile{
		BlockedChars: models.CharSetOf("\"'"),
		MaxLength:    intPtr(10),
	}
	in := []string{"", "   ", "abc", "a\"b", "it's", "0123456789", "0123456789A", "ééééééééé"}
	got := Filter(in, p)
	assert.Equal(t, []string{"abc", "0123456789", "ééééééééé"}, got)
	assert.Equal(t, got, Filter(got, p), "filter is idempotent")
}

func TestFilter_Idempotent(t *testing.T) {
	p := profileFor("<>;", "", true, intPtr(40))
	candidates := append(Predefined(p), Dynamic(p)...)
	once := Filter(candidates, p)
	assert.Equal(t, once, Filter(once, p))
}

func intPtr(n int) *int { return &n }
