package wiki

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hsrdle/datagen/internal/errors"
	"github.com/hsrdle/datagen/internal/httpclient"
	"github.com/hsrdle/datagen/internal/testutil"
)

const testWiki = "https://wiki.example/wiki"

func newTestScraper(t *testing.T) (*Scraper, *httpmock.MockTransport) {
	t.Helper()
	hc, transport := testutil.NewMockedClient(t)
	return New(hc, testWiki, WithRateLimit(0, 0), WithTimeout(time.Second)), transport
}

func page(infobox string) string {
	return `<!DOCTYPE html><html><head><title>Character</title></head><body><main>` +
		infobox + `<p>Article body.</p></main></body></html>`
}

func section(label, value string) string {
	return `<div class="pi-item pi-data pi-item-spacing pi-border-color">` +
		`<h3 class="pi-data-label pi-secondary-font">` + label + `</h3>` +
		`<div class="pi-data-value pi-font">` + value + `</div></div>`
}

func infobox(sections ...string) string {
	return `<aside class="portable-infobox pi-background pi-theme-wikia">` +
		`<h2 class="pi-item pi-title">Name</h2>` + strings.Join(sections, "") + `</aside>`
}

func TestPageKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"March 7th", "March_7th"},
		{"Dan Heng • Imbibitor Lunae", "Dan_Heng_•_Imbibitor_Lunae"},
		{"Topaz & Numby", "Topaz_%26_Numby"},
		{"Dr. Ratio", "Dr._Ratio"},
		{"Kafka", "Kafka"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, PageKey(tt.in), tt.in)
	}
}

func TestParseAttributes_FullInfobox(t *testing.T) {
	t.Parallel()

	html := page(infobox(
		section("Species", ` <a href="/wiki/Human">Human</a> `),
		section("Release Date", `<span>2023-04-26</span> <small>(Version 1.0)</small>`),
		section("Factions", `<ul><li><a href="/wiki/Astral_Express">Astral Express</a></li><li>Trailblazers</li></ul>`),
	))

	attrs, found, err := ParseAttributes(strings.NewReader(html))
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, Attributes{
		Species:     "Human",
		Release:     "2023-04-26",
		Affiliation: []string{"Astral Express", "Trailblazers"},
	}, attrs)
}

func TestParseAttributes_LinkedValues(t *testing.T) {
	t.Parallel()

	html := page(infobox(
		section("Species", `<a href="/wiki/Vidyadhara" title="Vidyadhara">Vidyadhara</a>`),
		section("Release Date", `<span><a href="/wiki/Version_1.0">2023-04-26</a></span>`),
		section("Factions", `<ul>`+
			`<li><a href="/wiki/Xianzhou_Luofu">Xianzhou Luofu</a></li>`+
			`<li><a href="/wiki/Xianzhou_Luofu#Cloud_Knights">Xianzhou Luofu</a></li>`+
			`<li><a href="/wiki/Astral_Express">Astral</a> <b>Express</b></li>`+
			`</ul>`),
	))

	attrs, found, err := ParseAttributes(strings.NewReader(html))
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, Attributes{
		Species:     "Vidyadhara",
		Release:     "2023-04-26",
		Affiliation: []string{"Xianzhou Luofu", "Astral Express"},
	}, attrs)
}

func TestParseAttributes_TextIsNotReflowed(t *testing.T) {
	t.Parallel()

	html := page(infobox(
		section("Species", "Stellaron  Hunter"),
		section("Factions", "<ul><li>Alpha<br>Beta</li></ul>"),
	))

	attrs, _, err := ParseAttributes(strings.NewReader(html))
	require.NoError(t, err)
	assert.Equal(t, "Stellaron  Hunter", attrs.Species)
	assert.Equal(t, []string{"AlphaBeta"}, attrs.Affiliation)
}

func TestParseAttributes_MissingInfobox(t *testing.T) {
	t.Parallel()

	attrs, found, err := ParseAttributes(strings.NewReader(page(`<div class="mw-parser-output">No sidebar</div>`)))
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, DefaultAttributes(), attrs)
	assert.NotNil(t, attrs.Affiliation)
}

func TestParseAttributes_MissingFactions(t *testing.T) {
	t.Parallel()

	html := page(infobox(section("Species", "Stellaron Hunter")))

	attrs, found, err := ParseAttributes(strings.NewReader(html))
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "Stellaron Hunter", attrs.Species)
	assert.Equal(t, Unknown, attrs.Release)
	assert.Equal(t, []string{}, attrs.Affiliation)
}

func TestParseAttributes_FactionsDeduped(t *testing.T) {
	t.Parallel()

	html := page(infobox(section("Factions",
		`<ul><li>Alpha</li><li></li><li> Alpha </li><li>Beta</li></ul>`)))

	attrs, _, err := ParseAttributes(strings.NewReader(html))
	require.NoError(t, err)
	assert.Equal(t, []string{"Alpha", "Beta"}, attrs.Affiliation)
}

func TestParseAttributes_LabelMatching(t *testing.T) {
	t.Parallel()

	html := page(infobox(
		section("  SPECIES  ", "Vidyadhara"),
		section("Original Release Date", "<span>2023-06-07</span>"),
		section("Other Factions", "<ul><li>Xianzhou Luofu</li></ul>"),
		section("Rarity", "5"),
	))

	attrs, _, err := ParseAttributes(strings.NewReader(html))
	require.NoError(t, err)
	assert.Equal(t, "Vidyadhara", attrs.Species)
	assert.Equal(t, "2023-06-07", attrs.Release)
	assert.Equal(t, []string{"Xianzhou Luofu"}, attrs.Affiliation)
}

func TestParseAttributes_IncompleteSectionsSkipped(t *testing.T) {
	t.Parallel()

	html := page(infobox(
		`<div class="pi-item pi-data"><h3 class="pi-data-label">Species</h3></div>`,
		`<div class="pi-item pi-data"><div class="pi-data-value">Orphan value</div></div>`,
		`<section class="pi-item pi-group"><h3 class="pi-data-label">Species</h3><div class="pi-data-value">Not a div item</div></section>`,
	))

	attrs, found, err := ParseAttributes(strings.NewReader(html))
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, DefaultAttributes(), attrs)
}

func TestParseAttributes_ReleaseWithoutSpan(t *testing.T) {
	t.Parallel()

	html := page(infobox(
		section("Species", "Human"),
		section("Release Date", "2023-04-26"),
	))

	attrs, _, err := ParseAttributes(strings.NewReader(html))
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryWikiScrape))
	assert.Equal(t, DefaultAttributes(), attrs)
}

func TestFetchAttributes(t *testing.T) {
	t.Parallel()

	scraper, transport := newTestScraper(t)
	transport.RegisterResponder(http.MethodGet, testWiki+"/March_7th",
		httpmock.NewStringResponder(http.StatusOK, page(infobox(
			section("Species", "Human"),
			section("Factions", "<ul><li>Astral Express</li></ul>"),
		))))

	attrs := scraper.FetchAttributes(context.Background(), "March 7th")
	assert.Equal(t, "Human", attrs.Species)
	assert.Equal(t, Unknown, attrs.Release)
	assert.Equal(t, []string{"Astral Express"}, attrs.Affiliation)
	assert.Equal(t, 1, transport.GetTotalCallCount())
}

func TestFetchAttributes_FailuresYieldDefaults(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		responder httpmock.Responder
	}{
		{"not found", httpmock.NewStringResponder(http.StatusNotFound, page(infobox(section("Species", "Ghost"))))},
		{"transport error", httpmock.NewErrorResponder(errors.NewStd("dial tcp: no such host"))},
		{"release without span", httpmock.NewStringResponder(http.StatusOK, page(infobox(
			section("Species", "Human"),
			section("Release Date", "soon"),
		)))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			scraper, transport := newTestScraper(t)
			transport.RegisterResponder(http.MethodGet, testWiki+"/Topaz_%26_Numby", tt.responder)

			attrs := scraper.FetchAttributes(context.Background(), "Topaz & Numby")
			assert.Equal(t, DefaultAttributes(), attrs)
			assert.Equal(t, 1, transport.GetTotalCallCount())
		})
	}
}

func TestScraper_MissingPageIsNotFound(t *testing.T) {
	t.Parallel()

	scraper, transport := newTestScraper(t)
	transport.RegisterResponder(http.MethodGet, testWiki+"/Sampo", httpmock.NewStringResponder(http.StatusNotFound, "no article"))
	transport.RegisterResponder(http.MethodGet, testWiki+"/Gepard", httpmock.NewStringResponder(http.StatusBadGateway, "upstream down"))

	_, _, err := scraper.fetch(context.Background(), scraper.PageURL("Sampo"))
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))

	_, _, err = scraper.fetch(context.Background(), scraper.PageURL("Gepard"))
	require.Error(t, err)
	assert.False(t, errors.IsNotFound(err))
	assert.True(t, errors.IsCategory(err, errors.CategoryNetwork))
}

func TestFetchAttributes_CancelledContext(t *testing.T) {
	t.Parallel()

	hc, transport := testutil.NewMockedClient(t)

	// Burst of one: the first Wait consumes the token, the second must block.
	scraper := New(hc, testWiki, WithRateLimit(0.001, 1))
	transport.RegisterResponder(http.MethodGet, testWiki+"/Kafka", httpmock.NewStringResponder(http.StatusOK, page("")))

	_ = scraper.FetchAttributes(context.Background(), "Kafka")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	attrs := scraper.FetchAttributes(ctx, "Blade")
	assert.Equal(t, DefaultAttributes(), attrs)
	assert.Equal(t, 1, transport.GetTotalCallCount())
}

func TestScraper_PageURL(t *testing.T) {
	t.Parallel()

	scraper := New(httpclient.New(nil), "")
	assert.Equal(t, DefaultBaseURL+"/Silver_Wolf", scraper.PageURL("Silver Wolf"))
}
