// Package render builds the HTML fragment returned by the slot-serving
// endpoint: the creative wrapped in a link, plus the inline script that
// fires the impression beacon on load and the click beacon before
// navigating.
package render

import (
	"html/template"
	"io"
	"net/url"
	"strings"

	"adsync/internal/core/port"
)

const snippetText = `<div class="ad-slot" id="ad-slot-{{.FrameID}}" style="width: {{.Width}}px; height: {{.Height}}px;" data-frame-id="{{.FrameID}}" data-campaign-id="{{.CampaignID}}" data-target-url="{{.TargetURL}}">
  <a href="{{.TargetURL}}" target="_blank" id="ad-link-{{.FrameID}}">
    <img src="{{.ImageURL}}" style="border:none; max-width: 100%; max-height: 100%;" alt="Ad for {{.FrameID}}" id="ad-image-{{.FrameID}}"/>
  </a>
</div>
<script>
  (function() {
    fetch('{{.ImpressionURL}}', { method: 'GET', mode: 'no-cors' })
      .catch(function(err) { console.error('impression tracking failed', err); });

    document.getElementById('ad-link-{{.FrameID}}').addEventListener('click', function(e) {
      e.preventDefault();
      fetch('{{.ClickURL}}', { method: 'GET', mode: 'no-cors' })
        .then(function() { window.open('{{.TargetURL}}', '_blank'); })
        .catch(function() { window.open('{{.TargetURL}}', '_blank'); });
    });
  })();
</script>
`

// SnippetRenderer renders served ads into embeddable HTML. Beacon URLs are
// resolved against the configured base so the snippet works both same-origin
// and from a third-party page.
type SnippetRenderer struct {
	tmpl       *template.Template
	beaconBase string
}

// NewSnippetRenderer parses the snippet template. An empty beaconBase
// produces same-origin relative beacon URLs.
func NewSnippetRenderer(beaconBase string) *SnippetRenderer {
	return &SnippetRenderer{
		tmpl:       template.Must(template.New("snippet").Parse(snippetText)),
		beaconBase: strings.TrimSuffix(beaconBase, "/"),
	}
}

type snippetData struct {
	port.ServedAd
	ImpressionURL string
	ClickURL      string
}

// Render writes the HTML fragment for the served ad.
func (r *SnippetRenderer) Render(w io.Writer, ad port.ServedAd) error {
	return r.tmpl.Execute(w, snippetData{
		ServedAd:      ad,
		ImpressionURL: r.beaconURL("/record-impression", ad),
		ClickURL:      r.beaconURL("/record-click", ad),
	})
}

func (r *SnippetRenderer) beaconURL(path string, ad port.ServedAd) string {
	v := url.Values{}
	v.Set("frame", ad.FrameID)
	v.Set("campaignId", ad.CampaignID)
	return r.beaconBase + path + "?" + v.Encode()
}
