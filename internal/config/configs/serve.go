package configs

// Serve holds serving-path configuration that used to live as hardcoded
// constants next to the storage client. It is constructed once at startup
// and passed to the components that need it.
type Serve struct {
	// DefaultTargetURL is the landing page used when a campaign carries
	// no target URL.
	DefaultTargetURL string `env:"DEFAULT_TARGET_URL" envDefault:"https://mashdrop.com"`
	// CreativeBaseURL prefixes creative storage keys that are not
	// absolute URLs.
	CreativeBaseURL string `env:"CREATIVE_BASE_URL" envDefault:""`
	// BeaconBaseURL is the base for the impression and click beacon URLs
	// embedded in rendered snippets. Empty means same-origin relative
	// URLs.
	BeaconBaseURL string `env:"BEACON_BASE_URL" envDefault:""`
}
