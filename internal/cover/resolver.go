package cover

import (
	"net/url"
	"strconv"
	"strings"
)

const (
	// DefaultProxy is the weserv.nl resizing endpoint.
	DefaultProxy = "https://images.weserv.nl/"

	// DefaultPlaceholder is shown when a record has no cover.
	DefaultPlaceholder = "https://stylusseoul.github.io/vinyl/images/prepare.jpg"

	// DefaultFit is used when Options.Fit is empty.
	DefaultFit = "cover"
)

// Fit modes understood by the proxy.
const (
	FitCover   = "cover"
	FitContain = "contain"
)

// Preset sizes used by the list and detail views.
var (
	Thumb = Options{Width: 400, Height: 400, Fit: FitCover}
	Large = Options{Width: 900, Height: 900, Fit: FitContain}
)

// Config holds resolver settings.
type Config struct {
	// Proxy is the base URL of the resizing proxy.
	Proxy string

	// Placeholder is returned for empty references.
	Placeholder string

	// AssetBase, when set, is prepended to bare filenames before proxying.
	AssetBase string
}

// DefaultConfig returns the configuration used by the public catalog.
func DefaultConfig() Config {
	return Config{
		Proxy:       DefaultProxy,
		Placeholder: DefaultPlaceholder,
	}
}

// Options selects the transformed size. Zero Width or Height leaves that
// dimension to the proxy.
type Options struct {
	Width  int
	Height int
	Fit    string
}

// Resolver builds proxy URLs for cover references.
type Resolver struct {
	proxy       string
	placeholder string
	assetBase   string
}

// NewResolver creates a Resolver. Empty config fields fall back to the
// defaults.
func NewResolver(cfg Config) *Resolver {
	if cfg.Proxy == "" {
		cfg.Proxy = DefaultProxy
	}
	if cfg.Placeholder == "" {
		cfg.Placeholder = DefaultPlaceholder
	}
	return &Resolver{
		proxy:       cfg.Proxy,
		placeholder: cfg.Placeholder,
		assetBase:   cfg.AssetBase,
	}
}

// Placeholder returns the URL used for missing or broken covers.
func (r *Resolver) Placeholder() string {
	return r.placeholder
}

// Resolve returns the proxy URL for raw with the requested size.
//
// The reference is normalized first:
//   - "&amp;" entities are decoded
//   - "//host/..." becomes "https://host/..."
//   - "http://" is upgraded to "https://"
//   - bare filenames are joined onto AssetBase when configured
//
// The scheme is then stripped and the remainder passed to the proxy as its
// url parameter, followed by w, h and fit.
func (r *Resolver) Resolve(raw string, opts Options) string {
	ref := r.Normalize(raw)
	if ref == "" {
		return r.placeholder
	}

	core := strings.TrimPrefix(strings.TrimPrefix(ref, "https://"), "http://")

	var b strings.Builder
	b.WriteString(r.proxy)
	b.WriteString("?url=")
	b.WriteString(encodeURIComponent(core))
	if opts.Width > 0 {
		b.WriteString("&w=")
		b.WriteString(strconv.Itoa(opts.Width))
	}
	if opts.Height > 0 {
		b.WriteString("&h=")
		b.WriteString(strconv.Itoa(opts.Height))
	}
	fit := opts.Fit
	if fit == "" {
		fit = DefaultFit
	}
	b.WriteString("&fit=")
	b.WriteString(url.QueryEscape(fit))

	return b.String()
}

// Normalize returns the https form of raw without proxying it, or "" when
// raw is blank.
func (r *Resolver) Normalize(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}

	s = strings.ReplaceAll(s, "&amp;", "&")
	switch {
	case strings.HasPrefix(s, "//"):
		s = "https:" + s
	case strings.HasPrefix(s, "http://"):
		s = "https://" + strings.TrimPrefix(s, "http://")
	case strings.HasPrefix(s, "https://"):
	case r.assetBase != "" && isBareFilename(s):
		s = strings.TrimSuffix(r.assetBase, "/") + "/" + strings.TrimPrefix(s, "/")
	}
	return s
}

// isBareFilename reports whether s has no scheme and no host, like
// "kind-of-blue.jpg" or "covers/kind-of-blue.jpg".
func isBareFilename(s string) bool {
	if strings.Contains(s, "://") {
		return false
	}
	first, _, _ := strings.Cut(s, "/")
	return !strings.Contains(first, ".") || strings.Count(s, "/") == 0
}

// encodeURIComponent escapes s like the JavaScript function of the same
// name: spaces become %20 and the marks !'()* stay literal.
func encodeURIComponent(s string) string {
	escaped := url.QueryEscape(s)
	escaped = strings.ReplaceAll(escaped, "+", "%20")
	for _, mark := range []string{"!", "'", "(", ")", "*"} {
		escaped = strings.ReplaceAll(escaped, url.QueryEscape(mark), mark)
	}
	return escaped
}
