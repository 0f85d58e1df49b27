package installer

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/quickspin-saas/qspin-shim/internal/branding"
	"github.com/rs/zerolog"
)

const (
	// DefaultTimeout bounds a whole download, redirects included.
	DefaultTimeout = 5 * time.Minute
	// DefaultMaxRedirects bounds the 301/302 chain followed by Fetch.
	DefaultMaxRedirects = 5
)

// Installer runs the download/extract/place pipeline.
type Installer struct {
	shimVersion  string
	httpClient   *http.Client
	mirror       string
	apiURL       string
	timeout      time.Duration
	maxRedirects int
	out          io.Writer
	logger       zerolog.Logger

	// createFile opens the download destination. Tests swap it to simulate
	// a failing disk.
	createFile func(path string) (io.WriteCloser, error)
}

// Option configures an Installer.
type Option func(*Installer)

// WithHTTPClient sets a custom HTTP client (useful for testing). Its redirect
// policy is overridden; Fetch follows redirects itself.
func WithHTTPClient(c *http.Client) Option {
	return func(in *Installer) {
		in.httpClient = c
	}
}

// WithMirror downloads assets from mirror/<archive name> instead of the
// release host.
func WithMirror(mirror string) Option {
	return func(in *Installer) {
		in.mirror = mirror
	}
}

// WithAPIURL sets the releases API base used by LatestVersion.
func WithAPIURL(url string) Option {
	return func(in *Installer) {
		in.apiURL = url
	}
}

// WithTimeout bounds each download. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(in *Installer) {
		in.timeout = d
	}
}

// WithMaxRedirects sets how many 301/302 hops Fetch follows.
func WithMaxRedirects(n int) Option {
	return func(in *Installer) {
		in.maxRedirects = n
	}
}

// WithOutput sets where human-readable progress lines go. Nil silences them.
func WithOutput(w io.Writer) Option {
	return func(in *Installer) {
		in.out = w
	}
}

// WithLogger sets the structured logger.
func WithLogger(l zerolog.Logger) Option {
	return func(in *Installer) {
		in.logger = l
	}
}

// New creates an Installer. shimVersion only feeds the User-Agent.
func New(shimVersion string, opts ...Option) *Installer {
	in := &Installer{
		shimVersion:  shimVersion,
		httpClient:   http.DefaultClient,
		apiURL:       branding.APIURL(),
		timeout:      DefaultTimeout,
		maxRedirects: DefaultMaxRedirects,
		logger:       zerolog.Nop(),
		createFile: func(path string) (io.WriteCloser, error) {
			return os.Create(path)
		},
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

func (in *Installer) userAgent() string {
	return branding.CLIName() + "/" + in.shimVersion
}

func (in *Installer) printf(format string, args ...any) {
	if in.out == nil {
		return
	}
	fmt.Fprintf(in.out, format, args...)
}
