package termindex

import (
	"time"

	"go.uber.org/zap"

	"github.com/gofhir/termindex/extract"
	"github.com/gofhir/termindex/fhir"
	"github.com/gofhir/termindex/lang"
	"github.com/gofhir/termindex/store"
)

// Option configures an Installer.
type Option func(*Options)

// Options holds all configuration for an installation run.
type Options struct {
	// ServerURL is the FHIR terminology server base URL.
	ServerURL string

	// Language is the 3-letter terminology language code; it selects the
	// displayLanguage requested from the server and is recorded in the
	// destination directory.
	Language string

	// PageSize is the expansion window requested per page.
	PageSize int

	// Lowercase folds every surface form to lower case.
	Lowercase bool

	// NormalizeUnicode transliterates every surface form to ASCII.
	// Requires a Transliterator.
	NormalizeUnicode bool

	// Backend selects the key-value engine for the term store.
	Backend store.Backend

	// DefaultSemanticType is assigned to concepts whose type cannot be
	// recovered from a fully specified name.
	DefaultSemanticType string

	// Transliterator performs the ASCII transliteration. nil means the
	// capability is absent; requesting NormalizeUnicode without it is a
	// configuration fault.
	Transliterator extract.Transliterator

	// Timeout bounds each page request.
	Timeout time.Duration

	// RetryCount enables transport-level retries per page request.
	RetryCount int

	// Logger receives progress logging. nil disables logging.
	Logger *zap.Logger
}

// DefaultOptions returns the default configuration.
func DefaultOptions() *Options {
	return &Options{
		ServerURL:           fhir.DefaultServerURL,
		Language:            lang.DefaultCode,
		PageSize:            fhir.DefaultPageSize,
		Backend:             store.DefaultBackend,
		DefaultSemanticType: extract.DefaultSemanticType,
		Transliterator:      extract.Unidecode{},
		Timeout:             fhir.DefaultTimeout,
	}
}

// WithServerURL sets the terminology server base URL.
func WithServerURL(url string) Option {
	return func(o *Options) {
		if url != "" {
			o.ServerURL = url
		}
	}
}

// WithLanguage sets the 3-letter terminology language code.
func WithLanguage(code string) Option {
	return func(o *Options) {
		if code != "" {
			o.Language = code
		}
	}
}

// WithPageSize sets the expansion page size.
func WithPageSize(n int) Option {
	return func(o *Options) {
		if n > 0 {
			o.PageSize = n
		}
	}
}

// WithLowercase enables lower-case folding of surface forms.
func WithLowercase(enable bool) Option {
	return func(o *Options) {
		o.Lowercase = enable
	}
}

// WithNormalizeUnicode enables ASCII transliteration of surface forms.
func WithNormalizeUnicode(enable bool) Option {
	return func(o *Options) {
		o.NormalizeUnicode = enable
	}
}

// WithBackend selects the term-store backend.
func WithBackend(b store.Backend) Option {
	return func(o *Options) {
		o.Backend = b
	}
}

// WithDefaultSemanticType sets the fallback semantic-type label.
func WithDefaultSemanticType(label string) Option {
	return func(o *Options) {
		if label != "" {
			o.DefaultSemanticType = label
		}
	}
}

// WithTransliterator injects the transliteration collaborator. Passing nil
// declares the capability absent.
func WithTransliterator(tr extract.Transliterator) Option {
	return func(o *Options) {
		o.Transliterator = tr
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *Options) {
		if d > 0 {
			o.Timeout = d
		}
	}
}

// WithRetry enables transport-level retries for page requests.
func WithRetry(count int) Option {
	return func(o *Options) {
		if count >= 0 {
			o.RetryCount = count
		}
	}
}

// WithLogger sets the progress logger.
func WithLogger(log *zap.Logger) Option {
	return func(o *Options) {
		o.Logger = log
	}
}
