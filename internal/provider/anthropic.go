// Package provider builds the Anthropic Messages API client.
package provider

import (
	"net/http"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const (
	DefaultModel     = anthropic.Model("claude-sonnet-4-20250514")
	DefaultMaxTokens = 4096
	// APIVersion is pinned on every request.
	APIVersion       = "2023-06-01"
)

// Options configures NewAnthropicClient. Zero values fall back to SDK defaults.
type Options struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

// NewAnthropicClient returns a client that never retries failed calls; a
// failed model call is reported to the caller as-is.
func NewAnthropicClient(o Options, extra ...option.RequestOption) *anthropic.Client {
	opts := []option.RequestOption{
		option.WithMaxRetries(0),
		option.WithHeader("anthropic-version", APIVersion),
	}
	if o.APIKey != "" {
		opts = append(opts, option.WithAPIKey(o.APIKey))
	}
	if o.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(o.BaseURL))
	}
	if o.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(o.HTTPClient))
	}
	opts = append(opts, extra...)
	c := anthropic.NewClient(opts...)
	return &c
}
