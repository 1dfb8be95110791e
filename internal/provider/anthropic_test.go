package provider_test

import (
	"context"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petasbytes/sasa/internal/provider"
)

type rtFunc func(*http.Request) (*http.Response, error)

func (f rtFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func TestNewAnthropicClient_SendsKeyAndVersionWithoutRetry(t *testing.T) {
	var calls atomic.Int32
	var gotKey, gotVersion string
	hc := &http.Client{Transport: rtFunc(func(r *http.Request) (*http.Response, error) {
		calls.Add(1)
		gotKey = r.Header.Get("X-Api-Key")
		gotVersion = r.Header.Get("Anthropic-Version")
		return &http.Response{
			StatusCode: http.StatusServiceUnavailable,
			Header:     http.Header{"Content-Type": []string{"application/json"}},
			Body:       io.NopCloser(strings.NewReader(`{"type":"error","error":{"type":"overloaded_error","message":"busy"}}`)),
			Request:    r,
		}, nil
	})}

	c := provider.NewAnthropicClient(provider.Options{APIKey: "sk-test", BaseURL: "http://model.invalid", HTTPClient: hc})
	_, err := c.Messages.New(context.Background(), anthropic.MessageNewParams{
		Model:     provider.DefaultModel,
		MaxTokens: provider.DefaultMaxTokens,
		Messages:  []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock("hi"))},
	})

	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, "sk-test", gotKey)
	assert.Equal(t, provider.APIVersion, gotVersion)

	var apiErr *anthropic.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)
}
