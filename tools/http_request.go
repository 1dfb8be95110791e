package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
)

type HTTPRequestInput struct {
	URL     string            `json:"url" jsonschema:"minLength=1" jsonschema_description:"URL to request"`
	Method  string            `json:"method" jsonschema:"enum=GET,enum=POST,enum=PUT,enum=DELETE,enum=PATCH" jsonschema_description:"HTTP method (GET, POST, etc.)"`
	Headers map[string]string `json:"headers,omitempty" jsonschema_description:"HTTP headers"`
	Data    map[string]any    `json:"data,omitempty" jsonschema_description:"Request body data"`
}

var HTTPRequestDefinition = ToolDefinition{
	Name:        "http_request",
	Description: "Make an HTTP request to a URL",
	Schema:      GenerateSchema[HTTPRequestInput](),
	Function:    HTTPRequest,
}

// Width 0 puts every array element on its own line.
var prettyOptions = &pretty.Options{Indent: "  "}

// HTTPRequest performs the request and returns the response body. JSON bodies
// are re-indented; anything else is returned as received. Non-2xx statuses
// are failures.
func HTTPRequest(ctx context.Context, env Env, input json.RawMessage) (string, error) {
	var in HTTPRequestInput
	if err := json.Unmarshal(input, &in); err != nil {
		return "", classify(KindSchema, err)
	}
	if err := env.Policy.CheckHTTP(); err != nil {
		return "", classify(KindNetwork, err)
	}

	var body io.Reader
	if in.Data != nil {
		b, err := json.Marshal(in.Data)
		if err != nil {
			return "", classify(KindSchema, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, strings.ToUpper(in.Method), in.URL, body)
	if err != nil {
		return "", classify(KindNetwork, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range in.Headers {
		req.Header.Set(k, v)
	}

	client := env.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", classify(KindNetwork, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", classify(KindNetwork, fmt.Errorf("read body: %w", err))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", classify(KindNetwork, fmt.Errorf("request failed with status code %d", resp.StatusCode))
	}
	return formatBody(raw), nil
}

func formatBody(raw []byte) string {
	if len(bytes.TrimSpace(raw)) == 0 {
		return ""
	}
	if !gjson.ValidBytes(raw) {
		return string(raw)
	}
	return strings.TrimRight(string(pretty.PrettyOptions(raw, prettyOptions)), "\n")
}
