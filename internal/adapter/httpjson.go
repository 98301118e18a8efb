package adapter

import (
	"context"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fasthttp"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// getJSON issues a GET against requestURL and unmarshals the body into out.
// The context deadline wins over the fallback timeout when present.
func getJSON(ctx context.Context, client *fasthttp.Client, requestURL string, timeout time.Duration, out any) error {
	return doJSON(ctx, client, fasthttp.MethodGet, requestURL, nil, timeout, out)
}

// postJSON issues a POST with a JSON body and unmarshals the response into out.
func postJSON(ctx context.Context, client *fasthttp.Client, requestURL string, body any, timeout time.Duration, out any) error {
	encoded, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request body for %s: %w", requestURL, err)
	}
	return doJSON(ctx, client, fasthttp.MethodPost, requestURL, encoded, timeout, out)
}

func doJSON(ctx context.Context, client *fasthttp.Client, method, requestURL string, body []byte, timeout time.Duration, out any) error {
	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(requestURL)
	req.Header.SetMethod(method)
	req.Header.SetContentTypeBytes([]byte("application/json"))
	if body != nil {
		req.SetBody(body)
	}

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	if deadline, ok := ctx.Deadline(); ok {
		if err := client.DoDeadline(req, resp, deadline); err != nil {
			return fmt.Errorf("failed to execute request to %s: %w", requestURL, err)
		}
	} else {
		if err := client.DoTimeout(req, resp, timeout); err != nil {
			return fmt.Errorf("failed to execute request to %s with default timeout: %w", requestURL, err)
		}
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		return fmt.Errorf("request to %s failed with status %d: %s", requestURL, resp.StatusCode(), string(resp.Body()))
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("failed to unmarshal response from %s: %w. Body: %s", requestURL, err, string(resp.Body()))
	}
	return nil
}
