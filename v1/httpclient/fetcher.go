package httpclient

import (
	"context"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
)

// RestyFetcher is the default Fetcher, backed by resty over the pooled
// transport of a retryablehttp client.
type RestyFetcher struct {
	client *resty.Client
}

// NewRestyFetcher builds a RestyFetcher from cfg.
func NewRestyFetcher(cfg Config) *RestyFetcher {
	// Only the pooled transport is used; resty owns the retry policy.
	retryClient := retryablehttp.NewClient()
	retryClient.Logger = nil

	restyClient := resty.New()
	restyClient.
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(cfg.RetryWaitMin).
		SetRetryMaxWaitTime(cfg.RetryWaitMax).
		SetTransport(retryClient.HTTPClient.Transport)

	if cfg.UserAgent != "" {
		restyClient.SetHeader("User-Agent", cfg.UserAgent)
	}
	if cfg.BaseURL != "" {
		restyClient.SetBaseURL(cfg.BaseURL)
	}

	return &RestyFetcher{client: restyClient}
}

// Fetch issues req and reads the whole response body.
func (f *RestyFetcher) Fetch(ctx context.Context, req FetchRequest) (*Response, error) {
	r := f.client.R().SetContext(ctx)
	for key, values := range req.Header {
		for _, v := range values {
			r.Header.Add(key, v)
		}
	}
	if req.Body != nil {
		r.SetBody(req.Body)
	}

	resp, err := r.Execute(req.Method, req.URL)
	if err != nil {
		return nil, err
	}
	return NewResponse(resp.StatusCode(), resp.Header(), resp.Body()), nil
}

// Close releases idle connections.
func (f *RestyFetcher) Close() error {
	f.client.GetClient().CloseIdleConnections()
	return nil
}
