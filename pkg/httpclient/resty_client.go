package httpclient

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const defaultUserAgent = "samvad-bulletin/1.0"

// RestyClient adapts resty.Client to Client and Sender.
type RestyClient struct {
	client *resty.Client
}

// NewRestyClient creates a RestyClient with the given timeout.
func NewRestyClient(timeout time.Duration) *RestyClient {
	c := resty.New().
		SetTimeout(timeout).
		SetHeader("User-Agent", defaultUserAgent)
	return &RestyClient{client: c}
}

// Get performs a GET. Non-2xx statuses are returned as responses, not errors.
func (r *RestyClient) Get(ctx context.Context, url string, headers map[string]string) (Response, error) {
	return r.Send(ctx, http.MethodGet, url, headers, nil)
}

// Send performs a request with the given verb. A non-nil body is encoded as
// JSON unless headers already carry a Content-Type.
func (r *RestyClient) Send(ctx context.Context, method, url string, headers map[string]string, body any) (Response, error) {
	req := r.client.R().SetContext(ctx)
	if len(headers) > 0 {
		req.SetHeaders(headers)
	}
	if body != nil {
		if !hasHeader(headers, "Content-Type") {
			req.SetHeader("Content-Type", "application/json")
		}
		req.SetBody(body)
	}
	resp, err := req.Execute(method, url)
	if err != nil {
		return nil, err
	}
	return restyResponse{resp: resp}, nil
}

func hasHeader(headers map[string]string, name string) bool {
	for k := range headers {
		if strings.EqualFold(k, name) {
			return true
		}
	}
	return false
}

type restyResponse struct {
	resp *resty.Response
}

func (r restyResponse) Body() []byte    { return r.resp.Body() }
func (r restyResponse) StatusCode() int { return r.resp.StatusCode() }
