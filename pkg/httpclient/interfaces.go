package httpclient

import "context"

// Response is a minimal HTTP response contract.
type Response interface {
	Body() []byte
	StatusCode() int
}

// Client abstracts HTTP reads so fetchers can inject mocks or different transports.
type Client interface {
	Get(ctx context.Context, url string, headers map[string]string) (Response, error)
}

// Sender abstracts HTTP writes with an arbitrary verb and a JSON body.
type Sender interface {
	Send(ctx context.Context, method, url string, headers map[string]string, body any) (Response, error)
}
