package proxy

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/Avdeevkonst/dip-user/shared/apperr"
	"github.com/Avdeevkonst/dip-user/shared/metrics"
	"github.com/Avdeevkonst/dip-user/shared/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var ErrServiceNotFound = errors.New("service not found")

// Methods the gateway forwards.
var Methods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch}

// hopHeaders are connection-scoped and never forwarded in either direction.
var hopHeaders = []string{
	"Connection",
	"Keep-Alive",
	"Proxy-Authenticate",
	"Proxy-Authorization",
	"Te",
	"Trailer",
	"Transfer-Encoding",
	"Upgrade",
}

// Registry maps a service name to its base URL. It is fixed at startup.
type Registry map[string]string

type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

type Proxy struct {
	registry Registry
	client   *http.Client
	log      *zap.Logger
}

// New uses a default http.Client when client is nil.
func New(registry Registry, client *http.Client, log *zap.Logger) *Proxy {
	if client == nil {
		client = &http.Client{}
	}
	return &Proxy{registry: registry, client: client, log: log}
}

// Forward sends the request to <base><path>[?rawQuery] of service and
// returns the downstream response unchanged. Unknown services fail with
// ErrServiceNotFound before any network call.
func (p *Proxy) Forward(ctx context.Context, service, method, path, rawQuery string, body io.Reader, header http.Header) (*Response, error) {
	base, ok := p.registry[service]
	if !ok {
		notFound := apperr.NotFound("Service not found")
		notFound.Err = ErrServiceNotFound
		return nil, notFound
	}

	targetURL := base + path
	if rawQuery != "" {
		targetURL += "?" + rawQuery
	}

	var reqBody io.Reader
	if body != nil && (method == http.MethodPost || method == http.MethodPut || method == http.MethodPatch) {
		payload, err := io.ReadAll(body)
		if err != nil {
			return nil, apperr.Validation("Failed to read request body")
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, targetURL, reqBody)
	if err != nil {
		return nil, apperr.Internal("Failed to create request", err)
	}
	copyHeader(req.Header, header)

	resp, err := p.client.Do(req)
	if err != nil {
		p.log.Warn("error proxying request", zap.String("service", service), zap.String("url", targetURL), zap.Error(err))
		return nil, apperr.Transport("Service unavailable", fmt.Errorf("proxy %s: %w", service, err))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperr.Transport("Failed to read response", err)
	}

	out := &Response{Status: resp.StatusCode, Header: make(http.Header), Body: respBody}
	copyHeader(out.Header, resp.Header)
	return out, nil
}

// Route is the gin handler for /:service/*path.
func (p *Proxy) Route(c *gin.Context) {
	service := c.Param("service")
	resp, err := p.Forward(c.Request.Context(), service, c.Request.Method, forwardedPath(c.Request.URL),
		c.Request.URL.RawQuery, c.Request.Body, c.Request.Header)
	if err != nil {
		label := service
		if errors.Is(err, ErrServiceNotFound) {
			label = "unknown"
		}
		status := http.StatusInternalServerError
		if appErr, ok := apperr.As(err); ok {
			status = appErr.Status
		}
		metrics.ProxiedRequests.WithLabelValues(label, strconv.Itoa(status)).Inc()
		middleware.RespondWithAppError(c, err)
		return
	}
	metrics.ProxiedRequests.WithLabelValues(service, strconv.Itoa(resp.Status)).Inc()

	for key, values := range resp.Header {
		for _, value := range values {
			c.Writer.Header().Add(key, value)
		}
	}
	c.Data(resp.Status, resp.Header.Get("Content-Type"), resp.Body)
}

// forwardedPath is the still-escaped request path without its first
// segment, so encoded characters such as %2F reach the service verbatim.
func forwardedPath(u *url.URL) string {
	escaped := strings.TrimPrefix(u.EscapedPath(), "/")
	if i := strings.IndexByte(escaped, '/'); i >= 0 {
		return escaped[i:]
	}
	return "/"
}

// Register mounts Route for every forwarded method.
func (p *Proxy) Register(r gin.IRoutes) {
	for _, method := range Methods {
		r.Handle(method, "/:service/*path", p.Route)
	}
}

func copyHeader(dst, src http.Header) {
	for key, values := range src {
		for _, value := range values {
			dst.Add(key, value)
		}
	}
	for _, h := range hopHeaders {
		dst.Del(h)
	}
}
