package executor

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"csfloat/market/internal/config"
	"csfloat/market/internal/domain"
	"csfloat/market/internal/proxy"
	"csfloat/market/internal/query"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"
	"resty.dev/v3"
)

const (
	maxErrorBodyChars = 500
	maxFiltersPreview = 240
)

// retryableStatuses are answered with a backoff and another attempt.
var retryableStatuses = map[int]bool{
	http.StatusTooManyRequests:     true,
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
	http.StatusGatewayTimeout:      true,
}

type Request struct {
	Method string
	Path   string       // Relative to the configured base URL
	Query  []query.Pair // Sent in the given order
	Body   any          // JSON encoded when not nil
}

type Result struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	Latency    time.Duration // Latency of the successful attempt
	Attempts   int
}

type Option func(*Executor)

// WithLogger replaces the standard logrus logger.
func WithLogger(logger log.FieldLogger) Option {
	return func(e *Executor) {
		e.logger = logger
	}
}

// WithProxySupplier rotates to the next proxy after a network failure.
func WithProxySupplier(supplier proxy.ProxySupplier) Option {
	return func(e *Executor) {
		e.proxySupplier = supplier
	}
}

// WithSleeper replaces the function used to wait between attempts.
func WithSleeper(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(e *Executor) {
		e.sleep = sleep
	}
}

// WithJitter replaces the random jitter source of the exponential backoff.
func WithJitter(jitter func() time.Duration) Option {
	return func(e *Executor) {
		e.jitter = jitter
	}
}

// Executor sends one logical request at a time against the CSFloat API,
// retrying transient failures.
type Executor struct {
	httpClient    *resty.Client
	rl            ratelimit.Limiter
	maxRetries    int
	logger        log.FieldLogger
	proxySupplier proxy.ProxySupplier
	sleep         func(ctx context.Context, d time.Duration) error
	jitter        func() time.Duration
}

func New(cfg config.CSFloatConfig, opts ...Option) *Executor {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = config.DefaultTimeout
	}
	connectTimeout := cfg.ConnectTimeout
	if connectTimeout <= 0 {
		connectTimeout = config.DefaultConnectTimeout
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = config.DefaultUserAgent
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   connectTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout: connectTimeout,
		MaxIdleConns:        10,
		IdleConnTimeout:     90 * time.Second,
	}

	client := resty.NewWithClient(&http.Client{Transport: transport}).
		SetBaseURL(cfg.BaseURL).
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("User-Agent", userAgent).
		SetHeader("Accept", "application/json")

	if cfg.APIKey != "" {
		client.SetHeader("Authorization", cfg.APIKey)
	}

	rl := ratelimit.NewUnlimited()
	if cfg.MaxRequestsPerSecond > 0 {
		rl = ratelimit.New(cfg.MaxRequestsPerSecond)
	}

	e := &Executor{
		httpClient: client,
		rl:         rl,
		maxRetries: cfg.MaxRetries,
		logger:     log.StandardLogger(),
		sleep:      sleepContext,
		jitter:     randomJitter,
	}
	if cfg.TestNoSleep {
		e.sleep = func(context.Context, time.Duration) error { return nil }
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.proxySupplier != nil {
		if proxyURL := e.proxySupplier.Get(); proxyURL != "" {
			e.httpClient.SetProxy(proxyURL)
			e.logger.Infof("Using initial proxy: %s", proxyURL)
		}
	}

	return e
}

// Do executes req, retrying on 429/5xx responses and network failures up
// to the configured number of retries. Responses with any other non-2xx
// status fail immediately. Failures are returned as *domain.TransportError.
func (e *Executor) Do(ctx context.Context, req Request) (*Result, error) {
	var payload []byte
	if req.Body != nil {
		var err error
		payload, err = json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
	}

	clientRequestID := uuid.NewString()

	for attempt := 0; ; attempt++ {
		e.rl.Take()

		r := e.httpClient.R().
			SetContext(ctx).
			SetHeader("X-Request-Id", clientRequestID)
		if len(req.Query) > 0 {
			r.SetQueryParamsFromValues(query.Values(req.Query))
		}
		if payload != nil {
			r.SetHeader("Content-Type", "application/json").SetBody(payload)
		}

		start := time.Now()
		resp, err := r.Execute(req.Method, req.Path)
		latency := time.Since(start)

		canRetry := attempt < e.maxRetries

		if err != nil {
			if ctx.Err() != nil {
				e.logAttempt(req, attempt, 0, latency, "", clientRequestID, outcomeFatal, err)
				return nil, e.transportError(req, attempt, 0, "", fmt.Errorf("request cancelled: %w", ctx.Err()))
			}
			if !canRetry {
				e.logAttempt(req, attempt, 0, latency, "", clientRequestID, outcomeFatal, err)
				return nil, e.transportError(req, attempt, 0, "", err)
			}

			e.logAttempt(req, attempt, 0, latency, "", clientRequestID, outcomeRetry, err)
			e.rotateProxy()
			if err := e.sleep(ctx, backoffDelay(attempt, "", e.jitter())); err != nil {
				return nil, e.transportError(req, attempt, 0, "", fmt.Errorf("request cancelled: %w", err))
			}
			continue
		}

		status := resp.StatusCode()
		header := resp.Header()
		requestID := responseRequestID(header)

		switch {
		case status >= 200 && status < 300:
			e.logAttempt(req, attempt, status, latency, requestID, clientRequestID, outcomeSuccess, nil)
			return &Result{
				StatusCode: status,
				Header:     header,
				Body:       []byte(resp.String()),
				Latency:    latency,
				Attempts:   attempt + 1,
			}, nil

		case retryableStatuses[status] && canRetry:
			e.logAttempt(req, attempt, status, latency, requestID, clientRequestID, outcomeRetry, nil)
			if err := e.sleep(ctx, backoffDelay(attempt, header.Get("Retry-After"), e.jitter())); err != nil {
				return nil, e.transportError(req, attempt, status, resp.String(), fmt.Errorf("request cancelled: %w", err))
			}

		default:
			e.logAttempt(req, attempt, status, latency, requestID, clientRequestID, outcomeFatal, nil)
			return nil, e.transportError(req, attempt, status, resp.String(), nil)
		}
	}
}

func (e *Executor) transportError(req Request, attempt, status int, body string, err error) *domain.TransportError {
	return &domain.TransportError{
		Method:     strings.ToUpper(req.Method),
		Path:       req.Path,
		StatusCode: status,
		Body:       truncate(body, maxErrorBodyChars),
		Attempts:   attempt + 1,
		Err:        err,
	}
}

func (e *Executor) rotateProxy() {
	if e.proxySupplier == nil || e.proxySupplier.Len() < 2 {
		return
	}
	if next := e.proxySupplier.Get(); next != "" {
		e.logger.Infof("Switching to proxy: %s", next)
		e.httpClient.SetProxy(next)
	}
}

type outcome int

const (
	outcomeSuccess outcome = iota
	outcomeRetry
	outcomeFatal
)

func (e *Executor) logAttempt(req Request, attempt, status int, latency time.Duration, requestID, clientRequestID string, o outcome, err error) {
	statusField := "-"
	if status != 0 {
		statusField = fmt.Sprint(status)
	}
	if requestID == "" {
		requestID = "-"
	}

	entry := e.logger.WithFields(log.Fields{
		"method":            strings.ToUpper(req.Method),
		"path":              req.Path,
		"status":            statusField,
		"latency":           latency.Round(100 * time.Microsecond).String(),
		"attempt":           attempt + 1,
		"request_id":        requestID,
		"client_request_id": clientRequestID,
	})
	if strings.EqualFold(req.Method, http.MethodGet) && len(req.Query) > 0 {
		entry = entry.WithField("filters", truncate(query.Encode(req.Query), maxFiltersPreview))
	}
	if err != nil {
		entry = entry.WithError(err)
	}

	switch o {
	case outcomeSuccess:
		entry.Info("Request completed")
	case outcomeRetry:
		entry.Warn("Request failed, retrying")
	default:
		entry.Error("Request failed")
	}
}

func responseRequestID(header http.Header) string {
	if id := header.Get("X-Request-Id"); id != "" {
		return id
	}
	return header.Get("Request-Id")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
