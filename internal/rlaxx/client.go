// SPDX-License-Identifier: MIT

// Package rlaxx is a client for the Rlaxx live-TV device API.
package rlaxx

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	xglog "github.com/tvsync/rlaxx-sync/internal/log"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL = "https://rlaxx.zeasn.tv/livetv/api/device/browser/v1"
	DefaultTimeout = 20 * time.Second

	// MaxChannelsPerEPGRequest is the upstream limit on channel ids per EPG call.
	MaxChannelsPerEPGRequest = 30

	maxResponseBytes = 32 << 20
)

// Upstream bot protection rejects requests that do not look like the web player.
var browserHeaders = map[string]string{
	"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36",
	"Accept":          "application/json, text/plain, */*",
	"Accept-Language": "en-US,en;q=0.9",
	"Origin":          "https://watch.whaletvplus.com",
	"Referer":         "https://watch.whaletvplus.com/",
	"Sec-Fetch-Dest":  "empty",
	"Sec-Fetch-Mode":  "cors",
	"Sec-Fetch-Site":  "cross-site",
}

// Options configures a Client.
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client  // optional, overrides Timeout
	Limiter    *rate.Limiter // optional pacing between upstream calls
	LoginDelay time.Duration // pause before the login call
}

// Client talks to the Rlaxx API. The session token is never stored on the
// client; every call takes it explicitly.
type Client struct {
	base       string
	http       *http.Client
	limiter    *rate.Limiter
	loginDelay time.Duration
}

// New returns a client for the given options.
func New(opts Options) *Client {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}
	return &Client{
		base:       base,
		http:       hc,
		limiter:    opts.Limiter,
		loginDelay: opts.LoginDelay,
	}
}

// BaseURL returns the API root the client targets.
func (c *Client) BaseURL() string { return c.base }

// Login registers the device and returns a session.
func (c *Client) Login(ctx context.Context, id DeviceIdentity) (Session, error) {
	const op = "login"
	if c.loginDelay > 0 {
		timer := time.NewTimer(c.loginDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return Session{}, wrapError(ErrAuthentication, op, ctx.Err(), 0, nil)
		case <-timer.C:
		}
	}

	payload, err := json.Marshal(id)
	if err != nil {
		return Session{}, &APIError{Kind: ErrAuthentication, Cause: ErrBadResponse, Operation: op, Err: err}
	}

	var resp struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	if err := c.doJSON(ctx, ErrAuthentication, op, http.MethodPost, "/device/login", nil, nil, payload, &resp); err != nil {
		return Session{}, err
	}

	token := strings.TrimSpace(resp.Data.Token)
	if token == "" {
		return Session{}, &APIError{Kind: ErrAuthentication, Cause: ErrMissingToken, Operation: op}
	}
	xglog.FromContext(ctx).Debug().
		Str(xglog.FieldEvent, "auth.token").
		Str(xglog.FieldRegion, id.Region).
		Msg("session token acquired")
	return Session{Token: token}, nil
}

// Channels returns the channel catalog in upstream order.
func (c *Client) Channels(ctx context.Context, s Session) ([]Channel, error) {
	const op = "channels"
	if !s.Valid() {
		return nil, &APIError{Kind: ErrAuthentication, Cause: ErrMissingToken, Operation: op}
	}

	var resp struct {
		Data []channelRecord `json:"data"`
	}
	if err := c.doJSON(ctx, ErrFetch, op, http.MethodGet, "/channels", nil, tokenHeader(s), nil, &resp); err != nil {
		return nil, err
	}

	out := make([]Channel, 0, len(resp.Data))
	for i, rec := range resp.Data {
		ch, err := rec.toChannel(i)
		if err != nil {
			return nil, &APIError{Kind: ErrFetch, Cause: ErrBadResponse, Operation: op, Err: err}
		}
		out = append(out, ch)
	}
	return out, nil
}

// EPG returns the programmes for up to MaxChannelsPerEPGRequest channels in
// the given window, in upstream order.
func (c *Client) EPG(ctx context.Context, s Session, channelIDs []string, w TimeWindow) ([]Programme, error) {
	const op = "epg"
	if !s.Valid() {
		return nil, &APIError{Kind: ErrAuthentication, Cause: ErrMissingToken, Operation: op}
	}
	if len(channelIDs) > MaxChannelsPerEPGRequest {
		return nil, fmt.Errorf("rlaxx: %s: %d channel ids exceeds limit of %d", op, len(channelIDs), MaxChannelsPerEPGRequest)
	}

	q := url.Values{}
	q.Set("channelIds", strings.Join(channelIDs, ","))
	q.Set("startTime", strconv.FormatInt(w.Start, 10))
	q.Set("endTime", strconv.FormatInt(w.End, 10))

	var resp struct {
		Data []programmeRecord `json:"data"`
	}
	if err := c.doJSON(ctx, ErrFetch, op, http.MethodGet, "/epg", q, tokenHeader(s), nil, &resp); err != nil {
		return nil, err
	}

	out := make([]Programme, 0, len(resp.Data))
	for i, rec := range resp.Data {
		p, err := rec.toProgramme(i)
		if err != nil {
			return nil, &APIError{Kind: ErrFetch, Cause: ErrBadResponse, Operation: op, Err: err}
		}
		out = append(out, p)
	}
	return out, nil
}

func tokenHeader(s Session) map[string]string {
	return map[string]string{"token": s.Token}
}

// doJSON performs a single request attempt and decodes the JSON body into out.
func (c *Client) doJSON(ctx context.Context, kind error, op, method, path string, query url.Values, headers map[string]string, body []byte, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return wrapError(kind, op, err, 0, nil)
		}
	}

	u := c.base + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, rd)
	if err != nil {
		return &APIError{Kind: kind, Cause: ErrUpstreamUnavailable, Operation: op, Err: err}
	}
	for k, v := range browserHeaders {
		req.Header.Set(k, v)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	logger := xglog.FromContext(ctx)
	start := time.Now()
	res, err := c.http.Do(req)
	if err != nil {
		return wrapError(kind, op, err, 0, nil)
	}
	defer func() {
		if cerr := res.Body.Close(); cerr != nil {
			logger.Debug().Err(cerr).Str(xglog.FieldOperation, op).Msg("close response body")
		}
	}()

	logger.Debug().
		Str(xglog.FieldEvent, "upstream.response").
		Str(xglog.FieldOperation, op).
		Int(xglog.FieldStatus, res.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("upstream call finished")

	if res.StatusCode < 200 || res.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBody))
		return wrapError(kind, op, nil, res.StatusCode, snippet)
	}

	if err := json.NewDecoder(io.LimitReader(res.Body, maxResponseBytes)).Decode(out); err != nil {
		var netErr net.Error
		if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
			return wrapError(kind, op, err, 0, nil)
		}
		return &APIError{Kind: kind, Cause: ErrBadResponse, Operation: op, Status: res.StatusCode, Err: err}
	}
	return nil
}
