// Package apisvc is the client of the CodeGrow REST API.
package apisvc

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/codegrow/frontend/core"
	"github.com/codegrow/frontend/core/notify"
	"github.com/codegrow/frontend/core/session"
	metricsvc "github.com/codegrow/frontend/services/metrics"
)

const maxBodySize = 4 << 20

// Client calls the API on behalf of the injected session. A 401 on an authenticated
// call logs the session out; the error is still returned to the caller.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	sess    *session.Session
	logger  core.Logger
	pub     notify.Publisher
}

func NewClient(conf *core.Config, sess *session.Session, logger core.Logger, pub notify.Publisher) (*Client, error) {
	base := conf.API.BaseURL
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return nil, errors.Wrap(err, "parsing api base url")
	}
	if logger == nil {
		logger = core.NopLogger{}
	}
	if sess == nil {
		sess = session.New(nil, logger)
	}
	timeout := conf.API.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		sess:    sess,
		logger:  logger,
		pub:     pub,
	}, nil
}

// WithSession returns a client sharing c's transport that calls the API on behalf of sess
// and publishes its notifications to pub.
func (c *Client) WithSession(sess *session.Session, pub notify.Publisher) *Client {
	cc := *c
	cc.sess = sess
	cc.pub = pub
	return &cc
}

func (c *Client) Session() *session.Session {
	return c.sess
}

// get, post, put, patch & delete call the API with the session token.

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, c.sess.Token(), nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPost, path, c.sess.Token(), body, out)
}

func (c *Client) put(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPut, path, c.sess.Token(), body, out)
}

func (c *Client) patch(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPatch, path, c.sess.Token(), body, out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, c.sess.Token(), nil, nil)
}

// do sends the request and decodes a 2xx JSON body into out. out may be nil, or a *[]byte
// to receive the raw body.
func (c *Client) do(ctx context.Context, method, path, token string, body, out interface{}) error {
	ref, err := url.Parse(strings.TrimPrefix(path, "/"))
	if err != nil {
		return errors.Wrapf(err, "parsing path %q", path)
	}
	endpoint := c.baseURL.ResolveReference(ref)

	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "encoding request body")
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), reqBody)
	if err != nil {
		return errors.Wrap(err, "building request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metricsvc.ObserveUpstream(method, path, 0, time.Since(start))
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.logger.Warn("api request failed", err, map[string]interface{}{"method": method, "path": path})
		return networkError(err)
	}
	defer resp.Body.Close()
	metricsvc.ObserveUpstream(method, path, resp.StatusCode, time.Since(start))

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return networkError(errors.Wrap(err, "reading response"))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := responseError(resp.StatusCode, respBody)
		c.handleError(method, path, token, apiErr)
		return apiErr
	}

	switch dst := out.(type) {
	case nil:
		return nil
	case *[]byte:
		*dst = respBody
		return nil
	default:
		if len(bytes.TrimSpace(respBody)) == 0 {
			return nil
		}
		return errors.Wrapf(json.Unmarshal(respBody, out), "decoding %s %s", method, path)
	}
}

func (c *Client) handleError(method, path, token string, apiErr *Error) {
	extras := map[string]interface{}{"method": method, "path": path, "status": apiErr.Status}
	switch apiErr.Kind {
	case KindUnauthorized:
		// the session is only torn down when the rejected token is still the current one
		if token != "" && token == c.sess.Token() {
			c.logger.Info("session rejected by api, logging out", extras)
			if err := c.sess.Logout(); err != nil {
				c.logger.Error("logout after 401", err, extras)
			}
		}
	case KindServer:
		c.logger.Error("api server error", apiErr, extras)
	default:
		c.logger.Debug("api request rejected", apiErr, extras)
	}
}

// publish emits one "activity updated" notification.
func (c *Client) publish() {
	if c.pub == nil {
		return
	}
	metricsvc.RecordNotification()
	c.pub.Publish()
}
