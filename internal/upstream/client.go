// Package upstream implements the UpstreamClient domain interface against
// the two supported map providers (C7, §6.4), modeled on the teacher's
// infrastructure/mapbox client shape: one net/http.Client, a logger, and
// url-templated GET calls decoded into a normalized response.
package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/location-microservice/internal/config"
	"go.uber.org/zap"
)

const userAgent = "location-microservice-spider/1.0"

// newHTTPClient builds the shared transport. When common.proxy is enabled
// and common.proxy_url is set, every request goes through that one fixed
// proxy URL; no proxy pool is queried and the proxy does not change between
// requests.
func newHTTPClient(cfg *config.CommonConfig) (*http.Client, error) {
	client := &http.Client{Timeout: 15 * time.Second}
	if !cfg.Proxy || cfg.ProxyURL == "" {
		return client, nil
	}
	proxyURL, err := url.Parse(cfg.ProxyURL)
	if err != nil {
		return nil, fmt.Errorf("invalid proxy_url: %w", err)
	}
	client.Transport = &http.Transport{Proxy: http.ProxyURL(proxyURL)}
	return client, nil
}

// doGet issues one GET and decodes the JSON body into out. Every call is
// tagged with a request id so a single upstream call can be traced across
// the transport-failure and decode-failure log lines it might emit,
// mirroring the teacher's gateway heartbeat correlation id.
func doGet(ctx context.Context, client *http.Client, logger *zap.Logger, rawURL string, out interface{}) error {
	requestID := uuid.New().String()
	logger = logger.With(zap.String("request_id", requestID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		logger.Warn("upstream transport failure", zap.Error(err))
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		logger.Warn("upstream response decode failure", zap.Error(err))
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
