package pushgw

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

// =============================================================================
// Client: outbound push gateway
// Token management plus a generic JSON request helper. The gateway relays
// messages to the user's device (SMS, mobile push, mail) keyed by user id.
// =============================================================================

// Client push gateway client
type Client struct {
	baseURL     string
	appID       string
	appSecret   string
	tokenCache  string
	tokenExpire time.Time
	mu          sync.RWMutex
	httpClient  *http.Client
}

// NewClient creates a gateway client. A zero timeout means 10s.
func NewClient(baseURL, appID, appSecret string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		appID:     appID,
		appSecret: appSecret,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// baseResponse envelope shared by every gateway endpoint
type baseResponse struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

// AccessToken returns the cached app token, refreshing it 60s before expiry.
func (c *Client) AccessToken(ctx context.Context) (string, error) {
	c.mu.RLock()
	if c.tokenCache != "" && time.Now().Before(c.tokenExpire) {
		token := c.tokenCache
		c.mu.RUnlock()
		return token, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	// another goroutine may have refreshed it meanwhile
	if c.tokenCache != "" && time.Now().Before(c.tokenExpire) {
		return c.tokenCache, nil
	}

	bodyBytes, _ := json.Marshal(map[string]string{
		"app_id":     c.appID,
		"app_secret": c.appSecret,
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/token", bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request token: %w", err)
	}
	defer resp.Body.Close()

	var result struct {
		baseResponse
		AccessToken string `json:"access_token"`
		Expire      int    `json:"expire"` // seconds
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	if result.Code != 0 {
		return "", fmt.Errorf("gateway token error[%d]: %s", result.Code, result.Msg)
	}

	ttl := time.Duration(result.Expire-60) * time.Second
	if ttl <= 0 {
		ttl = time.Duration(result.Expire) * time.Second
	}
	c.tokenCache = result.AccessToken
	c.tokenExpire = time.Now().Add(ttl)

	return result.AccessToken, nil
}

// doRequest sends body as JSON with the bearer token and decodes into result.
func (c *Client) doRequest(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	token, err := c.AccessToken(ctx)
	if err != nil {
		return fmt.Errorf("get access token: %w", err)
	}

	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("gateway http %d (path=%s)", resp.StatusCode, path)
	}

	var base baseResponse
	if err := json.Unmarshal(respBody, &base); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if base.Code != 0 {
		return fmt.Errorf("gateway error[%d]: %s (path=%s)", base.Code, base.Msg, path)
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decode result: %w", err)
		}
	}
	return nil
}
