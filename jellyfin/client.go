// Package jellyfin implements the typed HTTP client for the remote media
// server: catalog lookups, playback-info negotiation, media segments and
// playstate reporting.
package jellyfin

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/jellysan-cli/jellysan/auth"
	"github.com/jellysan-cli/jellysan/constant"
	"github.com/jellysan-cli/jellysan/key"
	"github.com/jellysan-cli/jellysan/network"
	"github.com/spf13/viper"
)

// Client talks to one media server on behalf of one authenticated user.
type Client struct {
	baseURL  string
	token    string
	userID   string
	deviceID string
	http     *http.Client
}

// New builds a client from the global configuration and the keyring-stored
// access token. It fails when the server URL is unset or no token has been
// saved by a prior login.
func New() (*Client, error) {
	base := strings.TrimRight(viper.GetString(key.ServerURL), "/")
	if base == "" {
		return nil, fmt.Errorf("media server url is not configured (run \"%s login\")", constant.Jellysan)
	}

	token, err := auth.GetToken()
	if err != nil || token == "" {
		return nil, fmt.Errorf("no server access token found (run \"%s login\")", constant.Jellysan)
	}

	return &Client{
		baseURL:  base,
		token:    token,
		userID:   viper.GetString(key.ServerUserID),
		deviceID: viper.GetString(key.ServerDeviceID),
		http:     network.Client,
	}, nil
}

// NewWith builds a client with explicit parameters. Used by login before the
// token exists in the keyring, and by tests.
func NewWith(baseURL, token, userID, deviceID string) *Client {
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		token:    token,
		userID:   userID,
		deviceID: deviceID,
		http:     network.Client,
	}
}

// UserID returns the id of the authenticated user.
func (c *Client) UserID() string {
	return c.userID
}

// DeviceID returns the device identity reported to the server.
func (c *Client) DeviceID() string {
	return c.deviceID
}

// authHeader builds the server's composite authorization header.
func (c *Client) authHeader() string {
	return fmt.Sprintf(
		`MediaBrowser Client="%s", Device="%s", DeviceId="%s", Version="%s", Token="%s"`,
		constant.ClientName, constant.Jellysan, c.deviceID, constant.Version, c.token,
	)
}

// endpoint joins the base URL with a path and query values.
func (c *Client) endpoint(path string, query url.Values) string {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// getJSON performs an authenticated GET and decodes the JSON response body.
func (c *Client) getJSON(path string, query url.Values, target any) error {
	req, err := http.NewRequest(http.MethodGet, c.endpoint(path, query), nil)
	if err != nil {
		return err
	}
	c.decorate(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("server request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server returned status %d for %s", resp.StatusCode, path)
	}

	return json.NewDecoder(resp.Body).Decode(target)
}

// postJSON performs an authenticated POST with an optional JSON body and
// discards the response body. The playstate endpoints echo nothing.
func (c *Client) postJSON(path string, body any) error {
	var payload io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		payload = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(http.MethodPost, c.endpoint(path, nil), payload)
	if err != nil {
		return err
	}
	c.decorate(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("server request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("server returned status %d for %s", resp.StatusCode, path)
	}

	// Drain so the connection can be reused.
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// postJSONResponse performs an authenticated POST and decodes the JSON
// response body into target.
func (c *Client) postJSONResponse(path string, body, target any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, c.endpoint(path, nil), bytes.NewReader(raw))
	if err != nil {
		return err
	}
	c.decorate(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("server request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server returned status %d for %s", resp.StatusCode, path)
	}

	return json.NewDecoder(resp.Body).Decode(target)
}

func (c *Client) decorate(req *http.Request) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", constant.UserAgent)
	req.Header.Set("Authorization", c.authHeader())
}

// streamURL builds an authenticated direct-play URL for a media source.
func (c *Client) streamURL(itemID, sourceID, container string) string {
	q := url.Values{}
	q.Set("MediaSourceId", sourceID)
	q.Set("Static", "true")
	q.Set("api_key", c.token)
	if container != "" {
		return c.endpoint(fmt.Sprintf("/Videos/%s/stream.%s", itemID, container), q)
	}
	return c.endpoint(fmt.Sprintf("/Videos/%s/stream", itemID), q)
}

// ImageURL builds the authenticated primary image URL for an item. Photos
// play this asset directly, without stream negotiation.
func (c *Client) ImageURL(itemID string) string {
	q := url.Values{}
	q.Set("api_key", c.token)
	return c.endpoint(fmt.Sprintf("/Items/%s/Images/Primary", itemID), q)
}

// absolute resolves a server-relative path (e.g. a transcode or subtitle
// delivery URL) against the base URL.
func (c *Client) absolute(path string) string {
	if path == "" || strings.Contains(path, "://") {
		return path
	}
	return c.baseURL + "/" + strings.TrimLeft(path, "/")
}
