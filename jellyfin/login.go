package jellyfin

import (
	"fmt"
	"net/http"
)

// Session is the result of a successful username/password authentication.
type Session struct {
	Token    string
	UserID   string
	UserName string
}

type authenticateRequest struct {
	Username string `json:"Username"`
	Pw       string `json:"Pw"`
}

type authenticateResponse struct {
	AccessToken string `json:"AccessToken"`
	User        struct {
		ID   string `json:"Id"`
		Name string `json:"Name"`
	} `json:"User"`
}

// Authenticate performs the username/password flow and returns the access
// token and user id for persistence. The client performing the call carries
// an empty token; the server accepts the authorization header without one
// for this endpoint.
func (c *Client) Authenticate(username, password string) (*Session, error) {
	if username == "" {
		return nil, fmt.Errorf("missing username")
	}

	var resp authenticateResponse
	if err := c.postJSONResponse("/Users/AuthenticateByName", authenticateRequest{
		Username: username,
		Pw:       password,
	}, &resp); err != nil {
		return nil, err
	}

	if resp.AccessToken == "" {
		return nil, fmt.Errorf("server returned no access token")
	}

	c.token = resp.AccessToken
	c.userID = resp.User.ID

	return &Session{
		Token:    resp.AccessToken,
		UserID:   resp.User.ID,
		UserName: resp.User.Name,
	}, nil
}

// Ping verifies the server is reachable and the token is accepted.
func (c *Client) Ping() error {
	req, err := http.NewRequest(http.MethodGet, c.endpoint("/System/Info", nil), nil)
	if err != nil {
		return err
	}
	c.decorate(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("server unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server returned status %d", resp.StatusCode)
	}
	return nil
}
