package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/ncobase/shopauth/net/cookie"
	"github.com/ncobase/shopauth/structs"
)

// APIError is a non-2xx reply from the API.
type APIError struct {
	Status      int
	Message     string            `json:"error"`
	FieldErrors map[string]string `json:"errors"`
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %d %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api: %d", e.Status)
}

// Client talks to the authentication API. Cookies carry the session, so a
// single Client behaves like one browser.
type Client struct {
	baseURL string
	http    *http.Client
	session *Session
	token   string
}

// New creates a Client for the API at baseURL.
func New(baseURL string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Jar: jar, Timeout: 15 * time.Second},
		session: NewSession(),
	}, nil
}

// Session exposes the observable session cache.
func (c *Client) Session() *Session {
	return c.session
}

// SetToken switches to header transport, used after the social callback
// hands the token over in the URL.
func (c *Client) SetToken(token string) {
	c.token = token
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	_, err = c.send(req, out)
	return err
}

// send performs the request and decodes the body. The response is returned
// with its body consumed so callers can still inspect headers and cookies.
func (c *Client) send(req *http.Request, out any) (*http.Response, error) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		apiErr := &APIError{Status: res.StatusCode}
		_ = json.NewDecoder(res.Body).Decode(apiErr)
		return res, apiErr
	}
	if out != nil {
		return res, json.NewDecoder(res.Body).Decode(out)
	}
	return res, nil
}

// Register creates an account. The request goes out as a multipart form so
// an optional profile image can ride along.
func (c *Client) Register(ctx context.Context, body *structs.RegisterBody) (*structs.RegisterResponse, error) {
	return c.register(ctx, body, "", nil)
}

// RegisterWithImage creates an account with a profile image.
func (c *Client) RegisterWithImage(ctx context.Context, body *structs.RegisterBody, filename string, image io.Reader) (*structs.RegisterResponse, error) {
	return c.register(ctx, body, filename, image)
}

func (c *Client) register(ctx context.Context, body *structs.RegisterBody, filename string, image io.Reader) (*structs.RegisterResponse, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fields := map[string]string{
		"name":                  body.Name,
		"email":                 body.Email,
		"password":              body.Password,
		"password_confirmation": body.PasswordConfirmation,
	}
	for field, value := range fields {
		if err := mw.WriteField(field, value); err != nil {
			return nil, err
		}
	}
	if image != nil {
		fw, err := mw.CreateFormFile("image", filepath.Base(filename))
		if err != nil {
			return nil, err
		}
		if _, err := io.Copy(fw, image); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/register", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var out structs.RegisterResponse
	if _, err := c.send(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login signs in and primes the session cache from the response.
func (c *Client) Login(ctx context.Context, email, password string) error {
	var out struct {
		User *structs.UserResponse `json:"user"`
	}
	err := c.do(ctx, http.MethodPost, "/api/login", &structs.LoginBody{Email: email, Password: password}, &out)
	if err != nil {
		return err
	}
	c.session.Set(out.User)
	return nil
}

// Me fetches the signed-in profile and refreshes the cache.
func (c *Client) Me(ctx context.Context) (*structs.UserResponse, error) {
	var view structs.UserResponse
	if err := c.do(ctx, http.MethodGet, "/api/me", nil, &view); err != nil {
		c.session.Clear()
		return nil, err
	}
	c.session.Set(&view)
	return &view, nil
}

// CheckMe resolves the session state without failing: it reports whether a
// user is signed in and always marks the session as checked.
func (c *Client) CheckMe(ctx context.Context) bool {
	_, err := c.Me(ctx)
	return err == nil
}

// Logout revokes the session server-side and clears the cache.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/api/logout", nil, nil)
	c.token = ""
	c.session.Clear()
	return err
}

// Refresh rotates the session token and re-primes the cache. The jar picks
// up the refreshed cookie on its own; a client on header transport adopts
// the rotated token from the response so it never replays the revoked one.
func (c *Client) Refresh(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/refresh", bytes.NewReader(nil))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	var out struct {
		User *structs.UserResponse `json:"user"`
	}
	res, err := c.send(req, &out)
	if err != nil {
		return err
	}

	if c.token != "" {
		for _, ck := range res.Cookies() {
			if ck.Name == cookie.TokenName && ck.Value != "" {
				c.token = ck.Value
			}
		}
	}
	c.session.Set(out.User)
	return nil
}

// SocialRedirectURL asks the API for the provider consent URL the browser
// should navigate to.
func (c *Client) SocialRedirectURL(ctx context.Context, provider, next string) (string, error) {
	path := "/api/auth/" + url.PathEscape(provider) + "/redirect"
	if next != "" {
		path += "?next=" + url.QueryEscape(next)
	}
	var out struct {
		URL string `json:"url"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return "", err
	}
	return out.URL, nil
}

// HandleSocialCallback consumes the query the storefront receives on its
// social-callback route: an error aborts, a token signs the session in.
func (c *Client) HandleSocialCallback(ctx context.Context, query url.Values) error {
	if msg := query.Get("error"); msg != "" {
		c.session.Clear()
		return &APIError{Status: http.StatusUnauthorized, Message: msg}
	}
	token := query.Get("token")
	if token == "" {
		c.session.Clear()
		return &APIError{Status: http.StatusBadRequest, Message: "missing token"}
	}

	c.SetToken(token)
	_, err := c.Me(ctx)
	return err
}

// ExchangeSocialToken trades a provider access token for a session.
func (c *Client) ExchangeSocialToken(ctx context.Context, provider, accessToken string) (*structs.TokenResponse, error) {
	var out structs.TokenResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/"+url.PathEscape(provider)+"/token",
		&structs.SocialTokenBody{AccessToken: accessToken}, &out)
	if err != nil {
		return nil, err
	}
	c.SetToken(out.AccessToken)
	c.session.Set(out.User)
	return &out, nil
}
