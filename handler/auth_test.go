package handler_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/mattn/go-sqlite3"

	"github.com/ncobase/shopauth/config"
	"github.com/ncobase/shopauth/data/repository"
	"github.com/ncobase/shopauth/emailverify"
	"github.com/ncobase/shopauth/net/cookie"
	"github.com/ncobase/shopauth/router"
	securityjwt "github.com/ncobase/shopauth/security/jwt"
	"github.com/ncobase/shopauth/security/oauth"
	"github.com/ncobase/shopauth/service"
	"github.com/ncobase/shopauth/storage"
	"github.com/ncobase/shopauth/structs"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// allowVerifier accepts every address.
type allowVerifier struct{}

func (allowVerifier) Verify(context.Context, string) emailverify.Result {
	return emailverify.Result{Valid: true}
}

// fakeSocial serves a canned profile for every provider call.
type fakeSocial struct {
	profile *oauth.Profile
}

func (f *fakeSocial) AuthorizationURL(provider oauth.Provider, state string) (string, error) {
	return "https://provider.example/auth?state=" + state, nil
}

func (f *fakeSocial) ExchangeCode(context.Context, oauth.Provider, string) (*oauth.TokenResponse, error) {
	return &oauth.TokenResponse{AccessToken: "provider-token"}, nil
}

func (f *fakeSocial) GetUserProfile(context.Context, oauth.Provider, string) (*oauth.Profile, error) {
	if f.profile == nil {
		return nil, errors.New("no profile")
	}
	return f.profile, nil
}

type testApp struct {
	engine *gin.Engine
	svc    *service.Service
	states *oauth.StateManager
}

// pngBytes is the PNG signature, enough for content sniffing.
var pngBytes = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

// failingRevocation answers lookups from the embedded store but cannot
// record new revocations.
type failingRevocation struct {
	*securityjwt.MemoryRevocationStore
}

func (failingRevocation) Revoke(context.Context, string, time.Time) error {
	return errors.New("revocation store down")
}

func newTestApp(t *testing.T, social service.SocialClient) *testApp {
	return newTestAppDeps(t, social, nil)
}

func newTestAppDeps(t *testing.T, social service.SocialClient, mutate func(*service.Deps)) *testApp {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	repo, err := repository.NewUserRepository(db, "sqlite3")
	if err != nil {
		t.Fatal(err)
	}

	if social == nil {
		social = &fakeSocial{}
	}
	states := oauth.NewStateManager("state-secret")
	deps := service.Deps{
		UserRepo:     repo,
		TokenManager: securityjwt.NewTokenManager("test-secret", time.Hour),
		Revocation:   securityjwt.NewMemoryRevocationStore(),
		Verifier:     allowVerifier{},
		Social:       social,
		States:       states,
		Storage:      storage.NewFileSystem(t.TempDir()),
		IDSecret:     "id-secret",
		FrontendURL:  "http://localhost:4200",
		ShopName:     "Shop",
	}
	if mutate != nil {
		mutate(&deps)
	}
	svc := service.New(deps)

	cfg := &config.Config{
		AppName:  "Shop",
		RunMode:  "debug",
		Frontend: &config.Frontend{BaseURL: "http://localhost:4200"},
	}
	return &testApp{engine: router.New(cfg, svc), svc: svc, states: states}
}

func (a *testApp) do(t *testing.T, method, path string, body any, mutate func(*http.Request)) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if mutate != nil {
		mutate(req)
	}
	rec := httptest.NewRecorder()
	a.engine.ServeHTTP(rec, req)
	return rec
}

func registerPayload() map[string]string {
	return map[string]string{
		"name":                  "Ann",
		"email":                 "ann@example.com",
		"password":              "Abc123!@",
		"password_confirmation": "Abc123!@",
	}
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == cookie.TokenName {
			return c
		}
	}
	t.Fatalf("no %q cookie in response", cookie.TokenName)
	return nil
}

func (a *testApp) registerAndLogin(t *testing.T) *http.Cookie {
	t.Helper()
	if rec := a.do(t, http.MethodPost, "/api/register", registerPayload(), nil); rec.Code != http.StatusCreated {
		t.Fatalf("register status = %d, body %s", rec.Code, rec.Body)
	}
	rec := a.do(t, http.MethodPost, "/api/login", map[string]string{
		"email": "ann@example.com", "password": "Abc123!@",
	}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d, body %s", rec.Code, rec.Body)
	}
	return sessionCookie(t, rec)
}

func TestRegisterCreated(t *testing.T) {
	app := newTestApp(t, nil)

	rec := app.do(t, http.MethodPost, "/api/register", registerPayload(), nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}

	var body struct {
		Message string `json:"message"`
		User    struct {
			Email string `json:"email"`
		} `json:"user"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Message == "" || body.User.Email != "ann@example.com" {
		t.Errorf("body = %+v", body)
	}
}

func TestRegisterValidationErrors(t *testing.T) {
	app := newTestApp(t, nil)

	payload := registerPayload()
	payload["email"] = "not-an-email"
	payload["password"] = "weak"
	payload["password_confirmation"] = "weak"

	rec := app.do(t, http.MethodPost, "/api/register", payload, nil)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}

	var body struct {
		Errors map[string]string `json:"errors"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Errors["email"] == "" || body.Errors["password"] == "" {
		t.Errorf("errors = %v", body.Errors)
	}
}

func TestRegisterPasswordConfirmationMismatch(t *testing.T) {
	app := newTestApp(t, nil)

	payload := registerPayload()
	payload["password_confirmation"] = "Different1!"
	rec := app.do(t, http.MethodPost, "/api/register", payload, nil)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	app := newTestApp(t, nil)

	if rec := app.do(t, http.MethodPost, "/api/register", registerPayload(), nil); rec.Code != http.StatusCreated {
		t.Fatal(rec.Body)
	}
	rec := app.do(t, http.MethodPost, "/api/register", registerPayload(), nil)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	if !strings.Contains(rec.Body.String(), "already been taken") {
		t.Errorf("body = %s", rec.Body)
	}
}

func TestLoginSetsSessionCookie(t *testing.T) {
	app := newTestApp(t, nil)
	c := app.registerAndLogin(t)

	if !c.HttpOnly {
		t.Error("cookie must be HttpOnly")
	}
	if c.SameSite != http.SameSiteStrictMode {
		t.Errorf("SameSite = %v, want Strict", c.SameSite)
	}
	if c.Secure {
		t.Error("Secure must be off outside production")
	}
	if c.MaxAge != 3600 {
		t.Errorf("MaxAge = %d, want 3600", c.MaxAge)
	}
	if c.Path != "/" {
		t.Errorf("Path = %q", c.Path)
	}
}

func TestLoginResponseBody(t *testing.T) {
	app := newTestApp(t, nil)
	if rec := app.do(t, http.MethodPost, "/api/register", registerPayload(), nil); rec.Code != http.StatusCreated {
		t.Fatal(rec.Body)
	}

	rec := app.do(t, http.MethodPost, "/api/login", map[string]string{
		"email": "ann@example.com", "password": "Abc123!@",
	}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}

	var body struct {
		User    *structs.UserResponse `json:"user"`
		Message string                `json:"message"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Message != "Login successful" {
		t.Errorf("message = %q", body.Message)
	}
	if body.User == nil || body.User.Email != "ann@example.com" || body.User.ID == "" {
		t.Errorf("user = %+v", body.User)
	}
}

func TestRegisterMultipartWithImage(t *testing.T) {
	app := newTestApp(t, nil)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for field, value := range registerPayload() {
		mw.WriteField(field, value)
	}
	fw, err := mw.CreateFormFile("image", "avatar.png")
	if err != nil {
		t.Fatal(err)
	}
	fw.Write(pngBytes)
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/register", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	app.engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}

	// The created account carries the stored image URL.
	login := app.do(t, http.MethodPost, "/api/login", map[string]string{
		"email": "ann@example.com", "password": "Abc123!@",
	}, nil)
	var body struct {
		User *structs.UserResponse `json:"user"`
	}
	if err := json.Unmarshal(login.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.User == nil || body.User.Image == "" {
		t.Errorf("user = %+v", body.User)
	}
}

func TestRegisterMultipartRejectsNonImage(t *testing.T) {
	app := newTestApp(t, nil)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for field, value := range registerPayload() {
		mw.WriteField(field, value)
	}
	fw, _ := mw.CreateFormFile("image", "notes.txt")
	fw.Write([]byte("text"))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/register", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	app.engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var body struct {
		Errors map[string]string `json:"errors"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Errors["image"] == "" {
		t.Errorf("errors = %v", body.Errors)
	}
}

func TestRegisterRejectsMislabeledImage(t *testing.T) {
	app := newTestApp(t, nil)

	// Text bytes behind an image extension must not pass as an image.
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for field, value := range registerPayload() {
		mw.WriteField(field, value)
	}
	fw, _ := mw.CreateFormFile("image", "avatar.png")
	fw.Write([]byte("definitely not pixels"))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/register", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	app.engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var body struct {
		Errors map[string]string `json:"errors"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Errors["image"] == "" {
		t.Errorf("errors = %v", body.Errors)
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	app := newTestApp(t, nil)
	if rec := app.do(t, http.MethodPost, "/api/register", registerPayload(), nil); rec.Code != http.StatusCreated {
		t.Fatal(rec.Body)
	}

	for _, payload := range []map[string]string{
		{"email": "ann@example.com", "password": "wrong-pass"},
		{"email": "ghost@example.com", "password": "Abc123!@"},
	} {
		rec := app.do(t, http.MethodPost, "/api/login", payload, nil)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d for %v", rec.Code, payload)
		}
		var body map[string]string
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatal(err)
		}
		if body["error"] != "Invalid credentials" {
			t.Errorf("body = %v", body)
		}
	}
}

func TestMeWithCookie(t *testing.T) {
	app := newTestApp(t, nil)
	c := app.registerAndLogin(t)

	rec := app.do(t, http.MethodGet, "/api/me", nil, func(r *http.Request) {
		r.AddCookie(c)
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}

	var view structs.UserResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatal(err)
	}
	if view.Email != "ann@example.com" || view.Role != structs.RoleUser {
		t.Errorf("view = %+v", view)
	}
	if view.ID == "" {
		t.Error("view must carry an obfuscated id")
	}
}

func TestMeUnauthenticated(t *testing.T) {
	app := newTestApp(t, nil)
	rec := app.do(t, http.MethodGet, "/api/me", nil, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestLogoutClearsCookieAndRevokes(t *testing.T) {
	app := newTestApp(t, nil)
	c := app.registerAndLogin(t)

	rec := app.do(t, http.MethodPost, "/api/logout", nil, func(r *http.Request) {
		r.AddCookie(c)
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}

	cleared := sessionCookie(t, rec)
	if cleared.Value != "" || cleared.MaxAge != -1 {
		t.Errorf("cleared cookie = %+v", cleared)
	}

	// The revoked token no longer authenticates.
	rec = app.do(t, http.MethodGet, "/api/me", nil, func(r *http.Request) {
		r.AddCookie(c)
	})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status after logout = %d, want 401", rec.Code)
	}
}

func TestLogoutClearsCookieWhenRevocationFails(t *testing.T) {
	app := newTestAppDeps(t, nil, func(deps *service.Deps) {
		deps.Revocation = failingRevocation{securityjwt.NewMemoryRevocationStore()}
	})
	c := app.registerAndLogin(t)

	rec := app.do(t, http.MethodPost, "/api/logout", nil, func(r *http.Request) {
		r.AddCookie(c)
	})
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}

	// Even a failed revocation must not leave the token in the browser.
	cleared := sessionCookie(t, rec)
	if cleared.Value != "" || cleared.MaxAge != -1 {
		t.Errorf("cleared cookie = %+v", cleared)
	}
}

func TestRefreshRotatesCookie(t *testing.T) {
	app := newTestApp(t, nil)
	c := app.registerAndLogin(t)

	rec := app.do(t, http.MethodPost, "/api/refresh", nil, func(r *http.Request) {
		r.AddCookie(c)
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}

	fresh := sessionCookie(t, rec)
	if fresh.Value == "" || fresh.Value == c.Value {
		t.Error("refresh must install a new token")
	}

	// Old token is out, new token works.
	if rec := app.do(t, http.MethodGet, "/api/me", nil, func(r *http.Request) { r.AddCookie(c) }); rec.Code != http.StatusUnauthorized {
		t.Errorf("old token status = %d, want 401", rec.Code)
	}
	if rec := app.do(t, http.MethodGet, "/api/me", nil, func(r *http.Request) { r.AddCookie(fresh) }); rec.Code != http.StatusOK {
		t.Errorf("new token status = %d, want 200", rec.Code)
	}
}

func TestAdminDashboardGate(t *testing.T) {
	app := newTestApp(t, nil)
	c := app.registerAndLogin(t)

	rec := app.do(t, http.MethodGet, "/api/admin/dashboard", nil, func(r *http.Request) {
		r.AddCookie(c)
	})
	if rec.Code != http.StatusForbidden {
		t.Errorf("customer status = %d, want 403", rec.Code)
	}
}

func TestUploadImage(t *testing.T) {
	app := newTestApp(t, nil)
	c := app.registerAndLogin(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("image", "avatar.png")
	if err != nil {
		t.Fatal(err)
	}
	fw.Write(pngBytes)
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.AddCookie(c)
	rec := httptest.NewRecorder()
	app.engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["url"] == "" {
		t.Errorf("body = %v", body)
	}

	// The profile now carries the image.
	rec2 := app.do(t, http.MethodGet, "/api/me", nil, func(r *http.Request) { r.AddCookie(c) })
	var view structs.UserResponse
	if err := json.Unmarshal(rec2.Body.Bytes(), &view); err != nil {
		t.Fatal(err)
	}
	if view.Image == "" {
		t.Error("profile image missing after upload")
	}
}

func TestUploadRejectsNonImage(t *testing.T) {
	app := newTestApp(t, nil)
	c := app.registerAndLogin(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, _ := mw.CreateFormFile("image", "notes.txt")
	fw.Write([]byte("text"))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.AddCookie(c)
	rec := httptest.NewRecorder()
	app.engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422, body %s", rec.Code, rec.Body)
	}
}

func TestHealthz(t *testing.T) {
	app := newTestApp(t, nil)
	rec := app.do(t, http.MethodGet, "/healthz", nil, nil)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
}
