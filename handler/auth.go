package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ncobase/shopauth/middleware"
	"github.com/ncobase/shopauth/net/cookie"
	"github.com/ncobase/shopauth/net/resp"
	"github.com/ncobase/shopauth/service"
	"github.com/ncobase/shopauth/structs"
	"github.com/ncobase/shopauth/validator"
)

// Register handles account creation from a multipart form (JSON is accepted
// too). Field violations come back as a 422 with per-field messages; a taken
// address is reported on the email field. An optional profile image is
// uploaded before the account is created, so the record carries its URL.
func (h *Handler) Register(c *gin.Context) {
	var body structs.RegisterBody
	if err := c.ShouldBind(&body); err != nil {
		resp.Fail(c.Writer, resp.BadRequest("Invalid request body."))
		return
	}

	fieldErrors := validator.ValidateStruct(&body)
	if _, seen := fieldErrors["password"]; !seen {
		if msg := validator.CheckPassword(body.Password); msg != "" {
			fieldErrors["password"] = msg
		}
	}
	if len(fieldErrors) > 0 {
		resp.Fail(c.Writer, resp.Validation(fieldErrors))
		return
	}

	// Absent on JSON requests and on forms without a file.
	image, err := c.FormFile("image")
	if err != nil {
		image = nil
	}

	user, err := h.svc.Register(c.Request.Context(), &body, image)
	if err != nil {
		var rejected *service.EmailRejectedError
		switch {
		case errors.As(err, &rejected):
			resp.Fail(c.Writer, resp.Validation(map[string]string{"email": rejected.Reason}))
		case errors.Is(err, service.ErrEmailTaken):
			resp.Fail(c.Writer, resp.Validation(map[string]string{"email": "The email has already been taken."}))
		case errors.Is(err, service.ErrImageType):
			resp.Fail(c.Writer, resp.Validation(map[string]string{"image": "The image must be a file of type: jpg, jpeg, png, gif, webp."}))
		case errors.Is(err, service.ErrImageTooLarge):
			resp.Fail(c.Writer, resp.Validation(map[string]string{"image": "The image must not be greater than 2048 kilobytes."}))
		default:
			resp.Fail(c.Writer, resp.InternalServer("Registration failed."))
		}
		return
	}

	var out structs.RegisterResponse
	out.Message = "Registration successful. Please login with your credentials."
	out.User.Email = user.Email
	resp.WithStatusCode(c.Writer, http.StatusCreated, out)
}

// Login verifies credentials and installs the session cookie.
func (h *Handler) Login(c *gin.Context) {
	var body structs.LoginBody
	if err := c.ShouldBindJSON(&body); err != nil {
		resp.Fail(c.Writer, resp.BadRequest("Invalid request body."))
		return
	}
	if fieldErrors := validator.ValidateStruct(&body); len(fieldErrors) > 0 {
		resp.Fail(c.Writer, resp.Validation(fieldErrors))
		return
	}

	token, user, err := h.svc.Login(c.Request.Context(), &body)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			resp.Fail(c.Writer, resp.UnAuthorized("Invalid credentials"))
			return
		}
		resp.Fail(c.Writer, resp.InternalServer("Login failed."))
		return
	}

	view, err := h.svc.UserView(user)
	if err != nil {
		resp.Fail(c.Writer, resp.InternalServer("Login failed."))
		return
	}

	cookie.SetToken(c.Writer, token, h.svc.TokenTTL(), h.secureCookies)
	resp.Success(c.Writer, gin.H{"user": view, "message": "Login successful"})
}

// Me returns the authenticated account. The auth middleware normally
// resolves it; a raw bearer token is honored as a fallback so the endpoint
// also works without the cookie bridge.
func (h *Handler) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		token := middleware.BearerToken(c)
		if token == "" {
			resp.Fail(c.Writer, resp.UnAuthorized("Unauthenticated."))
			return
		}
		var err error
		user, _, err = h.svc.UserFromToken(c.Request.Context(), token)
		if err != nil {
			resp.Fail(c.Writer, resp.UnAuthorized("Unauthenticated."))
			return
		}
	}

	view, err := h.svc.UserView(user)
	if err != nil {
		resp.Fail(c.Writer, resp.InternalServer("Failed to load profile."))
		return
	}
	resp.Success(c.Writer, view)
}

// Logout revokes the session and discards the cookie. The cookie is
// expired even when revocation fails, so the browser never keeps a token
// the server still honors.
func (h *Handler) Logout(c *gin.Context) {
	cookie.ClearToken(c.Writer, h.secureCookies)

	if token := middleware.BearerToken(c); token != "" {
		if err := h.svc.Logout(c.Request.Context(), token); err != nil {
			resp.Fail(c.Writer, resp.InternalServer("Logout failed."))
			return
		}
	}

	resp.Success(c.Writer, gin.H{"message": "Successfully logged out"})
}

// Refresh rotates the session token and reinstalls the cookie.
func (h *Handler) Refresh(c *gin.Context) {
	token := middleware.BearerToken(c)
	if token == "" {
		resp.Fail(c.Writer, resp.UnAuthorized("Unauthenticated."))
		return
	}

	newToken, user, err := h.svc.Refresh(c.Request.Context(), token)
	if err != nil {
		resp.Fail(c.Writer, resp.UnAuthorized("Unauthenticated."))
		return
	}

	view, err := h.svc.UserView(user)
	if err != nil {
		resp.Fail(c.Writer, resp.InternalServer("Refresh failed."))
		return
	}

	cookie.SetToken(c.Writer, newToken, h.svc.TokenTTL(), h.secureCookies)
	resp.Success(c.Writer, gin.H{"user": view, "message": "Login successful"})
}

// Upload stores a profile image for the authenticated account.
func (h *Handler) Upload(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		resp.Fail(c.Writer, resp.UnAuthorized("Unauthenticated."))
		return
	}

	header, err := c.FormFile("image")
	if err != nil {
		resp.Fail(c.Writer, resp.BadRequest("The image field is required."))
		return
	}

	url, err := h.svc.UploadImage(c.Request.Context(), user, header)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrImageType):
			resp.Fail(c.Writer, resp.Validation(map[string]string{"image": "The image must be a file of type: jpg, jpeg, png, gif, webp."}))
		case errors.Is(err, service.ErrStorageUnavailable):
			resp.Fail(c.Writer, resp.InternalServer("Uploads are not available."))
		default:
			resp.Fail(c.Writer, resp.InternalServer("Upload failed."))
		}
		return
	}

	resp.Success(c.Writer, gin.H{"url": url})
}

// AdminDashboard is the admin-gated landing endpoint.
func (h *Handler) AdminDashboard(c *gin.Context) {
	resp.Success(c.Writer, "Admin dashboard")
}

// Healthz reports liveness.
func (h *Handler) Healthz(c *gin.Context) {
	resp.Success(c.Writer, gin.H{"status": "ok"})
}
