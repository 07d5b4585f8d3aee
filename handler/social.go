package handler

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/ncobase/shopauth/logging/logger"
	"github.com/ncobase/shopauth/net/cookie"
	"github.com/ncobase/shopauth/net/resp"
	"github.com/ncobase/shopauth/structs"
	"github.com/ncobase/shopauth/validator"
)

// SocialRedirect hands the client the provider consent URL. The client
// navigates there itself, so the reply is JSON, not a redirect.
func (h *Handler) SocialRedirect(c *gin.Context) {
	provider := c.Param("provider")
	next := c.Query("next")

	authURL, err := h.svc.SocialRedirectURL(provider, next)
	if err != nil {
		logger.Errorf(c.Request.Context(), "social redirect via %s failed: %v", provider, err)
		resp.Fail(c.Writer, resp.InternalServer("Unable to connect with "+provider))
		return
	}
	resp.Success(c.Writer, gin.H{"url": authURL})
}

// SocialCallback lands the provider redirect: on success it installs the
// session cookie and forwards the token to the storefront; on failure it
// forwards the error instead. The browser arrives on a cross-site
// navigation, so the cookie uses the Lax mode.
func (h *Handler) SocialCallback(c *gin.Context) {
	provider := c.Param("provider")

	if errParam := c.Query("error"); errParam != "" {
		h.redirectWithError(c, errParam)
		return
	}

	token, err := h.svc.SocialCallback(c.Request.Context(), provider, c.Query("code"), c.Query("state"))
	if err != nil {
		logger.Warnf(c.Request.Context(), "social callback via %s failed: %v", provider, err)
		h.redirectWithError(c, "Authentication failed")
		return
	}

	cookie.SetTokenLax(c.Writer, token, h.svc.TokenTTL(), h.secureCookies)
	c.Redirect(http.StatusFound, h.socialCallbackURL+"?token="+url.QueryEscape(token))
}

func (h *Handler) redirectWithError(c *gin.Context, message string) {
	c.Redirect(http.StatusFound, h.socialCallbackURL+"?error="+url.QueryEscape(message))
}

// SocialToken trades a provider access token for a first-party session.
// Used by clients that run the provider flow themselves.
func (h *Handler) SocialToken(c *gin.Context) {
	provider := c.Param("provider")

	var body structs.SocialTokenBody
	if err := c.ShouldBindJSON(&body); err != nil {
		resp.Fail(c.Writer, resp.BadRequest("Invalid request body."))
		return
	}
	if fieldErrors := validator.ValidateStruct(&body); len(fieldErrors) > 0 {
		resp.Fail(c.Writer, resp.Validation(fieldErrors))
		return
	}

	out, err := h.svc.SocialTokenExchange(c.Request.Context(), provider, body.AccessToken)
	if err != nil {
		logger.Warnf(c.Request.Context(), "social token exchange via %s failed: %v", provider, err)
		resp.Fail(c.Writer, resp.UnAuthorized("Unable to authenticate with "+provider))
		return
	}

	cookie.SetToken(c.Writer, out.AccessToken, h.svc.TokenTTL(), h.secureCookies)
	resp.Success(c.Writer, out)
}
