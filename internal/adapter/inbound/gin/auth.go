package gin

import (
	"net/http"

	"github.com/carzone/server/internal/domain/auth"
	"github.com/carzone/server/internal/model"
	"github.com/carzone/server/internal/port/inbound"
	"github.com/gin-gonic/gin"
)

// authHandler implements inbound.AuthHttpPort.
type authHandler struct {
	authDomain auth.AuthDomain
}

// NewAuthHandler creates a new auth HTTP handler.
func NewAuthHandler(authDomain auth.AuthDomain) inbound.AuthHttpPort {
	return &authHandler{authDomain: authDomain}
}

func clientInfo(c *gin.Context) auth.ClientInfo {
	return auth.ClientInfo{
		UserAgent: c.Request.UserAgent(),
		IPAddress: c.ClientIP(),
	}
}

// Register creates a customer account and signs it in.
//
//	@Summary		Register
//	@Description	Create a customer account with email and password
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		model.RegisterRequest	true	"Account details"
//	@Success		201		{object}	model.AuthResponse
//	@Failure		400		{object}	errors.ErrorResponse
//	@Failure		409		{object}	errors.ErrorResponse
//	@Router			/auth/register [post]
func (h *authHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	resp, err := h.authDomain.Register(c.Request.Context(), &req, clientInfo(c))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// Login signs in with email and password.
//
//	@Summary	Login
//	@Tags		Auth
//	@Accept		json
//	@Produce	json
//	@Param		request	body		model.LoginRequest	true	"Credentials"
//	@Success	200		{object}	model.AuthResponse
//	@Failure	401		{object}	errors.ErrorResponse
//	@Router		/auth/login [post]
func (h *authHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	resp, err := h.authDomain.Login(c.Request.Context(), &req, clientInfo(c))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// RefreshToken rotates a refresh token.
//
//	@Summary	Refresh tokens
//	@Tags		Auth
//	@Accept		json
//	@Produce	json
//	@Param		request	body		model.RefreshTokenRequest	true	"Refresh token"
//	@Success	200		{object}	model.TokenPair
//	@Failure	401		{object}	errors.ErrorResponse
//	@Router		/auth/refresh [post]
func (h *authHandler) RefreshToken(c *gin.Context) {
	var req model.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	tokens, err := h.authDomain.RefreshToken(c.Request.Context(), req.RefreshToken, clientInfo(c))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, tokens)
}

// Logout revokes every refresh token of the caller.
//
//	@Summary	Logout
//	@Tags		Auth
//	@Security	BearerAuth
//	@Produce	json
//	@Success	200	{object}	model.MessageResponse
//	@Router		/auth/logout [post]
func (h *authHandler) Logout(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.authDomain.Logout(c.Request.Context(), userID); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.MessageResponse{Message: "logged out"})
}

// GetMe returns the signed-in user.
//
//	@Summary	Current user
//	@Tags		Auth
//	@Security	BearerAuth
//	@Produce	json
//	@Success	200	{object}	model.User
//	@Failure	401	{object}	errors.ErrorResponse
//	@Router		/auth/me [get]
func (h *authHandler) GetMe(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	u, err := h.authDomain.GetMe(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, u)
}

// OAuthURL starts an OAuth sign-in.
//
//	@Summary	OAuth authorization URL
//	@Tags		Auth
//	@Produce	json
//	@Param		provider	path		string	true	"github or google"
//	@Success	200			{object}	model.OAuthURLResponse
//	@Failure	404			{object}	errors.ErrorResponse
//	@Router		/auth/oauth/{provider} [get]
func (h *authHandler) OAuthURL(c *gin.Context) {
	resp, err := h.authDomain.InitiateOAuth(c.Request.Context(), c.Param("provider"))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// OAuthCallback finishes an OAuth sign-in.
//
//	@Summary	OAuth callback
//	@Tags		Auth
//	@Accept		json
//	@Produce	json
//	@Param		provider	path		string						true	"github or google"
//	@Param		request		body		model.OAuthCallbackRequest	true	"Code and state"
//	@Success	200			{object}	model.AuthResponse
//	@Failure	400			{object}	errors.ErrorResponse
//	@Router		/auth/oauth/{provider}/callback [post]
func (h *authHandler) OAuthCallback(c *gin.Context) {
	var req model.OAuthCallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	resp, err := h.authDomain.CompleteOAuth(c.Request.Context(), c.Param("provider"), &req, clientInfo(c))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
