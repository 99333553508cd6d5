package handler

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/civicstats/identity-api/internal/core/ports"
)

// AuthHandler exposes the login and registration flow over HTTP.
type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login redirects the browser to the WeChat authorize page.
//
// @Summary      Start the WeChat login flow
// @Tags         auth
// @Param        redirect_uri  query  string  true  "Path the app returns to after authorization"
// @Success      302
// @Failure      422  {object}  errorResponse
// @Router       /api/auth/login [get]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid parameters")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	target := h.authService.LoginURL(c.Scheme(), c.Request().Host, req.RedirectURI)
	return c.Redirect(http.StatusFound, target)
}

// FakeWeixinLogin is the development stand-in for the WeChat authorize
// page: it bounces straight back with a fixed code.
//
// @Summary      Development stand-in for the WeChat authorize page
// @Tags         auth
// @Param        redirect_uri  query  string  true  "Redirect target"
// @Success      302
// @Router       /api/auth/login/FakeWeixinLogin [get]
func (h *AuthHandler) FakeWeixinLogin(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid parameters")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	sep := "?"
	if u, err := url.Parse(req.RedirectURI); err == nil && u.RawQuery != "" {
		sep = "&"
	}
	return c.Redirect(http.StatusFound, req.RedirectURI+sep+"code=1111")
}

// GetToken exchanges the OAuth code for an access token and the bound user.
//
// @Summary      Exchange an OAuth code for an access token
// @Tags         auth
// @Produce      json
// @Param        code  query  string  true  "Code returned by the authorize redirect"
// @Success      200  {object}  tokenResponse
// @Failure      422  {object}  errorResponse
// @Failure      502  {object}  errorResponse
// @Router       /api/auth/login/Token [get]
func (h *AuthHandler) GetToken(c echo.Context) error {
	var req getTokenRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid parameters")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	token, user, err := h.authService.ExchangeCode(c.Request().Context(), req.Code)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tokenResponse{Token: token, User: user})
}

// SendSmsCode delivers a verification code to the submitted phone number.
//
// @Summary      Send an SMS verification code
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  sendSmsCodeRequest  true  "Phone number"
// @Success      200  {object}  sendSmsCodeResponse
// @Failure      401  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Failure      502  {object}  errorResponse
// @Router       /api/auth/reg/SendSmsCode [post]
func (h *AuthHandler) SendSmsCode(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req sendSmsCodeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	expireSeconds, err := h.authService.SendSmsCode(c.Request().Context(), userID, req.Mob)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sendSmsCodeResponse{IsSuccess: true, ExpireSeconds: expireSeconds})
}

// VerifySmsCode checks the submitted code against the pending challenge.
// A mismatch is a 200 with isSuccess=false, never an error response.
//
// @Summary      Verify an SMS code and bind the phone
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  verifySmsCodeRequest  true  "Phone number and code"
// @Success      200  {object}  verifySmsCodeResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/auth/reg/VerifySmsCode [post]
func (h *AuthHandler) VerifySmsCode(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req verifySmsCodeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	ok, err := h.authService.VerifySmsCode(c.Request().Context(), userID, req.Mob, req.SmsCode)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, verifySmsCodeResponse{IsSuccess: ok})
}

// Register completes the profile for a phone-verified user.
//
// @Summary      Complete registration
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  registerRequest  true  "Profile fields"
// @Success      200  {object}  registerResponse
// @Failure      401  {object}  errorResponse
// @Failure      422  {object}  errorResponse
// @Router       /api/auth/reg [post]
func (h *AuthHandler) Register(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	user, err := h.authService.CompleteRegistration(c.Request().Context(), ports.CompleteRegistrationInput{
		UserID:       userID,
		Mob:          req.Mob,
		Name:         req.Name,
		IDCardNumber: req.IDCardNumber,
		Birthday:     req.Birthday,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, registerResponse{IsSuccess: true, User: user})
}
