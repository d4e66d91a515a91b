package controllers

import (
	"net/http"
	"time"

	"github.com/CPU-commits/CareerNest/forms"
	"github.com/CPU-commits/CareerNest/res"
	"github.com/CPU-commits/CareerNest/services"
	"github.com/gin-gonic/gin"
)

const FOLLOW_MODAL_COOKIE = "follow_modal_seen"
const FOLLOW_MODAL_TTL = 30 * 24 * time.Hour

type AuthController struct {
	Accounts     *services.AccountsService
	Recovery     *services.RecoveryService
	Preferences  *services.PreferencesService
	Auth         *services.AuthService
	SecureCookie bool
}

func (a *AuthController) setCookie(c *gin.Context, name, value string, ttl time.Duration, httpOnly bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, int(ttl.Seconds()), "/", "", a.SecureCookie, httpOnly)
}

// SendEmailOTP godoc
// @Summary     Send signup OTP
// @Description Email a 6 digit code that verifies the address before registering
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       email body     forms.EmailForm true "Email"
// @Success     200   {object} res.Response{}
// @Failure     400   {object} res.Response{} "Bad request"
// @Failure     409   {object} res.Response{} "Email already registered"
// @Failure     503   {object} res.Response{} "Service Unavailable - NATS || Redis"
// @Router      /email/send-otp [post]
func (a *AuthController) SendEmailOTP(c *gin.Context) {
	var form forms.EmailForm
	if !bindJSON(c, &form) {
		return
	}
	if errRes := a.Accounts.SendEmailOTP(c.Request.Context(), form.Email); errRes != nil {
		abort(c, errRes)
		return
	}
	c.JSON(http.StatusOK, &res.Response{
		Success: true,
		Message: "OTP sent",
	})
}

// VerifyEmailOTP godoc
// @Summary     Verify signup OTP
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       otp body     forms.VerifyOTPForm true "Email and OTP"
// @Success     200 {object} res.Response{}
// @Failure     400 {object} res.Response{} "Invalid or expired OTP"
// @Failure     503 {object} res.Response{} "Service Unavailable - Redis"
// @Router      /email/verify-otp [post]
func (a *AuthController) VerifyEmailOTP(c *gin.Context) {
	var form forms.VerifyOTPForm
	if !bindJSON(c, &form) {
		return
	}
	if errRes := a.Accounts.VerifyEmailOTP(c.Request.Context(), &form); errRes != nil {
		abort(c, errRes)
		return
	}
	c.JSON(http.StatusOK, &res.Response{
		Success: true,
		Message: "Email verified",
	})
}

// Register godoc
// @Summary     Register
// @Description Create an account for a verified email
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       user body     forms.RegisterForm true "User"
// @Success     201  {object} res.Response{body=smaps.SessionMap}
// @Failure     400  {object} res.Response{} "Validation error"
// @Failure     403  {object} res.Response{} "Email not verified"
// @Failure     409  {object} res.Response{} "Email already registered"
// @Failure     503  {object} res.Response{} "Service Unavailable - DB"
// @Router      /auth/register [post]
func (a *AuthController) Register(c *gin.Context) {
	var form forms.RegisterForm
	if !bindJSON(c, &form) {
		return
	}
	user, token, errRes := a.Accounts.Register(c.Request.Context(), &form)
	if errRes != nil {
		abort(c, errRes)
		return
	}
	a.setCookie(c, services.TOKEN_COOKIE, token, a.Auth.TTL(), true)
	c.JSON(http.StatusCreated, &res.Response{
		Success: true,
		Data: map[string]interface{}{
			"user":  user,
			"token": token,
		},
	})
}

// Login godoc
// @Summary     Login
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       credentials body     forms.LoginForm true "Credentials"
// @Success     200         {object} res.Response{body=smaps.SessionMap}
// @Failure     400         {object} res.Response{} "Bad request"
// @Failure     401         {object} res.Response{} "Invalid email or password"
// @Router      /auth/login [post]
func (a *AuthController) Login(c *gin.Context) {
	var form forms.LoginForm
	if !bindJSON(c, &form) {
		return
	}
	user, token, errRes := a.Accounts.Login(c.Request.Context(), &form)
	if errRes != nil {
		abort(c, errRes)
		return
	}
	a.setCookie(c, services.TOKEN_COOKIE, token, a.Auth.TTL(), true)
	c.JSON(http.StatusOK, &res.Response{
		Success: true,
		Data: map[string]interface{}{
			"user":  user,
			"token": token,
		},
	})
}

// Me godoc
// @Summary  Current user
// @Tags     auth
// @Produce  json
// @Success  200 {object} res.Response{body=smaps.UserMap}
// @Failure  401 {object} res.Response{} "Unauthorized"
// @Security ApiKeyAuth
// @Router   /auth/me [get]
func (a *AuthController) Me(c *gin.Context) {
	claims, _ := services.NewClaimsFromContext(c)
	user, errRes := a.Accounts.Me(c.Request.Context(), claims)
	if errRes != nil {
		abort(c, errRes)
		return
	}
	c.JSON(http.StatusOK, &res.Response{
		Success: true,
		Data: map[string]interface{}{
			"user": user,
		},
	})
}

// Logout godoc
// @Summary Logout
// @Tags    auth
// @Produce json
// @Success 200 {object} res.Response{}
// @Router  /auth/logout [post]
func (a *AuthController) Logout(c *gin.Context) {
	a.setCookie(c, services.TOKEN_COOKIE, "", -time.Second, true)
	c.JSON(http.StatusOK, &res.Response{
		Success: true,
	})
}

// DeleteAccount godoc
// @Summary  Delete account
// @Tags     auth
// @Produce  json
// @Success  200 {object} res.Response{}
// @Failure  401 {object} res.Response{} "Unauthorized"
// @Failure  404 {object} res.Response{} "User not found"
// @Security ApiKeyAuth
// @Router   /auth/delete-account [delete]
func (a *AuthController) DeleteAccount(c *gin.Context) {
	claims, _ := services.NewClaimsFromContext(c)
	if errRes := a.Accounts.DeleteAccount(c.Request.Context(), claims); errRes != nil {
		abort(c, errRes)
		return
	}
	a.setCookie(c, services.TOKEN_COOKIE, "", -time.Second, true)
	c.JSON(http.StatusOK, &res.Response{
		Success: true,
	})
}

// UpdatePreferences godoc
// @Summary     Update preferences
// @Description Store the one category the "for you" feed shows
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       preferences body     forms.PreferencesForm true "Preferences"
// @Success     200         {object} res.Response{body=smaps.PreferencesMap}
// @Failure     400         {object} res.Response{} "Validation error"
// @Failure     401         {object} res.Response{} "Unauthorized"
// @Security    ApiKeyAuth
// @Router      /auth/preferences/update [put]
func (a *AuthController) UpdatePreferences(c *gin.Context) {
	var form forms.PreferencesForm
	if !bindJSON(c, &form) {
		return
	}
	claims, _ := services.NewClaimsFromContext(c)
	preferences, errRes := a.Preferences.Update(c.Request.Context(), claims, &form)
	if errRes != nil {
		abort(c, errRes)
		return
	}
	feed := services.FeedFor(preferences.NotificationsAbout, preferences.GovtJobType)
	c.JSON(http.StatusOK, &res.Response{
		Success: true,
		Data: map[string]interface{}{
			"preferences": preferences,
			"feed":        feed,
		},
	})
}

// SendPasswordOTP godoc
// @Summary     Start a password reset
// @Description Email an OTP and open a reset session bound to that email
// @Tags        password
// @Accept      json
// @Produce     json
// @Param       email body     forms.EmailForm true "Email"
// @Success     200   {object} res.Response{body=smaps.ResetMap}
// @Failure     503   {object} res.Response{} "Service Unavailable - NATS || Redis"
// @Router      /password/send-otp [post]
func (a *AuthController) SendPasswordOTP(c *gin.Context) {
	var form forms.EmailForm
	if !bindJSON(c, &form) {
		return
	}
	resetID, errRes := a.Recovery.SendOTP(c.Request.Context(), form.Email)
	if errRes != nil {
		abort(c, errRes)
		return
	}
	c.JSON(http.StatusOK, &res.Response{
		Success: true,
		Message: "OTP sent",
		Data: map[string]interface{}{
			"reset_id": resetID,
		},
	})
}

// VerifyPasswordOTP godoc
// @Summary Verify password reset OTP
// @Tags    password
// @Accept  json
// @Produce json
// @Param   otp body     forms.PasswordOTPForm true "Reset id and OTP"
// @Success 200 {object} res.Response{}
// @Failure 400 {object} res.Response{} "Invalid OTP"
// @Failure 404 {object} res.Response{} "Reset expired"
// @Failure 409 {object} res.Response{} "Out of order step"
// @Router  /password/verify-otp [post]
func (a *AuthController) VerifyPasswordOTP(c *gin.Context) {
	var form forms.PasswordOTPForm
	if !bindJSON(c, &form) {
		return
	}
	if errRes := a.Recovery.VerifyOTP(c.Request.Context(), &form); errRes != nil {
		abort(c, errRes)
		return
	}
	c.JSON(http.StatusOK, &res.Response{
		Success: true,
		Message: "OTP verified",
	})
}

// ResetPassword godoc
// @Summary Reset password
// @Tags    password
// @Accept  json
// @Produce json
// @Param   password body     forms.ResetPasswordForm true "New password"
// @Success 200      {object} res.Response{}
// @Failure 400      {object} res.Response{} "Validation error"
// @Failure 404      {object} res.Response{} "Reset expired"
// @Failure 409      {object} res.Response{} "Out of order step"
// @Router  /password/reset-password [post]
func (a *AuthController) ResetPassword(c *gin.Context) {
	var form forms.ResetPasswordForm
	if !bindJSON(c, &form) {
		return
	}
	if errRes := a.Recovery.ResetPassword(c.Request.Context(), &form); errRes != nil {
		abort(c, errRes)
		return
	}
	c.JSON(http.StatusOK, &res.Response{
		Success: true,
		Message: "Password updated",
	})
}

// DismissFollowModal godoc
// @Summary Hide the follow modal for 30 days
// @Tags    pages
// @Produce json
// @Success 200 {object} res.Response{}
// @Router  /follow-modal/dismiss [post]
func (a *AuthController) DismissFollowModal(c *gin.Context) {
	a.setCookie(c, FOLLOW_MODAL_COOKIE, "1", FOLLOW_MODAL_TTL, false)
	c.JSON(http.StatusOK, &res.Response{
		Success: true,
	})
}
