package handlers

import (
	"log"
	"net/http"
	"time"

	"taskflow/internal/middleware"
	"taskflow/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
)

type CookieConfig struct {
	Name   string
	TTL    time.Duration
	Secure bool
}

type AuthHandler struct {
	accounts services.AccountService
	sessions services.SessionService
	cookie   CookieConfig
}

func NewAuthHandler(accounts services.AccountService, sessions services.SessionService, cookie CookieConfig) *AuthHandler {
	return &AuthHandler{accounts: accounts, sessions: sessions, cookie: cookie}
}

func (h *AuthHandler) startSession(c *gin.Context, userID uuid.UUID) error {
	token, _, err := h.sessions.Issue(c.Request.Context(), userID)
	if err != nil {
		return err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, token, int(h.cookie.TTL.Seconds()), "/", "", h.cookie.Secure, true)
	return nil
}

func (h *AuthHandler) Landing(c *gin.Context) {
	if middleware.CurrentUser(c) != nil {
		redirect(c, "/dashboard")
		return
	}
	render(c, http.StatusOK, "landing.html", gin.H{"Title": "TaskFlow"})
}

func (h *AuthHandler) RegisterForm(c *gin.Context) {
	if middleware.CurrentUser(c) != nil {
		redirect(c, "/dashboard")
		return
	}
	render(c, http.StatusOK, "register.html", gin.H{"Title": "Create an account"})
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req services.RegistrationRequest
	if err := c.ShouldBind(&req); err != nil {
		fail(c, err, "/register")
		return
	}

	user, err := h.accounts.Register(c.Request.Context(), req)
	if err != nil {
		fail(c, err, "/register")
		return
	}
	if err := h.startSession(c, user.ID); err != nil {
		fail(c, err, "/login")
		return
	}

	addFlash(c, "success", "Account created, let's set up your space.")
	redirect(c, "/onboarding")
}

func (h *AuthHandler) LoginForm(c *gin.Context) {
	if middleware.CurrentUser(c) != nil {
		redirect(c, "/dashboard")
		return
	}
	render(c, http.StatusOK, "login.html", gin.H{"Title": "Log in"})
}

func (h *AuthHandler) Login(c *gin.Context) {
	user, err := h.accounts.Authenticate(c.Request.Context(), c.PostForm("email"), c.PostForm("password"))
	if err != nil {
		fail(c, err, "/login")
		return
	}
	if err := h.startSession(c, user.ID); err != nil {
		fail(c, err, "/login")
		return
	}

	addFlash(c, "success", "Logged in.")
	if !user.OnboardingDone {
		redirect(c, "/onboarding")
		return
	}
	redirect(c, "/dashboard")
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if token, err := c.Cookie(h.cookie.Name); err == nil && token != "" {
		if err := h.sessions.Revoke(c.Request.Context(), token); err != nil {
			log.Printf("logout: revoke session: %v", err)
		}
	}
	c.SetCookie(h.cookie.Name, "", -1, "/", "", h.cookie.Secure, true)

	addFlash(c, "success", "You are logged out.")
	redirect(c, "/login")
}
