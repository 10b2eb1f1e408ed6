package handlers

import (
	"net/http"

	"taskflow/internal/middleware"
	"taskflow/internal/models"
	"taskflow/internal/services"

	"github.com/gin-gonic/gin"
)

type AccountHandler struct {
	accounts    services.AccountService
	minPassword int
}

func NewAccountHandler(accounts services.AccountService, minPassword int) *AccountHandler {
	return &AccountHandler{accounts: accounts, minPassword: minPassword}
}

func homeFor(user *models.User) string {
	if user.IsCreator() {
		return "/creator"
	}
	return "/dashboard"
}

func (h *AccountHandler) OnboardingForm(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user.OnboardingDone {
		redirect(c, homeFor(user))
		return
	}
	render(c, http.StatusOK, "onboarding.html", gin.H{"Title": "Welcome"})
}

func (h *AccountHandler) Onboarding(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user.OnboardingDone {
		redirect(c, homeFor(user))
		return
	}

	updated, err := h.accounts.CompleteOnboarding(c.Request.Context(), user.ID, c.PostForm("account_kind"))
	if err != nil {
		fail(c, err, "/onboarding")
		return
	}
	addFlash(c, "success", "Welcome to TaskFlow!")
	redirect(c, homeFor(updated))
}

func (h *AccountHandler) Pricing(c *gin.Context) {
	render(c, http.StatusOK, "pricing.html", gin.H{"Title": "Pricing"})
}

func (h *AccountHandler) UpgradeCreator(c *gin.Context) {
	if _, err := h.accounts.UpgradeToCreator(c.Request.Context(), middleware.CurrentUser(c).ID); err != nil {
		fail(c, err, "/pricing")
		return
	}
	addFlash(c, "success", "Your account is now in creator mode.")
	redirect(c, "/creator")
}

func (h *AccountHandler) ProfileForm(c *gin.Context) {
	render(c, http.StatusOK, "profile.html", gin.H{"Title": "Profile"})
}

func (h *AccountHandler) Profile(c *gin.Context) {
	user := middleware.CurrentUser(c)
	updated, err := h.accounts.UpdateProfile(c.Request.Context(), user.ID, c.PostForm("name"), c.PostForm("email"))
	if err != nil {
		fail(c, err, "/profile")
		return
	}
	middleware.SetCurrentUser(c, updated)
	addFlash(c, "success", "Profile updated.")
	redirect(c, "/profile")
}

func (h *AccountHandler) PasswordForm(c *gin.Context) {
	render(c, http.StatusOK, "password.html", gin.H{"Title": "Change password", "MinPassword": h.minPassword})
}

func (h *AccountHandler) ChangePassword(c *gin.Context) {
	err := h.accounts.ChangePassword(c.Request.Context(), middleware.CurrentUser(c).ID,
		c.PostForm("current_password"), c.PostForm("new_password"), c.PostForm("confirm_password"))
	if err != nil {
		fail(c, err, "/profile/password")
		return
	}
	addFlash(c, "success", "Password changed.")
	redirect(c, "/profile")
}
