package controllers

import (
	"net/http"

	"github.com/zaika-app/zaika/app/services"
	"github.com/zaika-app/zaika/pkg/bind"
	"github.com/zaika-app/zaika/pkg/middleware"
	"github.com/zaika-app/zaika/pkg/response"
)

// AuthController serves registration, login and the profile endpoints.
type AuthController struct {
	auth *services.AuthService
}

// NewAuthController creates an AuthController.
func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{auth: auth}
}

// Register handles POST /api/auth/register.
func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var in services.RegisterInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body.")
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	result, err := c.auth.Register(r.Context(), in)
	if err != nil {
		respondError(w, r, err)
		return
	}
	response.Created(w, result)
}

// Login handles POST /api/auth/login.
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var in services.LoginInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body.")
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	result, err := c.auth.Login(r.Context(), in)
	if err != nil {
		respondError(w, r, err)
		return
	}
	response.Success(w, result)
}

// Me handles GET /api/auth/me.
func (c *AuthController) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromCtx(r.Context())
	if !ok {
		response.Unauthorized(w)
		return
	}
	user, err := c.auth.Me(r.Context(), userID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	response.Success(w, user)
}

// UpdateProfile handles PUT /api/users/profile.
func (c *AuthController) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromCtx(r.Context())
	if !ok {
		response.Unauthorized(w)
		return
	}

	var in services.UpdateProfileInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body.")
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	user, err := c.auth.UpdateProfile(r.Context(), userID, in)
	if err != nil {
		respondError(w, r, err)
		return
	}
	response.Success(w, user)
}
