package httpserver

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"storefront/internal/service/profile"
	"storefront/internal/service/session"
)

const (
	birthdayLayout  = "2006-01-02"
	maxProfileImage = 10 << 20
)

type registerRequest struct {
	Name            string `json:"name"`
	Age             string `json:"age"`
	Birthday        string `json:"birthday"`
	Email           string `json:"email"`
	Gender          string `json:"gender"`
	Account         string `json:"account"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	// ProfileImage is base64 encoded in JSON.
	ProfileImage []byte `json:"profileImage"`
}

type loginRequest struct {
	Account  string `json:"account"`
	Password string `json:"password"`
}

func (h *handlers) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	in := session.RegisterInput{
		Name:            req.Name,
		Age:             req.Age,
		Email:           req.Email,
		Gender:          req.Gender,
		Account:         req.Account,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		ProfileImage:    req.ProfileImage,
	}
	if req.Birthday != "" {
		birthday, err := time.Parse(birthdayLayout, req.Birthday)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "birthday must be YYYY-MM-DD", "field": "birthday"})
			return
		}
		in.Birthday = &birthday
	}

	id, err := h.session.Register(c.Request.Context(), in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id, "account": session.NormalizeAccount(in.Account)})
}

func (h *handlers) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := h.session.Login(c.Request.Context(), req.Account, req.Password); err != nil {
		h.writeError(c, err)
		return
	}
	if h.profile != nil {
		h.profile.Reset()
		h.profile.Refresh(c.Request.Context())
	}
	c.JSON(http.StatusOK, gin.H{"account": session.NormalizeAccount(req.Account)})
}

func (h *handlers) logout(c *gin.Context) {
	if err := h.session.Logout(c.Request.Context()); err != nil {
		h.writeError(c, err)
		return
	}
	if h.profile != nil {
		h.profile.Reset()
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) deleteAccount(c *gin.Context) {
	if err := h.session.DeleteAccount(c.Request.Context()); err != nil {
		h.writeError(c, err)
		return
	}
	if h.profile != nil {
		h.profile.Reset()
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) me(c *gin.Context) {
	if h.profile == nil {
		c.JSON(http.StatusOK, gin.H{"account": c.GetString("account")})
		return
	}
	p, err := h.loadProfile(c)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": p, "hasImage": p.HasImage()})
}

func (h *handlers) profileImage(c *gin.Context) {
	if h.profile == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	p, err := h.loadProfile(c)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if !p.HasImage() {
		c.JSON(http.StatusNotFound, gin.H{"error": "no profile image"})
		return
	}
	c.Data(http.StatusOK, http.DetectContentType(p.Image), p.Image)
}

// loadProfile serves the published profile of the logged-in account and only fetches when
// nothing matching is published yet.
func (h *handlers) loadProfile(c *gin.Context) (profile.Profile, error) {
	if p, ok := h.profile.Current(); ok && p.Account == c.GetString("account") {
		return p, nil
	}
	return h.profile.Load(c.Request.Context())
}

func (h *handlers) updateProfileImage(c *gin.Context) {
	data, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxProfileImage))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "image too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if len(data) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image required"})
		return
	}
	path, err := h.session.UpdateProfileImage(c.Request.Context(), data)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if h.profile != nil {
		h.profile.Refresh(c.Request.Context())
	}
	c.JSON(http.StatusOK, gin.H{"profileImagePath": path})
}
