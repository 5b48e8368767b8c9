package httpapi

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/vidtube/internal/common"
	"github.com/dmitrijs2005/vidtube/internal/server/models"
	"github.com/dmitrijs2005/vidtube/internal/server/services"
	"github.com/gin-gonic/gin"
)

type registerForm struct {
	FullName string `form:"fullName" binding:"required"`
	Email    string `form:"email" binding:"required,email"`
	Username string `form:"username" binding:"required,username"`
	Password string `form:"password" binding:"required"`
}

type loginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email" binding:"omitempty,email"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

type updateAccountRequest struct {
	FullName string `json:"fullName" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
}

type loginResponse struct {
	User         models.User `json:"user"`
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
}

func (s *Server) register(c *gin.Context) {
	var form registerForm
	if err := c.ShouldBind(&form); err != nil {
		s.writeError(c, badInput(err))
		return
	}

	files, err := s.stageUploads(c, "avatar", "coverImage")
	if err != nil {
		s.writeError(c, err)
		return
	}

	user, err := s.users.Register(c.Request.Context(), services.RegisterInput{
		FullName:       form.FullName,
		Email:          form.Email,
		Username:       form.Username,
		Password:       form.Password,
		AvatarPath:     files["avatar"],
		CoverImagePath: files["coverImage"],
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	respond(c, http.StatusCreated, user, "User registered successfully")
}

func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, badInput(err))
		return
	}

	res, err := s.users.Login(c.Request.Context(), services.LoginInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		s.writeError(c, err)
		return
	}

	s.setSessionCookies(c, &res.Tokens)
	respond(c, http.StatusOK, loginResponse{
		User:         res.User,
		AccessToken:  res.Tokens.AccessToken,
		RefreshToken: res.Tokens.RefreshToken,
	}, "User logged in successfully")
}

func (s *Server) logout(c *gin.Context) {
	user := currentUser(c)
	if err := s.users.Logout(c.Request.Context(), user.ID); err != nil {
		s.writeError(c, err)
		return
	}
	s.clearSessionCookies(c)
	respond(c, http.StatusOK, gin.H{}, "User logged out")
}

// refreshToken takes the token from the refreshToken cookie, falling back
// to the JSON body.
func (s *Server) refreshToken(c *gin.Context) {
	incoming, _ := c.Cookie(refreshTokenCookie)
	if incoming == "" {
		var req refreshRequest
		if err := c.ShouldBindJSON(&req); err == nil {
			incoming = req.RefreshToken
		}
	}
	if incoming == "" {
		s.writeError(c, common.NewError(common.ErrorBadRequest, "Refresh token is required"))
		return
	}

	pair, err := s.users.RefreshSession(c.Request.Context(), incoming)
	if err != nil {
		s.writeError(c, err)
		return
	}

	s.setSessionCookies(c, pair)
	respond(c, http.StatusOK, pair, "Access token refreshed")
}

func (s *Server) changePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, badInput(err))
		return
	}

	if err := s.users.ChangePassword(c.Request.Context(), currentUser(c).ID, req.OldPassword, req.NewPassword); err != nil {
		s.writeError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{}, "Password changed successfully")
}

func (s *Server) getCurrentUser(c *gin.Context) {
	user, err := s.users.GetCurrentUser(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		s.writeError(c, err)
		return
	}
	respond(c, http.StatusOK, user, "Current user fetched successfully")
}

func (s *Server) updateAccount(c *gin.Context) {
	var req updateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, badInput(err))
		return
	}

	user, err := s.users.UpdateAccount(c.Request.Context(), currentUser(c).ID, req.FullName, req.Email)
	if err != nil {
		s.writeError(c, err)
		return
	}
	respond(c, http.StatusOK, user, "Account details updated successfully")
}

func (s *Server) updateAvatar(c *gin.Context) {
	s.replaceImage(c, "avatar", s.users.UpdateAvatar, "Avatar updated successfully")
}

func (s *Server) updateCoverImage(c *gin.Context) {
	s.replaceImage(c, "coverImage", s.users.UpdateCoverImage, "Cover image updated successfully")
}

type imageUpdater func(ctx context.Context, userID, localPath string) (*models.User, error)

func (s *Server) replaceImage(c *gin.Context, field string, update imageUpdater, message string) {
	files, err := s.stageUploads(c, field)
	if err != nil {
		s.writeError(c, err)
		return
	}

	user, err := update(c.Request.Context(), currentUser(c).ID, files[field])
	if err != nil {
		s.writeError(c, err)
		return
	}
	respond(c, http.StatusOK, user, message)
}
