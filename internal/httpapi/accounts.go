package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/spigell/jobmatch/internal/users"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	Token string      `json:"token"`
	User  *users.User `json:"user"`
}

// publicUser is what any caller may see about an account.
type publicUser struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Role      users.Role `json:"userType"`
	CreatedAt time.Time  `json:"createdAt"`
}

func (s *Server) signup(c *gin.Context) {
	var in users.SignupInput
	if !s.bindJSON(c, &in) {
		return
	}

	user, err := s.deps.Users.Signup(c.Request.Context(), in)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (s *Server) login(c *gin.Context) {
	var in loginRequest
	if !s.bindJSON(c, &in) {
		return
	}

	ctx := c.Request.Context()
	user, err := s.deps.Users.Login(ctx, in.Email, in.Password)
	if err != nil {
		s.writeError(c, err)
		return
	}

	token, err := s.deps.Sessions.Issue(ctx, user.Identity())
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, token, int(s.deps.Sessions.TTL().Seconds()), "/", "", s.cfg.CookieSecure, true)
	c.JSON(http.StatusOK, loginResponse{Token: token, User: user})
}

func (s *Server) logout(c *gin.Context) {
	if err := s.deps.Sessions.Revoke(c.Request.Context(), c.GetString(tokenKey)); err != nil {
		s.writeError(c, err)
		return
	}

	s.logger.Debug("logged out", zap.String("user_id", identity(c).UserID))
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, "", -1, "/", "", s.cfg.CookieSecure, true)
	c.JSON(http.StatusOK, gin.H{"message": "Successfully logged out"})
}

func (s *Server) me(c *gin.Context) {
	user, err := s.deps.Users.Get(c.Request.Context(), identity(c).UserID)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (s *Server) getUser(c *gin.Context) {
	user, err := s.deps.Users.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, publicUser{ID: user.ID, Name: user.Name, Role: user.Role, CreatedAt: user.CreatedAt})
}
