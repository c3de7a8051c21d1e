package server

import (
	"net/http"

	regdomain "github.com/forgehack/platform/internal/registration/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) registerTeam(c *gin.Context) {
	var req regdomain.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	team, err := s.teams.Register(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, team)
}

func (s *Server) getTeam(c *gin.Context) {
	team, err := s.teams.Get(c.Request.Context(), c.Param("idOrSlug"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, team)
}

func (s *Server) listTeams(c *gin.Context) {
	status := regdomain.TeamStatus(c.Query("status"))
	teams, err := s.teams.List(c.Request.Context(), status)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"teams": teams})
}

type setStatusRequest struct {
	Status regdomain.TeamStatus `json:"status"`
	Note   string               `json:"note"`
}

func (s *Server) setTeamStatus(c *gin.Context) {
	var req setStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	team, err := s.teams.SetStatus(c.Request.Context(), c.Param("id"), req.Status, req.Note)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, team)
}
