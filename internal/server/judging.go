package server

import (
	"net/http"

	judgingdomain "github.com/forgehack/platform/internal/judging/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) submitScore(c *gin.Context) {
	var req judgingdomain.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	score, err := s.judging.Submit(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, score)
}

func (s *Server) teamScores(c *gin.Context) {
	scores, err := s.judging.TeamScores(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"scores": scores})
}

func (s *Server) leaderboard(c *gin.Context) {
	entries, err := s.judging.Leaderboard(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"leaderboard": entries})
}
