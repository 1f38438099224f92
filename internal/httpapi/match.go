package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/spigell/jobmatch/internal/apperr"
	"github.com/spigell/jobmatch/internal/jobs"
	"github.com/spigell/jobmatch/internal/matching"
	"github.com/spigell/jobmatch/internal/skills"
)

type matchRequest struct {
	Skills  []string    `json:"skills"`
	Filters jobs.Filter `json:"filters"`
}

type extractRequest struct {
	Text string `json:"text" binding:"required"`
}

func (s *Server) match(c *gin.Context) {
	var in matchRequest
	if !s.bindJSON(c, &in) {
		return
	}

	list, err := s.deps.Jobs.Query(c.Request.Context(), compactFilter(in.Filters))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, matching.Score(skills.Normalize(in.Skills), list))
}

func (s *Server) extractSkills(c *gin.Context) {
	if s.deps.Extractor == nil {
		s.writeError(c, apperr.Dependency(nil, "skill extraction is not configured"))
		return
	}

	var in extractRequest
	if !s.bindJSON(c, &in) {
		return
	}

	found, err := s.deps.Extractor.ExtractSkills(c.Request.Context(), in.Text)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"skills": found})
}
