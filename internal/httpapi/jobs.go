package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/spigell/jobmatch/internal/apperr"
	"github.com/spigell/jobmatch/internal/jobs"
	"github.com/spigell/jobmatch/internal/skills"
)

// optional returns nil for blank values so they place no constraint.
func optional(raw string) *string {
	if v := strings.TrimSpace(raw); v != "" {
		return &v
	}
	return nil
}

// filterFromQuery reads facets from query parameters. Empty parameters are
// treated as absent; skills may be comma separated or repeated.
func filterFromQuery(c *gin.Context) (jobs.Filter, error) {
	f := jobs.Filter{
		Field:      optional(c.Query("field")),
		EmployerID: optional(c.Query("employerId")),
		Location:   optional(c.Query("location")),
		SearchTerm: optional(c.Query("q")),
	}
	if t := optional(c.Query("type")); t != nil {
		f.Type = jobs.Ptr(jobs.Type(*t))
	}
	if raw := optional(c.Query("active")); raw != nil {
		active, err := strconv.ParseBool(*raw)
		if err != nil {
			return f, apperr.Validation("active must be true or false")
		}
		f.Active = &active
	}
	for _, raw := range c.QueryArray("skills") {
		f.Skills = append(f.Skills, skills.Split(raw)...)
	}
	return f, nil
}

// compactFilter drops blank facets from a filter decoded from JSON.
func compactFilter(f jobs.Filter) jobs.Filter {
	blank := func(p *string) *string {
		if p == nil {
			return nil
		}
		return optional(*p)
	}
	f.Field = blank(f.Field)
	f.EmployerID = blank(f.EmployerID)
	f.Location = blank(f.Location)
	f.SearchTerm = blank(f.SearchTerm)
	if f.Type != nil && strings.TrimSpace(string(*f.Type)) == "" {
		f.Type = nil
	}
	f.Skills = skills.Normalize(f.Skills)
	return f
}

func (s *Server) listJobs(c *gin.Context) {
	f, err := filterFromQuery(c)
	if err != nil {
		s.writeError(c, err)
		return
	}

	list, err := s.deps.Jobs.Query(c.Request.Context(), f)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (s *Server) getJob(c *gin.Context) {
	job, err := s.deps.Jobs.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

func (s *Server) createJob(c *gin.Context) {
	var in jobs.CreateInput
	if !s.bindJSON(c, &in) {
		return
	}

	job, err := s.deps.Jobs.Create(c.Request.Context(), identity(c), in)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, job)
}

func (s *Server) updateJob(c *gin.Context) {
	var patch jobs.Patch
	if !s.bindJSON(c, &patch) {
		return
	}

	job, err := s.deps.Jobs.Update(c.Request.Context(), identity(c), c.Param("id"), patch)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

func (s *Server) deleteJob(c *gin.Context) {
	job, err := s.deps.Jobs.Delete(c.Request.Context(), identity(c), c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}
