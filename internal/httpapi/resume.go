package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/spigell/jobmatch/internal/apperr"
	"github.com/spigell/jobmatch/internal/resume"
)

func (s *Server) presignUpload(c *gin.Context) {
	if s.deps.Resumes == nil {
		s.writeError(c, apperr.Dependency(nil, "resume storage is not configured"))
		return
	}

	var in resume.UploadRequest
	if !s.bindJSON(c, &in) {
		return
	}

	upload, err := s.deps.Resumes.PresignUpload(c.Request.Context(), identity(c).UserID, in)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, upload)
}

func (s *Server) downloadURL(c *gin.Context) {
	if s.deps.Resumes == nil {
		s.writeError(c, apperr.Dependency(nil, "resume storage is not configured"))
		return
	}

	download, err := s.deps.Resumes.PresignDownload(c.Request.Context(), identity(c).UserID)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, download)
}
