// Package resume hands out presigned object store URLs for resume uploads and
// downloads and records the stored object on the user.
package resume

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"go.uber.org/zap"

	"github.com/spigell/jobmatch/internal/apperr"
	"github.com/spigell/jobmatch/internal/logger"
	"github.com/spigell/jobmatch/internal/users"
)

const (
	MaxUploadBytes = 5 * 1024 * 1024
	URLExpiry      = 300 * time.Second
	maxNameLength  = 80
	defaultName    = "resume"
)

var (
	allowedTypes = map[string]struct{}{
		"application/pdf":    {},
		"application/msword": {},
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {},
	}
	unsafeChars = regexp.MustCompile(`[^\w.\-]+`)
)

// Presigner signs object store requests.
type Presigner interface {
	PresignPut(ctx context.Context, key, contentType string, metadata map[string]string, expires time.Duration) (string, error)
	PresignGet(ctx context.Context, key, disposition string, expires time.Duration) (string, error)
}

// Accounts reads and updates the resume reference of a user.
type Accounts interface {
	Get(ctx context.Context, id string) (*users.User, error)
	SetResume(ctx context.Context, id string, ref *users.ResumeRef) error
}

type UploadRequest struct {
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
	// Size is optional; zero means unknown.
	Size int64 `json:"size"`
}

type Upload struct {
	Key       string `json:"key"`
	UploadURL string `json:"uploadUrl"`
	ExpiresIn int    `json:"expiresIn"`
}

type Download struct {
	DownloadURL string `json:"downloadUrl"`
	ExpiresIn   int    `json:"expiresIn"`
}

type Service struct {
	presigner Presigner
	accounts  Accounts
	logger    *zap.Logger
	now       func() time.Time
}

func NewService(presigner Presigner, accounts Accounts, log *zap.Logger) *Service {
	return &Service{
		presigner: presigner,
		accounts:  accounts,
		logger:    logger.Component(log, "resume"),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// SafeName replaces characters outside [A-Za-z0-9_.-] with underscores and
// caps the length.
func SafeName(name string) string {
	if name == "" {
		name = defaultName
	}
	name = unsafeChars.ReplaceAllString(name, "_")
	if len(name) > maxNameLength {
		name = name[:maxNameLength]
	}
	return name
}

func validateUpload(req UploadRequest) error {
	if strings.TrimSpace(req.Filename) == "" || strings.TrimSpace(req.ContentType) == "" {
		return apperr.Validation("filename and contentType required")
	}
	if _, ok := allowedTypes[req.ContentType]; !ok {
		return apperr.Validation("unsupported file type")
	}
	if req.Size > MaxUploadBytes {
		return apperr.Validation("file too large")
	}
	return nil
}

// PresignUpload returns a short-lived upload URL and records the new key as
// the user's resume, replacing any previous one.
func (s *Service) PresignUpload(ctx context.Context, userID string, req UploadRequest) (*Upload, error) {
	if err := validateUpload(req); err != nil {
		return nil, err
	}

	suffix, err := gonanoid.New(10)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, err, "generate key")
	}

	now := s.now()
	key := fmt.Sprintf("resumes/%s/%d-%s-%s", userID, now.UnixMilli(), suffix, SafeName(req.Filename))

	url, err := s.presigner.PresignPut(ctx, key, req.ContentType, map[string]string{"userId": userID}, URLExpiry)
	if err != nil {
		return nil, apperr.Dependency(err, "failed to create presigned upload URL")
	}

	err = s.accounts.SetResume(ctx, userID, &users.ResumeRef{
		Key:              key,
		OriginalFilename: req.Filename,
		ContentType:      req.ContentType,
		UploadedAt:       now,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("resume upload presigned", zap.String("user_id", userID), zap.String("key", key))
	return &Upload{Key: key, UploadURL: url, ExpiresIn: int(URLExpiry.Seconds())}, nil
}

// PresignDownload returns a short-lived URL for the user's resume.
func (s *Service) PresignDownload(ctx context.Context, userID string) (*Download, error) {
	user, err := s.accounts.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Resume == nil || user.Resume.Key == "" {
		return nil, apperr.NotFound("no resume on file")
	}

	disposition := fmt.Sprintf(`inline; filename="%s"`, SafeName(user.Resume.OriginalFilename))
	url, err := s.presigner.PresignGet(ctx, user.Resume.Key, disposition, URLExpiry)
	if err != nil {
		return nil, apperr.Dependency(err, "failed to create presigned download URL")
	}

	return &Download{DownloadURL: url, ExpiresIn: int(URLExpiry.Seconds())}, nil
}
