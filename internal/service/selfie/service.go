package selfie

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/hadirly/attendance-backend-go/internal/pkg/storage"
)

// maxSelfieBytes caps the download size; provider media links for chat
// photos stay well under this.
const maxSelfieBytes = 10 << 20

// Service copies provider-hosted selfies into durable storage. Provider
// media URLs expire after days, attendance evidence must not.
type Service struct {
	client  *http.Client
	storage storage.FileStorage
}

func NewService(fileStorage storage.FileStorage) *Service {
	return &Service{
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
		storage: fileStorage,
	}
}

// Archive downloads the media and stores it under a per-company,
// per-day path. Returns the stable URL of the stored copy.
func (s *Service) Archive(ctx context.Context, companyID, employeeID string, day time.Time, mediaURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, mediaURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create media request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to download media: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("media download returned status %d", resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}

	path := fmt.Sprintf("selfies/%s/%s/%s_%s%s",
		companyID, day.Format("2006-01-02"), employeeID, uuid.NewString(), extensionFor(contentType))

	limited := http.MaxBytesReader(nil, resp.Body, maxSelfieBytes)
	storedPath, err := s.storage.Upload(ctx, limited, path, contentType)
	if err != nil {
		return "", fmt.Errorf("failed to store selfie: %w", err)
	}

	url, err := s.storage.GetURL(ctx, storedPath)
	if err != nil {
		// An unreachable copy is useless; drop it rather than leak it.
		if delErr := s.storage.Delete(ctx, storedPath); delErr != nil {
			slog.Warn("Failed to remove orphaned selfie", "path", storedPath, "error", delErr)
		}
		return "", fmt.Errorf("failed to resolve selfie URL: %w", err)
	}
	return url, nil
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}
