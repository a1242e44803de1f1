package uploads

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Folders under the static root, one per upload kind.
const (
	QRFolder         = "qr"
	EventImageFolder = "event_images"
	LogoFolder       = "logos"
)

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// Service stores uploaded files under a local static root and builds the
// absolute URLs they are served back from.
type Service struct {
	BaseURL string
	Root    string
}

// NewService creates the upload folders and returns the service. BaseURL is
// the deployment base used for absolute links; Root is the local static
// directory (typically "static").
func NewService(baseURL, root string) (*Service, error) {
	for _, folder := range []string{QRFolder, EventImageFolder, LogoFolder} {
		if err := os.MkdirAll(filepath.Join(root, folder), 0o755); err != nil {
			return nil, fmt.Errorf("create upload folder %s: %w", folder, err)
		}
	}
	return &Service{BaseURL: baseURL, Root: root}, nil
}

// Save stores the multipart file from the given form field into folder and
// returns its public URL. A missing or empty file field is not an error;
// it returns "" so callers can treat the upload as optional.
func (s *Service) Save(c *fiber.Ctx, field, folder string) (string, error) {
	fh, err := c.FormFile(field)
	if err != nil || fh == nil || fh.Filename == "" {
		return "", nil
	}
	// Random prefix so repeated uploads of the same filename don't clobber
	// each other.
	name := uuid.NewString()[:8] + "_" + SanitizeFilename(fh.Filename)
	if err := c.SaveFile(fh, filepath.Join(s.Root, folder, name)); err != nil {
		return "", fmt.Errorf("save upload %s: %w", name, err)
	}
	return s.StaticURL(folder + "/" + name), nil
}

// StaticURL returns the absolute URL for a file under the static root.
func (s *Service) StaticURL(rel string) string {
	return strings.TrimRight(s.BaseURL, "/") + "/static/" + strings.TrimLeft(rel, "/")
}

// SanitizeFilename strips path components and replaces anything outside
// [A-Za-z0-9._-] so the name is safe to write to disk.
func SanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = unsafeFilenameChars.ReplaceAllString(name, "_")
	name = strings.Trim(name, "._")
	if name == "" {
		name = "file"
	}
	return name
}
