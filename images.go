package folio

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"github.com/labstack/echo/v4"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	socialImageWidth = 1200
	jpegQuality      = 85
)

// SocialImage serves the site's Open Graph image as JPEG. The source may be
// webp, png or jpeg; it is scaled to 1200px wide on first use and the
// result kept in memory until the source file changes.
type SocialImage struct {
	path string

	mu      sync.Mutex
	modTime int64
	data    []byte
}

// NewSocialImage serves file relative to dir. An empty file disables it.
func NewSocialImage(dir, file string) *SocialImage {
	if file == "" {
		return &SocialImage{}
	}
	return &SocialImage{path: filepath.Join(dir, file)}
}

// Available reports whether the source image exists.
func (s *SocialImage) Available() bool {
	if s == nil || s.path == "" {
		return false
	}
	info, err := os.Stat(s.path)
	return err == nil && !info.IsDir()
}

// JPEG returns the encoded image. fs.ErrNotExist is returned when there is
// no source image.
func (s *SocialImage) JPEG() ([]byte, error) {
	if s == nil || s.path == "" {
		return nil, fs.ErrNotExist
	}
	info, err := os.Stat(s.path)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data != nil && s.modTime == info.ModTime().UnixNano() {
		return s.data, nil
	}

	f, err := os.Open(s.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := encodeSocialImage(f)
	if err != nil {
		return nil, fmt.Errorf("folio: social image %s: %w", s.path, err)
	}
	s.data, s.modTime = data, info.ModTime().UnixNano()
	return data, nil
}

func encodeSocialImage(src *os.File) ([]byte, error) {
	img, _, err := image.Decode(src)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return nil, errors.New("empty image")
	}
	if w != socialImageWidth {
		newH := h * socialImageWidth / w
		if newH < 1 {
			newH = 1
		}
		dst := image.NewRGBA(image.Rect(0, 0, socialImageWidth, newH))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

func (a *App) handleOGImage(c echo.Context) error {
	data, err := a.socialImage.JPEG()
	if errors.Is(err, fs.ErrNotExist) {
		return echo.ErrNotFound
	}
	if err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "public, max-age=86400")
	return c.Blob(http.StatusOK, "image/jpeg", data)
}
