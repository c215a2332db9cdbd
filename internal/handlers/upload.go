// upload.go handles image uploads for avatars and post thumbnails. Files
// are sniffed for type, decoded, downscaled to a bounded width, re-encoded
// as JPEG, and stored in S3 under a dated key.
package handlers

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	"image/jpeg"
	_ "image/png" // register PNG decoder
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register WebP decoder

	"inkwell/internal/storage"
)

const (
	// maxUploadSize is the maximum allowed image upload size (10 MB).
	maxUploadSize = 10 << 20

	// imageMaxWidth is the stored image width cap in pixels.
	imageMaxWidth = 1280

	// imageQuality is the JPEG quality for re-encoded images.
	imageQuality = 80

	// maxImagePixels caps decoded size to prevent memory bombs.
	maxImagePixels = 100_000_000
)

// allowedImageTypes defines MIME types accepted for upload.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// uploadImage validates, downscales, and stores an uploaded image under
// the given key prefix. Returns the public URL of the stored object.
func uploadImage(ctx context.Context, sc *storage.Client, prefix string, file multipart.File, size int64) (string, error) {
	if sc == nil {
		return "", fmt.Errorf("object storage is not configured")
	}
	if size > maxUploadSize {
		return "", fmt.Errorf("file too large (max 10 MB)")
	}

	data, err := io.ReadAll(io.LimitReader(file, maxUploadSize+1))
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if len(data) > maxUploadSize {
		return "", fmt.Errorf("file too large (max 10 MB)")
	}

	contentType := http.DetectContentType(data)
	if !allowedImageTypes[contentType] {
		return "", fmt.Errorf("file type %q is not allowed", contentType)
	}

	body, outType, err := normalizeImage(data)
	if err != nil {
		return "", err
	}
	if body == nil {
		// Already within bounds; store the original bytes untouched.
		body = data
		outType = contentType
	}

	now := time.Now()
	key := fmt.Sprintf("%s/%d/%02d/%s%s", prefix, now.Year(), now.Month(),
		uuid.New().String(), extensionFromType(outType))

	if err := sc.Upload(ctx, key, outType, bytes.NewReader(body), int64(len(body))); err != nil {
		return "", err
	}
	return sc.FileURL(key), nil
}

// deleteStoredFile removes a previously uploaded object given its public
// URL. Best effort: URLs that do not belong to our storage are ignored,
// and deletion failures are logged but not surfaced.
func deleteStoredFile(ctx context.Context, sc *storage.Client, rawURL string) {
	if sc == nil || rawURL == "" {
		return
	}
	key, ok := sc.ExtractS3Key(rawURL)
	if !ok {
		return
	}
	if err := sc.Delete(ctx, key); err != nil {
		slog.Error("delete stored file failed", "key", key, "error", err)
	}
}

// normalizeImage downscales an image wider than imageMaxWidth to a JPEG,
// preserving aspect ratio. Returns (nil, "", nil) if the image is already
// small enough.
func normalizeImage(data []byte) ([]byte, string, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("decode config: %w", err)
	}

	if int64(cfg.Width)*int64(cfg.Height) > maxImagePixels {
		return nil, "", fmt.Errorf("image too large: %dx%d exceeds %d pixels", cfg.Width, cfg.Height, maxImagePixels)
	}

	if cfg.Width <= imageMaxWidth {
		return nil, "", nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	ratio := float64(imageMaxWidth) / float64(bounds.Dx())
	newHeight := int(float64(bounds.Dy()) * ratio)

	dst := image.NewRGBA(image.Rect(0, 0, imageMaxWidth, newHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: imageQuality}); err != nil {
		return nil, "", fmt.Errorf("encode image: %w", err)
	}
	return buf.Bytes(), "image/jpeg", nil
}

// extensionFromType returns a file extension for known MIME types.
func extensionFromType(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ""
	}
}
