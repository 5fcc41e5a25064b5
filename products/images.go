package products

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

var supportedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// SaveImage copies a catalog image into destDir under a fresh name and writes
// a 300px-wide thumbnail next to it. Returns the stored image path to put
// into the product record.
func SaveImage(srcPath, destDir string) (string, error) {
	ext := strings.ToLower(filepath.Ext(srcPath))
	if !supportedImageExts[ext] {
		return "", fmt.Errorf("unsupported image type %q", ext)
	}

	img, err := imaging.Open(srcPath)
	if err != nil {
		return "", fmt.Errorf("failed to open image: %w", err)
	}

	id := uuid.New().String()
	originalPath := filepath.Join(destDir, id+ext)
	thumbnailPath := filepath.Join(destDir, id+"_thumb"+ext)

	if err := imaging.Save(img, originalPath); err != nil {
		return "", fmt.Errorf("failed to save image: %w", err)
	}

	thumbImg := imaging.Resize(img, 300, 0, imaging.Lanczos)
	if err := imaging.Save(thumbImg, thumbnailPath); err != nil {
		return "", fmt.Errorf("failed to save thumbnail: %w", err)
	}

	return originalPath, nil
}
