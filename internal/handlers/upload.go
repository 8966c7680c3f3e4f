package handlers

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"marketplace-api/internal/services"

	"github.com/google/uuid"
)

// maxUploadSize caps listing images at 5 MB.
const maxUploadSize = 5 << 20

var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// saveUploadedImage writes an uploaded image under uploadDir with a generated
// filename and returns the public URL it will be served from.
func saveUploadedImage(file multipart.File, header *multipart.FileHeader, uploadDir, baseURL string) (string, error) {
	if header.Size > maxUploadSize {
		return "", &services.ValidationError{Message: "image file exceeds the 5MB limit"}
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedImageExts[ext] {
		return "", &services.ValidationError{Message: "only image files are allowed"}
	}

	name := uuid.New().String() + ext
	dst, err := os.Create(filepath.Join(uploadDir, name))
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, io.LimitReader(file, maxUploadSize)); err != nil {
		return "", fmt.Errorf("write upload file: %w", err)
	}

	return baseURL + "/uploads/" + name, nil
}
