package services

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"jobify/cv-scorer/internal/models"
)

// StorageService holds uploads in a temporary directory for the length of
// one request.
type StorageService interface {
	SaveUpload(file *multipart.FileHeader) (*models.RawDocument, error)
	SaveReader(r io.Reader, originalFilename, declaredFormat string) (*models.RawDocument, error)
	EnsureUploadDir() error
}

type storageService struct {
	uploadPath string
}

func NewStorageService(uploadPath string) StorageService {
	return &storageService{
		uploadPath: uploadPath,
	}
}

func (s *storageService) EnsureUploadDir() error {
	if err := os.MkdirAll(s.uploadPath, 0755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}

	return nil
}

// SaveUpload implements StorageService.
func (s *storageService) SaveUpload(file *multipart.FileHeader) (*models.RawDocument, error) {
	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	return s.SaveReader(src, file.Filename, file.Header.Get("Content-Type"))
}

// SaveReader implements StorageService. The returned document deletes its
// file on Release.
func (s *storageService) SaveReader(r io.Reader, originalFilename, declaredFormat string) (*models.RawDocument, error) {
	ext := strings.ToLower(filepath.Ext(originalFilename))
	filePath := filepath.Join(s.uploadPath, uuid.New().String()+ext)

	dst, err := os.Create(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create destination file: %w", err)
	}

	size, err := io.Copy(dst, r)
	closeErr := dst.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(filePath)
		return nil, fmt.Errorf("failed to save file: %w", err)
	}

	release := func() error {
		if err := os.Remove(filePath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to delete file: %w", err)
		}
		return nil
	}

	return models.NewRawDocument(filePath, filepath.Base(originalFilename), declaredFormat, size, release), nil
}
