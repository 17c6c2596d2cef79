package services

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrInvalidUpload marks uploads rejected because of the file itself.
var ErrInvalidUpload = errors.New("invalid upload")

// StorageService keeps uploaded resumes on disk until their text is extracted.
type StorageService interface {
	SaveFile(file *multipart.FileHeader, fileType string) (string, string, error)
	GetFilePath(filename string) string
	DeleteFile(filename string) error
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

// SaveFile stores a PDF upload under a random name and returns the name and
// full path.
func (s *storageService) SaveFile(file *multipart.FileHeader, fileType string) (string, string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext != ".pdf" {
		return "", "", fmt.Errorf("%w: file extension %q is not .pdf", ErrInvalidUpload, ext)
	}

	uniqueFilename := fmt.Sprintf("%s_%s%s", fileType, uuid.New().String(), ext)
	filePath := filepath.Join(s.uploadPath, uniqueFilename)

	src, err := file.Open()
	if err != nil {
		return "", "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filePath)
	if err != nil {
		return "", "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(filePath)
		return "", "", fmt.Errorf("failed to save file: %w", err)
	}

	return uniqueFilename, filePath, nil
}

func (s *storageService) GetFilePath(filename string) string {
	return filepath.Join(s.uploadPath, filepath.Base(filename))
}

func (s *storageService) DeleteFile(filename string) error {
	if err := os.Remove(s.GetFilePath(filename)); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// ResumeExtractor turns an uploaded resume PDF into plain text. The stored
// copy is removed once the text has been read.
type ResumeExtractor struct {
	storage     StorageService
	parser      PDFParserService
	maxFileSize int64
}

func NewResumeExtractor(storage StorageService, parser PDFParserService, maxFileSize int64) *ResumeExtractor {
	return &ResumeExtractor{storage: storage, parser: parser, maxFileSize: maxFileSize}
}

func (r *ResumeExtractor) Extract(file *multipart.FileHeader) (string, error) {
	if r.maxFileSize > 0 && file.Size > r.maxFileSize {
		return "", fmt.Errorf("%w: resume is %d bytes, max %d", ErrInvalidUpload, file.Size, r.maxFileSize)
	}

	filename, filePath, err := r.storage.SaveFile(file, "resume")
	if err != nil {
		return "", err
	}
	defer r.storage.DeleteFile(filename)

	text, err := r.parser.ExtractText(filePath)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidUpload, err)
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: no text found in resume", ErrInvalidUpload)
	}
	return text, nil
}
