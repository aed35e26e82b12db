package service

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/rs/zerolog"
)

const (
	// MaxUploadBytes is the largest syllabus file accepted for extraction.
	MaxUploadBytes = 10 * 1024 * 1024
	// MaxPDFPages is the largest PDF page count accepted for extraction.
	MaxPDFPages = 50
	// MaxExtractedChars is the cap on extracted text length in characters.
	MaxExtractedChars = 50000
)

var (
	ErrFileTooLarge      = errors.New("File size exceeds 10MB limit")
	ErrUnsupportedType   = errors.New("Unsupported file type. Please upload PDF, Word, or text files.")
	ErrPageLimitExceeded = errors.New("PDF exceeds 50 page limit")
	ErrEmptyExtraction   = errors.New("No text content found in file")
	ErrExtractionFailed  = errors.New("Failed to extract text from file")
)

// Upload is an uploaded syllabus file pending extraction.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Data        []byte
}

var supportedContentTypes = map[string]struct{}{
	"application/pdf":    {},
	"application/msword": {},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {},
	"text/plain": {},
}

// ExtractService defines the interface for syllabus text extraction
type ExtractService interface {
	Extract(upload Upload) (string, error)
}

type extractService struct {
	logger zerolog.Logger
}

// NewExtractService creates a new instance of ExtractService
func NewExtractService(logger zerolog.Logger) ExtractService {
	return &extractService{
		logger: logger.With().Str("service", "ExtractService").Logger(),
	}
}

// Extract validates the upload's size and content type, pulls plain text out
// of it, and truncates the result to MaxExtractedChars characters.
func (s *extractService) Extract(upload Upload) (string, error) {
	if upload.Size > MaxUploadBytes {
		return "", ErrFileTooLarge
	}
	if _, ok := supportedContentTypes[upload.ContentType]; !ok {
		return "", ErrUnsupportedType
	}

	var (
		text string
		err  error
	)
	switch upload.ContentType {
	case "application/pdf":
		text, err = extractPDF(upload.Data)
	case "application/msword",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document":
		text, err = extractDOCX(upload.Data)
	default:
		text = string(upload.Data)
	}
	if err != nil {
		if errors.Is(err, ErrPageLimitExceeded) {
			return "", err
		}
		s.logger.Error().Err(err).Str("filename", upload.Filename).Msg("Text extraction failed")
		return "", fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyExtraction
	}
	return truncate(text, MaxExtractedChars), nil
}

func extractPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	if reader.NumPage() > MaxPDFPages {
		return "", ErrPageLimitExceeded
	}

	var pages []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			// Skip pages that fail to decode rather than discarding
			// the whole document.
			continue
		}
		pages = append(pages, content)
	}
	return strings.Join(pages, "\n"), nil
}

// docxDocument matches the subset of word/document.xml needed to collect
// paragraph text runs.
type docxDocument struct {
	Body struct {
		Paragraphs []struct {
			Runs []struct {
				Text string `xml:"t"`
			} `xml:"r"`
		} `xml:"p"`
	} `xml:"body"`
}

func extractDOCX(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open document archive: %w", err)
	}

	var doc *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			doc = f
			break
		}
	}
	if doc == nil {
		return "", errors.New("document archive missing word/document.xml")
	}

	rc, err := doc.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open word/document.xml: %w", err)
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return "", fmt.Errorf("failed to read word/document.xml: %w", err)
	}

	var parsed docxDocument
	if err := xml.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse word/document.xml: %w", err)
	}

	var paragraphs []string
	for _, p := range parsed.Body.Paragraphs {
		var runs []string
		for _, r := range p.Runs {
			runs = append(runs, r.Text)
		}
		if line := strings.Join(runs, ""); line != "" {
			paragraphs = append(paragraphs, line)
		}
	}
	return strings.Join(paragraphs, "\n"), nil
}

// truncate limits s to max characters without splitting a multi-byte rune.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
