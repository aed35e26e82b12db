package service

import (
	"archive/zip"
	"bytes"
	"errors"
	"strings"
	"testing"

	"app/internal/logger"
)

func newTestExtractService() ExtractService {
	return NewExtractService(logger.New())
}

func TestExtractRejectsOversizedFile(t *testing.T) {
	svc := newTestExtractService()
	_, err := svc.Extract(Upload{
		Filename:    "big.pdf",
		ContentType: "application/pdf",
		Size:        MaxUploadBytes + 1,
	})
	if !errors.Is(err, ErrFileTooLarge) {
		t.Fatalf("expected ErrFileTooLarge, got %v", err)
	}
}

func TestExtractRejectsUnsupportedContentType(t *testing.T) {
	svc := newTestExtractService()
	_, err := svc.Extract(Upload{
		Filename:    "photo.png",
		ContentType: "image/png",
		Size:        10,
		Data:        []byte("not text"),
	})
	if !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType, got %v", err)
	}
}

func TestExtractPlainText(t *testing.T) {
	svc := newTestExtractService()
	text, err := svc.Extract(Upload{
		Filename:    "syllabus.txt",
		ContentType: "text/plain",
		Size:        int64(len("  CS101 Syllabus  ")),
		Data:        []byte("  CS101 Syllabus  "),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "CS101 Syllabus" {
		t.Fatalf("expected trimmed text, got %q", text)
	}
}

func TestExtractRejectsWhitespaceOnlyText(t *testing.T) {
	svc := newTestExtractService()
	_, err := svc.Extract(Upload{
		Filename:    "blank.txt",
		ContentType: "text/plain",
		Size:        4,
		Data:        []byte("   \n"),
	})
	if !errors.Is(err, ErrEmptyExtraction) {
		t.Fatalf("expected ErrEmptyExtraction, got %v", err)
	}
}

func TestExtractTruncatesLongText(t *testing.T) {
	svc := newTestExtractService()
	long := strings.Repeat("é", MaxExtractedChars+100)
	text, err := svc.Extract(Upload{
		Filename:    "long.txt",
		ContentType: "text/plain",
		Size:        int64(len(long)),
		Data:        []byte(long),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	runes := []rune(text)
	if len(runes) != MaxExtractedChars {
		t.Fatalf("expected %d characters after truncation, got %d", MaxExtractedChars, len(runes))
	}
	// Truncation must not split a multi-byte rune.
	for _, r := range text {
		if r != 'é' {
			t.Fatalf("found corrupted rune %q in truncated text", r)
		}
	}
}

func TestExtractRejectsCorruptPDF(t *testing.T) {
	svc := newTestExtractService()
	_, err := svc.Extract(Upload{
		Filename:    "bad.pdf",
		ContentType: "application/pdf",
		Size:        11,
		Data:        []byte("not a pdf!!"),
	})
	if !errors.Is(err, ErrExtractionFailed) {
		t.Fatalf("expected ErrExtractionFailed, got %v", err)
	}
}

func docxBytes(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("failed to create zip entry: %v", err)
	}
	if _, err := f.Write([]byte(documentXML)); err != nil {
		t.Fatalf("failed to write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("failed to close zip: %v", err)
	}
	return buf.Bytes()
}

func TestExtractDOCXJoinsParagraphs(t *testing.T) {
	documentXML := `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>CS101 Syllabus</w:t></w:r><w:r><w:t> Fall 2026</w:t></w:r></w:p>
    <w:p></w:p>
    <w:p><w:r><w:t>Assignment 1 due 2026-09-15</w:t></w:r></w:p>
  </w:body>
</w:document>`
	data := docxBytes(t, documentXML)

	svc := newTestExtractService()
	text, err := svc.Extract(Upload{
		Filename:    "syllabus.docx",
		ContentType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		Size:        int64(len(data)),
		Data:        data,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "CS101 Syllabus Fall 2026\nAssignment 1 due 2026-09-15"
	if text != want {
		t.Fatalf("expected %q, got %q", want, text)
	}
}

func TestExtractDOCXMissingDocumentPart(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, _ := zw.Create("word/other.xml")
	f.Write([]byte("<x/>"))
	zw.Close()

	svc := newTestExtractService()
	_, err := svc.Extract(Upload{
		Filename:    "odd.docx",
		ContentType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		Size:        int64(buf.Len()),
		Data:        buf.Bytes(),
	})
	if !errors.Is(err, ErrExtractionFailed) {
		t.Fatalf("expected ErrExtractionFailed, got %v", err)
	}
}
