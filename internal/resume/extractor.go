// Package resume downloads resume PDFs and extracts their plain text.
// Extraction is best effort: any fetch or parse failure yields an empty
// result, never an error, so scoring can proceed on structured fields alone.
package resume

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"
)

const (
	defaultTimeout = 30 * time.Second
	// maxDownloadBytes guards against runaway downloads; resumes are a few
	// hundred kilobytes at most.
	maxDownloadBytes = 20 << 20
)

type Extractor struct {
	http   *http.Client
	logger *zap.Logger
}

func NewExtractor(timeout time.Duration, logger *zap.Logger) *Extractor {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Extractor{
		http:   &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// Text downloads the resume at url and returns its extracted text, or ""
// when the resume is unavailable or unparseable.
func (e *Extractor) Text(ctx context.Context, url string) string {
	url = strings.TrimSpace(url)
	if url == "" {
		return ""
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		e.logger.Warn("building resume request", zap.Error(err))
		return ""
	}

	resp, err := e.http.Do(req)
	if err != nil {
		e.logger.Warn("downloading resume", zap.Error(err))
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		e.logger.Warn("downloading resume", zap.String("status", resp.Status))
		return ""
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDownloadBytes))
	if err != nil {
		e.logger.Warn("reading resume body", zap.Error(err))
		return ""
	}

	return extractText(data, e.logger)
}

func extractText(data []byte, logger *zap.Logger) string {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		logger.Warn("parsing resume pdf", zap.Error(err))
		return ""
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		logger.Warn("extracting resume text", zap.Error(err))
		return ""
	}

	var builder strings.Builder
	if _, err := io.Copy(&builder, plain); err != nil {
		logger.Warn("reading resume text", zap.Error(err))
		return ""
	}

	return strings.TrimSpace(builder.String())
}
