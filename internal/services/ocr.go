package services

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"

	"jobify/cv-scorer/internal/logger"
	"jobify/cv-scorer/internal/models"
)

// CommandRunner lets tests stub external commands.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

type execRunner struct {
	logger *zap.Logger
}

func NewExecRunner(logger *zap.Logger) CommandRunner {
	return execRunner{logger: logger}
}

func (r execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	start := time.Now()
	r.logger.Debug("running command", zap.String("cmd_line", strings.Join(append([]string{name}, args...), " ")))

	cmd := exec.CommandContext(ctx, name, args...)
	var out, errb bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errb

	err := cmd.Run()
	if err != nil {
		r.logger.Error("exec failed",
			zap.String("cmd", name),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
			zap.String("stderr", logger.TruncateForLog(errb.String(), 8<<10)),
		)
	}

	return out.Bytes(), errb.Bytes(), err
}

type OCRConfig struct {
	Binary      string
	Language    string
	TessdataDir string
}

type ocrService struct {
	runner CommandRunner
	cfg    OCRConfig
	logger *zap.Logger
}

func NewOCRService(runner CommandRunner, cfg OCRConfig, logger *zap.Logger) Extractor {
	if cfg.Binary == "" {
		cfg.Binary = "tesseract"
	}
	if cfg.Language == "" {
		cfg.Language = "eng"
	}
	return &ocrService{runner: runner, cfg: cfg, logger: logger}
}

// Extract implements Extractor. OCR never fails structurally: a broken run
// is logged and yields no text.
func (o *ocrService) Extract(ctx context.Context, doc *models.RawDocument) (string, error) {
	args := []string{doc.Path, "stdout", "-l", o.cfg.Language}
	if o.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", o.cfg.TessdataDir)
	}

	stdout, _, err := o.runner.Run(ctx, o.cfg.Binary, args...)
	if err != nil {
		o.logger.Error("❌ OCR failed, continuing with empty text",
			zap.String("file", doc.OriginalFilename),
			zap.Error(err),
		)
		return "", nil
	}

	return string(stdout), nil
}
