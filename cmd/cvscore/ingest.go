package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"jobify/cv-scorer/internal/app"
	"jobify/cv-scorer/internal/services"
)

var ingestDocType string

var ingestCmd = &cobra.Command{
	Use:   "ingest [files or directories...]",
	Short: "Index scoring rubrics and job descriptions for AI scoring",
	Long: `Index scoring rubrics and job descriptions for AI scoring.

Every PDF, DOCX or image file found is extracted, chunked, embedded with Gemini
and stored in the Qdrant collection. Requires QDRANT_URL and GEMINI_API_KEY.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIngest(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(ingestCmd)

	ingestCmd.Flags().StringVarP(&ingestDocType, "type", "t", services.DocTypeCVRubric,
		fmt.Sprintf("document type: %s or %s", services.DocTypeCVRubric, services.DocTypeJobDescription))
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestDocType != services.DocTypeCVRubric && ingestDocType != services.DocTypeJobDescription {
		return fmt.Errorf("unknown document type %q", ingestDocType)
	}

	cfg, zl, err := setup()
	if err != nil {
		return fmt.Errorf("creating a logger: %w", err)
	}
	defer zl.Sync()

	if !cfg.RubricRetrievalEnabled() {
		return fmt.Errorf("QDRANT_URL and GEMINI_API_KEY must be set")
	}

	ctx := cmd.Context()
	components, err := app.Build(ctx, cfg, zl)
	if err != nil {
		return err
	}
	if components.Embedder == nil || components.Rubrics == nil {
		return fmt.Errorf("rubric store is unavailable, see the log above")
	}

	docs, err := collectDocuments(args, ingestDocType)
	if err != nil {
		return err
	}

	zl.Info("🚀 Starting document ingestion", zap.Int("documents", len(docs)))

	ingester := services.NewRubricIngester(
		components.Parser,
		services.NewTextChunker(),
		components.Embedder,
		components.Rubrics,
		zl,
	)
	summary := ingester.Ingest(ctx, docs)

	zl.Info("📊 Ingestion summary",
		zap.Int("succeeded", summary.Succeeded),
		zap.Int("failed", summary.Failed),
		zap.Int("chunks", summary.Chunks),
	)

	if summary.Failed > 0 {
		return fmt.Errorf("%d of %d documents failed to ingest", summary.Failed, len(docs))
	}
	return nil
}

// collectDocuments expands directories into the supported files they contain.
func collectDocuments(paths []string, docType string) ([]services.ReferenceDocument, error) {
	var docs []services.ReferenceDocument

	add := func(path string) {
		if _, ok := services.DetectFormat(path); !ok {
			return
		}
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		docs = append(docs, services.ReferenceDocument{Path: path, DocType: docType, Name: name})
	}

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", p, err)
		}
		if !info.IsDir() {
			add(p)
			continue
		}

		err = filepath.WalkDir(p, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk %s: %w", p, err)
		}
	}

	if len(docs) == 0 {
		return nil, fmt.Errorf("no supported documents found")
	}
	return docs, nil
}
