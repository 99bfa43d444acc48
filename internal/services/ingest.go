package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"jobify/cv-scorer/internal/models"
)

// ReferenceDocument is a rubric or job description file to index.
type ReferenceDocument struct {
	Path    string
	DocType string
	Name    string
}

type IngestSummary struct {
	Succeeded int
	Failed    int
	Chunks    int
}

// RubricIngester reads reference documents, chunks them and stores the
// embedded chunks for retrieval.
type RubricIngester interface {
	Ingest(ctx context.Context, docs []ReferenceDocument) IngestSummary
}

type rubricIngester struct {
	parser   DocumentParser
	chunker  TextChunker
	embedder Embedder
	store    RubricStore
	logger   *zap.Logger
}

func NewRubricIngester(parser DocumentParser, chunker TextChunker, embedder Embedder, store RubricStore, logger *zap.Logger) RubricIngester {
	return &rubricIngester{
		parser:   parser,
		chunker:  chunker,
		embedder: embedder,
		store:    store,
		logger:   logger,
	}
}

// Ingest implements RubricIngester.
func (r *rubricIngester) Ingest(ctx context.Context, docs []ReferenceDocument) IngestSummary {
	var summary IngestSummary

	for _, doc := range docs {
		log := r.logger.With(zap.String("name", doc.Name), zap.String("type", doc.DocType))

		n, err := r.ingestOne(ctx, doc)
		if err != nil {
			log.Error("❌ Failed to ingest document", zap.Error(err))
			summary.Failed++
			continue
		}

		log.Info("✅ Document ingested", zap.Int("chunks", n))
		summary.Succeeded++
		summary.Chunks += n
	}

	return summary
}

func (r *rubricIngester) ingestOne(ctx context.Context, doc ReferenceDocument) (int, error) {
	info, err := os.Stat(doc.Path)
	if err != nil {
		return 0, fmt.Errorf("failed to stat %s: %w", doc.Path, err)
	}

	// reference files belong to the caller and are never deleted
	raw := models.NewRawDocument(doc.Path, filepath.Base(doc.Path), "", info.Size(), nil)

	text, source, err := r.parser.ExtractText(ctx, raw)
	if err != nil {
		return 0, fmt.Errorf("failed to extract text: %w", err)
	}
	if source == models.SourcePDFMock {
		return 0, fmt.Errorf("no readable text in %s", doc.Path)
	}

	chunks := r.chunker.ChunkText(text, DefaultChunkSize, DefaultChunkOverlap)
	if len(chunks) == 0 {
		return 0, fmt.Errorf("no text content in %s", doc.Path)
	}

	docID := fmt.Sprintf("%s:%s", doc.DocType, filepath.Base(doc.Path))
	if err := r.store.DeleteDocument(ctx, docID); err != nil {
		r.logger.Warn("⚠️ Failed to remove previous chunks", zap.String("doc_id", docID), zap.Error(err))
	}

	stored := 0
	for i, chunk := range chunks {
		embedding, err := r.embedder.GenerateEmbedding(ctx, chunk)
		if err != nil {
			r.logger.Warn("⚠️ Failed to embed chunk", zap.Int("chunk", i+1), zap.Error(err))
			continue
		}

		err = r.store.UpsertChunk(ctx, RubricChunk{
			DocID:   docID,
			DocType: doc.DocType,
			Index:   i,
			Source:  source,
			Text:    chunk,
		}, embedding)
		if err != nil {
			r.logger.Warn("⚠️ Failed to store chunk", zap.Int("chunk", i+1), zap.Error(err))
			continue
		}
		stored++
	}

	if stored == 0 {
		return 0, fmt.Errorf("none of %d chunks could be stored", len(chunks))
	}
	return stored, nil
}
