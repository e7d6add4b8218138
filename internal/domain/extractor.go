package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gooze.dev/pkg/fuzzgen/internal/adapter"
	m "gooze.dev/pkg/fuzzgen/internal/model"
)

// Extractor turns a located source into classified signatures.
type Extractor interface {
	Extract(ctx context.Context, source m.Source, useCache bool) (m.Unit, error)
}

type extractor struct {
	adapter.SourceFSAdapter
	adapter.SignatureCache
	Classifier

	byLanguage map[m.Language]adapter.SignatureExtractor
}

// NewExtractor creates an Extractor dispatching on the source language.
func NewExtractor(
	fsAdapter adapter.SourceFSAdapter,
	cache adapter.SignatureCache,
	classifier Classifier,
	extractors ...adapter.SignatureExtractor,
) Extractor {
	byLanguage := make(map[m.Language]adapter.SignatureExtractor, len(extractors))
	for _, e := range extractors {
		byLanguage[e.Language()] = e
	}

	return &extractor{
		SourceFSAdapter: fsAdapter,
		SignatureCache:  cache,
		Classifier:      classifier,
		byLanguage:      byLanguage,
	}
}

// Extract fails with *model.ParseError when the source is malformed. With
// useCache, raw extractions are cached by content hash; classification always
// reruns.
func (e *extractor) Extract(ctx context.Context, source m.Source, useCache bool) (m.Unit, error) {
	if source.Origin == nil {
		return m.Unit{}, errors.New("source without origin")
	}

	langExtractor, ok := e.byLanguage[source.Language]
	if !ok {
		return m.Unit{}, fmt.Errorf("no extractor for language %q", source.Language)
	}

	extraction, err := e.load(ctx, langExtractor, source, useCache)
	if err != nil {
		return m.Unit{}, err
	}

	if source.Language == m.LanguageGo {
		source.Package = extraction.Package
		source.Imports = extraction.Imports
	}

	unit := m.Unit{
		Source:     source,
		Signatures: make([]m.FunctionSignature, 0, len(extraction.Signatures)),
		Skipped:    extraction.Skipped,
	}

	for _, sig := range extraction.Signatures {
		unit.Signatures = append(unit.Signatures, e.ClassifySignature(source.Language, sig))
	}

	slog.Debug("extracted signatures",
		"path", source.Origin.ShortPath,
		"signatures", len(unit.Signatures),
		"skipped", len(unit.Skipped))

	return unit, nil
}

func (e *extractor) load(
	ctx context.Context,
	langExtractor adapter.SignatureExtractor,
	source m.Source,
	useCache bool,
) (m.Extraction, error) {
	hash := source.Origin.Hash
	if !useCache {
		hash = ""
	}

	if hash != "" {
		cached, hit, err := e.Load(ctx, hash)
		if err != nil {
			slog.Warn("signature cache read failed", "path", source.Origin.FullPath, "error", err)
		} else if hit {
			slog.Debug("signature cache hit", "path", source.Origin.FullPath)
			return cached, nil
		}
	}

	content, err := e.ReadFile(ctx, source.Origin.FullPath)
	if err != nil {
		return m.Extraction{}, fmt.Errorf("read %s: %w", source.Origin.FullPath, err)
	}

	extraction, err := langExtractor.Extract(ctx, source.Origin.FullPath, content)
	if err != nil {
		return m.Extraction{}, err
	}

	if hash != "" {
		if err := e.Store(ctx, hash, extraction); err != nil {
			slog.Warn("signature cache write failed", "path", source.Origin.FullPath, "error", err)
		}
	}

	return extraction, nil
}
