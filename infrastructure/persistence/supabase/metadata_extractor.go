package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"booklog-backend/application/ports"
	pkgerrors "booklog-backend/pkg/errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

const defaultProcessBookFunction = "process-book"

var errNotConfigured = errors.New("book processor is not configured")

type processBookRequest struct {
	Type    ports.SourceKind `json:"type"`
	Content string           `json:"content"`
}

type processBookResponse struct {
	Title     string `json:"title"`
	Author    string `json:"author"`
	Publisher string `json:"publisher"`
	CoverURL  string `json:"cover_url"`
	Error     string `json:"error"`
}

// MetadataExtractor implements ports.MetadataExtractor through the process-book edge function
type MetadataExtractor struct {
	functions FunctionInvoker
	name      string
	logger    *zap.Logger
}

// NewMetadataExtractor creates an extractor calling the named edge function. With nil
// functions every extraction fails with a "not configured" error.
func NewMetadataExtractor(functions FunctionInvoker, functionName string, logger *zap.Logger) *MetadataExtractor {
	if functionName == "" {
		functionName = defaultProcessBookFunction
	}
	return &MetadataExtractor{functions: functions, name: functionName, logger: logger}
}

// ExtractBookMetadata sends the link or base64 image to the edge function
func (e *MetadataExtractor) ExtractBookMetadata(ctx context.Context, kind ports.SourceKind, content string) (*ports.BookMetadata, error) {
	_, span := otel.Tracer("booklog/supabase").Start(ctx, "process-book")
	defer span.End()
	span.SetAttributes(attribute.String("source.kind", string(kind)))

	meta, err := e.invoke(kind, content)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, pkgerrors.NewExternalError(e.name, err)
	}
	return meta, nil
}

func (e *MetadataExtractor) invoke(kind ports.SourceKind, content string) (*ports.BookMetadata, error) {
	if e.functions == nil {
		return nil, errNotConfigured
	}
	body, err := e.functions.Invoke(e.name, processBookRequest{Type: kind, Content: content})
	if err != nil {
		return nil, err
	}

	var resp processBookResponse
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		e.logger.Warn("Unexpected process-book response", zap.Int("bytes", len(body)))
		return nil, errors.New("invalid response from book processor")
	}
	if resp.Error != "" {
		return nil, errors.New(resp.Error)
	}

	return &ports.BookMetadata{
		Title:     strings.TrimSpace(resp.Title),
		Author:    strings.TrimSpace(resp.Author),
		Publisher: strings.TrimSpace(resp.Publisher),
		CoverURL:  strings.TrimSpace(resp.CoverURL),
	}, nil
}
