package services

import (
	"context"
	"errors"
	"strings"

	"booklog-backend/application/ports"
	"booklog-backend/domain/core/entities"
	pkgerrors "booklog-backend/pkg/errors"

	"go.uber.org/zap"
)

// Messages shown inline in the book form
const (
	MsgExtractionFailedPrefix = "도서 정보를 가져오는데 실패했습니다: "
	MsgTitleRequired          = "제목을 입력해주세요."
	MsgCoverNotFound          = "책을 찾을 수 없습니다."
	MsgCoverSearchFailed      = "표지 검색 실패"
)

// AutofillResult is the form draft after an autofill attempt. On failure Draft is the
// input unchanged and Error holds the message to show.
type AutofillResult struct {
	Draft   entities.BookDraft `json:"draft"`
	Applied bool               `json:"applied"`
	Error   string             `json:"error,omitempty"`
}

// AutofillService pre-populates book form fields from a link, a cover photo or the title
type AutofillService struct {
	extractor ports.MetadataExtractor
	covers    ports.CoverSearcher
	logger    *zap.Logger
}

// NewAutofillService creates an autofill service
func NewAutofillService(extractor ports.MetadataExtractor, covers ports.CoverSearcher, logger *zap.Logger) *AutofillService {
	return &AutofillService{extractor: extractor, covers: covers, logger: logger}
}

// FromLink fills the draft from a store page link
func (s *AutofillService) FromLink(ctx context.Context, link string, draft entities.BookDraft) AutofillResult {
	link = strings.TrimSpace(link)
	if link == "" {
		return AutofillResult{Draft: draft}
	}
	result := s.extract(ctx, ports.SourceLink, link, draft)
	if result.Applied {
		result.Draft.Link = link
	}
	return result
}

// FromImage fills the draft from a base64 encoded photo of the cover
func (s *AutofillService) FromImage(ctx context.Context, imageBase64 string, draft entities.BookDraft) AutofillResult {
	if imageBase64 == "" {
		return AutofillResult{Draft: draft}
	}
	return s.extract(ctx, ports.SourceImage, imageBase64, draft)
}

func (s *AutofillService) extract(ctx context.Context, kind ports.SourceKind, content string, draft entities.BookDraft) AutofillResult {
	meta, err := s.extractor.ExtractBookMetadata(ctx, kind, content)
	if err != nil {
		s.logger.Warn("Metadata extraction failed", zap.String("kind", string(kind)), zap.Error(err))
		return AutofillResult{Draft: draft, Error: MsgExtractionFailedPrefix + userMessage(err)}
	}
	return AutofillResult{Draft: merge(draft, meta), Applied: true}
}

// SearchCover looks the draft's title up in the catalog and fills cover, author and publisher
func (s *AutofillService) SearchCover(ctx context.Context, draft entities.BookDraft) AutofillResult {
	title := strings.TrimSpace(draft.Title)
	if title == "" {
		return AutofillResult{Draft: draft, Error: MsgTitleRequired}
	}

	meta, err := s.covers.SearchCoverByTitle(ctx, title)
	switch {
	case errors.Is(err, ports.ErrCoverNotFound):
		return AutofillResult{Draft: draft, Error: MsgCoverNotFound}
	case err != nil:
		s.logger.Warn("Cover search failed", zap.String("title", title), zap.Error(err))
		return AutofillResult{Draft: draft, Error: MsgCoverSearchFailed}
	}
	return AutofillResult{Draft: merge(draft, meta), Applied: true}
}

// SearchCoverIfMissing runs SearchCover when a title is set but no cover yet, as on
// leaving the title field
func (s *AutofillService) SearchCoverIfMissing(ctx context.Context, draft entities.BookDraft) AutofillResult {
	if strings.TrimSpace(draft.Title) == "" || strings.TrimSpace(draft.CoverURL) != "" {
		return AutofillResult{Draft: draft}
	}
	return s.SearchCover(ctx, draft)
}

// merge keeps previous values where the metadata has none
func merge(draft entities.BookDraft, meta *ports.BookMetadata) entities.BookDraft {
	if meta == nil {
		return draft
	}
	draft.Title = firstNonEmpty(meta.Title, draft.Title)
	draft.Author = firstNonEmpty(meta.Author, draft.Author)
	draft.Publisher = firstNonEmpty(meta.Publisher, draft.Publisher)
	draft.CoverURL = firstNonEmpty(meta.CoverURL, draft.CoverURL)
	return draft
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func userMessage(err error) string {
	if appErr := pkgerrors.GetAppError(err); appErr != nil {
		if appErr.Cause != nil && appErr.Type == pkgerrors.ErrorTypeExternal {
			return appErr.Cause.Error()
		}
		return appErr.Message
	}
	return err.Error()
}
