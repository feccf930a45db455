package services

import (
	"context"

	"booklog-backend/application/ports"
	"booklog-backend/domain/core/entities"

	"github.com/stretchr/testify/mock"
)

type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) ListProfiles(ctx context.Context) ([]entities.Profile, error) {
	args := m.Called(ctx)
	if args.Get(0) != nil {
		return args.Get(0).([]entities.Profile), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProfileRepository) GetProfile(ctx context.Context, id string) (*entities.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) != nil {
		return args.Get(0).(*entities.Profile), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProfileRepository) ClaimProfilePin(ctx context.Context, id, pin string) (bool, error) {
	args := m.Called(ctx, id, pin)
	return args.Bool(0), args.Error(1)
}

type MockBookRepository struct {
	mock.Mock
}

func (m *MockBookRepository) ListBooksByOwner(ctx context.Context, owner string) ([]entities.BookRecord, error) {
	args := m.Called(ctx, owner)
	if args.Get(0) != nil {
		return args.Get(0).([]entities.BookRecord), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockBookRepository) ListAllBooks(ctx context.Context) ([]entities.BookRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) != nil {
		return args.Get(0).([]entities.BookRecord), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockBookRepository) CreateBook(ctx context.Context, book *entities.BookRecord) (*entities.BookRecord, error) {
	args := m.Called(ctx, book)
	if fn, ok := args.Get(0).(func(context.Context, *entities.BookRecord) *entities.BookRecord); ok {
		return fn(ctx, book), args.Error(1)
	}
	if args.Get(0) != nil {
		return args.Get(0).(*entities.BookRecord), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockBookRepository) UpdateBook(ctx context.Context, id string, book *entities.BookRecord) (*entities.BookRecord, error) {
	args := m.Called(ctx, id, book)
	if args.Get(0) != nil {
		return args.Get(0).(*entities.BookRecord), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockBookRepository) DeleteBook(ctx context.Context, id, owner string) error {
	args := m.Called(ctx, id, owner)
	return args.Error(0)
}

type MockKeywordExtractor struct {
	mock.Mock
}

func (m *MockKeywordExtractor) ExtractKeywords(ctx context.Context, review string) []string {
	args := m.Called(ctx, review)
	if args.Get(0) != nil {
		return args.Get(0).([]string)
	}
	return nil
}

type MockMetadataExtractor struct {
	mock.Mock
}

func (m *MockMetadataExtractor) ExtractBookMetadata(ctx context.Context, kind ports.SourceKind, content string) (*ports.BookMetadata, error) {
	args := m.Called(ctx, kind, content)
	if args.Get(0) != nil {
		return args.Get(0).(*ports.BookMetadata), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockCoverSearcher struct {
	mock.Mock
}

func (m *MockCoverSearcher) SearchCoverByTitle(ctx context.Context, title string) (*ports.BookMetadata, error) {
	args := m.Called(ctx, title)
	if args.Get(0) != nil {
		return args.Get(0).(*ports.BookMetadata), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockChangeNotifier struct {
	mock.Mock
}

func (m *MockChangeNotifier) NotifyBooksChanged(owner string) {
	m.Called(owner)
}
