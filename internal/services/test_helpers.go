package services

import (
	"context"
	"io"
	"log/slog"

	"github.com/prospectlab/prospect/internal/gateway"
	"github.com/prospectlab/prospect/internal/models"
	"github.com/prospectlab/prospect/internal/search"
	"github.com/prospectlab/prospect/internal/store"
)

// MockSearchGateway implements SearchGateway for testing
type MockSearchGateway struct {
	CompaniesFunc func(ctx context.Context, query string, source models.Source, user string) (*gateway.SearchResult, error)
	HistoryFunc   func(ctx context.Context, user, historyID string) ([]models.Company, error)
}

func (m *MockSearchGateway) Companies(ctx context.Context, query string, source models.Source, user string) (*gateway.SearchResult, error) {
	if m.CompaniesFunc != nil {
		return m.CompaniesFunc(ctx, query, source, user)
	}
	return &gateway.SearchResult{}, nil
}

func (m *MockSearchGateway) History(ctx context.Context, user, historyID string) ([]models.Company, error) {
	if m.HistoryFunc != nil {
		return m.HistoryFunc(ctx, user, historyID)
	}
	return nil, models.ErrInternalServer
}

// MockUnlockGateway implements UnlockGateway for testing
type MockUnlockGateway struct {
	EmployeesFunc func(ctx context.Context, user string, companyIDs []string) (models.EmployeeMap, error)
	ContactFunc   func(ctx context.Context, user, employeeID string) (*models.ContactUpdate, error)
}

func (m *MockUnlockGateway) Employees(ctx context.Context, user string, companyIDs []string) (models.EmployeeMap, error) {
	if m.EmployeesFunc != nil {
		return m.EmployeesFunc(ctx, user, companyIDs)
	}
	return models.EmployeeMap{}, nil
}

func (m *MockUnlockGateway) Contact(ctx context.Context, user, employeeID string) (*models.ContactUpdate, error) {
	if m.ContactFunc != nil {
		return m.ContactFunc(ctx, user, employeeID)
	}
	return nil, models.ErrInternalServer
}

// MockSuggestGateway implements SuggestGateway for testing
type MockSuggestGateway struct {
	URLToKeywordsFunc   func(ctx context.Context, rawURL, user string) ([]string, error)
	FilesToKeywordsFunc func(ctx context.Context, user string, files []gateway.File) ([]string, error)
	URLToProfileFunc    func(ctx context.Context, rawURL, user string) (*models.ProfileSuggest, error)
	FilesToProfileFunc  func(ctx context.Context, user string, files []gateway.File) (*models.ProfileSuggest, error)
}

func (m *MockSuggestGateway) URLToKeywords(ctx context.Context, rawURL, user string) ([]string, error) {
	if m.URLToKeywordsFunc != nil {
		return m.URLToKeywordsFunc(ctx, rawURL, user)
	}
	return nil, models.ErrInternalServer
}

func (m *MockSuggestGateway) FilesToKeywords(ctx context.Context, user string, files []gateway.File) ([]string, error) {
	if m.FilesToKeywordsFunc != nil {
		return m.FilesToKeywordsFunc(ctx, user, files)
	}
	return nil, models.ErrInternalServer
}

func (m *MockSuggestGateway) URLToProfile(ctx context.Context, rawURL, user string) (*models.ProfileSuggest, error) {
	if m.URLToProfileFunc != nil {
		return m.URLToProfileFunc(ctx, rawURL, user)
	}
	return nil, models.ErrInternalServer
}

func (m *MockSuggestGateway) FilesToProfile(ctx context.Context, user string, files []gateway.File) (*models.ProfileSuggest, error) {
	if m.FilesToProfileFunc != nil {
		return m.FilesToProfileFunc(ctx, user, files)
	}
	return nil, models.ErrInternalServer
}

// MockMailGateway implements MailGateway for testing
type MockMailGateway struct {
	GenerateMailFunc func(ctx context.Context, fields map[string]string) (*models.MailDraft, error)
}

func (m *MockMailGateway) GenerateMail(ctx context.Context, fields map[string]string) (*models.MailDraft, error) {
	if m.GenerateMailFunc != nil {
		return m.GenerateMailFunc(ctx, fields)
	}
	return nil, models.ErrInternalServer
}

// MockMailSender implements MailSender for testing
type MockMailSender struct {
	SendFunc func(ctx context.Context, mail models.Mail) error
}

func (m *MockMailSender) Send(ctx context.Context, mail models.Mail) error {
	if m.SendFunc != nil {
		return m.SendFunc(ctx, mail)
	}
	return nil
}

// MockHistoryRepository implements HistoryRecorder and HistoryRepository for
// testing
type MockHistoryRepository struct {
	CreateFunc  func(ctx context.Context, entry *models.HistoryEntry) (*models.HistoryEntry, error)
	GetByIDFunc func(ctx context.Context, userID, id string) (*models.HistoryEntry, error)
	ListFunc    func(ctx context.Context, userID, cursor string, limit int) (*models.HistoryPage, error)
	DeleteFunc  func(ctx context.Context, userID string, ids []string) (int64, error)
}

func (m *MockHistoryRepository) Create(ctx context.Context, entry *models.HistoryEntry) (*models.HistoryEntry, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, entry)
	}
	return entry, nil
}

func (m *MockHistoryRepository) GetByID(ctx context.Context, userID, id string) (*models.HistoryEntry, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, userID, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockHistoryRepository) List(ctx context.Context, userID, cursor string, limit int) (*models.HistoryPage, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, userID, cursor, limit)
	}
	return &models.HistoryPage{}, nil
}

func (m *MockHistoryRepository) Delete(ctx context.Context, userID string, ids []string) (int64, error) {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, userID, ids)
	}
	return 0, nil
}

// MockUserRepository implements UserRepository for testing
type MockUserRepository struct {
	GetByIDFunc func(ctx context.Context, id string) (*models.User, error)
	UpdateFunc  func(ctx context.Context, id string, update *models.UserUpdate) (*models.User, error)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) Update(ctx context.Context, id string, update *models.UserUpdate) (*models.User, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, update)
	}
	return nil, models.ErrInternalServer
}

// memStateStore keeps session slots in memory for tests.
type memStateStore struct {
	states map[string]*store.State
}

func newMemStateStore() *memStateStore {
	return &memStateStore{states: make(map[string]*store.State)}
}

func (m *memStateStore) Load(ctx context.Context, userID string) (*store.State, error) {
	if s, ok := m.states[userID]; ok {
		return s, nil
	}
	return &store.State{Source: models.SourceLinkedIn}, nil
}

func (m *memStateStore) Save(ctx context.Context, userID string, state *store.State) error {
	m.states[userID] = state
	return nil
}

// newTestSessions builds a session manager backed by an in-memory store.
func newTestSessions() *search.Manager {
	return search.NewManager(newMemStateStore(), testLogger())
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
