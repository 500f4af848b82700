package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"

	"github.com/go-chi/chi/v5"

	"github.com/prospectlab/prospect/internal/gateway"
	"github.com/prospectlab/prospect/internal/middleware"
	"github.com/prospectlab/prospect/internal/models"
	"github.com/prospectlab/prospect/internal/search"
)

// MockSearchService implements SearchService for testing
type MockSearchService struct {
	SearchFunc       func(ctx context.Context, userID, email, query string, source models.Source) (*search.View, error)
	ReplayFunc       func(ctx context.Context, userID, email, historyID string) (*search.View, error)
	ViewFunc         func(ctx context.Context, userID string) (*search.View, error)
	SetFiltersFunc   func(ctx context.Context, userID string, industry, country, keywords []string, description string) (*search.View, error)
	SetRangeFunc     func(ctx context.Context, userID string, min, max int) (*search.View, error)
	ResetFiltersFunc func(ctx context.Context, userID string) (*search.View, error)
	SelectFunc       func(ctx context.Context, userID string, ids []string) (*search.View, error)
	FocusFunc        func(ctx context.Context, userID, companyID string) (*search.View, error)
	ExportFunc       func(ctx context.Context, userID string, w io.Writer) (string, error)
}

func (m *MockSearchService) Search(ctx context.Context, userID, email, query string, source models.Source) (*search.View, error) {
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, userID, email, query, source)
	}
	return &search.View{}, nil
}

func (m *MockSearchService) Replay(ctx context.Context, userID, email, historyID string) (*search.View, error) {
	if m.ReplayFunc != nil {
		return m.ReplayFunc(ctx, userID, email, historyID)
	}
	return &search.View{}, nil
}

func (m *MockSearchService) View(ctx context.Context, userID string) (*search.View, error) {
	if m.ViewFunc != nil {
		return m.ViewFunc(ctx, userID)
	}
	return &search.View{}, nil
}

func (m *MockSearchService) SetFilters(ctx context.Context, userID string, industry, country, keywords []string, description string) (*search.View, error) {
	if m.SetFiltersFunc != nil {
		return m.SetFiltersFunc(ctx, userID, industry, country, keywords, description)
	}
	return &search.View{}, nil
}

func (m *MockSearchService) SetRange(ctx context.Context, userID string, min, max int) (*search.View, error) {
	if m.SetRangeFunc != nil {
		return m.SetRangeFunc(ctx, userID, min, max)
	}
	return &search.View{}, nil
}

func (m *MockSearchService) ResetFilters(ctx context.Context, userID string) (*search.View, error) {
	if m.ResetFiltersFunc != nil {
		return m.ResetFiltersFunc(ctx, userID)
	}
	return &search.View{}, nil
}

func (m *MockSearchService) Select(ctx context.Context, userID string, ids []string) (*search.View, error) {
	if m.SelectFunc != nil {
		return m.SelectFunc(ctx, userID, ids)
	}
	return &search.View{}, nil
}

func (m *MockSearchService) Focus(ctx context.Context, userID, companyID string) (*search.View, error) {
	if m.FocusFunc != nil {
		return m.FocusFunc(ctx, userID, companyID)
	}
	return &search.View{}, nil
}

func (m *MockSearchService) Export(ctx context.Context, userID string, w io.Writer) (string, error) {
	if m.ExportFunc != nil {
		return m.ExportFunc(ctx, userID, w)
	}
	return "companies.csv", nil
}

// MockUnlockService implements UnlockService for testing
type MockUnlockService struct {
	UnlockEmployeesFunc func(ctx context.Context, userID, email string, companyIDs []string) (int, error)
	UnlockContactFunc   func(ctx context.Context, userID, email, employeeID string) (*models.Employee, error)
}

func (m *MockUnlockService) UnlockEmployees(ctx context.Context, userID, email string, companyIDs []string) (int, error) {
	if m.UnlockEmployeesFunc != nil {
		return m.UnlockEmployeesFunc(ctx, userID, email, companyIDs)
	}
	return 0, models.ErrInternalServer
}

func (m *MockUnlockService) UnlockContact(ctx context.Context, userID, email, employeeID string) (*models.Employee, error) {
	if m.UnlockContactFunc != nil {
		return m.UnlockContactFunc(ctx, userID, email, employeeID)
	}
	return nil, models.ErrInternalServer
}

// MockHistoryService implements HistoryService for testing
type MockHistoryService struct {
	ListFunc   func(ctx context.Context, userID, cursor string, limit int) (*models.HistoryPage, error)
	DeleteFunc func(ctx context.Context, userID string, ids []string) (int64, error)
}

func (m *MockHistoryService) List(ctx context.Context, userID, cursor string, limit int) (*models.HistoryPage, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, userID, cursor, limit)
	}
	return &models.HistoryPage{}, nil
}

func (m *MockHistoryService) Delete(ctx context.Context, userID string, ids []string) (int64, error) {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, userID, ids)
	}
	return 0, nil
}

// MockUserService implements UserService for testing
type MockUserService struct {
	GetByIDFunc func(ctx context.Context, id string) (*models.User, error)
	UpdateFunc  func(ctx context.Context, id string, update *models.UserUpdate) (*models.User, error)
}

func (m *MockUserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserService) Update(ctx context.Context, id string, update *models.UserUpdate) (*models.User, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, update)
	}
	return nil, models.ErrInternalServer
}

// MockMailService implements MailService for testing
type MockMailService struct {
	DraftFunc func(ctx context.Context, fields map[string]string) (*models.MailDraft, error)
	SendFunc  func(ctx context.Context, mail models.Mail) error
}

func (m *MockMailService) Draft(ctx context.Context, fields map[string]string) (*models.MailDraft, error) {
	if m.DraftFunc != nil {
		return m.DraftFunc(ctx, fields)
	}
	return &models.MailDraft{}, nil
}

func (m *MockMailService) Send(ctx context.Context, mail models.Mail) error {
	if m.SendFunc != nil {
		return m.SendFunc(ctx, mail)
	}
	return nil
}

// MockSuggestService implements SuggestService for testing
type MockSuggestService struct {
	KeywordsFromURLFunc   func(ctx context.Context, user, url string) ([]string, error)
	KeywordsFromFilesFunc func(ctx context.Context, user string, files []gateway.File) ([]string, error)
	ProfileFromURLFunc    func(ctx context.Context, user, url string) (*models.ProfileSuggest, error)
	ProfileFromFilesFunc  func(ctx context.Context, user string, files []gateway.File) (*models.ProfileSuggest, error)
}

func (m *MockSuggestService) KeywordsFromURL(ctx context.Context, user, url string) ([]string, error) {
	if m.KeywordsFromURLFunc != nil {
		return m.KeywordsFromURLFunc(ctx, user, url)
	}
	return nil, models.ErrInternalServer
}

func (m *MockSuggestService) KeywordsFromFiles(ctx context.Context, user string, files []gateway.File) ([]string, error) {
	if m.KeywordsFromFilesFunc != nil {
		return m.KeywordsFromFilesFunc(ctx, user, files)
	}
	return nil, models.ErrInternalServer
}

func (m *MockSuggestService) ProfileFromURL(ctx context.Context, user, url string) (*models.ProfileSuggest, error) {
	if m.ProfileFromURLFunc != nil {
		return m.ProfileFromURLFunc(ctx, user, url)
	}
	return nil, models.ErrInternalServer
}

func (m *MockSuggestService) ProfileFromFiles(ctx context.Context, user string, files []gateway.File) (*models.ProfileSuggest, error) {
	if m.ProfileFromFilesFunc != nil {
		return m.ProfileFromFilesFunc(ctx, user, files)
	}
	return nil, models.ErrInternalServer
}

// routerFor mounts a handler's routes on a fresh chi router.
func routerFor(register interface{ RegisterRoutes(chi.Router) }) *chi.Mux {
	router := chi.NewRouter()
	register.RegisterRoutes(router)
	return router
}

// authedRequest builds a request carrying the test user identity.
func authedRequest(method, target string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, target, body)
	ctx := middleware.WithUser(req.Context(), "u1", "alice@example.com")
	return req.WithContext(ctx)
}
