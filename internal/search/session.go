package search

import (
	"sync"
	"time"

	"github.com/prospectlab/prospect/internal/models"
	"github.com/prospectlab/prospect/internal/store"
)

// Session is one user's search state: the current result set, derived facets,
// active filters, row selection, the unlocked employee map and the in-flight
// guards for searches and unlocks. All methods are safe for concurrent use;
// the browser's single event loop becomes a per-session mutex here.
type Session struct {
	mu sync.Mutex

	userID    string
	query     string
	source    models.Source
	companies []models.Company
	employees models.EmployeeMap
	focus     *models.Company

	filters   Filters
	selection map[string]struct{}
	facets    facetState

	// generation orders search submissions; a resolving search only applies
	// when its generation is still the latest, so a slow earlier search can
	// never overwrite a newer result set.
	generation    uint64
	pendingSearch bool

	pendingCompanies map[string]struct{}
	pendingContacts  map[string]struct{}

	lastActive time.Time
}

// RangeView describes the employee-count range control.
type RangeView struct {
	Min       int  `json:"min"`
	Max       int  `json:"max"`
	TrueMax   int  `json:"trueMax"`
	Step      int  `json:"step"`
	Threshold int  `json:"threshold"`
	Clipped   int  `json:"clipped"`
	Active    bool `json:"active"`
	Visible   bool `json:"visible"`
}

// View is an immutable snapshot of the session for rendering. Rows carry the
// filters applied and the unlocked projection recomputed.
type View struct {
	Query           string             `json:"query"`
	Source          models.Source      `json:"source"`
	Pending         bool               `json:"pending"`
	Rows            []models.Company   `json:"rows"`
	Total           int                `json:"total"`
	Facets          map[string][]Facet `json:"facets"`
	Filters         Filters            `json:"filters"`
	Range           RangeView          `json:"range"`
	IndustryVisible bool               `json:"industryVisible"`
	Selection       []string           `json:"selection"`
	Focus           *models.Company    `json:"focus,omitempty"`
	Employees       models.EmployeeMap `json:"employees"`
}

// NewSession builds a session from rehydrated durable state.
func NewSession(userID string, state *store.State) *Session {
	s := &Session{
		userID:           userID,
		query:            state.Query,
		source:           state.Source,
		companies:        state.Companies,
		employees:        state.Employees,
		focus:            state.Focus,
		selection:        map[string]struct{}{},
		pendingCompanies: map[string]struct{}{},
		pendingContacts:  map[string]struct{}{},
		lastActive:       time.Now(),
	}
	if s.employees == nil {
		s.employees = models.EmployeeMap{}
	}
	s.facets = deriveFacetState(s.companies)
	return s
}

func (s *Session) UserID() string { return s.userID }

// State snapshots the durable slots for persistence. The snapshot owns its
// memory: the store marshals it after the lock is gone, concurrently with
// unlock merges writing the live map.
func (s *Session) State() *store.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	var focus *models.Company
	if s.focus != nil {
		f := *s.focus
		focus = &f
	}
	return &store.State{
		Companies: append([]models.Company(nil), s.companies...),
		Employees: s.employees.Clone(),
		Focus:     focus,
		Query:     s.query,
		Source:    s.source,
	}
}

// BeginSearch registers a new submission and returns its generation token.
func (s *Session) BeginSearch() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.generation++
	s.pendingSearch = true
	return s.generation
}

// ApplyResult installs a non-empty result set for the given generation. It
// returns false without touching state when a newer search has since begun.
// Facets are recomputed, the range resets to [0, min(trueMax, Clipped)] and
// filters and selection are cleared.
func (s *Session) ApplyResult(gen uint64, query string, source models.Source, rows []models.Company) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return false
	}
	s.touch()
	s.pendingSearch = false
	s.query = query
	s.source = source
	s.companies = rows
	s.focus = nil
	s.resetDerived()
	return true
}

// ApplyEmpty resolves a zero-row search: the previous rows stay displayed and
// facets are recomputed against them.
func (s *Session) ApplyEmpty(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return false
	}
	s.touch()
	s.pendingSearch = false
	s.facets = deriveFacetState(s.companies)
	return true
}

// FailSearch resolves a failed submission, leaving prior state intact.
func (s *Session) FailSearch(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return
	}
	s.touch()
	s.pendingSearch = false
}

// ApplyReplay installs rows fetched for a past search. Replays bypass the
// generation counter: they resolve synchronously from the caller's view.
func (s *Session) ApplyReplay(query string, source models.Source, rows []models.Company) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.generation++
	s.pendingSearch = false
	s.query = query
	s.source = source
	s.companies = rows
	s.focus = nil
	s.resetDerived()
}

// resetDerived recomputes facet state and drops filters and selection.
// Callers hold the lock.
func (s *Session) resetDerived() {
	s.facets = deriveFacetState(s.companies)
	s.filters = Filters{}
	s.selection = map[string]struct{}{}
}

// SetFilters replaces the multi-select and text filters. The range filter is
// managed separately through SetRange.
func (s *Session) SetFilters(industry, country, keywords []string, description string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.filters.Industry = industry
	s.filters.Country = country
	s.filters.Keywords = keywords
	s.filters.Description = description
}

// SetRange applies the employee-count window. A max at the clipped ceiling
// stands for the true maximum. A window of "min under one step, max at
// true-max-or-above-threshold" means no constraint and auto-clears the
// filter. Returns true when the filter ended up cleared.
func (s *Session) SetRange(min, max int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if max == RangeClipped {
		max = s.facets.trueMax
	}
	s.facets.rangeMin = min
	s.facets.rangeMax = max

	if min < RangeStep && (max >= s.facets.trueMax || max > RangeThreshold) {
		s.filters.Range = nil
		return true
	}
	s.filters.Range = &EmployeeRange{Min: min, Max: max}
	return false
}

// ResetFilters clears every filter and restores the default range bounds.
func (s *Session) ResetFilters() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.filters = Filters{}
	s.facets.rangeMin = 0
	s.facets.rangeMax = s.facets.trueMax
	if s.facets.rangeMax > RangeClipped {
		s.facets.rangeMax = RangeClipped
	}
}

// Select replaces the row selection, keeping only ids present in the current
// result set.
func (s *Session) Select(ids []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	known := map[string]struct{}{}
	for _, c := range s.companies {
		known[c.ID] = struct{}{}
	}
	s.selection = map[string]struct{}{}
	for _, id := range ids {
		if _, ok := known[id]; ok {
			s.selection[id] = struct{}{}
		}
	}
}

// SetFocus points the detail panel at a company from the current result set.
// Focusing the already focused company clears the focus.
func (s *Session) SetFocus(companyID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	if s.focus != nil && s.focus.ID == companyID {
		s.focus = nil
		return nil
	}
	for _, c := range s.companies {
		if c.ID == companyID {
			focused := c
			s.focus = &focused
			return nil
		}
	}
	return models.ErrNotFound
}

// ClearFocus drops the detail-panel company, if any.
func (s *Session) ClearFocus() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.focus = nil
}

// View renders a snapshot with filters applied and the unlocked projection
// recomputed from the employee map.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	projected := models.ProjectUnlocked(s.companies, s.employees)
	rows := make([]models.Company, 0, len(projected))
	for _, c := range projected {
		if s.filters.Match(c) {
			rows = append(rows, c)
		}
	}

	facets := computeFacets(s.companies)
	if !s.facets.industryVisible {
		delete(facets, FacetIndustry)
	}

	selection := make([]string, 0, len(s.selection))
	for id := range s.selection {
		selection = append(selection, id)
	}

	var focus *models.Company
	if s.focus != nil {
		f := *s.focus
		f.Unlocked = s.employees.Unlocked(f.ID)
		focus = &f
	}

	return View{
		Query:           s.query,
		Source:          s.source,
		Pending:         s.pendingSearch,
		Rows:            rows,
		Total:           len(s.companies),
		Facets:          facets,
		Filters:         s.filters,
		Range: RangeView{
			Min:       s.facets.rangeMin,
			Max:       s.facets.rangeMax,
			TrueMax:   s.facets.trueMax,
			Step:      RangeStep,
			Threshold: RangeThreshold,
			Clipped:   RangeClipped,
			Active:    s.filters.Range != nil,
			Visible:   s.facets.employeeVisible,
		},
		IndustryVisible: s.facets.industryVisible,
		Selection:       selection,
		Focus:           focus,
		Employees:       s.employees.Clone(),
	}
}

// BeginEmployeeUnlock guards a bulk employee unlock. Already-unlocked
// companies are dropped from the batch; an empty remainder or an overlap with
// an in-flight unlock rejects the whole request. The returned ids must be
// released with FinishEmployeeUnlock.
func (s *Session) BeginEmployeeUnlock(companyIDs []string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	known := map[string]struct{}{}
	for _, c := range s.companies {
		known[c.ID] = struct{}{}
	}

	locked := make([]string, 0, len(companyIDs))
	for _, id := range companyIDs {
		if _, ok := known[id]; !ok {
			return nil, models.ErrNotFound
		}
		if _, pending := s.pendingCompanies[id]; pending {
			return nil, models.ErrUnlockPending
		}
		if !s.employees.Unlocked(id) {
			locked = append(locked, id)
		}
	}
	if len(locked) == 0 {
		return nil, models.ErrAlreadyUnlocked
	}

	for _, id := range locked {
		s.pendingCompanies[id] = struct{}{}
	}
	return locked, nil
}

// FinishEmployeeUnlock releases the in-flight guard and, on success, merges
// the fetched employees additively into the map. Entries for companies
// outside the batch are never discarded.
func (s *Session) FinishEmployeeUnlock(companyIDs []string, fetched models.EmployeeMap, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	for _, id := range companyIDs {
		delete(s.pendingCompanies, id)
	}
	if ok {
		s.employees.Merge(fetched)
	}
}

// BeginContactUnlock guards a per-employee contact unlock. Employees with a
// complete contact record hide the action; a duplicate trigger while one is
// in flight is rejected.
func (s *Session) BeginContactUnlock(employeeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	employee, found := s.findEmployee(employeeID)
	if !found {
		return models.ErrNotFound
	}
	if employee.ContactUnlocked() {
		return models.ErrAlreadyUnlocked
	}
	if _, pending := s.pendingContacts[employeeID]; pending {
		return models.ErrUnlockPending
	}
	s.pendingContacts[employeeID] = struct{}{}
	return nil
}

// FinishContactUnlock releases the guard and, on success, replaces exactly
// the matching employee record with the merged contact fields, returning the
// merged record. A partial update leaves the map untouched and returns
// ErrPartialContact.
func (s *Session) FinishContactUnlock(employeeID string, update *models.ContactUpdate, ok bool) (*models.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	delete(s.pendingContacts, employeeID)
	if !ok {
		return nil, nil
	}

	for companyID, emps := range s.employees {
		for i, e := range emps {
			if e.ID != employeeID {
				continue
			}
			merged, err := models.MergeContact(e, *update)
			if err != nil {
				return nil, err
			}
			s.employees[companyID][i] = merged
			return &merged, nil
		}
	}
	return nil, models.ErrNotFound
}

// findEmployee scans the employee map. Callers hold the lock.
func (s *Session) findEmployee(employeeID string) (models.Employee, bool) {
	for _, emps := range s.employees {
		for _, e := range emps {
			if e.ID == employeeID {
				return e, true
			}
		}
	}
	return models.Employee{}, false
}

// Employees returns a copy of the unlocked employees for one company.
func (s *Session) Employees(companyID string) ([]models.Employee, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	emps, ok := s.employees[companyID]
	if !ok {
		return nil, false
	}
	return append([]models.Employee(nil), emps...), true
}

// LastActive reports the time of the last session mutation or read.
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

func (s *Session) touch() {
	s.lastActive = time.Now()
}
