package models

// Source identifies the external data provider a company record came from.
type Source string

const (
	SourceLinkedIn  Source = "linkedin"
	SourceKompass   Source = "kompass"
	SourceEuropages Source = "europages"
)

// AllSources lists the supported providers in display order.
var AllSources = []Source{SourceLinkedIn, SourceKompass, SourceEuropages}

// SourceDescriptions maps each provider to a short human-readable blurb.
var SourceDescriptions = map[Source]string{
	SourceLinkedIn:  "A social network for businesses to connect.",
	SourceKompass:   "A global business directory for B2B companies.",
	SourceEuropages: "A B2B platform for suppliers and manufacturers.",
}

// Valid reports whether s is one of the three supported providers.
func (s Source) Valid() bool {
	_, ok := SourceDescriptions[s]
	return ok
}

// Company is a single search hit from the remote data gateway. Companies are
// only ever produced by a search or a history replay, never created locally.
type Company struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Avatar        string   `json:"ava,omitempty"`
	Address       string   `json:"address,omitempty"`
	Country       string   `json:"country,omitempty"`
	Description   string   `json:"description,omitempty"`
	Phone         string   `json:"phone,omitempty"`
	URL           string   `json:"url,omitempty"`
	SearchQueries []string `json:"searchQueries,omitempty"`
	Industry      string   `json:"industry,omitempty"`
	EmployeeCount int      `json:"employeeCount,omitempty"`

	// Unlocked is derived from the employee map and is only ever set by
	// ProjectUnlocked. It must not be written anywhere else.
	Unlocked bool `json:"unlocked,omitempty"`
}

// EmployeeMap holds unlocked employees keyed by their company id.
type EmployeeMap map[string][]Employee

// Unlocked reports whether employees for the given company have been fetched.
func (m EmployeeMap) Unlocked(companyID string) bool {
	_, ok := m[companyID]
	return ok
}

// Merge adds src entries into m without touching unrelated companies. A
// company already present is overwritten with the fresh list for that id.
func (m EmployeeMap) Merge(src EmployeeMap) {
	for id, emps := range src {
		m[id] = emps
	}
}

// Clone returns a copy of the map with the per-company slices copied, so the
// caller can hand it out while the original keeps being written.
func (m EmployeeMap) Clone() EmployeeMap {
	out := make(EmployeeMap, len(m))
	for id, emps := range m {
		out[id] = append([]Employee(nil), emps...)
	}
	return out
}

// ProjectUnlocked returns a copy of companies with Unlocked recomputed from
// the employee map. The invariant "unlocked iff the id is a key of the map"
// holds by construction.
func ProjectUnlocked(companies []Company, employees EmployeeMap) []Company {
	out := make([]Company, len(companies))
	for i, c := range companies {
		c.Unlocked = employees.Unlocked(c.ID)
		out[i] = c
	}
	return out
}
