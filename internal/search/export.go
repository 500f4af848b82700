package search

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/prospectlab/prospect/internal/models"
)

var exportHeader = []string{
	"id", "name", "address", "country", "description", "phone", "url",
	"industry", "employeeCount", "searchQueries", "unlocked",
}

// ExportCSV writes the full unfiltered result set, with the unlocked
// projection applied, as CSV. Active filters deliberately do not narrow the
// export.
func (s *Session) ExportCSV(w io.Writer) error {
	s.mu.Lock()
	rows := models.ProjectUnlocked(s.companies, s.employees)
	s.mu.Unlock()

	if len(rows) == 0 {
		return models.ErrNoSearch
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(exportHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, c := range rows {
		record := []string{
			c.ID, c.Name, c.Address, c.Country, c.Description, c.Phone, c.URL,
			c.Industry, strconv.Itoa(c.EmployeeCount),
			strings.Join(c.SearchQueries, ";"),
			strconv.FormatBool(c.Unlocked),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// ExportFilename derives the download name from the query, spaces dashed.
func (s *Session) ExportFilename() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	name := strings.ReplaceAll(s.query, " ", "-")
	if name == "" {
		name = "companies"
	}
	return name + ".csv"
}
