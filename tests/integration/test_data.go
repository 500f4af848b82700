package integration

import (
	"context"
	"fmt"
	"time"

	"github.com/prospectlab/prospect/internal/models"
	"github.com/prospectlab/prospect/internal/repositories"
)

// SeedUser inserts a user with a unique email and returns it.
func SeedUser(ctx context.Context, users *repositories.UserRepository, suffix string) (*models.User, error) {
	user := &models.User{
		Name:  "Test User " + suffix,
		Email: fmt.Sprintf("test-%d-%s@example.com", time.Now().UnixNano(), suffix),
	}
	return users.Create(ctx, user)
}

// SeedHistory inserts n history entries for the user, oldest first, spaced a
// second apart so ordering is deterministic.
func SeedHistory(ctx context.Context, history *repositories.HistoryRepository, userID string, n int) ([]*models.HistoryEntry, error) {
	base := time.Now().Add(-time.Duration(n) * time.Second).Truncate(time.Microsecond)

	entries := make([]*models.HistoryEntry, 0, n)
	for i := 0; i < n; i++ {
		entry := &models.HistoryEntry{
			ID:     fmt.Sprintf("h-%s-%d", userID, i),
			UserID: userID,
			Query:  fmt.Sprintf("query %d", i),
			Source: models.SourceLinkedIn,
			Date:   base.Add(time.Duration(i) * time.Second),
		}
		created, err := history.Create(ctx, entry)
		if err != nil {
			return nil, err
		}
		entries = append(entries, created)
	}
	return entries, nil
}
