package sqlite

import (
	"fmt"
	"strings"

	"github.com/OrionApplePie/ProjectsAutomation/internal/repository"
)

// writeError maps SQLite constraint failures on insert or update to the
// repository sentinels and wraps anything else with action.
func writeError(err error, action string) error {
	switch {
	case isUniqueViolation(err):
		return repository.ErrConflict
	case isForeignKeyViolation(err):
		return repository.ErrForeignKeyViolation
	default:
		return fmt.Errorf("failed to %s: %w", action, err)
	}
}

func isForeignKeyViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
