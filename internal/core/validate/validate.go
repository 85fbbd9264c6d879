// Package validate provides shared validation functions.
package validate

import (
	"fmt"
	"strings"

	"github.com/hay-kot/criterio"

	"github.com/hay-kot/lia/internal/core/task"
)

// Description validates that a trimmed task description decodes back to the
// same field once stored: non-empty, no field delimiter, no pipe at either
// end that would join with a neighbouring delimiter, no line breaks.
func Description(desc string) error {
	desc = strings.TrimSpace(desc)
	if desc == "" {
		return fmt.Errorf("description cannot be empty")
	}
	if strings.Contains(desc, task.Delimiter) {
		return fmt.Errorf("description cannot contain %q", task.Delimiter)
	}
	sep := strings.TrimSpace(task.Delimiter)
	if strings.HasPrefix(desc, sep+" ") || strings.HasSuffix(desc, " "+sep) {
		return fmt.Errorf("description cannot start with %q or end with %q", sep+" ", " "+sep)
	}
	if strings.ContainsAny(desc, "\r\n") {
		return fmt.Errorf("description cannot contain line breaks")
	}
	return nil
}

// DescriptionField returns a criterio validator for task descriptions.
func DescriptionField(field, desc string) error {
	return criterio.Run(field, desc, Description)
}
