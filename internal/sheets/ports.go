package sheets

import (
	"context"

	"cleanlog/internal/core"
)

// Ports for outbound adapters.
type (
	// ActivityAppender mirrors a stored activity into an external sheet.
	ActivityAppender interface {
		AppendActivity(ctx context.Context, a core.CleaningActivity) (rowRef string, err error)
	}
)
