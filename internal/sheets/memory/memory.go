// Package memory is an in-process ActivityAppender used when no spreadsheet
// is configured and in tests.
package memory

import (
	"context"
	"fmt"
	"sync"

	"cleanlog/internal/core"
	ports "cleanlog/internal/sheets"
)

var _ ports.ActivityAppender = (*Sheet)(nil)

type Sheet struct {
	mu   sync.Mutex
	rows []core.CleaningActivity
}

func New() *Sheet {
	return &Sheet{}
}

// AppendActivity stores the activity and returns a synthetic row reference.
func (s *Sheet) AppendActivity(_ context.Context, a core.CleaningActivity) (string, error) {
	if err := a.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, a)
	return fmt.Sprintf("mem:%d", len(s.rows)), nil
}

// Rows returns a copy of the appended activities in order.
func (s *Sheet) Rows() []core.CleaningActivity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.CleaningActivity(nil), s.rows...)
}
