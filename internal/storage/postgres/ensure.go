package postgres

import (
	"github.com/hintforge/hintforge/internal/stats"
	"github.com/hintforge/hintforge/internal/tutor"
)

// Ensure PostgreSQL stores implement the storage interfaces.
var (
	_ tutor.SessionStore = (*SessionStore)(nil)
	_ tutor.HintStore    = (*HintStore)(nil)
	_ tutor.AttemptStore = (*AttemptStore)(nil)
	_ stats.Store        = (*StatStore)(nil)
)
