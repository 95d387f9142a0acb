package sqlite

import (
	"github.com/hintforge/hintforge/internal/stats"
	"github.com/hintforge/hintforge/internal/tutor"
)

// Ensure SQLite stores implement the storage interfaces.
var (
	_ tutor.SessionStore = (*SessionStore)(nil)
	_ tutor.HintStore    = (*HintStore)(nil)
	_ tutor.AttemptStore = (*AttemptStore)(nil)
	_ stats.Store        = (*StatStore)(nil)
)
