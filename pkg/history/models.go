package history

import (
	"errors"
	"time"
)

var (
	ErrRunNotFound  = errors.New("run not found")
	ErrDuplicateRun = errors.New("run already exists")
)

// Run is one recorded invocation of the purge workflow.
type Run struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id" yaml:"id"`
	Drawing    string    `gorm:"index;not null;size:1024" json:"drawing" yaml:"drawing"`
	Backend    string    `gorm:"size:32" json:"backend" yaml:"backend"`
	State      string    `gorm:"index;not null;size:32" json:"state" yaml:"state"`
	Candidates int       `json:"candidates" yaml:"candidates"`
	Deleted    int       `json:"deleted" yaml:"deleted"`
	Failed     int       `json:"failed" yaml:"failed"`
	Error      string    `gorm:"type:text" json:"error,omitempty" yaml:"error,omitempty"`
	StartedAt  time.Time `gorm:"index;not null" json:"started_at" yaml:"started_at"`
	FinishedAt time.Time `json:"finished_at" yaml:"finished_at"`

	Outcomes []RunOutcome `gorm:"foreignKey:RunID;constraint:OnDelete:CASCADE" json:"outcomes,omitempty" yaml:"outcomes,omitempty"`
}

// TableName returns the table name for Run.
func (Run) TableName() string {
	return "runs"
}

// Duration returns how long the run took.
func (r *Run) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// RunOutcome is the recorded result of one deletion attempt.
type RunOutcome struct {
	ID        uint   `gorm:"primaryKey" json:"-" yaml:"-"`
	RunID     string `gorm:"index;not null;size:36" json:"run_id" yaml:"run_id"`
	Position  int    `gorm:"not null" json:"position" yaml:"position"`
	Name      string `gorm:"not null;size:1024" json:"name" yaml:"name"`
	Succeeded bool   `json:"succeeded" yaml:"succeeded"`
	Reason    string `gorm:"size:32" json:"reason,omitempty" yaml:"reason,omitempty"`
	Detail    string `gorm:"type:text" json:"detail,omitempty" yaml:"detail,omitempty"`
}

// TableName returns the table name for RunOutcome.
func (RunOutcome) TableName() string {
	return "run_outcomes"
}

// AllModels returns every model for migration.
func AllModels() []any {
	return []any{
		&Run{},
		&RunOutcome{},
	}
}
