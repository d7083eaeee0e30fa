package observation

import "github.com/databroker/datahub/internal/domain"

// Record is a single buffered sample as persisted to a backup store.
type Record struct {
	Timestamp float64
	Sample    *domain.Sample
}

// BackupStore is the port an Observation uses to persist its buffer so it
// survives a hub restart. Adapters
// live under internal/adapters/backup.
type BackupStore interface {
	// Persist writes the given records for the observation at path,
	// replacing whatever was previously stored there.
	Persist(path string, records []Record) error

	// Restore reads back the most recently persisted records for path.
	// It returns a nil slice, nil error if nothing has been persisted yet.
	Restore(path string) ([]Record, error)
}

// Scheduler tracks, per observation path, when a backup was last written
// so that Persist is never called more often than backup_period allows.
type Scheduler struct {
	store    BackupStore
	lastSave map[string]float64
}

// NewScheduler creates a Scheduler backed by store. store may be nil, in
// which case Maybe is a no-op (backups disabled).
func NewScheduler(store BackupStore) *Scheduler {
	return &Scheduler{store: store, lastSave: make(map[string]float64)}
}

// Maybe persists records for path if backupPeriod has elapsed since the
// last save (or nothing has been saved yet), given the current time now.
// backupPeriod <= 0 disables backups for that observation.
func (s *Scheduler) Maybe(path string, now float64, backupPeriod float64, records []Record) error {
	if s.store == nil || backupPeriod <= 0 {
		return nil
	}
	last, ok := s.lastSave[path]
	if ok && now-last < backupPeriod {
		return nil
	}
	if err := s.store.Persist(path, records); err != nil {
		return err
	}
	s.lastSave[path] = now
	return nil
}

// Restore loads previously persisted records for path, or (nil, nil) if
// backups are disabled or nothing was ever saved.
func (s *Scheduler) Restore(path string) ([]Record, error) {
	if s.store == nil {
		return nil, nil
	}
	return s.store.Restore(path)
}
