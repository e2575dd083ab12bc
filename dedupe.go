package roster

// MergeStrategy selects how two matching profiles are combined.
type MergeStrategy string

// MergeStrategy values.
const (
	// MergePreferComplete keeps the first-seen profile, fills its gaps, and
	// takes the longer role and bio.
	MergePreferComplete MergeStrategy = "prefer_complete"

	// MergePreferRecent keeps the newer profile and fills its gaps from the
	// older one.
	MergePreferRecent MergeStrategy = "prefer_recent"

	// MergeManual only fills gaps in the first-seen profile.
	MergeManual MergeStrategy = "manual"
)

// IsValid reports whether s is a known strategy.
func (s MergeStrategy) IsValid() bool {
	switch s {
	case MergePreferComplete, MergePreferRecent, MergeManual:
		return true
	}
	return false
}

// DedupStats summarizes a deduplication pass.
type DedupStats struct {
	DuplicatesFound int `json:"duplicatesFound"`
	MergesPerformed int `json:"mergesPerformed"`
}

// Deduplicator collapses profiles describing the same person.
type Deduplicator interface {
	// Deduplicate returns the unique profiles in input order. The input
	// profiles are not modified.
	Deduplicate(profiles []*Profile) ([]*Profile, DedupStats)
}
