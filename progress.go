package roster

// Stage is one state of a scrape job.
type Stage string

// Stage values, in pipeline order.
const (
	StageDiscoveringTeamPage     Stage = "discovering_team_page"
	StageDiscoveringProfileLinks Stage = "discovering_profile_links"
	StageDeepScraping            Stage = "deep_scraping"
	StageDeduplicating           Stage = "deduplicating"
	StagePersisting              Stage = "persisting"
	StageDone                    Stage = "done"
)

// Progress reports how far a scrape job has come within its current stage.
type Progress struct {
	Stage   Stage
	Current int
	Total   int
	Message string
}

// ProgressFunc is a callback for reporting scrape progress.
type ProgressFunc func(Progress)
