package dto

type OutcomeOutput struct {
	EntryID   string
	RemoteRef string
	Err       string
	Duplicate bool
	Skipped   bool
}

type ReportOutput struct {
	Synced   int
	Failed   int
	Skipped  int
	Outcomes []OutcomeOutput
}
