package models

// DailyStat accumulates learning activity for one calendar day.
// There is at most one record per date; updates are additive merges.
type DailyStat struct {
	ID         string `json:"id" db:"id"`
	Date       string `json:"date" db:"date"` // local date, YYYY-MM-DD
	NewLearned int    `json:"new_learned" db:"new_learned"`
	Reviewed   int    `json:"reviewed" db:"reviewed"`
	TotalTime  int    `json:"total_time" db:"total_time"` // seconds
}

// AppStats is a read projection over the stores, recomputed on demand
type AppStats struct {
	TotalVocabularies int `json:"total_vocabularies"`
	NotStarted        int `json:"not_started"` // box 0
	InProgress        int `json:"in_progress"` // boxes 1-5
	Mastered          int `json:"mastered"`    // box 6
	TodayLearned      int `json:"today_learned"`
	TodayReviewed     int `json:"today_reviewed"`
	ActiveLists       int `json:"active_lists"`
	TotalLists        int `json:"total_lists"`
}
