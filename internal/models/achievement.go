package models

// Accrual period codes of achievements.
const (
	PeriodDay   = "d"
	PeriodWeek  = "w"
	PeriodMonth = "m"
)

// Achievement is a catalog entry describing how points are earned.
type Achievement struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Reward      int64  `json:"reward"`
	Position    string `json:"position"`
	Division    string `json:"division"`
	Period      string `json:"period"`
}

// AchievementFilter narrows an achievement query by division bucket.
type AchievementFilter struct {
	Division string
}
