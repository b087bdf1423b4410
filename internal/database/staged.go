package database

// StagedHeuristicResult is a heuristic finding written by the Garmadon agent and waiting to be
// transferred. Severity holds the raw ordinal as written by the agent.
type StagedHeuristicResult struct {
	ID             uint   `gorm:"primaryKey" db:"id" json:"id"`
	AppResultID    string `gorm:"column:yarn_app_result_id;type:varchar(50);not null;index" db:"yarn_app_result_id" json:"yarn_app_result_id"`
	HeuristicClass string `gorm:"type:text" db:"heuristic_class" json:"heuristic_class"`
	HeuristicName  string `gorm:"type:text" db:"heuristic_name" json:"heuristic_name"`
	Severity       int    `gorm:"not null;default:0" db:"severity" json:"severity"`
	Score          int    `gorm:"not null;default:0" db:"score" json:"score"`
	Ready          bool   `gorm:"not null;default:false;index" db:"ready" json:"ready"`
	ReadTimes      int    `gorm:"not null;default:0" db:"read_times" json:"read_times"`
}

// StagedHeuristicResultDetail belongs to exactly one StagedHeuristicResult
type StagedHeuristicResultDetail struct {
	ID                uint   `gorm:"primaryKey" db:"id" json:"id"`
	HeuristicResultID uint   `gorm:"column:yarn_app_heuristic_result_id;not null;index" db:"yarn_app_heuristic_result_id" json:"yarn_app_heuristic_result_id"`
	Name              string `gorm:"type:text" db:"name" json:"name"`
	Value             string `gorm:"type:text" db:"value" json:"value"`
	Details           string `gorm:"type:text" db:"details" json:"details"`
}

func (StagedHeuristicResult) TableName() string {
	return "garmadon_yarn_app_heuristic_result"
}

func (StagedHeuristicResultDetail) TableName() string {
	return "garmadon_yarn_app_heuristic_result_details"
}
