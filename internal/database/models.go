package database

// Column ceilings of the primary heuristic tables. DetailDetailsLimit is in
// bytes (MySQL TEXT), the others are in characters.
const (
	HeuristicClassLimit = 255
	HeuristicNameLimit  = 128
	DetailNameLimit     = 128
	DetailValueLimit    = 255
	DetailDetailsLimit  = 65535
)

// AppResult is the canonical result record of one YARN application.
// It is created by the analysis service; the transfer only appends heuristic results to it
// and raises its severity.
type AppResult struct {
	ID          string   `gorm:"primaryKey;type:varchar(50)" json:"id"`
	Name        string   `gorm:"type:varchar(100)" json:"name"`
	Username    string   `gorm:"type:varchar(50);index" json:"username"`
	QueueName   string   `gorm:"type:varchar(50)" json:"queue_name"`
	StartTime   int64    `json:"start_time"`
	FinishTime  int64    `gorm:"index" json:"finish_time"`
	TrackingURL string   `gorm:"column:tracking_url;type:varchar(255)" json:"tracking_url"`
	JobType     string   `gorm:"type:varchar(20)" json:"job_type"`
	Severity    Severity `gorm:"type:smallint;not null;default:0" json:"severity"`
	Score       int      `gorm:"not null;default:0" json:"score"`

	// Has many heuristic results
	HeuristicResults []AppHeuristicResult `gorm:"foreignKey:AppResultID" json:"heuristic_results,omitempty"`
}

// AppHeuristicResult is one heuristic finding attached to an AppResult
type AppHeuristicResult struct {
	ID             uint     `gorm:"primaryKey" json:"id"`
	AppResultID    string   `gorm:"column:yarn_app_result_id;type:varchar(50);not null;index" json:"yarn_app_result_id"`
	HeuristicClass string   `gorm:"type:varchar(255);not null" json:"heuristic_class"`
	HeuristicName  string   `gorm:"type:varchar(128);not null" json:"heuristic_name"`
	Severity       Severity `gorm:"type:smallint;not null" json:"severity"`
	Score          int      `gorm:"not null;default:0" json:"score"`

	// Has many details
	Details []AppHeuristicResultDetail `gorm:"foreignKey:HeuristicResultID" json:"details,omitempty"`
}

// AppHeuristicResultDetail is a name/value annotation of an AppHeuristicResult
type AppHeuristicResultDetail struct {
	HeuristicResultID uint   `gorm:"column:yarn_app_heuristic_result_id;primaryKey;autoIncrement:false" json:"yarn_app_heuristic_result_id"`
	Name              string `gorm:"primaryKey;type:varchar(128)" json:"name"`
	Value             string `gorm:"type:varchar(255);not null" json:"value"`
	Details           string `gorm:"type:text" json:"details"`
}

func (AppResult) TableName() string {
	return "yarn_app_result"
}

func (AppHeuristicResult) TableName() string {
	return "yarn_app_heuristic_result"
}

func (AppHeuristicResultDetail) TableName() string {
	return "yarn_app_heuristic_result_details"
}
