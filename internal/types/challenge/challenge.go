package challenge

type Status string

const (
	StatusCurrent   Status = "current"
	StatusCompleted Status = "completed"
	StatusExpired   Status = "expired"
)

// Template is a catalog entry owned by the authoring tool. The engine only
// ever reads these.
type Template struct {
	TemplateID     string  `json:"template_id" dynamodbav:"template_id"`
	DistanceFactor float64 `json:"distance_factor" dynamodbav:"distance_factor"`
	RewardFactor   float64 `json:"reward_factor" dynamodbav:"reward_factor"`
	DaysFromStart  int     `json:"days_from_start" dynamodbav:"days_from_start"`
	// Duration is a count of days. -1 means the challenge runs through the
	// last day of its start month.
	Duration int `json:"duration" dynamodbav:"duration"`
}

// SentinelBucketID marks the new-user bucket, which never receives
// challenges.
const SentinelBucketID = -1

type Bucket struct {
	BucketID     int      `json:"bucket_id"`
	AverageSkill float64  `json:"average_skill"`
	Users        []string `json:"users"`
}

// Challenge is the persisted record, keyed by (user_id, challenge_id).
type Challenge struct {
	UserID          string  `json:"user_id" dynamodbav:"user_id"`
	ChallengeID     string  `json:"challenge_id" dynamodbav:"challenge_id"`
	CompletedMeters float64 `json:"completed_meters" dynamodbav:"completed_meters"`
	StartDate       string  `json:"start_date" dynamodbav:"start_date"`
	EndDate         string  `json:"end_date" dynamodbav:"end_date"`
	Status          Status  `json:"status" dynamodbav:"status"`
	TargetMeters    float64 `json:"target_meters" dynamodbav:"target_meters"`
	TemplateID      string  `json:"template_id" dynamodbav:"template_id"`
	Points          float64 `json:"points" dynamodbav:"points"`
	SeasonID        string  `json:"season_id" dynamodbav:"season_id"`
	BucketID        int     `json:"bucket_id" dynamodbav:"bucket_id"`
}

// GeneratePayload is the body of a season generation request.
type GeneratePayload struct {
	SeasonID  string   `json:"season_id"`
	StartDate string   `json:"start_date"`
	Buckets   []Bucket `json:"buckets"`
}
