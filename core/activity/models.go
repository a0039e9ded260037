package activity

import (
	"time"

	"github.com/volatiletech/null/v8"
)

// Types
const (
	TypeLessonCompleted       = "lesson_completed"
	TypeQuizCompleted         = "quiz_completed"
	TypeQuizPassed            = "quiz_passed"
	TypeStreakMilestone       = "streak_milestone"
	TypeLevelUp               = "level_up"
	TypeAccountCreated        = "account_created"
	TypeStudySessionAdded     = "study_session_added"
	TypeStudySessionCompleted = "study_session_completed"
	TypeXPEarned              = "xp_earned"
)

var typeLabels = map[string]string{
	TypeLessonCompleted:       "Lesson Completed",
	TypeQuizCompleted:         "Quiz Completed",
	TypeQuizPassed:            "Quiz Passed",
	TypeStreakMilestone:       "Streak Milestone",
	TypeLevelUp:               "Level Up",
	TypeAccountCreated:        "Account Created",
	TypeStudySessionAdded:     "Study Session Added",
	TypeStudySessionCompleted: "Study Session Completed",
	TypeXPEarned:              "XP Earned",
}

// Types lists every known activity type, e.g. for CLI help & filter choices.
var Types = []string{
	TypeLessonCompleted,
	TypeQuizCompleted,
	TypeQuizPassed,
	TypeStreakMilestone,
	TypeLevelUp,
	TypeAccountCreated,
	TypeStudySessionAdded,
	TypeStudySessionCompleted,
	TypeXPEarned,
}

// Label returns a human label for an activity type.
func Label(activityType string) string {
	if label, ok := typeLabels[activityType]; ok {
		return label
	}
	return "Activity"
}

// Record is an activity as logged by the server. The client never mutates it.
type Record struct {
	ID          int64        `json:"id"`
	Type        string       `json:"activity_type"`
	CreatedAt   time.Time    `json:"created_at"` // UTC
	XPEarned    null.Int     `json:"xp_earned"`
	Description null.String  `json:"description"`
	Title       null.String  `json:"title"`
	QuizScore   null.Float64 `json:"quiz_score"`
	StreakCount null.Int     `json:"streak_count"`
	TimeAgo     null.String  `json:"time_ago"`
}

// XP returns the earned XP, 0 when the server omitted it.
func (r Record) XP() int {
	if !r.XPEarned.Valid || r.XPEarned.Int < 0 {
		return 0
	}
	return r.XPEarned.Int
}

// FeedItem is a Record ready to be rendered: Title and Icon are always set.
type FeedItem struct {
	ID          int64        `json:"id"`
	Type        string       `json:"activity_type"`
	CreatedAt   time.Time    `json:"created_at"`
	XPEarned    int          `json:"xp_earned"`
	Description string       `json:"description"`
	Title       string       `json:"title"`
	Icon        string       `json:"icon"`
	QuizScore   null.Float64 `json:"quiz_score"`
	StreakCount null.Int     `json:"streak_count"`
	TimeAgo     null.String  `json:"time_ago"`
}

// LogEntry is an admin activity-log row: a Record plus the user who performed it.
type LogEntry struct {
	Record
	UserID   int64       `json:"user_id"`
	Username null.String `json:"username"`
}

func (e LogEntry) ItemID() int64 { return e.ID }

// Log filters
const (
	FilterType     = "activity_type"
	FilterUserID   = "user_id"
	FilterDateFrom = "date_from"
	FilterDateTo   = "date_to"
)

// LogFilters are the filters accepted by admin/activity-log/.
var LogFilters = []string{FilterType, FilterUserID, FilterDateFrom, FilterDateTo}
