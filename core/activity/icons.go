package activity

import (
	"time"

	"github.com/dustin/go-humanize"
)

const defaultIcon = "📈"

var icons = map[string]string{
	TypeLessonCompleted:       "✅",
	TypeQuizPassed:            "🎯",
	TypeQuizCompleted:         "🎯",
	TypeStreakMilestone:       "🔥",
	TypeLevelUp:               "🎉",
	TypeAccountCreated:        "🎊",
	TypeStudySessionAdded:     "📅",
	TypeStudySessionCompleted: "📅",
	TypeXPEarned:              "⭐",
}

// Icon maps an activity type to its glyph. Unknown types get the default glyph.
func Icon(activityType string) string {
	if icon, ok := icons[activityType]; ok {
		return icon
	}
	return defaultIcon
}

// TimeAgo returns the server provided relative time, or computes one against now.
func TimeAgo(item FeedItem, now time.Time) string {
	if item.TimeAgo.Valid && item.TimeAgo.String != "" {
		return item.TimeAgo.String
	}
	if item.CreatedAt.IsZero() {
		return ""
	}
	return humanize.RelTime(item.CreatedAt, now, "ago", "from now")
}
