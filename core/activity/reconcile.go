package activity

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// MatchWindow is how close in time a main activity must be to absorb a standalone xp_earned record.
const MatchWindow = 2 * time.Minute

// Reconcile turns raw activity records into a render-ready feed, newest first.
//
// A standalone xp_earned record is dropped when a main activity lies within MatchWindow of it and
// either earned the same XP or earned any XP at all. Unmatched xp_earned records are kept and given
// a title (and possibly a more specific type) guessed from their description.
func Reconcile(records []Record) []FeedItem {
	if len(records) == 0 {
		return []FeedItem{}
	}

	mains := make([]Record, 0, len(records))
	for _, rec := range records {
		if rec.Type != TypeXPEarned {
			mains = append(mains, rec)
		}
	}

	items := make([]FeedItem, 0, len(records))
	for _, rec := range records {
		if rec.Type != TypeXPEarned {
			items = append(items, mainItem(rec))
			continue
		}
		if absorbed(rec, mains) {
			continue
		}
		items = append(items, xpItem(rec))
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items
}

// absorbed reports whether any main activity already accounts for the xp record.
// NOTE: `m.XP() > 0` alone is enough to match, so an unrelated XP-earning activity
// inside the window also hides the record.
func absorbed(xp Record, mains []Record) bool {
	for _, m := range mains {
		if absDuration(m.CreatedAt.Sub(xp.CreatedAt)) >= MatchWindow {
			continue
		}
		if m.XP() == xp.XP() || m.XP() > 0 {
			return true
		}
	}
	return false
}

func mainItem(rec Record) FeedItem {
	item := newItem(rec)
	item.Title = rec.Title.String
	if item.Title == "" {
		item.Title = Label(rec.Type)
	}
	item.Icon = Icon(item.Type)
	return item
}

func xpItem(rec Record) FeedItem {
	item := newItem(rec)
	switch desc := item.Description; {
	case strings.Contains(desc, "quiz"):
		item.Title = "🎯 Quiz Completed!"
		item.Type = TypeQuizCompleted
	case strings.Contains(desc, "lesson"):
		item.Title = "✅ Lesson Completed!"
		item.Type = TypeLessonCompleted
	case strings.Contains(desc, "study session"):
		item.Title = "📅 Study Session Completed!"
		item.Type = TypeStudySessionCompleted
	default:
		item.Title = fmt.Sprintf("⭐ Earned %d XP", item.XPEarned)
	}
	item.Icon = Icon(item.Type)
	return item
}

func newItem(rec Record) FeedItem {
	return FeedItem{
		ID:          rec.ID,
		Type:        rec.Type,
		CreatedAt:   rec.CreatedAt,
		XPEarned:    rec.XP(),
		Description: rec.Description.String,
		QuizScore:   rec.QuizScore,
		StreakCount: rec.StreakCount,
		TimeAgo:     rec.TimeAgo,
	}
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
