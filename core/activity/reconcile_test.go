package activity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/volatiletech/null/v8"
)

var t0 = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func rec(id int64, typ string, xp int, at time.Time, desc ...string) Record {
	r := Record{ID: id, Type: typ, CreatedAt: at, XPEarned: null.IntFrom(xp)}
	if len(desc) > 0 {
		r.Description = null.StringFrom(desc[0])
	}
	return r
}

func ids(items []FeedItem) []int64 {
	out := make([]int64, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func TestReconcile(t *testing.T) {
	tests := []struct {
		name      string
		records   []Record
		wantIDs   []int64
		wantTitle map[int64]string
		wantType  map[int64]string
	}{
		{name: "empty", records: nil, wantIDs: []int64{}},
		{
			name: "xp absorbed by lesson with same xp",
			records: []Record{
				{ID: 1, Type: TypeLessonCompleted, CreatedAt: t0, XPEarned: null.IntFrom(50), Title: null.StringFrom("Finished Loops")},
				rec(2, TypeXPEarned, 50, t0.Add(30*time.Second)),
			},
			wantIDs:   []int64{1},
			wantTitle: map[int64]string{1: "Finished Loops"},
			wantType:  map[int64]string{1: TypeLessonCompleted},
		},
		{
			name: "xp absorbed by any main activity with xp inside window",
			records: []Record{
				rec(1, TypeQuizPassed, 10, t0),
				rec(2, TypeXPEarned, 99, t0.Add(-90*time.Second)),
			},
			wantIDs: []int64{1},
		},
		{
			name: "xp absorbed by zero-xp main with equal (zero) xp",
			records: []Record{
				rec(1, TypeStreakMilestone, 0, t0),
				rec(2, TypeXPEarned, 0, t0.Add(time.Minute)),
			},
			wantIDs: []int64{1},
		},
		{
			name: "xp kept when main has no xp and different amount",
			records: []Record{
				rec(1, TypeAccountCreated, 0, t0),
				rec(2, TypeXPEarned, 15, t0.Add(time.Minute)),
			},
			wantIDs:   []int64{2, 1},
			wantTitle: map[int64]string{2: "⭐ Earned 15 XP", 1: "Account Created"},
		},
		{
			name: "window is exclusive at two minutes",
			records: []Record{
				rec(1, TypeLessonCompleted, 50, t0),
				rec(2, TypeXPEarned, 50, t0.Add(MatchWindow)),
			},
			wantIDs: []int64{2, 1},
		},
		{
			name:      "quiz synthesis",
			records:   []Record{rec(1, TypeXPEarned, 20, t0, "Completed a quiz")},
			wantIDs:   []int64{1},
			wantTitle: map[int64]string{1: "🎯 Quiz Completed!"},
			wantType:  map[int64]string{1: TypeQuizCompleted},
		},
		{
			name:      "quiz wins over lesson",
			records:   []Record{rec(1, TypeXPEarned, 20, t0, "lesson quiz bonus")},
			wantIDs:   []int64{1},
			wantTitle: map[int64]string{1: "🎯 Quiz Completed!"},
			wantType:  map[int64]string{1: TypeQuizCompleted},
		},
		{
			name:      "lesson synthesis",
			records:   []Record{rec(1, TypeXPEarned, 20, t0, "Finished lesson 3")},
			wantIDs:   []int64{1},
			wantTitle: map[int64]string{1: "✅ Lesson Completed!"},
			wantType:  map[int64]string{1: TypeLessonCompleted},
		},
		{
			name:      "study session synthesis",
			records:   []Record{rec(1, TypeXPEarned, 5, t0, "Logged a study session")},
			wantIDs:   []int64{1},
			wantTitle: map[int64]string{1: "📅 Study Session Completed!"},
			wantType:  map[int64]string{1: TypeStudySessionCompleted},
		},
		{
			name:      "fallback title",
			records:   []Record{rec(1, TypeXPEarned, 15, t0, "")},
			wantIDs:   []int64{1},
			wantTitle: map[int64]string{1: "⭐ Earned 15 XP"},
			wantType:  map[int64]string{1: TypeXPEarned},
		},
		{
			name:      "missing xp and description",
			records:   []Record{{ID: 1, Type: TypeXPEarned, CreatedAt: t0}},
			wantIDs:   []int64{1},
			wantTitle: map[int64]string{1: "⭐ Earned 0 XP"},
		},
		{
			name: "several xp records match the same main independently",
			records: []Record{
				rec(1, TypeLessonCompleted, 50, t0),
				rec(2, TypeXPEarned, 50, t0.Add(10*time.Second)),
				rec(3, TypeXPEarned, 5, t0.Add(20*time.Second)),
			},
			wantIDs: []int64{1},
		},
		{
			name: "newest first, ties keep input order",
			records: []Record{
				rec(1, TypeLevelUp, 0, t0),
				rec(2, TypeLessonCompleted, 10, t0.Add(time.Hour)),
				rec(3, TypeQuizPassed, 10, t0),
				rec(4, "something_new", 0, t0.Add(2*time.Hour)),
			},
			wantIDs:  []int64{4, 2, 1, 3},
			wantType: map[int64]string{4: "something_new"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Reconcile(tt.records)
			assert.Equal(t, tt.wantIDs, ids(got))
			assert.LessOrEqual(t, len(got), len(tt.records))
			for _, it := range got {
				assert.NotEmpty(t, it.Title, "title of %d", it.ID)
				assert.NotEmpty(t, it.Icon, "icon of %d", it.ID)
				if want, ok := tt.wantTitle[it.ID]; ok {
					assert.Equal(t, want, it.Title)
				}
				if want, ok := tt.wantType[it.ID]; ok {
					assert.Equal(t, want, it.Type)
				}
			}
		})
	}
}

func TestReconcile_DoesNotMutateInput(t *testing.T) {
	records := []Record{rec(1, TypeXPEarned, 20, t0, "Completed a quiz")}
	_ = Reconcile(records)
	assert.Equal(t, TypeXPEarned, records[0].Type)
	assert.False(t, records[0].Title.Valid)
}

func TestReconcile_DeterministicAndOrdered(t *testing.T) {
	var records []Record
	for i := 0; i < 40; i++ {
		typ := TypeXPEarned
		if i%3 == 0 {
			typ = TypeLessonCompleted
		}
		// spread records over time with some collisions
		records = append(records, rec(int64(i), typ, i%4*10, t0.Add(time.Duration(i*i%17)*time.Minute)))
	}

	first := Reconcile(records)
	second := Reconcile(records)
	assert.Equal(t, first, second)
	assert.LessOrEqual(t, len(first), len(records))
	for i := 1; i < len(first); i++ {
		assert.False(t, first[i].CreatedAt.After(first[i-1].CreatedAt), "item %d is newer than item %d", i, i-1)
	}
}

func TestIcon(t *testing.T) {
	tests := map[string]string{
		TypeLessonCompleted:       "✅",
		TypeQuizPassed:            "🎯",
		TypeQuizCompleted:         "🎯",
		TypeStreakMilestone:       "🔥",
		TypeLevelUp:               "🎉",
		TypeAccountCreated:        "🎊",
		TypeStudySessionAdded:     "📅",
		TypeStudySessionCompleted: "📅",
		TypeXPEarned:              "⭐",
		"":                        "📈",
		"badge_unlocked":          "📈",
	}
	for typ, want := range tests {
		assert.Equal(t, want, Icon(typ), "Icon(%q)", typ)
	}
	for _, typ := range Types {
		assert.NotEqual(t, defaultIcon, Icon(typ), "known type %q fell back to default", typ)
	}
}

func TestTimeAgo(t *testing.T) {
	now := t0.Add(3 * time.Hour)
	assert.Equal(t, "3 hours ago", TimeAgo(FeedItem{CreatedAt: t0}, now))
	assert.Equal(t, "just now", TimeAgo(FeedItem{CreatedAt: t0, TimeAgo: null.StringFrom("just now")}, now))
	assert.Equal(t, "", TimeAgo(FeedItem{}, now))
}
