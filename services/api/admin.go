package apisvc

import (
	"context"
	"strconv"

	"github.com/codegrow/frontend/core/collection"
	"github.com/codegrow/frontend/core/course"
	"github.com/codegrow/frontend/core/user"
)

// Admin resources
const (
	ResourceUsers       = "admin/users/"
	ResourcePathways    = "admin/pathways/"
	ResourceLessons     = "admin/lessons/"
	ResourceActivityLog = "admin/activity-log/"
)

func detail(resource string, id int64) string {
	return resource + strconv.FormatInt(id, 10) + "/"
}

// Users

func (c *Client) Users(ctx context.Context, req collection.Request) (collection.Result[user.User], error) {
	return list[user.User](ctx, c, req)
}

func (c *Client) User(ctx context.Context, id int64) (user.User, error) {
	var usr user.User
	err := c.get(ctx, detail(ResourceUsers, id), &usr)
	return usr, err
}

func (c *Client) CreateUser(ctx context.Context, nu user.NewUser) (user.User, error) {
	var usr user.User
	if err := nu.Validate(); err != nil {
		return usr, err
	}
	err := c.post(ctx, ResourceUsers, nu, &usr)
	return usr, err
}

func (c *Client) UpdateUser(ctx context.Context, orig user.User, uu user.UpdateUser) (user.User, error) {
	var usr user.User
	if err := uu.Validate(orig); err != nil {
		return usr, err
	}
	err := c.put(ctx, detail(ResourceUsers, orig.ID), uu, &usr)
	return usr, err
}

func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	return c.delete(ctx, detail(ResourceUsers, id))
}

type activation struct {
	IsActive bool `json:"is_active"`
}

// SetUserActive activates or deactivates a user account.
func (c *Client) SetUserActive(ctx context.Context, id int64, active bool) error {
	return c.post(ctx, detail(ResourceUsers, id)+"activate/", activation{IsActive: active}, nil)
}

// Pathways

func (c *Client) Pathways(ctx context.Context, req collection.Request) (collection.Result[course.Pathway], error) {
	return list[course.Pathway](ctx, c, req)
}

func (c *Client) Pathway(ctx context.Context, id int64) (course.Pathway, error) {
	var p course.Pathway
	err := c.get(ctx, detail(ResourcePathways, id), &p)
	return p, err
}

func (c *Client) CreatePathway(ctx context.Context, form course.PathwayForm) (course.Pathway, error) {
	var p course.Pathway
	if err := form.Validate(); err != nil {
		return p, err
	}
	err := c.post(ctx, ResourcePathways, form, &p)
	return p, err
}

func (c *Client) UpdatePathway(ctx context.Context, id int64, form course.PathwayForm) (course.Pathway, error) {
	var p course.Pathway
	if err := form.Validate(); err != nil {
		return p, err
	}
	err := c.put(ctx, detail(ResourcePathways, id), form, &p)
	return p, err
}

func (c *Client) DeletePathway(ctx context.Context, id int64) error {
	return c.delete(ctx, detail(ResourcePathways, id))
}

func (c *Client) SetPathwayActive(ctx context.Context, id int64, active bool) error {
	return c.patch(ctx, detail(ResourcePathways, id), activation{IsActive: active}, nil)
}

// Lessons

func (c *Client) Lessons(ctx context.Context, req collection.Request) (collection.Result[course.Lesson], error) {
	return list[course.Lesson](ctx, c, req)
}

func (c *Client) Lesson(ctx context.Context, id int64) (course.Lesson, error) {
	var l course.Lesson
	err := c.get(ctx, detail(ResourceLessons, id), &l)
	return l, err
}

func (c *Client) CreateLesson(ctx context.Context, form course.LessonForm) (course.Lesson, error) {
	var l course.Lesson
	if err := form.Validate(); err != nil {
		return l, err
	}
	err := c.post(ctx, ResourceLessons, form, &l)
	return l, err
}

func (c *Client) UpdateLesson(ctx context.Context, id int64, form course.LessonForm) (course.Lesson, error) {
	var l course.Lesson
	if err := form.Validate(); err != nil {
		return l, err
	}
	err := c.put(ctx, detail(ResourceLessons, id), form, &l)
	return l, err
}

func (c *Client) DeleteLesson(ctx context.Context, id int64) error {
	return c.delete(ctx, detail(ResourceLessons, id))
}

type publication struct {
	IsPublished bool `json:"is_published"`
}

func (c *Client) SetLessonPublished(ctx context.Context, id int64, published bool) error {
	return c.patch(ctx, detail(ResourceLessons, id), publication{IsPublished: published}, nil)
}
