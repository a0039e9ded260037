package echoweb

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/codegrow/frontend/core"
	"github.com/codegrow/frontend/core/activity"
	"github.com/codegrow/frontend/core/collection"
	"github.com/codegrow/frontend/core/course"
	"github.com/codegrow/frontend/core/user"
	apisvc "github.com/codegrow/frontend/services/api"
	metricsvc "github.com/codegrow/frontend/services/metrics"
)

type adminApi struct {
	clientFor clientFunc
	pageSize  int
}

// adminResource serves one admin collection. The funcs are method expressions of apisvc.Client.
type adminResource[T collection.Toggler[T]] struct {
	*adminApi
	name     string // api resource path
	filters  []string
	toggled  string // field flipped by the toggle route
	list     func(*apisvc.Client, context.Context, collection.Request) (collection.Result[T], error)
	get      func(*apisvc.Client, context.Context, int64) (T, error)
	remove   func(*apisvc.Client, context.Context, int64) error
	setField func(*apisvc.Client, context.Context, int64, bool) error
	create   func(echo.Context, *apisvc.Client) (T, error)
	update   func(echo.Context, *apisvc.Client, int64) (T, error)
}

// Routes are registered per resource: the router does not backtrack from a static
// segment to a param one, so "/:resource/:id" would be shadowed by the toggle routes.
func registerAdminAPI(g *echo.Group, jwt echo.MiddlewareFunc, clientFor clientFunc, pageSize int) {
	api := &adminApi{clientFor: clientFor, pageSize: pageSize}
	ag := g.Group("/admin", jwt, adminMiddleware)

	users := adminResource[user.User]{
		adminApi: api,
		name:     apisvc.ResourceUsers,
		filters:  user.Filters,
		toggled:  "is_active",
		list:     (*apisvc.Client).Users,
		get:      (*apisvc.Client).User,
		remove:   (*apisvc.Client).DeleteUser,
		setField: (*apisvc.Client).SetUserActive,
		create:   createUser,
		update:   updateUser,
	}
	users.register(ag, "/users", "/activate")

	pathways := adminResource[course.Pathway]{
		adminApi: api,
		name:     apisvc.ResourcePathways,
		filters:  course.PathwayFilters,
		toggled:  "is_active",
		list:     (*apisvc.Client).Pathways,
		get:      (*apisvc.Client).Pathway,
		remove:   (*apisvc.Client).DeletePathway,
		setField: (*apisvc.Client).SetPathwayActive,
		create:   createPathway,
		update:   updatePathway,
	}
	pathways.register(ag, "/pathways", "/activate")

	lessons := adminResource[course.Lesson]{
		adminApi: api,
		name:     apisvc.ResourceLessons,
		filters:  course.LessonFilters,
		toggled:  "is_published",
		list:     (*apisvc.Client).Lessons,
		get:      (*apisvc.Client).Lesson,
		remove:   (*apisvc.Client).DeleteLesson,
		setField: (*apisvc.Client).SetLessonPublished,
		create:   createLesson,
		update:   updateLesson,
	}
	lessons.register(ag, "/lessons", "/publish")

	// the activity log is read only
	ag.GET("/activity-log", api.activityLog)
}

func (r adminResource[T]) register(g *echo.Group, prefix, action string) {
	g.GET(prefix, r.query)
	g.POST(prefix, r.createOne)
	g.GET(prefix+"/:id", r.retrieve)
	g.PUT(prefix+"/:id", r.updateOne)
	g.DELETE(prefix+"/:id", r.destroy)
	g.POST(prefix+"/:id"+action, r.toggle)
}

// PageResponse is one page of an admin collection.
type PageResponse[T any] struct {
	collection.Page[T]
	TotalPages int `json:"total_pages"`
}

func pageResponse[T any](ctx echo.Context, state collection.State[T]) error {
	return ctx.JSON(http.StatusOK, PageResponse[T]{Page: state.Page, TotalPages: state.TotalPages()})
}

// browser loads the page described by the request query string.
func browser[T collection.Item](
	ctx echo.Context,
	resource string,
	fetch collection.Fetcher[T],
	filters []string,
	pageSize int,
) (*collection.Browser[T], error) {
	b := collection.NewBrowser(resource, fetch, collection.Options{
		PageSize: pageSize,
		Query:    bindQuery(ctx, filters),
		OnStale:  func() { metricsvc.RecordStale(resource) },
	})
	if err := b.Load(ctx.Request().Context()); err != nil {
		b.Dispose()
		return nil, err
	}
	return b, nil
}

func (api *adminApi) activityLog(ctx echo.Context) error {
	client, _, err := api.clientFor(ctx)
	if err != nil {
		return err
	}
	b, err := browser[activity.LogEntry](ctx, apisvc.ResourceActivityLog, client.ActivityLog, activity.LogFilters, api.pageSize)
	if err != nil {
		return err
	}
	defer b.Dispose()
	return pageResponse(ctx, b.Snapshot())
}

// target returns the client of the request and the id of the item it is about.
func (r adminResource[T]) target(ctx echo.Context) (*apisvc.Client, int64, error) {
	client, _, err := r.clientFor(ctx)
	if err != nil {
		return nil, 0, err
	}
	id, err := bindID(ctx)
	if err != nil {
		return nil, 0, err
	}
	return client, id, nil
}

func (r adminResource[T]) browser(ctx echo.Context, client *apisvc.Client) (*collection.Browser[T], error) {
	fetch := func(c context.Context, req collection.Request) (collection.Result[T], error) {
		return r.list(client, c, req)
	}
	return browser[T](ctx, r.name, fetch, r.filters, r.pageSize)
}

func (r adminResource[T]) query(ctx echo.Context) error {
	client, _, err := r.clientFor(ctx)
	if err != nil {
		return err
	}
	b, err := r.browser(ctx, client)
	if err != nil {
		return err
	}
	defer b.Dispose()
	return pageResponse(ctx, b.Snapshot())
}

func (r adminResource[T]) retrieve(ctx echo.Context) error {
	client, id, err := r.target(ctx)
	if err != nil {
		return err
	}
	obj, err := r.get(client, ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, obj)
}

func (r adminResource[T]) createOne(ctx echo.Context) error {
	client, _, err := r.clientFor(ctx)
	if err != nil {
		return err
	}
	obj, err := r.create(ctx, client)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, obj)
}

func (r adminResource[T]) updateOne(ctx echo.Context) error {
	client, id, err := r.target(ctx)
	if err != nil {
		return err
	}
	obj, err := r.update(ctx, client, id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, obj)
}

// destroy deletes the item and answers with the page selected by the query string,
// without the deleted item.
func (r adminResource[T]) destroy(ctx echo.Context) error {
	client, id, err := r.target(ctx)
	if err != nil {
		return err
	}
	b, err := r.browser(ctx, client)
	if err != nil {
		return err
	}
	defer b.Dispose()

	del := func(c context.Context, id int64) error { return r.remove(client, c, id) }
	if err := b.Delete(ctx.Request().Context(), id, del); err != nil {
		return err
	}
	return pageResponse(ctx, b.Snapshot())
}

type toggleFlags struct {
	IsActive    *bool `json:"is_active"`
	IsPublished *bool `json:"is_published"`
}

func (tf toggleFlags) value(field string) *bool {
	if field == "is_published" {
		return tf.IsPublished
	}
	return tf.IsActive
}

func requiredField(name string) error {
	return core.NewValidationError(nil, core.FieldError{Field: name, Error: "this field is required"})
}

// toggle flips the resource's toggled field and answers with the updated page.
func (r adminResource[T]) toggle(ctx echo.Context) error {
	client, id, err := r.target(ctx)
	if err != nil {
		return err
	}
	var data toggleFlags
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to toggleFlags")
	}
	value := data.value(r.toggled)
	if value == nil {
		return requiredField(r.toggled)
	}

	b, err := r.browser(ctx, client)
	if err != nil {
		return err
	}
	defer b.Dispose()

	set := func(c context.Context, id int64) error { return r.setField(client, c, id, *value) }
	if err := collection.Toggle(ctx.Request().Context(), b, id, r.toggled, *value, set); err != nil {
		return err
	}
	return pageResponse(ctx, b.Snapshot())
}

func createUser(ctx echo.Context, client *apisvc.Client) (user.User, error) {
	var nu user.NewUser
	if err := ctx.Bind(&nu); err != nil {
		return user.User{}, errors.Wrap(err, "binding to NewUser")
	}
	return client.CreateUser(ctx.Request().Context(), nu)
}

func updateUser(ctx echo.Context, client *apisvc.Client, id int64) (user.User, error) {
	var uu user.UpdateUser
	if err := ctx.Bind(&uu); err != nil {
		return user.User{}, errors.Wrap(err, "binding to UpdateUser")
	}
	orig, err := client.User(ctx.Request().Context(), id)
	if err != nil {
		return user.User{}, err
	}
	return client.UpdateUser(ctx.Request().Context(), orig, uu)
}

func createPathway(ctx echo.Context, client *apisvc.Client) (course.Pathway, error) {
	var form course.PathwayForm
	if err := ctx.Bind(&form); err != nil {
		return course.Pathway{}, errors.Wrap(err, "binding to PathwayForm")
	}
	return client.CreatePathway(ctx.Request().Context(), form)
}

func updatePathway(ctx echo.Context, client *apisvc.Client, id int64) (course.Pathway, error) {
	var form course.PathwayForm
	if err := ctx.Bind(&form); err != nil {
		return course.Pathway{}, errors.Wrap(err, "binding to PathwayForm")
	}
	return client.UpdatePathway(ctx.Request().Context(), id, form)
}

func createLesson(ctx echo.Context, client *apisvc.Client) (course.Lesson, error) {
	var form course.LessonForm
	if err := ctx.Bind(&form); err != nil {
		return course.Lesson{}, errors.Wrap(err, "binding to LessonForm")
	}
	return client.CreateLesson(ctx.Request().Context(), form)
}

func updateLesson(ctx echo.Context, client *apisvc.Client, id int64) (course.Lesson, error) {
	var form course.LessonForm
	if err := ctx.Bind(&form); err != nil {
		return course.Lesson{}, errors.Wrap(err, "binding to LessonForm")
	}
	return client.UpdateLesson(ctx.Request().Context(), id, form)
}
