package apisvc

import (
	"context"

	"github.com/codegrow/frontend/core/activity"
	"github.com/codegrow/frontend/core/collection"
)

// Activities returns the raw activity records of the signed-in user.
func (c *Client) Activities(ctx context.Context) ([]activity.Record, error) {
	var raw []byte
	if err := c.get(ctx, "accounts/activities/", &raw); err != nil {
		return nil, err
	}
	res, err := decodeList[activity.Record](raw)
	if err != nil {
		return nil, err
	}
	return res.Items, nil
}

// ActivityLog is the collection.Fetcher of the admin activity log.
func (c *Client) ActivityLog(ctx context.Context, req collection.Request) (collection.Result[activity.LogEntry], error) {
	return list[activity.LogEntry](ctx, c, req)
}

func list[T any](ctx context.Context, c *Client, req collection.Request) (collection.Result[T], error) {
	var raw []byte
	if err := c.get(ctx, req.String(), &raw); err != nil {
		return collection.Result[T]{}, err
	}
	return decodeList[T](raw)
}
