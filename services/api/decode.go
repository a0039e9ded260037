package apisvc

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/codegrow/frontend/core/collection"
)

type paginated[T any] struct {
	Results []T  `json:"results"`
	Count   *int `json:"count"`
}

// decodeList is the single adapter for every list endpoint. It accepts the paginated
// {results, count} envelope as well as a bare array, and always yields non-nil items.
// A missing count falls back to the number of items received.
func decodeList[T any](body []byte) (collection.Result[T], error) {
	body = bytes.TrimSpace(body)
	var res collection.Result[T]

	switch {
	case len(body) == 0 || bytes.Equal(body, []byte("null")):
	case body[0] == '[':
		if err := json.Unmarshal(body, &res.Items); err != nil {
			return res, errors.Wrap(err, "decoding list")
		}
	default:
		var page paginated[T]
		if err := json.Unmarshal(body, &page); err != nil {
			return res, errors.Wrap(err, "decoding page")
		}
		res.Items = page.Results
		if page.Count != nil {
			res.Count = *page.Count
		}
	}

	if res.Items == nil {
		res.Items = []T{}
	}
	if res.Count < len(res.Items) {
		res.Count = len(res.Items)
	}
	return res, nil
}
