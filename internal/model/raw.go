package model

import (
	"bytes"

	"github.com/tidwall/gjson"
)

// RawResult is a provider response kept verbatim. It is only ever read.
type RawResult struct {
	Provider string
	Body     []byte
}

// Get never fails: missing keys, wrong types and invalid JSON all yield a
// result whose Exists() is false.
func (r RawResult) Get(path string) gjson.Result {
	if !r.Valid() {
		return gjson.Result{}
	}
	return gjson.GetBytes(r.Body, path)
}

func (r RawResult) Valid() bool {
	return len(r.Body) > 0 && gjson.ValidBytes(r.Body)
}

// HasContent is false for an empty body and for empty JSON documents such as
// "{}", "[]" or "null". Bodies that are not JSON count as content.
func (r RawResult) HasContent() bool {
	if len(bytes.TrimSpace(r.Body)) == 0 {
		return false
	}
	if !r.Valid() {
		return true
	}
	root := gjson.ParseBytes(r.Body)
	switch {
	case root.Type == gjson.Null:
		return false
	case root.IsObject(), root.IsArray():
		empty := true
		root.ForEach(func(_, _ gjson.Result) bool {
			empty = false
			return false
		})
		return !empty
	}
	return true
}
