package caplena

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// listPage is the canonical form of a listing response. The API answers
// either with a bare array or with {"results": [...], "next_url": ...}.
type listPage[T any] struct {
	Items []T
	Next  string
	Bare  bool
}

func decodeList[T any](body []byte) (listPage[T], error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return listPage[T]{}, fmt.Errorf("%w: empty body", ErrUnexpectedShape)
	}

	switch trimmed[0] {
	case '[':
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return listPage[T]{}, fmt.Errorf("%w: %v", ErrUnexpectedShape, err)
		}
		return listPage[T]{Items: items, Bare: true}, nil
	case '{':
		var envelope struct {
			Results *[]T   `json:"results"`
			NextURL string `json:"next_url"`
			Next    string `json:"next"`
		}
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return listPage[T]{}, fmt.Errorf("%w: %v", ErrUnexpectedShape, err)
		}
		if envelope.Results == nil {
			return listPage[T]{}, fmt.Errorf("%w: object without results", ErrUnexpectedShape)
		}
		next := envelope.NextURL
		if next == "" {
			next = envelope.Next
		}
		return listPage[T]{Items: *envelope.Results, Next: next}, nil
	default:
		return listPage[T]{}, fmt.Errorf("%w: starts with %q", ErrUnexpectedShape, trimmed[0])
	}
}
