package model

import "encoding/json"

// Optional is a JSON field that remembers whether it was supplied. A field
// missing from the payload leaves Set false; an explicit null sets both Set
// and Null.
type Optional[T any] struct {
	Set   bool
	Null  bool
	Value T
}

// Present reports whether a non-null value was supplied.
func (o Optional[T]) Present() bool {
	return o.Set && !o.Null
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		var zero T
		o.Null = true
		o.Value = zero
		return nil
	}
	o.Null = false
	return json.Unmarshal(data, &o.Value)
}
