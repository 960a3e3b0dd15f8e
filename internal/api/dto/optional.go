package dto

import "encoding/json"

// OptionalNullable tracks whether a nullable int64 field appeared in the
// request body at all, so partial updates can tell "absent" from "null".
type OptionalNullable struct {
	Present bool
	Value   *int64
}

// UnmarshalJSON is only invoked when the field is present in the payload.
func (o *OptionalNullable) UnmarshalJSON(data []byte) error {
	o.Present = true
	return json.Unmarshal(data, &o.Value)
}
