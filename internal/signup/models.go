package signup

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// User is the record persisted for every successful signup.
// Name and Age are kept exactly as the client sent them; the store
// assigns the _id.
type User struct {
	ID   string      `json:"id,omitempty" bson:"_id,omitempty"`
	Name interface{} `json:"name" bson:"name"`
	Age  interface{} `json:"age" bson:"age"`
}

// Truthy reports whether a decoded JSON value counts as present.
// nil, false, "", numeric zero, [] and {} are all treated as missing.
func Truthy(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case json.Number:
		return !isZeroNumber(string(t))
	case float64:
		return t != 0
	case int64:
		return t != 0
	case int:
		return t != 0
	case []interface{}:
		return len(t) > 0
	case map[string]interface{}:
		return len(t) > 0
	}
	return true
}

func isZeroNumber(s string) bool {
	mant := strings.TrimLeft(s, "-+")
	if i := strings.IndexAny(mant, "eE"); i >= 0 {
		mant = mant[:i]
	}
	return strings.Trim(mant, "0.") == ""
}

// ErrNumberRange is returned by Normalize for numbers the store cannot hold
// without changing them: integers beyond int64 and floats beyond float64.
var ErrNumberRange = errors.New("number out of range")

// Normalize converts json.Number values (recursively) into int64 for integer
// literals and float64 for literals with a fraction or exponent.
func Normalize(v interface{}) (interface{}, error) {
	switch t := v.(type) {
	case json.Number:
		s := t.String()
		if !strings.ContainsAny(s, ".eE") {
			i, err := t.Int64()
			if err != nil {
				return nil, fmt.Errorf("%w: %s does not fit in a 64-bit integer", ErrNumberRange, s)
			}
			return i, nil
		}
		f, err := t.Float64()
		if err != nil {
			if errors.Is(err, strconv.ErrRange) {
				return nil, fmt.Errorf("%w: %s does not fit in a double", ErrNumberRange, s)
			}
			return nil, err
		}
		return f, nil
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, e := range t {
			n, err := Normalize(e)
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, e := range t {
			n, err := Normalize(e)
			if err != nil {
				return nil, err
			}
			out[k] = n
		}
		return out, nil
	}
	return v, nil
}
