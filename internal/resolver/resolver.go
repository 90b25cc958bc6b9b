// Package resolver extracts an account identifier from records whose shape
// differs between backends. Candidate locations are probed in a fixed order
// and the first usable value wins.
package resolver

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/sheikh-saqib/banking-session-client/internal/models"
)

// Accessor reads one candidate location of a record.
type Accessor struct {
	Path string
	get  func(map[string]any) (any, bool)
}

// Key reads a flat top-level field.
func Key(name string) Accessor {
	return Accessor{
		Path: name,
		get: func(rec map[string]any) (any, bool) {
			v, ok := rec[name]
			return v, ok
		},
	}
}

// Nested follows a chain of object keys, e.g. Nested("bankAccount", "accountNumber").
func Nested(keys ...string) Accessor {
	return Accessor{
		Path: strings.Join(keys, "."),
		get: func(rec map[string]any) (any, bool) {
			return walk(rec, keys)
		},
	}
}

// FirstOf takes element 0 of an array field and then follows keys inside it.
func FirstOf(field string, keys ...string) Accessor {
	return Accessor{
		Path: field + "[0]." + strings.Join(keys, "."),
		get: func(rec map[string]any) (any, bool) {
			arr, ok := rec[field].([]any)
			if !ok || len(arr) == 0 {
				return nil, false
			}
			obj, ok := asObject(arr[0])
			if !ok {
				return nil, false
			}
			return walk(obj, keys)
		},
	}
}

// PathSet is an ordered list of accessors.
type PathSet []Accessor

// Resolve returns the first usable identifier in path order.
func (ps PathSet) Resolve(rec models.SessionRecord) (string, bool) {
	id, _, ok := ps.Match(rec)
	return id, ok
}

// Match is Resolve that also reports which path produced the value.
func (ps PathSet) Match(rec models.SessionRecord) (id, path string, ok bool) {
	if rec == nil {
		return "", "", false
	}
	for _, a := range ps {
		v, found := a.get(rec)
		if !found {
			continue
		}
		if s, usable := identifier(v); usable {
			return s, a.Path, true
		}
	}
	return "", "", false
}

// Resolve probes rec with paths. A nil record resolves to nothing.
func Resolve(rec models.SessionRecord, paths PathSet) (string, bool) {
	return paths.Resolve(rec)
}

// PostLogin is probed on the flat record handed over after sign-in.
var PostLogin = PathSet{
	Key("accountNumber"),
	Key("accountId"),
	Key("id"),
	Key("account"),
	Key("number"),
}

var nestedIDKeys = []string{"accountNumber", "accountId", "id", "number"}

// LoginTime is probed on the user record returned by the user lookup.
var LoginTime = func() PathSet {
	ps := PathSet{
		Nested("bankAccount", "accountNumber"),
		Key("accountNumber"),
		Key("accountId"),
		Key("account_number"),
		Key("id"),
		Key("userId"),
		Key("kontonummer"),
	}
	for _, k := range nestedIDKeys {
		ps = append(ps, Nested("account", k))
	}
	for _, k := range nestedIDKeys {
		ps = append(ps, FirstOf("accounts", k))
	}
	return ps
}()

// FullName finds a display name on a user record.
var FullName = PathSet{
	Key("name"),
	Key("fullName"),
	Key("full_name"),
	Key("displayName"),
}

func walk(obj map[string]any, keys []string) (any, bool) {
	var cur any = obj
	for _, k := range keys {
		m, ok := asObject(cur)
		if !ok {
			return nil, false
		}
		cur, ok = m[k]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

func asObject(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case models.SessionRecord:
		return m, true
	}
	return nil, false
}

// identifier accepts scalar strings and numbers only. Empty values and the
// literal strings "null" and "undefined" are not identifiers.
func identifier(v any) (string, bool) {
	var s string
	switch x := v.(type) {
	case string:
		s = strings.TrimSpace(x)
	case json.Number:
		s = x.String()
	case float64:
		s = strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		s = strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int:
		s = strconv.Itoa(x)
	case int64:
		s = strconv.FormatInt(x, 10)
	case int32:
		s = strconv.FormatInt(int64(x), 10)
	case uint64:
		s = strconv.FormatUint(x, 10)
	default:
		return "", false
	}
	switch s {
	case "", "null", "undefined":
		return "", false
	}
	return s, true
}
