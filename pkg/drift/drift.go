/*
Copyright 2025 The kstate authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package drift

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// Kind classifies a single field divergence.
type Kind string

const (
	// Added marks a field requested in the desired state but absent from
	// the existing one.
	Added Kind = "added"
	// Removed marks a sequence element present in the existing state
	// beyond the length of the desired sequence.
	Removed Kind = "removed"
	// Changed marks a field present on both sides with different values.
	Changed Kind = "changed"
)

// FieldChange records one divergence between the desired and the
// existing state. Path holds the map keys and sequence indices leading
// to the field, starting from the root. A nil Old on an Added change
// means the field is missing from the existing state.
type FieldChange struct {
	Path []string
	Kind Kind
	Old  interface{}
	New  interface{}
}

func (c FieldChange) String() string {
	path := strings.Join(c.Path, ".")
	switch c.Kind {
	case Added:
		return fmt.Sprintf("%s: %v (%s)", path, c.New, c.Kind)
	case Removed:
		return fmt.Sprintf("%s: %v (%s)", path, c.Old, c.Kind)
	default:
		return fmt.Sprintf("%s: %v -> %v", path, c.Old, c.New)
	}
}

// Result holds the outcome of a selective comparison.
// Match is true iff Changes is empty.
type Result struct {
	Match   bool
	Changes []FieldChange
}

// Objects reports whether the existing state already satisfies every
// field requested in the desired state. Keys present only in existing
// are ignored at every nesting level, so server-populated defaults and
// status fields never count as drift. Keys present only in desired
// surface as Added changes. Sequences are compared index-aligned; a
// desired sequence against a missing or null field counts as one
// Changed field, as does any type mismatch between the two sides —
// never an error. Desired keys are visited in sorted order, which
// makes the change sequence deterministic.
func Objects(existing, desired map[string]interface{}) Result {
	var changes []FieldChange
	diffMap(nil, existing, desired, &changes)
	return Result{
		Match:   len(changes) == 0,
		Changes: changes,
	}
}

func diffMap(path []string, existing, desired map[string]interface{}, changes *[]FieldChange) {
	keys := make([]string, 0, len(desired))
	for k := range desired {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		ev, present := existing[k]
		diffValue(child(path, k), ev, present, desired[k], changes)
	}
}

func diffValue(path []string, existing interface{}, present bool, desired interface{}, changes *[]FieldChange) {
	switch d := desired.(type) {
	case map[string]interface{}:
		em, ok := existing.(map[string]interface{})
		if !ok {
			if present && existing != nil {
				// mapping requested where a scalar or sequence exists
				*changes = append(*changes, FieldChange{Path: path, Kind: Changed, Old: existing, New: desired})
				return
			}
			em = map[string]interface{}{}
		}
		diffMap(path, em, d, changes)
	case []interface{}:
		es, ok := existing.([]interface{})
		if !ok {
			// a sequence requested where none exists, or where a scalar
			// or mapping sits, is one change for the whole field
			*changes = append(*changes, FieldChange{Path: path, Kind: Changed, Old: existing, New: desired})
			return
		}
		diffSlice(path, es, d, changes)
	default:
		if !present {
			if desired == nil {
				// a requested null matches a missing field
				return
			}
			*changes = append(*changes, FieldChange{Path: path, Kind: Added, New: desired})
			return
		}
		if !equalScalar(existing, desired) {
			*changes = append(*changes, FieldChange{Path: path, Kind: Changed, Old: existing, New: desired})
		}
	}
}

func diffSlice(path []string, existing, desired []interface{}, changes *[]FieldChange) {
	for i := 0; i < len(desired) || i < len(existing); i++ {
		p := child(path, strconv.Itoa(i))
		switch {
		case i >= len(existing):
			diffValue(p, nil, false, desired[i], changes)
		case i >= len(desired):
			*changes = append(*changes, FieldChange{Path: p, Kind: Removed, Old: existing[i]})
		default:
			diffValue(p, existing[i], true, desired[i], changes)
		}
	}
}

// equalScalar compares leaf values, tolerating the int64/float64 split
// between the JSON and YAML decoders.
func equalScalar(a, b interface{}) bool {
	if reflect.DeepEqual(a, b) {
		return true
	}
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	return aok && bok && af == bf
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

func child(path []string, key string) []string {
	p := make([]string, len(path), len(path)+1)
	copy(p, path)
	return append(p, key)
}
