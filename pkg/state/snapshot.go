package state

import "github.com/goliatone/go-formkit/pkg/model"

// Snapshot is an immutable copy of controller state.
type Snapshot struct {
	Values      map[string]any
	Errors      map[string]string
	Dirty       map[string]bool
	Touched     map[string]bool
	Submitting  bool
	SubmitCount int
}

// IsDirty reports whether any field differs from its initial value.
func (s Snapshot) IsDirty() bool {
	return len(s.Dirty) > 0
}

// IsValid reports whether the snapshot carries no errors.
func (s Snapshot) IsValid() bool {
	return len(s.Errors) == 0
}

func cloneValue(value any) any {
	switch v := value.(type) {
	case []string:
		if v == nil {
			return v
		}
		out := make([]string, len(v))
		copy(out, v)
		return out
	case []model.File:
		if v == nil {
			return v
		}
		out := make([]model.File, len(v))
		copy(out, v)
		return out
	case []any:
		if v == nil {
			return v
		}
		out := make([]any, len(v))
		for idx, item := range v {
			out[idx] = cloneValue(item)
		}
		return out
	case map[string]any:
		if v == nil {
			return v
		}
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[key] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}
