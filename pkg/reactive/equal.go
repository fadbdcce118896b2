package reactive

import "reflect"

// defaultEquals provides type-appropriate equality checking.
// Uses == for common comparable types and reflect.DeepEqual for others.
func defaultEquals[T any](a, b T) bool {
	switch av := any(a).(type) {
	case int:
		return av == any(b).(int)
	case int64:
		return av == any(b).(int64)
	case uint64:
		return av == any(b).(uint64)
	case float64:
		return av == any(b).(float64)
	case string:
		return av == any(b).(string)
	case bool:
		return av == any(b).(bool)
	case ActionState:
		return av == any(b).(ActionState)
	case error:
		// Errors compare by identity; DeepEqual would call two distinct
		// errors.New values with the same text equal.
		bv, _ := any(b).(error)
		return av == bv
	default:
		return reflect.DeepEqual(a, b)
	}
}
