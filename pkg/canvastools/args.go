package canvastools

// Argument maps reaching the handlers have already been normalized, so
// integers arrive as int64, numbers as float64, booleans as bool, and
// arrays as []any. The helpers below just unpack those shapes.

func argInt64(args map[string]any, key string) (int64, bool) {
	v, ok := args[key].(int64)
	return v, ok
}

func argString(args map[string]any, key string) (string, bool) {
	v, ok := args[key].(string)
	return v, ok
}

func argBool(args map[string]any, key string) (bool, bool) {
	v, ok := args[key].(bool)
	return v, ok
}

func argFloat(args map[string]any, key string) (float64, bool) {
	v, ok := args[key].(float64)
	return v, ok
}

func argStrings(args map[string]any, key string) []string {
	items, ok := args[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func optInt64(args map[string]any, key string) *int64 {
	if v, ok := argInt64(args, key); ok {
		return &v
	}
	return nil
}

func optBool(args map[string]any, key string) *bool {
	if v, ok := argBool(args, key); ok {
		return &v
	}
	return nil
}

func optFloat(args map[string]any, key string) *float64 {
	if v, ok := argFloat(args, key); ok {
		return &v
	}
	return nil
}
