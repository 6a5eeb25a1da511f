package query

// Sweep calls load for every key in order. Keys whose load fails are handed
// to skip and left out, as are keys that yield no items.
func Sweep[T any](keys []string, load func(key string) ([]T, error), skip func(key string, err error)) map[string][]T {
	out := make(map[string][]T)
	for _, key := range keys {
		items, err := load(key)
		if err != nil {
			if skip != nil {
				skip(key, err)
			}
			continue
		}
		if len(items) == 0 {
			continue
		}
		out[key] = items
	}
	return out
}

// FailFast runs check on every key before the caller does any work and
// returns the first failure
func FailFast(keys []string, check func(key string) error) error {
	for _, key := range keys {
		if err := check(key); err != nil {
			return err
		}
	}
	return nil
}
