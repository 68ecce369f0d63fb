package util

func Map[I any, O any](req []I, fn func(v I) O) []O {
	res := make([]O, len(req))
	for i, v := range req {
		res[i] = fn(v)
	}
	return res
}

func Contains[T comparable](items []T, target T) bool {
	for _, v := range items {
		if v == target {
			return true
		}
	}
	return false
}
