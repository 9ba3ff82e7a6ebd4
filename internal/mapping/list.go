package mapping

func List[A any, B any](values []A, mappingFunc func(A) B) []B {
	result := make([]B, len(values))
	for i, value := range values {
		result[i] = mappingFunc(value)
	}
	return result
}
