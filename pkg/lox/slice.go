package lox

// MapErr is lo.Map for iteratees that can fail; it stops at the first error.
func MapErr[T, R any](collection []T, iteratee func(item T) (R, error)) ([]R, error) {
	var err error

	result := make([]R, len(collection))

	for i, item := range collection {
		result[i], err = iteratee(item)
		if err != nil {
			return nil, err
		}
	}

	return result, nil
}
