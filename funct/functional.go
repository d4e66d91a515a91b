package funct

// Map never returns nil, so an empty input encodes as [].
func Map[T any, R any](slide []T, transformer func(x T) R) []R {
	newSlide := make([]R, 0, len(slide))
	for _, v := range slide {
		newSlide = append(newSlide, transformer(v))
	}
	return newSlide
}

func Filter[T any](slide []T, cond func(x T) bool) []T {
	newSlide := make([]T, 0, len(slide))
	for _, v := range slide {
		if cond(v) {
			newSlide = append(newSlide, v)
		}
	}
	return newSlide
}

func Index[T any](slide []T, cond func(x T) bool) int {
	for i, v := range slide {
		if cond(v) {
			return i
		}
	}
	return -1
}

func Some[T any](slide []T, cond func(x T) bool) bool {
	return Index(slide, cond) != -1
}

func Contains[T comparable](slide []T, value T) bool {
	return Some(slide, func(x T) bool { return x == value })
}
