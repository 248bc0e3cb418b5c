package grid

import (
	"cmp"
	"unicode/utf8"
)

// Comparator is a total order over records: negative when a sorts before
// b, positive after, zero when equal.
type Comparator[T any] func(a, b T) int

// Direction is the default order a comparator produces.
type Direction int

const (
	Ascending Direction = iota
	Descending
)

func (d Direction) String() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

func (d Direction) apply(c int) int {
	if d == Descending {
		return -c
	}
	return c
}

// Number is any plain numeric field type.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// ByNumber orders records by a numeric field. With Descending,
// cmp(a, b) > 0 exactly when field(a) < field(b).
func ByNumber[T any, N Number](field func(T) N, dir Direction) Comparator[T] {
	return func(a, b T) int {
		return dir.apply(cmp.Compare(field(a), field(b)))
	}
}

// ByFirstRune orders records by the code point of the first character of
// a string field only. Strings sharing a first character compare equal no
// matter what follows. An empty string sorts before any character.
func ByFirstRune[T any](field func(T) string, dir Direction) Comparator[T] {
	return func(a, b T) int {
		return dir.apply(cmp.Compare(firstRune(field(a)), firstRune(field(b))))
	}
}

func firstRune(s string) rune {
	if s == "" {
		return -1
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r
}
