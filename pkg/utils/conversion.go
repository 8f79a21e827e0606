package utils

import (
	"errors"
	"strconv"
)

var ErrInvalidID = errors.New("invalid id")

// ParseID mengubah parameter URL menjadi id record.
// Id valid itu bilangan bulat positif; selain itu dianggap salah input (400).
func ParseID(str string) (uint64, error) {
	val, err := strconv.ParseUint(str, 10, 64)
	if err != nil || val == 0 {
		return 0, ErrInvalidID
	}
	return val, nil
}
