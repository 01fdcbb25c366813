package restaurant

import "errors"

var (
	ErrNotFound = errors.New("restaurant or menu item not found")
)
