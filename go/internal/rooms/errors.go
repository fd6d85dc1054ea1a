package rooms

import "errors"

var (
	// ErrRoomNotFound is returned when a room id is not registered
	ErrRoomNotFound = errors.New("room not found")
	// ErrRoomExists is returned when registering an id that is already live
	ErrRoomExists = errors.New("room already exists")
)
