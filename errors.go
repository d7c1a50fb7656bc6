package shades

import "errors"

var (
	// ErrEmptyKey is returned when the key has no characters
	ErrEmptyKey = errors.New("shades: empty key")
	// ErrPayloadTooLarge is returned when a message exceeds MaxPayload bytes
	ErrPayloadTooLarge = errors.New("shades: message is too long")
	// ErrInvalidImage is returned when an image cannot be decoded or is too
	// small to hold a grid
	ErrInvalidImage = errors.New("shades: invalid image")
	// ErrInvalidLength is returned when the length header is unreadable or
	// out of range
	ErrInvalidLength = errors.New("shades: invalid message length")
	// ErrInvalidShade is returned when a payload cell is not a valid shade
	ErrInvalidShade = errors.New("shades: invalid blue shade")
	// ErrTextDecode is returned when the recovered bytes are not valid UTF-8
	ErrTextDecode = errors.New("shades: message is not valid UTF-8")
)
