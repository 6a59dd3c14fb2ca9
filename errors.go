package wad

import "errors"

var (
	ErrStructural    = errors.New("wad: structural error")
	ErrLookup        = errors.New("wad: unknown resource")
	ErrPayloadDecode = errors.New("wad: payload decode failed")
	ErrUnknownType   = errors.New("wad: unknown resource type")
	ErrWriteOrder    = errors.New("wad: write cursor moved backward")
	ErrFormat        = errors.New("wad: invalid compressed payload")
	ErrLimitExceeded = errors.New("wad: limit exceeded")
	ErrValidation    = errors.New("wad: validation failed")
	ErrMissingParent = errors.New("wad: partial mesh object has no parent")
)
