package entity

import "errors"

var (
	ErrNilEntity      = errors.New("entity: nil entity")
	ErrNilTemplate    = errors.New("entity: nil template")
	ErrNegativeWeight = errors.New("entity: negative decision weight")
	ErrMissingTarget  = errors.New("entity: missing damage target")
	ErrAlreadySpawned = errors.New("entity: already spawned")
)
