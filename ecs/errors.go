package ecs

import "github.com/rotisserie/eris"

var (
	ErrEntityIDOutOfRange     = eris.New("entity id is out of range")
	ErrEntityNotAlive         = eris.New("entity is not alive")
	ErrNoComponent            = eris.New("entity has no component of this type")
	ErrComponentAlreadyExists = eris.New("entity already has a component of this type")
	ErrInvalidComponentType   = eris.New("component type is not registered")
	ErrMaxEntityCountReached  = eris.New("max entity count reached")
	ErrRowMismatch            = eris.New("archetype rows are out of lock-step")
)
