package draft

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSelection is returned when drafting with no highlighted player
	ErrNoSelection = errors.New("no player selected")
	// ErrNoTeams is returned when a sequencer is built from an empty team list
	ErrNoTeams = errors.New("draft order needs at least one team")
)

// NotFoundError reports a player id that is not in the pool
type NotFoundError struct {
	ID int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("player %d not found in pool", e.ID)
}

// IsNotFound reports whether err is or wraps a NotFoundError
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
