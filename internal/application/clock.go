package application

import (
	"time"

	"github.com/oklog/ulid/v2"
)

type Clock interface{ Now() time.Time }

type IDGen interface{ NewID() string }

type realClock struct{}

func (realClock) Now() time.Time { return time.Now().UTC() }

// defaultIDGen issues ULIDs so ledger ids sort by creation time.
type defaultIDGen struct{}

func (defaultIDGen) NewID() string { return ulid.Make().String() }
