package policy

import (
	"encoding/hex"

	"github.com/gofrs/uuid"
)

// HandlePrefix starts every generated runtime handle name.
const HandlePrefix = "__sandbox_"

// NewHandleName returns a random variable name for the runtime handle.
// Sandboxed code cannot guess it ahead of time.
func NewHandleName() string {
	id := uuid.Must(uuid.NewV4())
	return HandlePrefix + hex.EncodeToString(id.Bytes())
}
