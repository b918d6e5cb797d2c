package worker // import "github.com/Takashicc/repub/internal/worker"

import (
	"context"

	"github.com/Takashicc/repub/internal/model"
)

// Worker handles a single job and returns the line to report for it. A
// Worker is shared by every goroutine of a pool and must be safe for
// concurrent use.
type Worker interface {
	Handle(ctx context.Context, job model.Job) (string, error)
}
