package pipeline

import (
	"context"
	"errors"

	"github.com/dgallion1/doctransform/internal/docstore"
)

var (
	// ErrBusy is returned when a run is requested while another is active.
	ErrBusy = errors.New("engine is busy")
	// ErrTransformFailed means every attempt at a transform call failed or
	// came back empty.
	ErrTransformFailed = errors.New("transform failed")
	// ErrStalled means an iteration finished without moving the cursor.
	ErrStalled = errors.New("processing stalled")
	// ErrIterationLimit means the iteration ceiling was reached.
	ErrIterationLimit = errors.New("iteration limit reached")
	// ErrStopped means a batch was stopped before it finished.
	ErrStopped = errors.New("stopped")
	// ErrUnknownFeature is returned for a feature name the engine does not
	// implement.
	ErrUnknownFeature = errors.New("unknown feature")
)

// Notice turns an error into the short message shown to a user.
func Notice(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrBusy):
		return "Another document is being processed. Try again when it finishes."
	case errors.Is(err, ErrTransformFailed):
		return "The text service did not return a usable answer. The text processed so far was kept."
	case errors.Is(err, ErrStalled):
		return "Processing stopped because it was not making progress."
	case errors.Is(err, ErrIterationLimit):
		return "Processing stopped after too many iterations."
	case errors.Is(err, ErrStopped):
		return "Batch processing was stopped."
	case errors.Is(err, ErrUnknownFeature):
		return "Unknown feature."
	case errors.Is(err, docstore.ErrNotFound), errors.Is(err, docstore.ErrInvalidID):
		return "Document not found."
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "Processing was cancelled."
	}
	return "Processing failed."
}
