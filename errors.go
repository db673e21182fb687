package windsway

import "errors"

var (
	// ErrExportCancelled is returned by Export when its context is cancelled.
	// Nothing is written to the destination in that case.
	ErrExportCancelled = errors.New("windsway: export cancelled")

	// ErrInvalidSelection is returned by Group when the selection has fewer
	// than two nodes or the nodes do not share a parent.
	ErrInvalidSelection = errors.New("windsway: select at least two items in the same folder to group")

	// ErrUnknownPreset is returned by ApplyPreset for an unregistered name.
	ErrUnknownPreset = errors.New("windsway: unknown preset")

	// ErrNodeNotFound is returned when an id does not resolve to a node in the
	// document.
	ErrNodeNotFound = errors.New("windsway: node not found")

	// ErrEmptyDocument is returned when there is nothing visible to compose.
	ErrEmptyDocument = errors.New("windsway: nothing to render")

	// ErrDocumentBusy is returned when a document is used by a second pipeline
	// run while one is already in progress.
	ErrDocumentBusy = errors.New("windsway: document is busy")

	// ErrInvalidResolution is returned by ParseResolution.
	ErrInvalidResolution = errors.New("windsway: invalid resolution")
)
