package viewer

import (
	"github.com/google/uuid"

	"github.com/ironsheep/photoflow/internal/imaging"
	"github.com/ironsheep/photoflow/internal/photo"
)

// Msg is an event consumed by the App reducer.
type Msg interface {
	isMsg()
}

// Cmd is asynchronous work started by the reducer. Its result is dispatched
// back to the reducer as a Msg.
type Cmd func() Msg

// LoadDirectory asks for the photos in Dir to be listed.
type LoadDirectory struct {
	Dir string
}

// DirectoryLoaded replaces the photo list with Paths and selects the first.
type DirectoryLoaded struct {
	Paths []string

	photos []*photo.Photo // built off the reducer goroutine when set
}

// PhotoSelected selects the photo at Index.
type PhotoSelected struct {
	Index int
}

// NextPhoto selects the following photo, if any.
type NextPhoto struct{}

// PreviousPhoto selects the preceding photo, if any.
type PreviousPhoto struct{}

// ImageLoaded carries the result of decoding Path. Token identifies the
// request; a result whose token is no longer the latest for its path is
// dropped.
type ImageLoaded struct {
	Path  string
	Token uuid.UUID
	Image *imaging.DecodedImage
	Err   error
}

// Error records a user-visible error message.
type Error struct {
	Message string
}

func (LoadDirectory) isMsg()   {}
func (DirectoryLoaded) isMsg() {}
func (PhotoSelected) isMsg()   {}
func (NextPhoto) isMsg()       {}
func (PreviousPhoto) isMsg()   {}
func (ImageLoaded) isMsg()     {}
func (Error) isMsg()           {}
