// Package viewer is the photo browser's state machine.
//
// App keeps the photo list and the current selection and reacts to messages
// (LoadDirectory, DirectoryLoaded, PhotoSelected, NextPhoto, PreviousPhoto,
// ImageLoaded, Error) one at a time on the Run goroutine. Anything slow, such
// as listing a directory or decoding an image, is returned from the reducer
// as a Cmd, run on its own goroutine, and fed back in as a message.
//
// # Request Tokens
//
// Every decode request carries a fresh UUID, remembered as the latest token
// for its path. A result is applied only if its token is still the latest, so
// a slow decode that finishes after the user has moved away and back cannot
// overwrite a newer result for the same path.
//
// # Example Usage
//
//	app := viewer.New(cache, photo.ExifExtractor{})
//	go app.Run(ctx)
//	app.Dispatch(viewer.LoadDirectory{Dir: "/photos"})
//	app.Settled(ctx)
//	state := app.Snapshot()
package viewer
