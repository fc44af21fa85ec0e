package viewer

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/ironsheep/photoflow/internal/imaging"
	"github.com/ironsheep/photoflow/internal/photo"
)

const queueSize = 64

// Loader supplies decoded pixels for a path. *imaging.ImageCache is the
// production implementation.
type Loader interface {
	GetOrDecode(path string) (*imaging.DecodedImage, error)
}

// App is the photo browser state machine.
//
// All state changes happen in update, called only from the Run goroutine.
// Directory listing and image decoding run as Cmds on their own goroutines
// and report back through Dispatch, so the loop never blocks on I/O.
type App struct {
	loader    Loader
	extractor photo.Extractor
	list      func(dir string) ([]string, error)

	msgs     chan Msg
	done     chan struct{}
	doneOnce sync.Once
	inflight atomic.Int64

	mu      sync.RWMutex
	photos  []*photo.Photo
	current int
	err     string
	pending map[string]uuid.UUID
}

// New creates an App. extractor may be nil to skip metadata.
func New(loader Loader, extractor photo.Extractor) *App {
	return &App{
		loader:    loader,
		extractor: extractor,
		list:      photo.ListDirectory,
		msgs:      make(chan Msg, queueSize),
		done:      make(chan struct{}),
		current:   -1,
		pending:   make(map[string]uuid.UUID),
	}
}

// Dispatch queues msg for the reducer. It blocks while the queue is full and
// drops msg once Run has returned.
func (a *App) Dispatch(msg Msg) {
	a.inflight.Add(1)
	select {
	case a.msgs <- msg:
	case <-a.done:
		a.inflight.Add(-1)
	}
}

// Run consumes messages until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	defer a.doneOnce.Do(func() { close(a.done) })

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg := <-a.msgs:
			if cmd := a.update(msg); cmd != nil {
				a.inflight.Add(1)
				go func() {
					defer a.inflight.Add(-1)
					a.Dispatch(cmd())
				}()
			}
			a.inflight.Add(-1)
		}
	}
}

// Settled blocks until every dispatched message and every command it caused
// has been processed, or ctx is done.
func (a *App) Settled(ctx context.Context) error {
	ticker := time.NewTicker(2 * time.Millisecond)
	defer ticker.Stop()

	for a.inflight.Load() > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-a.done:
			return nil
		case <-ticker.C:
		}
	}
	return nil
}

func (a *App) update(msg Msg) Cmd {
	a.mu.Lock()
	defer a.mu.Unlock()

	switch m := msg.(type) {
	case LoadDirectory:
		log.Debug().Str("dir", m.Dir).Msg("loading directory")
		list, extractor := a.list, a.extractor
		return func() Msg {
			paths, err := list(m.Dir)
			if err != nil {
				return Error{Message: fmt.Sprintf("Failed to load directory: %v", err)}
			}
			if len(paths) == 0 {
				return Error{Message: "No photos found in " + m.Dir}
			}
			return DirectoryLoaded{Paths: paths, photos: newPhotos(paths, extractor)}
		}

	case DirectoryLoaded:
		log.Debug().Int("count", len(m.Paths)).Msg("directory loaded")
		a.err = ""
		if len(m.Paths) == 0 {
			return nil
		}
		photos := m.photos
		if len(photos) != len(m.Paths) {
			photos = newPhotos(m.Paths, a.extractor)
		}
		a.photos = photos
		a.pending = make(map[string]uuid.UUID)
		return a.selectPhoto(0)

	case PhotoSelected:
		if m.Index < 0 || m.Index >= len(a.photos) {
			return nil
		}
		return a.selectPhoto(m.Index)

	case NextPhoto:
		if a.current < 0 || a.current+1 >= len(a.photos) {
			return nil
		}
		return a.selectPhoto(a.current + 1)

	case PreviousPhoto:
		if a.current <= 0 {
			return nil
		}
		return a.selectPhoto(a.current - 1)

	case ImageLoaded:
		latest, ok := a.pending[m.Path]
		if !ok || latest != m.Token {
			log.Debug().Str("path", m.Path).Str("token", m.Token.String()).Msg("dropping superseded image result")
			return nil
		}
		delete(a.pending, m.Path)

		if m.Err != nil {
			log.Info().Err(m.Err).Str("path", m.Path).Msg("failed to load image")
			a.err = "Failed to load image: " + m.Path
			return nil
		}
		for _, p := range a.photos {
			if p.Path() == m.Path {
				p.SetImage(m.Image)
			}
		}
		return nil

	case Error:
		log.Info().Str("error", m.Message).Msg("viewer error")
		a.err = m.Message
		return nil
	}

	return nil
}

// newPhotos reads metadata for every path. It runs on a command goroutine
// when the listing came from LoadDirectory.
func newPhotos(paths []string, extractor photo.Extractor) []*photo.Photo {
	photos := make([]*photo.Photo, 0, len(paths))
	for _, path := range paths {
		photos = append(photos, photo.New(path, extractor))
	}
	return photos
}

// selectPhoto makes index current and starts decoding it. Caller holds mu.
func (a *App) selectPhoto(index int) Cmd {
	a.current = index
	path := a.photos[index].Path()
	token := uuid.New()
	a.pending[path] = token

	loader := a.loader
	return func() Msg {
		img, err := loader.GetOrDecode(path)
		return ImageLoaded{Path: path, Token: token, Image: img, Err: err}
	}
}

// PhotoView is a read-only summary of one photo.
type PhotoView struct {
	Path     string          `json:"path"`
	Name     string          `json:"name"`
	Camera   string          `json:"camera"`
	Settings string          `json:"settings,omitempty"`
	Metadata *photo.Metadata `json:"metadata,omitempty"`
	Loaded   bool            `json:"loaded"`
	Width    int             `json:"width,omitempty"`
	Height   int             `json:"height,omitempty"`
}

// State is a snapshot of the App.
type State struct {
	Photos  []PhotoView `json:"photos"`
	Current int         `json:"current"`
	Error   string      `json:"error,omitempty"`
	Loading int         `json:"loading"`
}

// CurrentPhoto returns the selected photo's summary.
func (s State) CurrentPhoto() (PhotoView, bool) {
	if s.Current < 0 || s.Current >= len(s.Photos) {
		return PhotoView{}, false
	}
	return s.Photos[s.Current], true
}

// Snapshot returns the current state. It is safe to call from any goroutine.
func (a *App) Snapshot() State {
	a.mu.RLock()
	defer a.mu.RUnlock()

	views := make([]PhotoView, len(a.photos))
	for i, p := range a.photos {
		v := PhotoView{
			Path:     p.Path(),
			Name:     p.Name(),
			Camera:   p.Camera(),
			Settings: p.Settings(),
			Metadata: p.Metadata(),
		}
		if img := p.Image(); img != nil {
			v.Loaded = true
			v.Width = img.Width
			v.Height = img.Height
		}
		views[i] = v
	}

	return State{
		Photos:  views,
		Current: a.current,
		Error:   a.err,
		Loading: len(a.pending),
	}
}

// CurrentImage returns the selected photo's path and decoded pixels, if
// loaded. The image is shared and must not be modified.
func (a *App) CurrentImage() (string, *imaging.DecodedImage, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.current < 0 || a.current >= len(a.photos) {
		return "", nil, false
	}
	p := a.photos[a.current]
	if p.Image() == nil {
		return p.Path(), nil, false
	}
	return p.Path(), p.Image(), true
}
