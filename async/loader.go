// Package async acquires images off the layout goroutine.
//
// The compositor itself is synchronous and pure: it simply has nothing
// to paint until a raster exists. Loader bridges the gap by scheduling
// blocking loads (network fetches, disk decodes) on a worker pool and
// exposing their state to the layout each frame. Loader adapted from
// Egon's https://github.com/egonelbre/expgio.
package async

import (
	"context"
	"errors"
	"image"
	"sync"
	"sync/atomic"

	"gioui.org/layout"
)

// ErrNilImage reports a LoadFunc that returned neither an image nor an
// error.
var ErrNilImage = errors.New("async: load returned no image")

// Tag identifies a unique image resource. Tag values must be hashable.
type Tag interface{}

// LoadFunc performs the blocking load of an image.
//
// The context is cancelled when the loader shuts down; loads that
// respect it can abandon work early. A nil image with a nil error is
// treated as a failure.
type LoadFunc func(ctx context.Context) (image.Image, error)

// State that an asynchronously loading image can be in.
type State byte

const (
	Queued State = iota
	Loading
	Loaded
	Failed
)

// Resource is the per-frame view of an asynchronously loading image.
type Resource struct {
	// State reports how far along the load is.
	State State
	// Image holds the raster. Nil unless State is Loaded.
	Image image.Image
	// Err holds the load failure. Nil unless State is Failed.
	Err error
}

// DefaultMaxLoaded is used when no maximum is specified.
const DefaultMaxLoaded = 10

// Loader schedules image loads and tracks their results across frames.
//
// The zero value is useful: schedule and poll images with Schedule,
// wrap each frame with Frame so stale images can be released, and
// select on Updated in the event loop to invalidate the window when a
// load progresses.
type Loader struct {
	// Scheduler provides scheduling behaviour. Defaults to a sized
	// worker pool; callers can supply the strategy that best fits the
	// application.
	Scheduler Scheduler
	// MaxLoaded bounds the number of images kept before stale ones are
	// released for garbage collection.
	MaxLoaded int

	// active is the frame currently being laid out, finished the last
	// frame fully laid out. Synchronized with atomics.
	active   int64
	finished int64

	// updated reports that some image changed state.
	updated chan struct{}
	// once guards lazy initialization so the zero value works.
	once   sync.Once
	cancel context.CancelFunc

	mu sync.Mutex
	// refresh wakes the processing loop when a frame completes or a new
	// load is scheduled.
	refresh sync.Cond
	// lookup maps tags to their loading images.
	lookup map[Tag]*resource
	// queue of images waiting for a worker, in schedule order.
	queue []*resource
}

// Schedule an image to be loaded asynchronously.
//
// The first call for a tag queues the load; subsequent calls poll it.
// Call Schedule every frame the image is wanted: images that stop being
// scheduled go stale and are eventually released. Once released, a
// fresh Schedule loads them anew, replacing the previous result.
func (l *Loader) Schedule(tag Tag, load LoadFunc) Resource {
	l.once.Do(l.initialize)
	active := atomic.LoadInt64(&l.active)

	l.mu.Lock()
	r, ok := l.lookup[tag]
	if !ok {
		r = &resource{
			tag:   tag,
			load:  load,
			state: Queued,
		}
		l.lookup[tag] = r
		l.queue = append(l.queue, r)
		l.refresh.Signal()
	}
	l.mu.Unlock()

	// Freshen the resource: it has been used in the active frame.
	atomic.StoreInt64(&r.frame, active)
	return r.snapshot()
}

// Frame wraps a widget and counts frames, letting the loader detect
// images that are no longer laid out. Wrap the portion of the UI that
// schedules loads; wrapping the whole UI is simplest.
func (l *Loader) Frame(gtx layout.Context, w layout.Widget) layout.Dimensions {
	l.once.Do(l.initialize)
	atomic.AddInt64(&l.active, 1)
	dims := w(gtx)
	atomic.StoreInt64(&l.finished, atomic.LoadInt64(&l.active))
	l.refresh.Signal()
	return dims
}

// Updated returns a channel that reports that some image changed state.
// Integrate it into the event loop to invalidate the window:
//
//	case <-loader.Updated():
//		w.Invalidate()
func (l *Loader) Updated() <-chan struct{} {
	l.once.Do(l.initialize)
	return l.updated
}

// Shutdown stops the processing goroutine and cancels the context seen
// by in-flight loads. The loader holds no other resources; dropping it
// afterwards is sufficient teardown.
func (l *Loader) Shutdown() {
	l.once.Do(l.initialize)
	l.cancel()
}

// Stats reports the number of tracked and queued images.
type Stats struct {
	Tracked int
	Queued  int
}

func (l *Loader) Stats() Stats {
	l.once.Do(l.initialize)
	l.mu.Lock()
	defer l.mu.Unlock()
	return Stats{
		Tracked: len(l.lookup),
		Queued:  len(l.queue),
	}
}

func (l *Loader) initialize() {
	if l.MaxLoaded == 0 {
		l.MaxLoaded = DefaultMaxLoaded
	}
	if l.Scheduler == nil {
		l.Scheduler = &FixedWorkerPool{Workers: l.MaxLoaded}
	}
	l.updated = make(chan struct{}, 1)
	l.lookup = make(map[Tag]*resource)
	l.refresh.L = &l.mu
	ctx, cancel := context.WithCancel(context.Background())
	l.cancel = cancel
	go func() {
		// Wake the loop so cancellation is observed promptly.
		<-ctx.Done()
		l.refresh.Signal()
	}()
	go l.run(ctx)
}

// update signals that some image changed state, without blocking the
// worker that reports it.
func (l *Loader) update() {
	select {
	case l.updated <- struct{}{}:
	default:
	}
}

// run processes the queue until the context is cancelled. Each iteration
// releases stale images and hands queued ones to the scheduler.
func (l *Loader) run(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for {
		l.purge(atomic.LoadInt64(&l.finished))
		for r := l.next(); r != nil; r = l.next() {
			if l.isStale(r) {
				delete(l.lookup, r.tag)
				continue
			}
			r := r
			l.mu.Unlock()
			l.update()
			l.Scheduler.Schedule(func() {
				r.do(ctx, l.update)
			})
			l.mu.Lock()
		}
		l.refresh.Wait()
		if ctx.Err() != nil {
			return
		}
	}
}

// isStale reports whether the image was last scheduled before the most
// recently finished frame, meaning nothing lays it out anymore.
func (l *Loader) isStale(r *resource) bool {
	return atomic.LoadInt64(&r.frame) < atomic.LoadInt64(&l.finished)
}

// next pops the queue. Callers must hold the lock.
func (l *Loader) next() *resource {
	if len(l.queue) == 0 {
		return nil
	}
	r := l.queue[0]
	l.queue = l.queue[1:]
	return r
}

// purge releases stale images once the tracked count exceeds MaxLoaded,
// letting them be garbage collected. Callers must hold the lock.
func (l *Loader) purge(finished int64) {
	for _, r := range l.lookup {
		if len(l.lookup) < l.MaxLoaded {
			break
		}
		if atomic.LoadInt64(&r.frame) < finished {
			delete(l.lookup, r.tag)
		}
	}
}

// resource tracks one loading image. tag and load are set once at
// allocation, frame is synchronized with atomics, and the remaining
// fields by the embedded mutex.
type resource struct {
	sync.Mutex
	frame int64
	state State
	img   image.Image
	err   error
	tag   Tag
	load  LoadFunc
}

// do runs the blocking load, reporting each state change.
func (r *resource) do(ctx context.Context, onChange func()) {
	r.set(Loading, nil, nil)
	onChange()
	img, err := r.load(ctx)
	switch {
	case err != nil:
		r.set(Failed, nil, err)
	case img == nil:
		r.set(Failed, nil, ErrNilImage)
	default:
		r.set(Loaded, img, nil)
	}
	onChange()
}

func (r *resource) set(s State, img image.Image, err error) {
	r.Lock()
	r.state = s
	r.img = img
	r.err = err
	r.Unlock()
}

func (r *resource) snapshot() Resource {
	r.Lock()
	defer r.Unlock()
	return Resource{
		State: r.state,
		Image: r.img,
		Err:   r.err,
	}
}
