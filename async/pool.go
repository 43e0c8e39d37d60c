package async

import (
	"runtime"
	"sync"
)

// Scheduler distributes load work according to some strategy.
type Scheduler interface {
	// Schedule a piece of work. This method is allowed to block.
	Schedule(func())
}

// FixedWorkerPool is a fixed-size worker pool that lets the go runtime
// schedule work atop some number of goroutines.
//
// The pool minimizes goroutine latency at the cost of keeping the
// configured number of goroutines alive for the lifetime of the pool.
type FixedWorkerPool struct {
	// Workers is the number of concurrent workers. Defaults to NumCPU.
	Workers int
	// queue of work. Unbuffered, so scheduling blocks when every worker
	// is busy.
	queue chan func()
	once  sync.Once
}

// Schedule work onto an available worker, blocking while all are busy.
func (p *FixedWorkerPool) Schedule(work func()) {
	p.once.Do(func() {
		if p.Workers <= 0 {
			p.Workers = runtime.NumCPU()
		}
		p.queue = make(chan func())
		for ii := 0; ii < p.Workers; ii++ {
			go func() {
				for w := range p.queue {
					if w != nil {
						w()
					}
				}
			}()
		}
	})
	p.queue <- work
}

// DynamicWorkerPool spins up a goroutine per unit of work, up to a
// maximum number in flight.
//
// The pool minimizes idle memory since workers die off when done, at
// the cost of spinning up goroutines on the fly. Ordering of work is
// inconsistent under highly dynamic layouts.
type DynamicWorkerPool struct {
	// Workers is the maximum number of concurrent workers. Defaults to
	// NumCPU.
	Workers int64
	// sem limits the number of in-flight workers by its buffer size.
	sem chan struct{}
	// queue of work. Unbuffered, so scheduling blocks when the pool is
	// at capacity.
	queue chan func()
	once  sync.Once
}

// Schedule work onto a fresh worker, blocking while the pool is at
// capacity. Each worker holds a semaphore slot for its lifetime.
func (p *DynamicWorkerPool) Schedule(work func()) {
	p.once.Do(func() {
		if p.Workers <= 0 {
			p.Workers = int64(runtime.NumCPU())
		}
		p.queue = make(chan func())
		p.sem = make(chan struct{}, p.Workers)
		go func() {
			for w := range p.queue {
				w := w
				if w == nil {
					continue
				}
				p.sem <- struct{}{}
				go func() {
					w()
					<-p.sem
				}()
			}
		}()
	})
	p.queue <- work
}
