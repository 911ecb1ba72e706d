// Package parallel runs tessellation jobs on a pool of workers.
package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// WorkerPool runs independent jobs across a fixed set of goroutines.
//
// Each worker owns a queue and steals from the others when its own runs
// dry, which keeps the workers busy when job costs are uneven: a path with
// thousands of curves can sit next to a two-triangle rectangle in the same
// frame.
//
// WorkerPool is safe for concurrent use.
type WorkerPool struct {
	workers int
	queues  []chan func()
	done    chan struct{}
	wg      sync.WaitGroup
	running atomic.Bool

	// next spreads Submit calls across queues.
	next atomic.Uint64
}

// NewWorkerPool starts a pool. workers <= 0 means GOMAXPROCS. Workers run
// until Close.
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	// A few queued jobs per worker hides submission latency without
	// letting one queue hoard a frame's worth of work.
	queueSize := workers * 4
	if queueSize < 8 {
		queueSize = 8
	}

	p := &WorkerPool{
		workers: workers,
		queues:  make([]chan func(), workers),
		done:    make(chan struct{}),
	}
	for i := range p.queues {
		p.queues[i] = make(chan func(), queueSize)
	}
	p.running.Store(true)

	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker(i)
	}
	return p
}

// Submit queues one job. Jobs may run in any order relative to each
// other. The return value reports whether the job was accepted: after
// Close the job is dropped and the caller must run it itself if it cares
// about completion.
func (p *WorkerPool) Submit(job func()) bool {
	if job == nil || !p.running.Load() {
		return false
	}

	// Rotate through the queues; stealing evens out any imbalance.
	start := int(p.next.Add(1) % uint64(p.workers))
	for i := 0; i < p.workers; i++ {
		select {
		case p.queues[(start+i)%p.workers] <- job:
			return true
		default:
		}
	}

	// Every queue is full: block on the chosen one.
	select {
	case p.queues[start] <- job:
		return true
	case <-p.done:
		return false
	}
}

// ExecuteAll runs a batch of jobs and waits for all of them to finish.
func (p *WorkerPool) ExecuteAll(jobs []func()) {
	if len(jobs) == 0 || !p.running.Load() {
		return
	}

	var wg sync.WaitGroup
	wg.Add(len(jobs))
	for _, job := range jobs {
		job := job
		wrapped := func() {
			defer wg.Done()
			job()
		}
		if !p.Submit(wrapped) {
			wrapped()
		}
	}
	wg.Wait()
}

// Close stops accepting jobs, runs everything already queued and waits for
// the workers to exit. Safe to call more than once.
func (p *WorkerPool) Close() {
	if !p.running.CompareAndSwap(true, false) {
		return
	}
	close(p.done)
	p.wg.Wait()
}

// IsRunning reports whether the pool is accepting jobs.
func (p *WorkerPool) IsRunning() bool {
	return p.running.Load()
}

// Workers returns the pool size.
func (p *WorkerPool) Workers() int {
	return p.workers
}

func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()

	mine := p.queues[id]
	for {
		select {
		case <-p.done:
			p.drain(mine)
			return
		case job := <-mine:
			if job != nil {
				job()
			}
		default:
			if job := p.steal(id); job != nil {
				job()
				continue
			}
			select {
			case <-p.done:
				p.drain(mine)
				return
			case job := <-mine:
				if job != nil {
					job()
				}
			}
		}
	}
}

// steal takes a job from another worker's queue, or returns nil when every
// queue is empty.
func (p *WorkerPool) steal(myID int) func() {
	for i := range p.queues {
		if i == myID {
			continue
		}
		select {
		case job := <-p.queues[i]:
			return job
		default:
		}
	}
	return nil
}

// drain runs whatever is left in a queue during shutdown, so jobs
// submitted before Close always execute.
func (p *WorkerPool) drain(queue chan func()) {
	for {
		select {
		case job := <-queue:
			if job != nil {
				job()
			}
		default:
			return
		}
	}
}
