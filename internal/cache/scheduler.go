package cache

import (
	"context"
	"image"
	"sync"
)

// RenderFunc decodes the page identified by key at the given scale. The dark
// flag in the key selects pre-inverted output so cached pixels match the key.
type RenderFunc func(ctx context.Context, key Key, scale float64) (*image.RGBA, error)

// Priority separates interactive decodes from speculative ones.
type Priority int

const (
	PriorityUser Priority = iota
	PriorityPrefetch
)

// Request asks the scheduler for one decoded page.
type Request struct {
	Key      Key
	Scale    float64
	Token    int
	Priority Priority
}

// RequestStatus tells the caller what happened to a request.
type RequestStatus int

const (
	// RequestCached means the key is already in the cache; no outcome will
	// be emitted.
	RequestCached RequestStatus = iota
	// RequestCoalesced means a decode for the key is already in flight and
	// this token will share its outcome.
	RequestCoalesced
	// RequestQueued means a new decode was scheduled.
	RequestQueued
	// RequestDropped means the queue was full. Only prefetch traffic is
	// expected to ever see this.
	RequestDropped
)

// Outcome reports a finished decode for one requesting token. The raster (or
// error marker) is already in the cache when the outcome is emitted.
type Outcome struct {
	Key   Key
	Token int
	Err   error
}

const queueDepth = 128

// Scheduler runs page decodes on background workers. One worker serves the
// interactive queue; a second drains the prefetch queue but steals from the
// interactive queue first, so a burst of user requests is never stuck behind
// speculation. Requests for a key already being decoded coalesce onto the
// in-flight decode and every requester observes the same outcome.
type Scheduler struct {
	mu       sync.Mutex
	cache    *RenderCache
	render   RenderFunc
	emit     func(Outcome)
	inflight map[Key][]int

	userCh     chan Request
	prefetchCh chan Request

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewScheduler wires a scheduler to its cache. Outcomes are delivered through
// emit, which must not block; the application loop feeds them back as
// actions.
func NewScheduler(render RenderFunc, cache *RenderCache, emit func(Outcome)) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cache:      cache,
		render:     render,
		emit:       emit,
		inflight:   make(map[Key][]int),
		userCh:     make(chan Request, queueDepth),
		prefetchCh: make(chan Request, queueDepth),
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Start launches the workers.
func (s *Scheduler) Start() {
	s.wg.Add(2)
	go s.userWorker()
	go s.prefetchWorker()
}

// Stop cancels in-flight decodes and waits for the workers to exit.
func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
}

// Request schedules a decode for req.Key unless it is already cached or in
// flight.
func (s *Scheduler) Request(req Request) RequestStatus {
	if s.cache.Contains(req.Key) {
		return RequestCached
	}

	s.mu.Lock()
	if tokens, ok := s.inflight[req.Key]; ok {
		s.inflight[req.Key] = append(tokens, req.Token)
		s.mu.Unlock()
		return RequestCoalesced
	}
	s.inflight[req.Key] = []int{req.Token}
	s.mu.Unlock()

	queue := s.userCh
	if req.Priority == PriorityPrefetch {
		queue = s.prefetchCh
	}
	select {
	case queue <- req:
		return RequestQueued
	default:
		s.mu.Lock()
		delete(s.inflight, req.Key)
		s.mu.Unlock()
		return RequestDropped
	}
}

// PrefetchNeighbors queues the pages around page at the same scale and dark
// flag, nearest first. Pages already cached or in flight are skipped.
func (s *Scheduler) PrefetchNeighbors(doc string, page, pageCount int, scale float64, dark bool, radius, token int) {
	for offset := 1; offset <= radius; offset++ {
		for _, candidate := range []int{page + offset, page - offset} {
			if candidate < 0 || candidate >= pageCount {
				continue
			}
			key := NewKey(doc, candidate, scale, dark)
			if s.cache.Contains(key) {
				continue
			}
			s.Request(Request{Key: key, Scale: scale, Token: token, Priority: PriorityPrefetch})
		}
	}
}

func (s *Scheduler) userWorker() {
	defer s.wg.Done()
	for {
		select {
		case <-s.ctx.Done():
			return
		case req := <-s.userCh:
			s.run(req)
		}
	}
}

func (s *Scheduler) prefetchWorker() {
	defer s.wg.Done()
	for {
		// Prefer stealing interactive work over starting speculation.
		select {
		case <-s.ctx.Done():
			return
		case req := <-s.userCh:
			s.run(req)
			continue
		default:
		}
		select {
		case <-s.ctx.Done():
			return
		case req := <-s.userCh:
			s.run(req)
		case req := <-s.prefetchCh:
			s.run(req)
		}
	}
}

func (s *Scheduler) run(req Request) {
	img, err := s.render(s.ctx, req.Key, req.Scale)
	if err != nil {
		if s.ctx.Err() != nil {
			// Shutdown, not a decode failure; drop without caching.
			s.finish(req.Key, nil)
			return
		}
		s.cache.StoreError(req.Key, err)
	} else {
		s.cache.Store(req.Key, img)
	}
	s.finish(req.Key, err)
}

func (s *Scheduler) finish(key Key, err error) {
	s.mu.Lock()
	tokens := s.inflight[key]
	delete(s.inflight, key)
	s.mu.Unlock()
	for _, token := range tokens {
		s.emit(Outcome{Key: key, Token: token, Err: err})
	}
}
