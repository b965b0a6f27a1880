package notes

import (
	"hash/fnv"
)

type fanoutJob struct {
	conns   []Conn
	payload []byte
}

// Fanout delivers broadcast payloads on a fixed worker pool. Jobs for the
// same key always land on the same worker queue, so delivery order within a
// room follows the order handlers emitted; across rooms there is no
// ordering guarantee.
type Fanout struct {
	queues []chan fanoutJob
}

func NewFanout(workers, queue int) *Fanout {
	if workers <= 0 {
		workers = 1
	}
	if queue <= 0 {
		queue = 256
	}
	f := &Fanout{queues: make([]chan fanoutJob, workers)}
	for i := range f.queues {
		ch := make(chan fanoutJob, queue)
		f.queues[i] = ch
		go func() {
			for job := range ch {
				for _, c := range job.conns {
					// Fire and forget: a slow client just misses the frame.
					_ = c.Send(job.payload)
				}
			}
		}()
	}
	return f
}

// Broadcast enqueues a delivery for the given key (the room token).
func (f *Fanout) Broadcast(key string, conns []Conn, payload []byte) {
	if len(conns) == 0 || len(payload) == 0 {
		return
	}
	f.queues[f.pick(key)] <- fanoutJob{conns: conns, payload: payload}
}

func (f *Fanout) pick(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(f.queues)))
}
