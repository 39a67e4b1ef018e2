package service

import (
	"hash/fnv"
	"sync"

	"github.com/google/uuid"
)

const lockStripes = 64

// complaintLocks serializes mutations of one complaint inside this process
// so that notifications leave in commit order.
type complaintLocks struct {
	stripes [lockStripes]sync.Mutex
}

func (l *complaintLocks) lock(id uuid.UUID) func() {
	h := fnv.New32a()
	_, _ = h.Write(id[:])
	m := &l.stripes[h.Sum32()%lockStripes]
	m.Lock()
	return m.Unlock
}
