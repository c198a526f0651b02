// Package execution keeps track of the jobs currently running so that a job
// kind never runs twice at the same time.
package execution

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

type Kind string

const (
	KindSync  Kind = "sync"
	KindDedup Kind = "dedup"
)

type runningJob struct {
	startedAt time.Time
}

type Manager struct {
	running map[Kind]*runningJob
	mutex   sync.RWMutex
}

func NewManager() *Manager {
	return &Manager{
		running: make(map[Kind]*runningJob),
	}
}

// TryStart marks kind as running. It reports false when a job of the same
// kind is already in progress. The returned release must be called once the
// job finishes; calling it more than once is harmless.
func (m *Manager) TryStart(kind Kind) (func(), bool) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if job, exists := m.running[kind]; exists {
		log.Warn().
			Str("kind", string(kind)).
			Time("started_at", job.startedAt).
			Msg("Rejecting run, previous one still in progress")
		return nil, false
	}

	job := &runningJob{startedAt: time.Now()}
	m.running[kind] = job

	var once sync.Once
	release := func() {
		once.Do(func() {
			m.mutex.Lock()
			defer m.mutex.Unlock()

			if current, exists := m.running[kind]; exists && current == job {
				delete(m.running, kind)
			}
		})
	}
	return release, true
}

func (m *Manager) Running(kind Kind) bool {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	_, exists := m.running[kind]
	return exists
}
