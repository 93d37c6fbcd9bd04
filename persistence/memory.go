// persistence/memory.go
package persistence

import (
	"sync"

	"github.com/bugbash/gameserver/models"
)

// Memory keeps records in process memory. Default when no database is
// configured, and the backend used by tests.
type Memory struct {
	mutex   sync.Mutex
	records []*models.GameRecord
	stats   map[string]*models.PlayerStats
}

func NewMemory() *Memory {
	return &Memory{
		stats: make(map[string]*models.PlayerStats),
	}
}

func (m *Memory) SaveGameRecord(record *models.GameRecord) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.records = append(m.records, record)
	return nil
}

func (m *Memory) RecordPlayerResult(name string, won bool) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	stat, ok := m.stats[name]
	if !ok {
		stat = &models.PlayerStats{Name: name}
		m.stats[name] = stat
	}
	stat.TotalGames++
	if won {
		stat.Wins++
	} else {
		stat.Losses++
	}
	return nil
}

func (m *Memory) GetPlayerStats(name string) (*models.PlayerStats, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	stat, ok := m.stats[name]
	if !ok {
		return nil, ErrRecordNotFound
	}
	copied := *stat
	return &copied, nil
}

// Records returns a snapshot of all saved game records.
func (m *Memory) Records() []*models.GameRecord {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	out := make([]*models.GameRecord, len(m.records))
	copy(out, m.records)
	return out
}

func (m *Memory) Close() error {
	return nil
}
