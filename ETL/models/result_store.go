package models

import (
	"sync"
	"time"
)

// ResultStore хранит последний результат трансформации для HTTP и WebSocket
// слоев. Доступ защищен мьютексом: пишет пайплайн, читают обработчики.
type ResultStore struct {
	mu        sync.RWMutex
	data      *TransformedData
	updatedAt time.Time
}

// NewResultStore создает новый экземпляр ResultStore
func NewResultStore() *ResultStore {
	return &ResultStore{}
}

// Set сохраняет новый результат трансформации
func (s *ResultStore) Set(data *TransformedData) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = data
	s.updatedAt = time.Now()
}

// Get возвращает последний результат трансформации и время его обновления.
// Возвращает nil, если пайплайн еще не выполнялся.
func (s *ResultStore) Get() (*TransformedData, time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data, s.updatedAt
}

// FindSiteRow ищет строку уровня точки отбора по координатам и ключу бина
func (s *ResultStore) FindSiteRow(lat, lon float64, binKey string) *SiteFrequencyRow {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.data == nil {
		return nil
	}

	for i := range s.data.SiteRows {
		row := &s.data.SiteRows[i]
		if row.Lat == lat && row.Lon == lon && row.BinKey == binKey {
			return row
		}
	}
	return nil
}

// FindBinRow ищет строку уровня бина по ключу бина
func (s *ResultStore) FindBinRow(binKey string) *BinFrequencyRow {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.data == nil {
		return nil
	}

	for i := range s.data.BinRows {
		row := &s.data.BinRows[i]
		if row.BinKey == binKey {
			return row
		}
	}
	return nil
}
