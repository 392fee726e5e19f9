// Package store persists the alarm collection as a JSON array under a single
// storage key. Loading never fails: a missing, unreadable or malformed value
// yields an empty collection and a warning.
package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/audiopanel/internal/logging"
	"github.com/dmitrijs2005/audiopanel/internal/panel/models"
	"github.com/dmitrijs2005/audiopanel/internal/panel/repositories/storage"
)

// AlarmsKey is the storage key holding the alarm collection.
const AlarmsKey = "audiopanel.alarms"

// AlarmStore loads and saves the whole alarm collection.
type AlarmStore interface {
	Load(ctx context.Context) []models.Alarm
	Save(ctx context.Context, alarms []models.Alarm) error
}

// KVStore is an AlarmStore over a storage.Repository.
type KVStore struct {
	repo storage.Repository
	key  string
	log  logging.Logger
}

func NewKVStore(repo storage.Repository, log logging.Logger) *KVStore {
	return &KVStore{repo: repo, key: AlarmsKey, log: log}
}

// Load returns the stored alarms in storage order. Records that break the
// alarm invariants, or repeat an id, are dropped with a warning.
func (s *KVStore) Load(ctx context.Context) []models.Alarm {
	data, err := s.repo.Get(ctx, s.key)
	if err != nil {
		s.log.Warn(ctx, "alarm storage unavailable, starting empty", "error", err)
		return []models.Alarm{}
	}
	if data == nil {
		return []models.Alarm{}
	}

	var raw []models.Alarm
	if err := json.Unmarshal(data, &raw); err != nil {
		s.log.Warn(ctx, "stored alarms are malformed, starting empty", "error", err)
		return []models.Alarm{}
	}

	alarms := make([]models.Alarm, 0, len(raw))
	seen := make(map[string]bool, len(raw))
	for _, a := range raw {
		if days, err := models.NormalizeDays(a.Days); err == nil {
			a.Days = days
		}
		if err := a.Validate(); err != nil {
			s.log.Warn(ctx, "dropping invalid stored alarm", "id", a.ID, "error", err)
			continue
		}
		if seen[a.ID] {
			s.log.Warn(ctx, "dropping duplicate stored alarm", "id", a.ID)
			continue
		}
		seen[a.ID] = true
		if a.Label == "" {
			a.Label = models.DefaultLabel
		}
		alarms = append(alarms, a)
	}
	return alarms
}

// Save replaces the stored collection with alarms. An empty collection
// removes the key.
func (s *KVStore) Save(ctx context.Context, alarms []models.Alarm) error {
	if len(alarms) == 0 {
		if err := s.repo.Delete(ctx, s.key); err != nil {
			return fmt.Errorf("failed to clear alarms: %w", err)
		}
		return nil
	}
	data, err := json.Marshal(alarms)
	if err != nil {
		return fmt.Errorf("failed to encode alarms: %w", err)
	}
	if err := s.repo.Set(ctx, s.key, data); err != nil {
		return fmt.Errorf("failed to save alarms: %w", err)
	}
	return nil
}
