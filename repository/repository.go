// Package repository implements data access layer for the application
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	apperrors "moodtrack.app/errors"
	"moodtrack.app/models"
	"moodtrack.app/storage"
)

// Keys under which the two records live in the key-value backend.
const (
	entriesKey = "MoodEntries"
	profileKey = "UserProfile"
)

// EntryStore handles persistence of the ordered mood entry collection.
// The full collection is written on every append so an external reader
// always observes either the pre- or the post-append list.
type EntryStore struct {
	store storage.KeyValueStore
}

// NewEntryStore creates a new store for mood entries
func NewEntryStore(store storage.KeyValueStore) *EntryStore {
	return &EntryStore{store: store}
}

// LoadAll returns entries in stored order. Missing or undecodable data is
// treated as empty history, never as an error: the user must not be blocked
// by corrupt history.
func (s *EntryStore) LoadAll(ctx context.Context) []models.MoodEntry {
	data, err := s.store.Get(ctx, entriesKey)
	if err != nil {
		if !errors.Is(err, storage.ErrKeyNotFound) {
			log.Printf("[WARNING] Failed to read stored entries, starting with empty history: %v\n", err)
		}
		return []models.MoodEntry{}
	}

	var entries []models.MoodEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		log.Printf("[WARNING] Stored entries are undecodable, starting with empty history: %v\n", err)
		return []models.MoodEntry{}
	}

	log.Printf("[DEBUG] EntryStore.LoadAll: loaded %d entries\n", len(entries))
	return entries
}

// Append adds the entry to the stored collection and persists the full list.
func (s *EntryStore) Append(ctx context.Context, entry models.MoodEntry) error {
	entries := s.LoadAll(ctx)
	entries = append(entries, entry)
	return s.persist(ctx, entries)
}

// ReplaceAll overwrites the stored collection. Used only by bulk generators
// such as sample-data seeding.
func (s *EntryStore) ReplaceAll(ctx context.Context, entries []models.MoodEntry) error {
	return s.persist(ctx, entries)
}

func (s *EntryStore) persist(ctx context.Context, entries []models.MoodEntry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return apperrors.NewStorageWriteError("failed to encode entries", err)
	}

	if err := s.store.Set(ctx, entriesKey, data); err != nil {
		log.Printf("[ERROR] Failed to persist entries: %v\n", err)
		return apperrors.NewStorageWriteError("failed to persist entries", err)
	}

	log.Printf("[DEBUG] EntryStore.persist: wrote %d entries\n", len(entries))
	return nil
}

// ProfileStore handles persistence of the single user profile record.
type ProfileStore struct {
	store storage.KeyValueStore
}

// NewProfileStore creates a new store for the user profile
func NewProfileStore(store storage.KeyValueStore) *ProfileStore {
	return &ProfileStore{store: store}
}

// Load returns the stored profile, or the sentinel default when nothing is
// stored or the stored bytes are malformed.
func (s *ProfileStore) Load(ctx context.Context) models.UserProfile {
	data, err := s.store.Get(ctx, profileKey)
	if err != nil {
		if !errors.Is(err, storage.ErrKeyNotFound) {
			log.Printf("[WARNING] Failed to read stored profile, using default: %v\n", err)
		}
		return models.DefaultProfile()
	}

	var profile models.UserProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		log.Printf("[WARNING] Stored profile is undecodable, using default: %v\n", err)
		return models.DefaultProfile()
	}

	log.Printf("[DEBUG] ProfileStore.Load: %+v\n", profile)
	return profile
}

// Save durably overwrites the single profile record.
func (s *ProfileStore) Save(ctx context.Context, profile models.UserProfile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return apperrors.NewStorageWriteError("failed to encode profile", err)
	}

	if err := s.store.Set(ctx, profileKey, data); err != nil {
		log.Printf("[ERROR] Failed to persist profile: %v\n", err)
		return apperrors.NewStorageWriteError("failed to persist profile", err)
	}

	log.Println("[DEBUG] ProfileStore.Save: profile persisted")
	return nil
}
