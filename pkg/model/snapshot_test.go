/*
 * Copyright © 2019 One Concern
 *
 */

package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSnapshotNames(t *testing.T) {
	assert.Equal(t, "tank/backup@daily.0", SnapshotName("tank/backup", "daily.0"))
	assert.Equal(t, "daily.3", GenerationName("daily", 3))

	stamp := time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local)
	assert.Equal(t, "daily:2024-01-01T00:00:00", TimestampName("daily", stamp))
}

func TestSnapshotSuffix(t *testing.T) {
	assert.Equal(t, "daily.0", Snapshot{Name: "tank@daily.0"}.Suffix())
	assert.Equal(t, "", Snapshot{Name: "tank"}.Suffix())
}

func TestParseGeneration(t *testing.T) {
	tests := []struct {
		suffix string
		class  string
		slot   uint64
		ok     bool
	}{
		{suffix: "daily.0", class: "daily", slot: 0, ok: true},
		{suffix: "daily.12", class: "daily", slot: 12, ok: true},
		{suffix: "my.class.3", class: "my.class", slot: 3, ok: true},
		{suffix: "daily", ok: false},
		{suffix: "daily.", ok: false},
		{suffix: ".3", ok: false},
		{suffix: "daily.x", ok: false},
		{suffix: "daily:2024-01-01T00:00:00", ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.suffix, func(t *testing.T) {
			class, slot, ok := ParseGeneration(tt.suffix)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.class, class)
				assert.Equal(t, tt.slot, slot)
			}
		})
	}
}

func TestClassOf(t *testing.T) {
	assert.Equal(t, "daily", ClassOf("daily:2024-01-01T00:00:00"))
	assert.Equal(t, "daily", ClassOf("daily.2"))
	assert.Equal(t, "adhoc", ClassOf("adhoc"))
	// the ":" separator wins over a trailing ".N"
	assert.Equal(t, "weekly", ClassOf("weekly:backup.7"))
}

func TestSnapshotSorting(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	snaps := []Snapshot{
		{Name: "tank@daily:2024-01-02T00:00:00", Creation: t0.Add(24 * time.Hour)},
		{Name: "tank@daily:2024-01-03T00:00:00", Creation: t0.Add(48 * time.Hour)},
		{Name: "tank@daily:2024-01-01T00:00:00", Creation: t0},
	}

	SortByCreationDesc(snaps)
	assert.Equal(t, "tank@daily:2024-01-03T00:00:00", snaps[0].Name)
	assert.Equal(t, "tank@daily:2024-01-01T00:00:00", snaps[2].Name)

	SortByNameAsc(snaps)
	assert.Equal(t, "tank@daily:2024-01-01T00:00:00", snaps[0].Name)
	assert.Equal(t, "tank@daily:2024-01-03T00:00:00", snaps[2].Name)
}
