package store

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/audiopanel/internal/logging"
	"github.com/dmitrijs2005/audiopanel/internal/panel/client"
	"github.com/dmitrijs2005/audiopanel/internal/panel/models"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	data   map[string][]byte
	getErr error
	setErr error
	delErr error
}

func newFakeRepo() *fakeRepo { return &fakeRepo{data: map[string][]byte{}} }

func (f *fakeRepo) Get(_ context.Context, key string) ([]byte, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.data[key], nil
}

func (f *fakeRepo) Set(_ context.Context, key string, value []byte) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.data[key] = value
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, key string) error {
	if f.delErr != nil {
		return f.delErr
	}
	delete(f.data, key)
	return nil
}

func newTestLogger() (logging.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return logging.NewTextLogger(&buf, "debug"), &buf
}

func TestSaveThenLoad_RoundTripsInStorageOrder(t *testing.T) {
	ctx := context.Background()
	log, _ := newTestLogger()
	s := NewKVStore(newFakeRepo(), log)

	in := []models.Alarm{
		{ID: "b", Hour: 20, Minute: 30, Label: "Evening", Days: []int{1, 2, 3, 4, 5}, Enabled: true},
		{ID: "a", Hour: 8, Minute: 0, Label: "Wake", Days: []int{}, Enabled: false},
	}
	require.NoError(t, s.Save(ctx, in))

	got := s.Load(ctx)
	assert.Empty(t, cmp.Diff(in, got))
}

func TestLoad_NoData_ReturnsEmpty(t *testing.T) {
	log, _ := newTestLogger()
	got := NewKVStore(newFakeRepo(), log).Load(context.Background())
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestLoad_Malformed_ReturnsEmptyAndWarns(t *testing.T) {
	repo := newFakeRepo()
	repo.data[AlarmsKey] = []byte(`{not json`)
	log, buf := newTestLogger()

	got := NewKVStore(repo, log).Load(context.Background())
	assert.Empty(t, got)
	assert.Contains(t, buf.String(), "malformed")
}

func TestLoad_StorageError_ReturnsEmptyAndWarns(t *testing.T) {
	repo := newFakeRepo()
	repo.getErr = errors.New("disk gone")
	log, buf := newTestLogger()

	got := NewKVStore(repo, log).Load(context.Background())
	assert.Empty(t, got)
	assert.Contains(t, buf.String(), "disk gone")
}

func TestLoad_DropsInvalidAndDuplicateRecords(t *testing.T) {
	repo := newFakeRepo()
	repo.data[AlarmsKey] = []byte(`[
		{"id":"ok","hour":7,"minute":5,"label":"","days":[5,1],"enabled":true},
		{"id":"bad-hour","hour":25,"minute":0,"label":"x","days":[],"enabled":true},
		{"id":"bad-day","hour":1,"minute":0,"label":"x","days":[9],"enabled":true},
		{"id":"","hour":1,"minute":0,"label":"x","days":[],"enabled":true},
		{"id":"ok","hour":9,"minute":0,"label":"dup","days":[],"enabled":true}
	]`)
	log, buf := newTestLogger()

	got := NewKVStore(repo, log).Load(context.Background())
	require.Len(t, got, 1)
	assert.Equal(t, models.Alarm{ID: "ok", Hour: 7, Minute: 5, Label: models.DefaultLabel, Days: []int{1, 5}, Enabled: true}, got[0])
	assert.Contains(t, buf.String(), "dropping invalid stored alarm")
	assert.Contains(t, buf.String(), "dropping duplicate stored alarm")
}

func TestSave_ReplacesPriorContent(t *testing.T) {
	ctx := context.Background()
	log, _ := newTestLogger()
	s := NewKVStore(newFakeRepo(), log)

	require.NoError(t, s.Save(ctx, []models.Alarm{{ID: "1", Hour: 1, Days: []int{}}, {ID: "2", Hour: 2, Days: []int{}}}))
	require.NoError(t, s.Save(ctx, []models.Alarm{{ID: "3", Hour: 3, Days: []int{}}}))

	got := s.Load(ctx)
	require.Len(t, got, 1)
	assert.Equal(t, "3", got[0].ID)
}

func TestSave_EmptyRemovesKey(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	log, _ := newTestLogger()
	s := NewKVStore(repo, log)

	require.NoError(t, s.Save(ctx, []models.Alarm{{ID: "1", Hour: 1, Days: []int{}}}))
	require.Contains(t, repo.data, AlarmsKey)

	require.NoError(t, s.Save(ctx, nil))
	assert.NotContains(t, repo.data, AlarmsKey)
	assert.Empty(t, s.Load(ctx))

	repo.delErr = errors.New("locked")
	err := s.Save(ctx, []models.Alarm{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "locked")
}

func TestLoad_NormalizesRepeatedWeekdays(t *testing.T) {
	repo := newFakeRepo()
	repo.data[AlarmsKey] = []byte(`[{"id":"x","hour":6,"minute":0,"label":"Run","days":[3,1,1],"enabled":true}]`)
	log, buf := newTestLogger()

	got := NewKVStore(repo, log).Load(context.Background())
	require.Len(t, got, 1)
	assert.Equal(t, []int{1, 3}, got[0].Days)
	assert.NotContains(t, buf.String(), "dropping")
}

func TestSave_StorageErrorIsReturned(t *testing.T) {
	repo := newFakeRepo()
	repo.setErr = errors.New("quota exceeded")
	log, _ := newTestLogger()

	err := NewKVStore(repo, log).Save(context.Background(), []models.Alarm{{ID: "1", Hour: 1, Days: []int{}}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestKVStore_OnSQLite(t *testing.T) {
	ctx := context.Background()
	repos, err := client.InitDatabase(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = repos.Close() })

	log, _ := newTestLogger()
	s := NewKVStore(repos.Storage, log)

	alarms := []models.Alarm{{ID: "x", Hour: 6, Minute: 45, Label: "Gym", Days: []int{2, 4}, Enabled: true}}
	require.NoError(t, s.Save(ctx, alarms))
	assert.Equal(t, alarms, s.Load(ctx))

	require.NoError(t, s.Save(ctx, nil))
	v, err := repos.Storage.Get(ctx, AlarmsKey)
	require.NoError(t, err)
	assert.Nil(t, v)
	assert.Empty(t, s.Load(ctx))
}
