package store

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/resume-intake/constants"
	"github.com/joseph-ayodele/resume-intake/internal/entity"
)

func pending(name string) entity.ResumeRecord {
	return entity.ResumeRecord{
		ID:         uuid.New(),
		FileName:   name,
		UploadDate: "2024-01-01",
		Status:     constants.StatusPending,
	}
}

func TestAppendPreservesInsertionOrder(t *testing.T) {
	s := NewRecordStore()
	a, b, c := pending("a.pdf"), pending("b.pdf"), pending("c.pdf")
	s.Append(a, b)
	s.Append(c)

	snapshot := s.Snapshot()
	require.Len(t, snapshot, 3)
	assert.Equal(t, []string{"a.pdf", "b.pdf", "c.pdf"},
		[]string{snapshot[0].FileName, snapshot[1].FileName, snapshot[2].FileName})
}

func TestUpdateByIDReplacesWholeRecord(t *testing.T) {
	s := NewRecordStore()
	r := pending("a.pdf")
	s.Append(r)

	ok := s.UpdateByID(r.ID, func(rec *entity.ResumeRecord) {
		rec.Status = constants.StatusSuccess
		rec.Fields = &entity.ResumeFields{Name: "王小明"}
		rec.FileLink = "https://drive/x"
	})
	require.True(t, ok)

	got, found := s.Get(r.ID)
	require.True(t, found)
	assert.Equal(t, constants.StatusSuccess, got.Status)
	require.NotNil(t, got.Fields)
	assert.Equal(t, "王小明", got.Fields.Name)
	assert.Equal(t, "a.pdf", got.FileName, "immutable fields survive updates")
}

func TestUpdateByIDUnknownID(t *testing.T) {
	s := NewRecordStore()
	assert.False(t, s.UpdateByID(uuid.New(), func(*entity.ResumeRecord) {}))
}

func TestSnapshotIsACopy(t *testing.T) {
	s := NewRecordStore()
	r := pending("a.pdf")
	s.Append(r)

	snapshot := s.Snapshot()
	snapshot[0].Status = constants.StatusError

	got, _ := s.Get(r.ID)
	assert.Equal(t, constants.StatusPending, got.Status, "mutating a snapshot must not touch the store")
}

func TestClearIsIrreversible(t *testing.T) {
	s := NewRecordStore()
	r := pending("a.pdf")
	s.Append(r)
	s.Clear()

	assert.Equal(t, 0, s.Len())
	_, found := s.Get(r.ID)
	assert.False(t, found)
	assert.False(t, s.UpdateByID(r.ID, func(*entity.ResumeRecord) {}))
}

func TestCountByStatus(t *testing.T) {
	s := NewRecordStore()
	a, b := pending("a.pdf"), pending("b.pdf")
	s.Append(a, b)
	s.UpdateByID(b.ID, func(rec *entity.ResumeRecord) {
		rec.Status = constants.StatusError
		rec.ErrorMessage = "解析失敗"
	})

	assert.Equal(t, 1, s.CountByStatus(constants.StatusPending))
	assert.Equal(t, 1, s.CountByStatus(constants.StatusError))
	assert.Equal(t, 0, s.CountByStatus(constants.StatusSuccess))
}
