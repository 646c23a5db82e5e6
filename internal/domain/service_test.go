package domain

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backoffice/internal/core/apperror"
	"backoffice/internal/core/id"
)

type note struct {
	ID   id.ID
	Text string
}

func (n *note) GetID() id.ID { return n.ID }

func (n *note) Validate(ctx context.Context) error {
	if n.Text == "" {
		return errors.New("text is required")
	}
	return nil
}

type memNotes struct {
	items map[id.ID]*note
}

func (m *memNotes) Create(ctx context.Context, n *note) error {
	m.items[n.ID] = n
	return nil
}

func (m *memNotes) GetByID(ctx context.Context, v id.ID) (*note, error) {
	n, ok := m.items[v]
	if !ok {
		return nil, apperror.NewNotFound("notes", v.String())
	}
	return n, nil
}

func (m *memNotes) Update(ctx context.Context, n *note) error {
	m.items[n.ID] = n
	return nil
}

func (m *memNotes) Delete(ctx context.Context, v id.ID) error {
	delete(m.items, v)
	return nil
}

type directTx struct{ calls int }

func (d *directTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	d.calls++
	return fn(ctx)
}

func newNoteService() (*RecordService[*note], *memNotes, *directTx) {
	repo := &memNotes{items: map[id.ID]*note{}}
	txm := &directTx{}
	svc := NewRecordService(RecordServiceConfig[*note]{Repo: repo, TxManager: txm, EntityName: "note"})
	return svc, repo, txm
}

func TestRecordService_CreateRunsHooksInTransaction(t *testing.T) {
	svc, repo, txm := newNoteService()
	var events []HookEvent
	svc.Hooks().OnBeforeCreate(func(ctx context.Context, n *note) error {
		events = append(events, BeforeCreate)
		return nil
	})
	svc.Hooks().OnAfterCreate(func(ctx context.Context, n *note) error {
		events = append(events, AfterCreate)
		return nil
	})

	n := &note{ID: id.New(), Text: "hello"}
	require.NoError(t, svc.Create(context.Background(), n))

	assert.Equal(t, []HookEvent{BeforeCreate, AfterCreate}, events)
	assert.Equal(t, 1, txm.calls)
	assert.Contains(t, repo.items, n.ID)
}

func TestRecordService_ValidationErrorIsNormalized(t *testing.T) {
	svc, repo, _ := newNoteService()

	err := svc.Create(context.Background(), &note{ID: id.New()})

	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))
	assert.Empty(t, repo.items)
}

func TestRecordService_BeforeHookAborts(t *testing.T) {
	svc, repo, _ := newNoteService()
	svc.Hooks().OnBeforeCreate(func(ctx context.Context, n *note) error {
		return apperror.NewConflict("taken")
	})

	err := svc.Create(context.Background(), &note{ID: id.New(), Text: "x"})

	assert.True(t, apperror.HasCode(err, apperror.CodeConflict))
	assert.Empty(t, repo.items)
}

func TestRecordService_GetAndDeleteMissing(t *testing.T) {
	svc, _, _ := newNoteService()
	missing := id.New()

	_, err := svc.GetByID(context.Background(), missing)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "note not found", appErr.Message)

	assert.True(t, apperror.IsNotFound(svc.Delete(context.Background(), missing)))
}

func TestRecordService_DeleteRunsHooksWithLoadedRecord(t *testing.T) {
	svc, repo, _ := newNoteService()
	n := &note{ID: id.New(), Text: "bye"}
	repo.items[n.ID] = n

	var seen string
	svc.Hooks().OnAfterDelete(func(ctx context.Context, got *note) error {
		seen = got.Text
		return nil
	})

	require.NoError(t, svc.Delete(context.Background(), n.ID))
	assert.Equal(t, "bye", seen)
	assert.NotContains(t, repo.items, n.ID)
}
