package usecase

import (
	"encoding/json"
	"strings"
	"testing"

	"contacthub-backend/internal/command"
	"contacthub-backend/internal/contact/domain"
	"contacthub-backend/internal/contact/dto"
	"contacthub-backend/internal/contact/repository"
	"contacthub-backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContactUsecase(t *testing.T, contacts ...*domain.Contact) (ContactUsecase, repository.ContactRepository) {
	t.Helper()
	db := testutil.NewTestDB(t)
	testutil.SeedContacts(t, db, contacts...)
	repo := repository.NewContactRepository(db)
	return NewContactUsecase(repo, command.NewManager(0)), repo
}

func ids(contacts []*domain.Contact) []string {
	out := make([]string, 0, len(contacts))
	for _, c := range contacts {
		out = append(out, c.ID)
	}
	return out
}

func TestListContactsSearch(t *testing.T) {
	u, repo := newContactUsecase(t,
		testutil.NewContact("a", "Jon", "Smith", "jon@x.com", ""),
		testutil.NewContact("b", "Ann", "Smyth", "ann@x.com", ""),
		testutil.NewContact("c", "Ann", "Lee", "ann.lee@x.com", ""),
		testutil.NewContact("d", "Old", "Smith", "old@x.com", ""),
	)
	require.NoError(t, repo.SoftDelete("d"))

	all, err := u.ListContacts("", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, ids(all))

	found, err := u.ListContacts("  smith ", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids(found))

	limited, err := u.ListContacts("smith", 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, ids(limited))

	none, err := u.ListContacts("zzzzzz", 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestCreateContact(t *testing.T) {
	u, _ := newContactUsecase(t)

	created, err := u.CreateContact(&dto.CreateContactRequest{
		FirstName: " Ada ",
		Email:     "ada@example.com",
		Metadata:  map[string]interface{}{"note": "met at conference"},
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(created.ID, "manual_"))
	assert.Equal(t, SourceManual, created.Source)
	assert.Equal(t, "Ada", created.FirstName)

	got, err := u.GetContact(created.ID)
	require.NoError(t, err)
	var metadata map[string]string
	require.NoError(t, json.Unmarshal(got.Metadata, &metadata))
	assert.Equal(t, "met at conference", metadata["note"])
}

func TestGetAndDeleteContact(t *testing.T) {
	u, _ := newContactUsecase(t, testutil.NewContact("a", "Jon", "Smith", "", ""))

	_, err := u.GetContact("missing")
	assert.ErrorIs(t, err, domain.ErrContactNotFound)
	assert.ErrorIs(t, u.DeleteContact("missing"), domain.ErrContactNotFound)

	require.NoError(t, u.DeleteContact("a"))
	_, err = u.GetContact("a")
	assert.ErrorIs(t, err, domain.ErrContactNotFound)
	assert.ErrorIs(t, u.DeleteContact("a"), domain.ErrContactNotFound)
}

func TestUpdateMergeUndoRedo(t *testing.T) {
	u, _ := newContactUsecase(t,
		testutil.NewContact("a", "Jon", "Smith", "jon@x.com", ""),
		testutil.NewContact("b", "John", "Smith", "john@x.com", "5550102030"),
	)

	updated, err := u.UpdateContact("b", map[string]string{domain.FieldPhone: "5550109999"})
	require.NoError(t, err)
	assert.Equal(t, "5550109999", updated.Phone)

	_, err = u.UpdateContact("b", map[string]string{"nickname": "JJ"})
	assert.ErrorIs(t, err, domain.ErrInvalidField)

	merged, err := u.MergeContacts(&dto.MergeRequest{
		SourceID:   "a",
		TargetID:   "b",
		MergedData: map[string]string{domain.FieldEmail: "jon@x.com"},
	})
	require.NoError(t, err)
	assert.Equal(t, "jon@x.com", merged.Email)
	_, err = u.GetContact("a")
	assert.ErrorIs(t, err, domain.ErrContactNotFound)

	history := u.History()
	require.Len(t, history.Entries, 2)
	assert.Equal(t, "Merge contacts a into b", history.Entries[0].Description)
	assert.True(t, history.CanUndo)
	assert.False(t, history.CanRedo)

	state, err := u.Undo()
	require.NoError(t, err)
	assert.True(t, state.Success)
	assert.True(t, state.CanRedo)
	assert.Equal(t, "Merge contacts a into b", state.RedoDescription)

	restored, err := u.GetContact("a")
	require.NoError(t, err)
	assert.Equal(t, "jon@x.com", restored.Email)
	target, err := u.GetContact("b")
	require.NoError(t, err)
	assert.Equal(t, "john@x.com", target.Email)

	state, err = u.Redo()
	require.NoError(t, err)
	assert.True(t, state.Success)
	_, err = u.GetContact("a")
	assert.ErrorIs(t, err, domain.ErrContactNotFound)
}
