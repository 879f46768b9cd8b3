package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/sportleague/league-system/models"
	"github.com/sportleague/league-system/repositories"
)

func TestMemberServiceCreate(t *testing.T) {
	var createdLogin *models.Login
	memberRepo := &stubMemberRepo{
		CreateFn: func(ctx context.Context, exec repositories.SQLExecutor, m *models.Member) error {
			m.ID = 31
			return nil
		},
		CreateLoginFn: func(ctx context.Context, exec repositories.SQLExecutor, l *models.Login) error {
			createdLogin = l
			return nil
		},
	}

	tx := &stubTxManager{}
	svc := NewMemberService(memberRepo, tx, 2, "default123", testLogger())

	member, err := svc.Create(context.Background(), CreateMemberInput{Name: "  Dana Reyes ", Email: "dana@example.com"})
	require.NoError(t, err)
	assert.Equal(t, 31, member.ID)
	assert.Equal(t, "Dana Reyes", member.Name)
	assert.Equal(t, 1, tx.calls)

	require.NotNil(t, createdLogin)
	assert.Equal(t, 31, createdLogin.MemberID)
	assert.Equal(t, models.RoleUser, createdLogin.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(createdLogin.PasswordHash), []byte("default123")))
}

func TestMemberServiceCreateValidation(t *testing.T) {
	svc := NewMemberService(&stubMemberRepo{}, &stubTxManager{}, 2, "default123", testLogger())

	_, err := svc.Create(context.Background(), CreateMemberInput{Name: "", Email: "dana@example.com"})
	assert.ErrorIs(t, err, ErrValidationFailed)

	_, err = svc.Create(context.Background(), CreateMemberInput{Name: "Dana", Email: "   "})
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestMemberServiceCreateEmailConflict(t *testing.T) {
	memberRepo := &stubMemberRepo{
		CreateFn: func(ctx context.Context, exec repositories.SQLExecutor, m *models.Member) error {
			return repositories.ErrMemberEmailConflict
		},
	}

	svc := NewMemberService(memberRepo, &stubTxManager{}, 2, "default123", testLogger())

	_, err := svc.Create(context.Background(), CreateMemberInput{Name: "Dana", Email: "dana@example.com"})
	assert.ErrorIs(t, err, ErrMemberEmailConflict)
}

type deletionStubState struct {
	mappings       int
	loginRows      int64
	memberRows     int64
	mappingRows    int64
	memberDeleted  bool
	loginDeleted   bool
	mappingDeleted bool
}

func deletionMemberRepo(state *deletionStubState) *stubMemberRepo {
	return &stubMemberRepo{
		ExistsFn: func(ctx context.Context, id int) (bool, error) { return true, nil },
		CountGroupMappingsFn: func(ctx context.Context, exec repositories.SQLExecutor, memberID int) (int, error) {
			return state.mappings, nil
		},
		DeleteLoginFn: func(ctx context.Context, exec repositories.SQLExecutor, memberID int) (int64, error) {
			state.loginDeleted = true
			return state.loginRows, nil
		},
		DeleteFn: func(ctx context.Context, exec repositories.SQLExecutor, id int) (int64, error) {
			state.memberDeleted = true
			return state.memberRows, nil
		},
		DeleteGroupMappingFn: func(ctx context.Context, exec repositories.SQLExecutor, memberID, groupID int) (int64, error) {
			state.mappingDeleted = true
			return state.mappingRows, nil
		},
	}
}

func TestMemberServiceDeleteOrphanRemovedEntirely(t *testing.T) {
	state := &deletionStubState{mappings: 0, loginRows: 1, memberRows: 1}
	svc := NewMemberService(deletionMemberRepo(state), &stubTxManager{}, 2, "default123", testLogger())

	report, err := svc.Delete(context.Background(), 31)
	require.NoError(t, err)
	assert.Equal(t, "deleted", report.Outcome)
	assert.Equal(t, int64(1), report.RemovedMembers)
	assert.Equal(t, int64(1), report.RemovedLogins)
	assert.Zero(t, report.RemovedMappings)
	assert.True(t, state.loginDeleted)
	assert.True(t, state.memberDeleted)
	assert.False(t, state.mappingDeleted)
}

func TestMemberServiceDeleteVanishedMemberIsAnomaly(t *testing.T) {
	state := &deletionStubState{mappings: 0, loginRows: 0, memberRows: 0}
	svc := NewMemberService(deletionMemberRepo(state), &stubTxManager{}, 2, "default123", testLogger())

	report, err := svc.Delete(context.Background(), 31)
	require.NoError(t, err)
	assert.Equal(t, "anomaly", report.Outcome)
	assert.Zero(t, report.RemovedMembers)
}

func TestMemberServiceDeleteSharedMemberUnlinked(t *testing.T) {
	state := &deletionStubState{mappings: 3, mappingRows: 1}
	svc := NewMemberService(deletionMemberRepo(state), &stubTxManager{}, 2, "default123", testLogger())

	report, err := svc.Delete(context.Background(), 31)
	require.NoError(t, err)
	assert.Equal(t, "unlinked", report.Outcome)
	assert.Equal(t, int64(1), report.RemovedMappings)
	assert.False(t, state.memberDeleted, "shared member must stay in the directory")
	assert.False(t, state.loginDeleted)
}

func TestMemberServiceDeleteForeignMemberNoop(t *testing.T) {
	state := &deletionStubState{mappings: 2, mappingRows: 0}
	svc := NewMemberService(deletionMemberRepo(state), &stubTxManager{}, 2, "default123", testLogger())

	report, err := svc.Delete(context.Background(), 31)
	require.NoError(t, err)
	assert.Equal(t, "noop", report.Outcome)
	assert.Zero(t, report.RemovedMappings)
}

func TestMemberServiceDeleteUnknownMember(t *testing.T) {
	memberRepo := &stubMemberRepo{
		ExistsFn: func(ctx context.Context, id int) (bool, error) { return false, nil },
	}
	tx := &stubTxManager{}
	svc := NewMemberService(memberRepo, tx, 2, "default123", testLogger())

	_, err := svc.Delete(context.Background(), 404)
	assert.ErrorIs(t, err, ErrMemberNotFound)
	assert.Zero(t, tx.calls)
}
