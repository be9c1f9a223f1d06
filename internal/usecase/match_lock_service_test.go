package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/bagaspr/matchday/internal/domain/match"
	"github.com/bagaspr/matchday/internal/domain/user"
)

func TestMatchLockService_Authorize(t *testing.T) {
	t.Parallel()

	repo := newStubMatchRepository(
		match.Match{ID: "finished", Status: match.StatusFinished},
		match.Match{ID: "abandoned", Status: match.StatusAbandoned},
		match.Match{ID: "live", Status: match.StatusLive},
		match.Match{ID: "postponed", Status: match.StatusPostponed},
	)
	service := NewMatchLockService(repo)

	cases := []struct {
		name    string
		matchID string
		role    user.Role
		wantErr error
	}{
		{name: "finished blocks moderator", matchID: "finished", role: user.RoleModerator, wantErr: ErrMatchLocked},
		{name: "abandoned blocks moderator", matchID: "abandoned", role: user.RoleModerator, wantErr: ErrMatchLocked},
		{name: "finished allows admin", matchID: "finished", role: user.RoleAdmin},
		{name: "live allows moderator", matchID: "live", role: user.RoleModerator},
		{name: "postponed stays editable", matchID: "postponed", role: user.RoleModerator},
		{name: "unknown match is not found before lock check", matchID: "ghost", role: user.RoleAdmin, wantErr: ErrNotFound},
		{name: "no target match passes through", matchID: "", role: user.RoleViewer},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := service.Authorize(context.Background(), tc.matchID, tc.role)
			if tc.wantErr == nil {
				if err != nil {
					t.Fatalf("Authorize error: %v", err)
				}
				return
			}
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}
