package session

import (
	"context"
	"time"

	"github.com/asteroid-belt/studydeck/internal/log"
	"github.com/asteroid-belt/studydeck/internal/models"
)

// ProfileStore creates user profiles. *db.DB satisfies it.
type ProfileStore interface {
	EnsureProfile(ctx context.Context, p *models.UserProfile) (bool, error)
}

// ProfileProvisioner returns a listener that creates the user's profile row
// on sign in if it does not exist yet. Failures are logged only.
func ProfileProvisioner(store ProfileStore) Listener {
	return func(ev Event) {
		if ev.Kind != SignedIn || ev.User == nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		created, err := store.EnsureProfile(ctx, &models.UserProfile{
			ID:        ev.User.ID,
			Email:     ev.User.Email,
			FullName:  ev.User.Name,
			AvatarURL: ev.User.AvatarURL,
		})
		if err != nil {
			log.Warnw("profile provisioning failed", "op", "session.provision", "user", ev.User.ID, "error", err)
			return
		}
		if created {
			log.Infow("profile created", "user", ev.User.ID)
		}
	}
}
