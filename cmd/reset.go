package main

import (
	"context"
	"fmt"

	"github.com/Shivanand-hulikatti/virtual-events/internal/catalog"
	"github.com/Shivanand-hulikatti/virtual-events/internal/config"
	"github.com/Shivanand-hulikatti/virtual-events/internal/model"
	"github.com/Shivanand-hulikatti/virtual-events/internal/store"
	"github.com/spf13/cobra"
)

func newResetCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Delete all persisted state",
		Long: `Delete the persisted session, event list, signed-up users and every known
user's bookmarks and registrations. The next start seeds the catalog again.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load()
			if err != nil {
				return fmt.Errorf("config error: %w", err)
			}
			logger := config.NewLogger(cfg.Logging, cmd.ErrOrStderr())

			st, closeStore, err := openStore(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer closeStore()

			n := resetState(cmd.Context(), st)
			fmt.Fprintf(cmd.OutOrStdout(), "Removed state for %d users from the %s store\n", n, cfg.Storage.Backend)
			return nil
		},
	}
}

// resetState deletes every key the application writes and returns the number
// of users whose lists were cleared.
func resetState(ctx context.Context, st *store.Store) int {
	var signups []model.User
	st.Get(ctx, store.KeyUsers, &signups)
	users := append(catalog.Users(), signups...)
	for _, u := range users {
		st.Delete(ctx, store.BookmarksKey(u.ID))
		st.Delete(ctx, store.RegistrationsKey(u.ID))
	}

	st.Delete(ctx, store.KeySession)
	st.Delete(ctx, store.KeyEvents)
	st.Delete(ctx, store.KeyUsers)
	st.Delete(ctx, store.KeyProfiles)
	return len(users)
}
