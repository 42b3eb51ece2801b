package daemon

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/taskflow-app/taskflow/internal/auth"
	"github.com/taskflow-app/taskflow/internal/config"
	"github.com/taskflow-app/taskflow/internal/db/controller/user"
)

// seed creates the configured account on an empty user table. It goes through
// the signup rules, so a seed that would be rejected is only logged.
func seed(ctx context.Context, cfg *config.Config, users *user.Store, flow *auth.Controller) {
	if cfg.Seed.Email == "" {
		return
	}

	count, err := users.Count(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to count users")
		return
	}

	if count > 0 {
		return
	}

	res, err := flow.Signup(ctx, auth.SignupInput{
		Email:           cfg.Seed.Email,
		Name:            cfg.Seed.Name,
		Password:        cfg.Seed.Password,
		ConfirmPassword: cfg.Seed.Password,
	})
	if err != nil {
		log.Error().Err(err).Str("email", cfg.Seed.Email).Msg("failed to seed user")
		return
	}

	log.Warn().Str("email", res.User.Email).Msg("dev mode: seeded initial user")
}
