package app

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/taskflow-app/taskflow/internal/auth"
	"github.com/taskflow-app/taskflow/internal/config"
	"github.com/taskflow-app/taskflow/internal/daemon"
	"github.com/taskflow-app/taskflow/internal/db/models"
)

func init() { //nolint: gochecknoinits
	userAddCmd.Flags().StringVar(&newUser.Email, "email", "", "Email address of the account")
	userAddCmd.Flags().StringVar(&newUser.Name, "name", "", "Display name, 1 to 20 characters")
	userAddCmd.Flags().StringVar(&newUser.Password, "password", "", "Password, at least 6 characters")

	userCmd.AddCommand(userAddCmd)
	rootCmd.AddCommand(userCmd)
}

var (
	newUser config.Seed

	userCmd = &cobra.Command{
		Use:   "user",
		Short: "Manage user accounts",
	}

	userAddCmd = &cobra.Command{
		Use:   "add",
		Short: "Create an account, applying the same rules as the signup page",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := config.ReadConfig(configPath)
			if err != nil {
				return err
			}

			db, err := daemon.OpenDB(&c)
			if err != nil {
				return err
			}

			defer func() {
				if closeErr := daemon.CloseDB(db); closeErr != nil {
					log.Error().Err(closeErr).Msg("failed to close database")
				}
			}()

			if err = db.AutoMigrate(&models.User{}); err != nil {
				return fmt.Errorf("failed to migrate database: %w", err)
			}

			// no session is established, the flow needs no storage
			flow, _, err := daemon.NewFlow(db, nil, &c)
			if err != nil {
				return err
			}

			res, err := flow.Signup(cmd.Context(), auth.SignupInput{
				Email:           newUser.Email,
				Name:            newUser.Name,
				Password:        newUser.Password,
				ConfirmPassword: newUser.Password,
			})
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "created user %d <%s>\n", res.User.ID, res.User.Email)

			return err
		},
	}
)
