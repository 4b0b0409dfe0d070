package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"labinventory-backend/internal/auth"
	"labinventory-backend/internal/model"
	"labinventory-backend/internal/store"
)

func newUsersCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage API users",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(newUsersAddCommand(opts))
	return cmd
}

func newUsersAddCommand(opts *rootOptions) *cobra.Command {
	var (
		email      string
		name       string
		password   string
		role       string
		department string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a user who can sign in to the API",
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := auth.HashPassword(password)
			if err != nil {
				return err
			}

			ctx := commandContext(cmd)
			s, closeFn, err := opts.openStore(ctx)
			if err != nil {
				return err
			}
			defer closeFn()

			user := &model.User{
				Email:        strings.ToLower(strings.TrimSpace(email)),
				Name:         name,
				PasswordHash: hash,
				Role:         role,
				Department:   department,
			}
			if err := s.CreateUser(ctx, user); err != nil {
				if errors.Is(err, store.ErrDuplicate) {
					return fmt.Errorf("user %s already exists", user.Email)
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created user %d (%s)\n", user.ID, user.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Login email")
	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&password, "password", "", "Initial password")
	cmd.Flags().StringVar(&role, "role", "staff", "Role")
	cmd.Flags().StringVar(&department, "department", "", "Department")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
