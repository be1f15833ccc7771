package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func sessionsCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Manage active sessions",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "close-others",
		Short: "Revoke every session except this one",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			if !a.store.IsAuthenticated() {
				fmt.Println("No hay sesión activa")
				return nil
			}

			revoked, err := a.service.CloseOtherSessions(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("Sesiones cerradas: %d\n", revoked)
			return nil
		},
	})

	return cmd
}
