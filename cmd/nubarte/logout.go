package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func logoutCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and clear stored credentials",
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
			a.service.Logout()
			fmt.Println("Sesión cerrada")
			return nil
		},
	}
}
