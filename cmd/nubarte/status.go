package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nubarte/marketplace-client/token"
)

func statusCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			current := a.store.Current()
			if !current.Authenticated() {
				fmt.Println("No hay sesión activa")
				return nil
			}

			fmt.Printf("Usuario: %s <%s>\n", current.User.Name, current.User.Email)

			hints, err := token.Inspect(current.AccessToken)
			if err != nil {
				return nil
			}
			if hints.ExpiresAt != nil {
				fmt.Printf("Token expira: %s\n", hints.ExpiresAt.Local().Format(time.RFC822))
				if token.ExpiresWithin(current.AccessToken, 5*time.Minute) {
					fmt.Println("El token está por expirar")
				}
			}
			return nil
		},
	}
}
