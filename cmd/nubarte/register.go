package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func registerCmd(configPath *string) *cobra.Command {
	var name, email string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a marketplace account",
		RunE: func(cmd *cobra.Command, args []string) error {
			displayAppName()

			a, err := newApp(*configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			reader := bufio.NewReader(os.Stdin)
			if name == "" {
				name, err = promptLine(reader, "Nombre: ")
				if err != nil {
					return err
				}
			}
			if email == "" {
				email, err = promptLine(reader, "Correo: ")
				if err != nil {
					return err
				}
			}
			password, err := promptPassword("Contraseña: ")
			if err != nil {
				return err
			}

			res, err := a.service.Register(cmd.Context(), name, email, password)
			if err != nil {
				return err
			}

			if res.RequiresVerification {
				fmt.Println("Revisa tu correo y confirma tu cuenta con: nubarte verify-email")
			} else {
				fmt.Println("Cuenta creada. Inicia sesión con: nubarte login")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Full name")
	cmd.Flags().StringVarP(&email, "email", "e", "", "Account email")
	return cmd
}
