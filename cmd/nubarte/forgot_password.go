package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nubarte/marketplace-client/auth"
)

func forgotPasswordCmd(configPath *string) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "forgot-password",
		Short: "Reset a forgotten password with an emailed recovery code",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			reader := bufio.NewReader(os.Stdin)
			if email == "" {
				email, err = promptLine(reader, "Correo: ")
				if err != nil {
					return err
				}
			}

			ctx := cmd.Context()
			result, err := a.service.RequestRecoveryCode(ctx, email)
			if err != nil {
				return err
			}
			if result.Kind != auth.KindSuccess {
				fmt.Println(result.Message)
				return nil
			}

			code, err := promptLine(reader, "Código recibido: ")
			if err != nil {
				return err
			}
			if err := a.service.VerifyRecoveryCode(ctx, email, code); err != nil {
				return err
			}

			password, err := promptPassword("Nueva contraseña: ")
			if err != nil {
				return err
			}
			if err := a.service.ResetPassword(ctx, email, code, password); err != nil {
				return err
			}
			fmt.Println("Contraseña actualizada. Inicia sesión con: nubarte login")
			return nil
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "Account email")
	return cmd
}
