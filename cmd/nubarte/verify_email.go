package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func verifyEmailCmd(configPath *string) *cobra.Command {
	var email string
	var resend bool

	cmd := &cobra.Command{
		Use:   "verify-email",
		Short: "Confirm a new account with the emailed code",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			reader := bufio.NewReader(os.Stdin)
			if email == "" {
				email = a.store.PendingSecondFactorEmail()
			}
			if email == "" {
				email, err = promptLine(reader, "Correo: ")
				if err != nil {
					return err
				}
			}

			if resend {
				if err := a.service.ResendVerificationCode(cmd.Context(), email); err != nil {
					return err
				}
				fmt.Println("Código reenviado a tu correo")
				return nil
			}

			code, err := promptLine(reader, "Código: ")
			if err != nil {
				return err
			}
			if err := a.service.VerifyEmail(cmd.Context(), email, code); err != nil {
				return err
			}
			fmt.Println("Cuenta verificada. Inicia sesión con: nubarte login")
			return nil
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "Account email")
	cmd.Flags().BoolVarP(&resend, "resend", "r", false, "Request a fresh code instead of verifying")
	return cmd
}
