package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/nubarte/marketplace-client/auth"
	"github.com/nubarte/marketplace-client/users"
)

func loginCmd(configPath *string) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to the marketplace",
		RunE: func(cmd *cobra.Command, args []string) error {
			displayAppName()

			a, err := newApp(*configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			if a.store.IsAuthenticated() {
				fmt.Printf("Ya has iniciado sesión como %s\n", a.store.Current().User.Email)
				return nil
			}

			reader := bufio.NewReader(os.Stdin)
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

			ctx := cmd.Context()
			result, err := a.service.Login(ctx, email, password)
			if err != nil {
				return err
			}

			switch result.Kind {
			case auth.KindSuccess:
				fmt.Printf("Bienvenido, %s\n", result.Session.User.Name)
				return nil
			case auth.KindSecondFactorRequired:
				return runSecondFactor(ctx, a, reader, result.Method)
			case auth.KindValidationError, auth.KindBlocked, auth.KindFailure:
				fmt.Println(result.Message)
				return nil
			default:
				return fmt.Errorf("unexpected login result %d", result.Kind)
			}
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "Account email")
	return cmd
}

// runSecondFactor loops on code entry until verification succeeds or the user
// gives up. Entering "r" requests a fresh emailed code.
func runSecondFactor(ctx context.Context, a *app, reader *bufio.Reader, method users.SecondFactorMethod) error {
	handler := a.service.SecondFactor()

	if method == users.MFAuthenticator {
		fmt.Println("Ingresa el código de tu aplicación de autenticación.")
	} else {
		fmt.Println("Ingresa el código enviado a tu correo (r para reenviar, q para salir).")
	}

	for {
		if countdown := handler.Countdown(); countdown != nil {
			fmt.Printf("Tiempo restante: %s\n", countdown.Formatted())
		}

		code, err := promptLine(reader, "Código: ")
		if err != nil {
			return err
		}

		switch strings.ToLower(code) {
		case "q":
			handler.Abandon()
			return nil
		case "r":
			if err := handler.Resend(ctx); err != nil {
				continue
			}
			continue
		}

		if err := handler.Verify(ctx, "", code); err != nil {
			continue
		}
		fmt.Printf("Bienvenido, %s\n", a.store.Current().User.Name)
		return nil
	}
}

func promptLine(reader *bufio.Reader, prompt string) (string, error) {
	fmt.Print(prompt)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func promptPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
