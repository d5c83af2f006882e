package commands

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/payload-community/payload-go/internal/constants"
	"github.com/payload-community/payload-go/pkg/payload"
	"github.com/payload-community/payload-go/pkg/payloadclient"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

// NewLoginCommand creates the login command.
func NewLoginCommand() *cobra.Command {
	var (
		serverURL  string
		email      string
		password   string
		collection string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Login to a Payload server",
		Long:  "Authenticate against an auth-enabled collection and store the issued token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if serverURL == "" {
				serverURL = viper.GetString("server")
			}

			config := loadConfig()

			if serverURL == "" {
				if server := currentServer(config, false); server != nil {
					serverURL = server.URL
				}
			}

			if serverURL == "" {
				reader := bufio.NewReader(os.Stdin)
				fmt.Print("Server URL: ")
				serverURL, _ = reader.ReadString('\n')
				serverURL = strings.TrimSpace(serverURL)
			}

			if serverURL == "" {
				return constants.ErrNoServerConfigured
			}

			if email == "" {
				reader := bufio.NewReader(os.Stdin)
				fmt.Print("Email: ")
				email, _ = reader.ReadString('\n')
				email = strings.TrimSpace(email)
			}

			if password == "" {
				fmt.Print("Password: ")

				bytePassword, err := term.ReadPassword(int(syscall.Stdin))
				if err != nil {
					return fmt.Errorf("failed to read password: %w", err)
				}

				password = string(bytePassword)

				fmt.Println()
			}

			client, err := payloadclient.New(cmd.Context(), &payload.Config{
				BaseURL:        serverURL,
				AuthCollection: collection,
			})
			if err != nil {
				return err
			}

			login, err := client.Auth().Login(cmd.Context(), collection, email, password)
			if err != nil {
				return fmt.Errorf("login failed: %w", err)
			}

			server := currentServer(config, true)
			server.URL = strings.TrimSuffix(serverURL, "/")
			server.Token = login.Token
			server.AuthCollection = collection
			server.Email = email

			if login.Exp > 0 {
				expiresAt := time.Unix(login.Exp, 0)
				server.TokenExpiresAt = &expiresAt
			}

			err = saveConfig(config)
			if err != nil {
				return err
			}

			fmt.Printf("Logged in as %s\n", email)

			return nil
		},
	}

	cmd.Flags().StringVarP(&serverURL, "server", "s", "", "Payload server URL")
	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password")
	cmd.Flags().StringVar(&collection, "collection", "users", "auth-enabled collection")

	return cmd
}

// NewLogoutCommand creates the logout command.
func NewLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Logout from the current Payload server",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			server := currentServer(config, false)
			if server == nil || server.Token == "" {
				return constants.ErrNotLoggedIn
			}

			client, err := createClient(cmd.Context())
			if err != nil {
				return err
			}

			_, err = client.Auth().Logout(cmd.Context(), server.AuthCollection)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Warning: server logout failed: %v\n", err)
			}

			server.Token = ""
			server.TokenExpiresAt = nil

			err = saveConfig(config)
			if err != nil {
				return err
			}

			fmt.Println("Logged out")

			return nil
		},
	}
}

// NewMeCommand creates the me command.
func NewMeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show the currently authenticated account",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient(cmd.Context())
			if err != nil {
				return err
			}

			me, err := client.Auth().Me(cmd.Context(), "")
			if err != nil {
				return err
			}

			if viper.GetString("output") == OutputFormatYAML {
				return StandardYAMLRenderer(me)
			}

			return StandardJSONRenderer(me)
		},
	}
}
