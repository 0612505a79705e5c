package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	urbanaid "github.com/urbanaid/urbanaid-go"
	"github.com/urbanaid/urbanaid-go/pkg/session"
)

func init() {
	rootCmd.AddCommand(newLoginCommand())
	rootCmd.AddCommand(newLogoutCommand())
	rootCmd.AddCommand(newWhoamiCommand())
	rootCmd.AddCommand(newExportCommand())
}

// clientFromEnv builds a client from the environment. A .env file in the
// working directory is loaded first when present.
func clientFromEnv() (*urbanaid.Client, error) {
	_ = godotenv.Load()

	baseURL := strings.TrimSpace(os.Getenv("URBANAID_API_URL"))
	if baseURL == "" {
		return nil, fmt.Errorf("URBANAID_API_URL is required")
	}

	runtime := urbanaid.RuntimeConfig{}
	switch backend := urbanaid.KeyringBackend(strings.TrimSpace(os.Getenv("URBANAID_KEYRING_BACKEND"))); backend {
	case "", urbanaid.KeyringBackendMemory:
		runtime.Keyring.Backend = urbanaid.KeyringBackendMemory
	case urbanaid.KeyringBackendRedis:
		runtime.Keyring.Backend = urbanaid.KeyringBackendRedis
		runtime.Keyring.Redis.Address = strings.TrimSpace(os.Getenv("URBANAID_REDIS_ADDR"))
		runtime.Keyring.Redis.Password = os.Getenv("URBANAID_REDIS_PASSWORD")
		runtime.Keyring.Redis.Namespace = "urbanaid"
	case urbanaid.KeyringBackendPostgres:
		runtime.Keyring.Backend = urbanaid.KeyringBackendPostgres
		runtime.Keyring.Postgres.DSN = strings.TrimSpace(os.Getenv("URBANAID_POSTGRES_DSN"))
	default:
		return nil, fmt.Errorf("unsupported URBANAID_KEYRING_BACKEND %q", backend)
	}

	return urbanaid.New(urbanaid.Config{
		BaseURL: baseURL,
		Runtime: runtime,
	})
}

func newLoginCommand() *cobra.Command {
	var username, password string

	loginCmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate and persist the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := clientFromEnv()
			if err != nil {
				return err
			}
			defer func() {
				_ = client.Close()
			}()

			identity, landing, err := client.Login(cmd.Context(), session.Credentials{
				Username: username,
				Password: password,
			}, "")
			if err != nil {
				return err
			}

			cmd.Printf("Logged in as %s (%s), landing route: %s\n", identity.Username, identity.Role, landing)
			return nil
		},
	}

	loginCmd.Flags().StringVar(&username, "username", "", "Account username")
	loginCmd.Flags().StringVar(&password, "password", "", "Account password")
	_ = loginCmd.MarkFlagRequired("username")
	_ = loginCmd.MarkFlagRequired("password")

	return loginCmd
}

func newLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the persisted session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := clientFromEnv()
			if err != nil {
				return err
			}
			defer func() {
				_ = client.Close()
			}()

			landing, err := client.Logout(cmd.Context())
			if err != nil {
				return err
			}

			cmd.Printf("Logged out, landing route: %s\n", landing)
			return nil
		},
	}
}

func newWhoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Print the persisted identity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := clientFromEnv()
			if err != nil {
				return err
			}
			defer func() {
				_ = client.Close()
			}()

			if !client.Session().Authenticated(cmd.Context()) {
				cmd.Println("Not logged in.")
				return nil
			}

			identity := client.Session().IdentityStore().Identity()
			cmd.Printf("%s (%s)\n", identity.Username, identity.Role)
			return nil
		},
	}
}

func newExportCommand() *cobra.Command {
	var watch bool
	var interval time.Duration
	var maxAttempts int

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export closed bookings to CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := clientFromEnv()
			if err != nil {
				return err
			}
			defer func() {
				_ = client.Close()
			}()

			if watch {
				report, err := client.ExportClosedBookings(cmd.Context(), urbanaid.ExportOptions{
					Interval:    interval,
					MaxAttempts: maxAttempts,
				})
				if err != nil {
					return err
				}
				cmd.Printf("Export finished after %d poll(s): %s\n", report.Attempts, report.Filename)
				return nil
			}

			job, err := client.RequestClosedBookingsExport(cmd.Context())
			if err != nil {
				return err
			}
			cmd.Printf("Export task %s accepted (%s); rerun with --watch to wait for it.\n", job.ID, job.Status)
			return nil
		},
	}

	exportCmd.Flags().BoolVar(&watch, "watch", false, "Poll the task until it completes")
	exportCmd.Flags().DurationVar(&interval, "interval", 0, "Poll interval (default 2s)")
	exportCmd.Flags().IntVar(&maxAttempts, "max-attempts", 0, "Poll attempt ceiling (default 20)")

	return exportCmd
}
