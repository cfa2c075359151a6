package cmd

import (
	"fmt"
	"time"

	"github.com/avigier/rhcases/internal/adapters/render/dashboard"
	"github.com/avigier/rhcases/internal/application"
	"github.com/spf13/cobra"
)

// flagOverrides carries command-line values that take precedence over the
// config file; zero values leave the configured setting untouched.
type flagOverrides struct {
	refresh  time.Duration
	timeout  time.Duration
	sort     string
	logFile  string
	clientID string
	ssoURL   string
	apiURL   string
}

func addCommonFlags(cmd *cobra.Command, o *flagOverrides) {
	cmd.Flags().DurationVar(&o.refresh, "refresh", 0, "refresh interval (default 15m)")
	cmd.Flags().DurationVar(&o.timeout, "timeout", 0, "per-request timeout (default 10s)")
	cmd.Flags().StringVar(&o.sort, "sort", "", "case sort within an account: severity or modified (default: API order)")
	cmd.Flags().StringVar(&o.logFile, "log-file", "", "write diagnostics to this file")
	cmd.Flags().StringVar(&o.clientID, "client-id", "", "OAuth client id for the token exchange")
	cmd.Flags().StringVar(&o.ssoURL, "sso-url", "", "SSO base URL")
	cmd.Flags().StringVar(&o.apiURL, "api-url", "", "support API base URL")
}

func resolveSettings(o flagOverrides) (settings, error) {
	s, err := loadSettings()
	if err != nil {
		return settings{}, err
	}

	if o.refresh > 0 {
		s.RefreshInterval = o.refresh
	}
	if o.timeout > 0 {
		s.CallTimeout = o.timeout
	}
	if o.sort != "" {
		s.Sort = o.sort
	}
	if o.logFile != "" {
		s.LogFile = o.logFile
	}
	if o.clientID != "" {
		s.ClientID = o.clientID
	}
	if o.ssoURL != "" {
		s.SSOBaseURL = o.ssoURL
	}
	if o.apiURL != "" {
		s.APIBaseURL = o.apiURL
	}

	return s, nil
}

func newWatchCmd() *cobra.Command {
	var overrides flagOverrides

	cmd := &cobra.Command{
		Use:   "watch <accounts-file> [offline-token]",
		Short: "Run the live case dashboard",
		Long:  "watch polls every configured account on an interval and renders a full-screen dashboard. The offline token may be passed as the second argument or via " + credentialEnvVar + ".",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := resolveSettings(overrides)
			if err != nil {
				return err
			}

			credential := ""
			if len(args) > 1 {
				credential = args[1]
			}

			app, err := wireApp(args[0], credential, s)
			if err != nil {
				return err
			}
			defer app.close()

			// First exchange happens before any screen state: an invalid
			// credential exits with a message instead of a blank dashboard.
			if _, err := app.tokens.Token(cmd.Context()); err != nil {
				return fmt.Errorf("authenticate with Red Hat SSO: %w", err)
			}

			model, err := dashboard.New(app.refresher.Run, dashboard.Options{
				Accounts:        app.accounts,
				RefreshInterval: s.RefreshInterval,
				SortKey:         application.SortKey(s.Sort),
			})
			if err != nil {
				return err
			}

			app.logger.Info("dashboard starting", "accounts", len(app.accounts), "refresh", s.RefreshInterval)
			return dashboard.Run(model)
		},
	}

	addCommonFlags(cmd, &overrides)

	return cmd
}
