// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package cmd

import (
	"os/signal"
	"syscall"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
)

const (
	serveCmdUsage = "serve"
	serveCmdShort = "start the GitHub webhook listener"
	serveCmdLong  = `Start the GitHub webhook listener.
	The listener receives pull request webhook deliveries, verifies their
	signature with the shared secret in WEBHOOK_SECRET and dispatches them to
	the handler matching the delivery action.

	Notification routing files can bind actions to outbound targets (slack,
	discord, jira, queue); targets are enabled through their environment
	variables.`

	serveCmdExample = `# Start the listener with the secret from the environment
	prhook serve

	# Start the listener with Slack notifications on opened pull requests
	prhook serve --routes-file routes.yaml --env-file .env`
)

// ServeCmd returns the Cobra command that starts the webhook listener.
func ServeCmd() *cobra.Command {
	flags := &flags{}
	cmd := &cobra.Command{
		Use:     serveCmdUsage,
		Short:   heredoc.Doc(serveCmdShort),
		Long:    heredoc.Doc(serveCmdLong),
		Example: heredoc.Doc(serveCmdExample),

		SilenceErrors: true,
		SilenceUsage:  true,

		Args:              cobra.NoArgs,
		ValidArgsFunction: cobra.NoFileCompletions,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.toOptions(args)
			if err != nil {
				return handleError(cmd, err)
			}

			if err := opts.validate(); err != nil {
				return handleError(cmd, err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := opts.execute(ctx); err != nil {
				return handleError(cmd, err)
			}

			return nil
		},
	}

	flags.addFlags(cmd)
	return cmd
}
