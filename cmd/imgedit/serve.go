package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ironsheep/imgedit/internal/server"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run an MCP tool server on stdin/stdout",
		Long: `Serve the editor as MCP tools over JSON-RPC 2.0, one message per line on
stdin and stdout. Logs go to stderr (and --log-file), never to stdout.

Configure it in an MCP client as a stdio server running "imgedit serve".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a.logger.Info("serving MCP on stdio",
				zap.String("version", Version),
				zap.String("build_time", BuildTime),
				zap.String("commit", GitCommit))

			srv := server.New(a.newEditor(), a.logger, Version)
			return srv.Serve(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}
