package main

import (
	"github.com/spf13/cobra"

	"github.com/tsgonest/vuemeta/internal/mcpserver"
)

func newMCPCommand(flags *cliFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the extract_component tool over MCP (stdio)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := flags.resolve(cmd, nil)
			if err != nil {
				return err
			}
			srv, err := mcpserver.NewServer(mcpserver.Options{
				Root:     s.cfg.Root,
				TSConfig: s.cfg.TSConfig,
				Version:  version,
				Logger:   s.logger,
			})
			if err != nil {
				return err
			}
			s.logger.Info("serving MCP over stdio", "root", s.cfg.Root)
			return srv.ServeStdio()
		},
	}
}
