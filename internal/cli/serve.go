package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/spektr-org/spektr-scatter/internal/server"
)

// addrEnv overrides the default listen address.
const addrEnv = "SPEKTR_SCATTER_ADDR"

func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		origins []string
		strict  bool
		maxBody int64
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the render API over HTTP",
		Long: `Serve exposes the render engine over HTTP:

  GET  /healthz              liveness
  GET  /api/charts           chart specs
  POST /api/render           render from an inline table
  POST /api/render/scatter   render pre-pivoted scatter input
  POST /api/render/bubble    render pre-pivoted bubble input
  POST /api/preview.png      PNG preview of an inline-table render

The listen address defaults to $` + addrEnv + ` when set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("addr") {
				if env := os.Getenv(addrEnv); env != "" {
					addr = env
				}
			}
			srv := server.New(c.Logger, server.Config{
				AllowedOrigins:   origins,
				StrictParameters: strict,
				MaxBodyBytes:     maxBody,
			})
			return srv.ListenAndServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringSliceVar(&origins, "cors-origin", nil, "allowed CORS origins (default: any)")
	cmd.Flags().BoolVar(&strict, "strict", false, "fail renders with invalid chart parameters")
	cmd.Flags().Int64Var(&maxBody, "max-body", server.DefaultMaxBodyBytes, "maximum request body in bytes")
	return cmd
}
