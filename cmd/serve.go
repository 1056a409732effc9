package cmd

import (
	"github.com/kyhsueh/codegrade/internal/contract"
	"github.com/kyhsueh/codegrade/internal/webapi"
	"github.com/spf13/cobra"
)

// serveCmd starts the HTTP API server.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the codegrade HTTP server.",
	Long: `Launch an HTTP server that runs analyses on demand.

Endpoints:
  POST /api/analyze       - Start an analysis, returns a session id
  GET  /api/progress/{id} - Stream progress events over SSE
  GET  /api/result/{id}   - Fetch the finished analysis result
  GET  /api/health        - Liveness check with open session count

Progress events report the stage, percentage and a short message while
an analysis runs, so dashboards can show live status.

Examples:
  # Serve on the default address
  codegrade serve

  # Serve on a custom port with history tracking
  codegrade serve --addr :9090 --history-backend sqlite`,
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := webapi.NewServer(cfg).ListenAndServe(rootCtx); err != nil {
			contract.LogFatal("Cannot run HTTP server", err)
		}
	},
}
