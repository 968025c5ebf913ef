package cli

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/holopanel/internal/server"
	"github.com/matzehuels/holopanel/pkg/document"
)

const shutdownTimeout = 5 * time.Second

// serveCommand creates the serve command for hosting live sessions.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve [document]",
		Short: "Serve live panel sessions over HTTP",
		Long: `Serve a panel document to any number of players.

Each player opens a session with PUT /players/{player}, routes input with
POST /players/{player}/pointer, /scroll and /text, and fetches the current
scene with GET /players/{player}/scene.{json,dot,svg,png,txt}.`,
		Example: `  holopanel serve menu.toml --addr :8080
  curl -X PUT localhost:8080/players/steve
  curl -d '{"x": 0, "y": 40}' localhost:8080/players/steve/pointer
  curl localhost:8080/players/steve/scene.png > scene.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), args[0], addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "localhost:8080", "listen address")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, path, addr string) error {
	logger := loggerFromContext(ctx)

	doc, err := document.Load(path)
	if err != nil {
		return err
	}
	cfg, err := c.loadConfig(ctx)
	if err != nil {
		return err
	}

	srv := server.New(doc, cfg, logger)
	defer srv.Close()

	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.ListenAndServe() }()
	printSuccess(c.out, "Serving %s", documentName(path))
	printKeyValue(c.out, "Address", "http://"+addr)
	printKeyValue(c.out, "Nodes", strconv.Itoa(doc.Count()))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	}
}
