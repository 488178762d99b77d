package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/xuanyanwow/GoNavi-sub000/internal/bridge"
	"github.com/xuanyanwow/GoNavi-sub000/internal/database"
	"github.com/xuanyanwow/GoNavi-sub000/internal/logger"
	"github.com/xuanyanwow/GoNavi-sub000/internal/render"
	"github.com/xuanyanwow/GoNavi-sub000/internal/runner"
)

// Exec runs one SQL buffer against the configured backend and renders
// every result to stdout. Statement headers and the closing summary go
// to stderr so machine formats stay clean. Returns the process exit
// code: 0 when every statement succeeded, 1 otherwise.
func Exec(ctx context.Context, config *Config, sqlText string) (int, error) {
	if err := config.Validate(); err != nil {
		return 2, err
	}
	logger.SetVerbose(config.Verbose)

	formatter, err := render.GetFormatter(render.FormatType(config.Format))
	if err != nil {
		return 2, err
	}

	backend, err := database.Open(ctx, config)
	if err != nil {
		return 1, err
	}
	defer backend.Close()

	startTime := time.Now()
	session := runner.NewSession(backend, config.MaxRows, config.Timeout)
	outcome := session.Run(ctx, sqlText)

	for _, stmt := range outcome.Statements {
		switch stmt.Status {
		case runner.RunSucceeded:
			note := ""
			if stmt.Limited {
				note = fmt.Sprintf(" [capped at %d rows]", config.MaxRows)
			}
			fmt.Fprintf(os.Stderr, "-- [%d] %s%s (%v)\n",
				stmt.Index, excerpt(stmt.SQL), note, stmt.Duration().Round(time.Millisecond))
			if err := formatter.Format(stmt.Result, os.Stdout); err != nil {
				return 1, fmt.Errorf("failed to render statement %d: %w", stmt.Index, err)
			}
		case runner.RunFailed:
			fmt.Fprintf(os.Stderr, "-- [%d] %s\n   failed: %v\n",
				stmt.Index, excerpt(stmt.SQL), stmt.Error)
		case runner.RunSkipped:
			fmt.Fprintf(os.Stderr, "-- [%d] %s\n   skipped\n", stmt.Index, excerpt(stmt.SQL))
		}
	}

	summary := runner.Summarize(outcome)
	fmt.Fprintf(os.Stderr, "\nStatements: %d succeeded, %d failed, %d skipped, %d total\n",
		summary.Succeeded, summary.Failed, summary.Skipped, summary.TotalStatements)
	fmt.Fprintf(os.Stderr, "Time:       %v\n", time.Since(startTime).Round(time.Millisecond))

	return summary.ExitCode(), nil
}

// Serve runs the WebSocket RPC bridge until the context is cancelled.
func Serve(ctx context.Context, config *Config, listen string) error {
	if err := config.Validate(); err != nil {
		return err
	}
	logger.SetVerbose(config.Verbose)

	backend, err := database.Open(ctx, config)
	if err != nil {
		return err
	}
	defer backend.Close()

	mux := http.NewServeMux()
	mux.Handle("/rpc", bridge.NewServer(backend, config.MaxRows, config.Timeout))
	server := &http.Server{Addr: listen, Handler: mux}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	logger.Info("bridge listening on ws://%s/rpc", listen)
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

// excerpt renders a statement for a diagnostic header: its first line,
// truncated to keep headers one line each.
func excerpt(sql string) string {
	const max = 60
	line := sql
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	if len(line) > max {
		line = line[:max] + "..."
	}
	return line
}
