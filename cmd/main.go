package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/schollz/progressbar/v2"
	"github.com/spf13/cobra"

	"github.com/yungbote/coursenotes-backend/internal/app"
	"github.com/yungbote/coursenotes-backend/internal/notes"
	"github.com/yungbote/coursenotes-backend/internal/platform/logger"
	"github.com/yungbote/coursenotes-backend/internal/types"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "coursenotes",
		Short:        "Turn course lecture captions into Markdown notes",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(notesCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func serveCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext()
			defer stop()

			a, err := app.New(ctx)
			if err != nil {
				return err
			}
			defer a.Close()
			if port != "" {
				a.Cfg.Port = port
			}
			return a.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "listen port (overrides PORT)")
	return cmd
}

func notesCmd() *cobra.Command {
	var (
		courseID   int64
		lectureIDs []int64
		cookie     string
		outPath    string
	)

	cmd := &cobra.Command{
		Use:   "notes",
		Short: "Generate a notes archive for selected lectures",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cookie == "" {
				cookie = os.Getenv("UDEMY_COOKIE")
			}
			if cookie == "" {
				return fmt.Errorf("missing cookie: pass --cookie or set UDEMY_COOKIE")
			}
			if courseID <= 0 {
				return fmt.Errorf("--course is required")
			}
			if len(lectureIDs) == 0 {
				return fmt.Errorf("--lectures is required")
			}

			ctx, stop := signalContext()
			defer stop()

			mode := os.Getenv("LOG_MODE")
			if mode == "" {
				mode = "production"
			}
			log, err := logger.New(mode)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			cfg := app.LoadConfig(log)
			a, err := app.NewWithConfig(ctx, log, cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			bar := progressbar.NewOptions(100,
				progressbar.OptionSetDescription("generating notes"),
				progressbar.OptionSetWriter(cmd.ErrOrStderr()),
			)
			shown := 0
			bundle, err := a.Services.Pipeline.Archive(ctx, notes.Request{
				CourseID:   courseID,
				LectureIDs: lectureIDs,
				Credential: cookie,
			}, func(ev types.ProgressEvent) {
				if ev.PercentComplete > shown {
					_ = bar.Add(ev.PercentComplete - shown)
					shown = ev.PercentComplete
				}
				if ev.Phase == types.PhaseError && ev.Lecture != "" {
					fmt.Fprintf(cmd.ErrOrStderr(), "\nlecture %s failed: %s\n", ev.Lecture, ev.ErrorDetail)
				}
			})
			_ = bar.Finish()
			fmt.Fprintln(cmd.ErrOrStderr())
			if err != nil {
				return fmt.Errorf("generate notes: %w", err)
			}

			if outPath == "" {
				outPath = bundle.FileName()
			}
			if err := writeBundle(outPath, bundle); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d notes to %s\n", len(bundle.Notes), outPath)
			return nil
		},
	}

	cmd.Flags().Int64Var(&courseID, "course", 0, "course id")
	cmd.Flags().Int64SliceVar(&lectureIDs, "lectures", nil, "lecture ids, comma separated")
	cmd.Flags().StringVar(&cookie, "cookie", "", "session cookie (defaults to UDEMY_COOKIE)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output zip path (defaults to <course>-<run>.zip)")
	return cmd
}

func writeBundle(path string, bundle *notes.Bundle) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := bundle.Write(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("write archive: %w", err)
	}
	return f.Close()
}
