package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"photo-organizer/internal/config"
	"photo-organizer/internal/fsx"
	"photo-organizer/internal/logging"
	"photo-organizer/internal/manifest"
	"photo-organizer/internal/metadata"
	"photo-organizer/internal/placement"
	"photo-organizer/internal/report"
	"photo-organizer/internal/walker"
)

// cliFlags holds raw flag values; they only override the config file when set.
type cliFlags struct {
	configPath   string
	dryRun       bool
	manifest     bool
	manifestPath string
	cleanup      bool
	noRecurse    bool
	collision    string
	extensions   []string
	logLevel     string
	logFormat    string
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var flags cliFlags

	cmd := &cobra.Command{
		Use:   "photo-organizer <source> <dest>",
		Short: "Organize photos into YYYY/YYYY-MM folders by EXIF capture time",
		Long: `Moves JPEG files from <source> into <dest>/YYYY/YYYY-MM/, renaming each
to YYYYMMDD_HHMMSSmmm_<original name>. The capture time is taken from the EXIF
DateTime tag, then DateTimeDigitized, then DateTimeOriginal. Files without a
usable capture time are logged and left in place.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}
			return organize(cmd.Context(), cfg, args[0], args[1], stdout, stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	f := cmd.Flags()
	f.StringVar(&flags.configPath, "config", "", "Path to a TOML config file")
	f.BoolVarP(&flags.dryRun, "dry-run", "n", false, "Show what would be moved without touching files")
	f.BoolVarP(&flags.manifest, "manifest", "m", false, "Record moved files in the manifest CSV")
	f.StringVar(&flags.manifestPath, "manifest-path", "", "Manifest location (default <dest>/_Manifest/photo_manifest.csv)")
	f.BoolVar(&flags.cleanup, "cleanup", false, "Remove empty directories from <source> afterwards")
	f.BoolVar(&flags.noRecurse, "no-recurse", false, "Only process files directly inside <source>")
	f.StringVar(&flags.collision, "collision", "", "Name collision policy: suffix or skip")
	f.StringSliceVar(&flags.extensions, "ext", nil, "Accepted extensions (repeatable, default .jpg,.jpeg,.jpe)")
	f.StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	f.StringVar(&flags.logFormat, "log-format", "", "Log format: auto, console or json")

	return cmd
}

// loadConfig reads the config file and applies any flags the user set.
func loadConfig(cmd *cobra.Command, flags cliFlags) (*config.Config, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, err
	}

	changed := cmd.Flags().Changed
	if changed("dry-run") {
		cfg.DryRun = flags.dryRun
	}
	if changed("manifest") {
		cfg.Manifest = flags.manifest
	}
	if changed("manifest-path") {
		cfg.ManifestPath = flags.manifestPath
		cfg.Manifest = true
	}
	if changed("cleanup") {
		cfg.Cleanup = flags.cleanup
	}
	if changed("no-recurse") {
		cfg.Recurse = !flags.noRecurse
	}
	if changed("collision") {
		cfg.Collision = flags.collision
	}
	if changed("ext") {
		cfg.SetExtensions(flags.extensions)
	}
	if changed("log-level") {
		cfg.Log.Level = flags.logLevel
	}
	if changed("log-format") {
		cfg.Log.Format = flags.logFormat
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// organize runs one pass over source. Per-file failures are logged and do not
// produce an error; only setup problems and an unreadable source do.
func organize(ctx context.Context, cfg *config.Config, source, dest string, stdout, stderr io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	runID := logging.NewRunID()
	logger, err := logging.New(logging.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Writer: stderr,
		RunID:  runID,
	})
	if err != nil {
		return err
	}

	collision, err := fsx.ParseCollisionPolicy(cfg.Collision)
	if err != nil {
		return err
	}
	srcAbs, err := filepath.Abs(source)
	if err != nil {
		return fmt.Errorf("resolve source: %w", err)
	}
	destAbs, err := filepath.Abs(dest)
	if err != nil {
		return fmt.Errorf("resolve destination: %w", err)
	}

	if !cfg.DryRun {
		lock, err := fsx.AcquireLock(destAbs)
		if err != nil {
			return err
		}
		defer func() {
			if err := lock.Release(); err != nil {
				logger.Warn("release lock", "path", lock.Path(), "error", err)
			}
		}()
	}

	if !cfg.DryRun {
		if err := fsx.CheckWritable(srcAbs); err != nil {
			logger.Warn("source root is not writable; moves out of it will fail", "path", srcAbs, "error", err)
		}
	}

	logger.Info("organizing photos",
		"source", srcAbs,
		"dest", destAbs,
		"dry_run", cfg.DryRun,
		"recurse", cfg.Recurse,
		"extensions", cfg.Extensions,
	)

	policy := placement.New(metadata.NewExifReader(), destAbs)
	var entries []manifest.Entry
	opts := walker.Options{
		DestRoot:  destAbs,
		Collision: collision,
		DryRun:    cfg.DryRun,
	}
	if cfg.Manifest && !cfg.DryRun {
		opts.OnMove = func(m walker.Move) {
			entries = append(entries, manifestEntry(policy, m, runID, logger))
		}
	}

	w := walker.New(walker.NewPhotoCategory(policy, cfg.Extensions), opts, logger)
	summary, runErr := w.Run(ctx, srcAbs, cfg.Recurse)

	// Moves already made are recorded even when the walk was interrupted.
	if len(entries) > 0 {
		m := manifest.New(destAbs, cfg.ManifestPath)
		added, err := m.Update(entries)
		if err != nil {
			logger.Error("update manifest", "path", m.Path, "error", err)
		} else {
			logger.Info("manifest updated", "path", m.Path, "added", added)
		}
	}

	if cfg.Cleanup && !cfg.DryRun && runErr == nil {
		removed, err := walker.Cleanup(srcAbs, destAbs, logger)
		if err != nil {
			logger.Warn("cleanup", "error", err)
		} else if removed > 0 {
			logger.Info("removed empty directories", "count", removed)
		}
	}

	if err := report.Render(stdout, summary, cfg.DryRun); err != nil {
		logger.Warn("render summary", "error", err)
	}
	if runErr != nil {
		return runErr
	}
	logger.Info("done", "moved", summary.Moved, "skipped", summary.Skipped())
	return nil
}

// manifestEntry describes a completed move. The capture time is read back
// from the moved file.
func manifestEntry(policy *placement.Policy, m walker.Move, runID string, logger *slog.Logger) manifest.Entry {
	e := manifest.Entry{
		SourcePath:  m.Source.Path,
		DestPath:    m.Dest,
		OrganizedAt: time.Now(),
		RunID:       runID,
	}
	if info, err := os.Stat(m.Dest); err == nil {
		e.Size = info.Size()
	}
	if d, ok, err := policy.Decide(m.Dest); err == nil && ok {
		e.CaptureDate = d.Capture
		e.CaptureSource = string(d.Source)
	}
	sum, err := fsx.HashFile(m.Dest)
	if err != nil {
		logger.Warn("hash moved file", "path", m.Dest, "error", err)
	}
	e.SHA256 = sum
	return e
}
