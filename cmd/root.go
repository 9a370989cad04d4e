package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/edit/internal/buffer"
	"github.com/zjrosen/edit/internal/config"
	"github.com/zjrosen/edit/internal/editor"
	"github.com/zjrosen/edit/internal/keys"
	"github.com/zjrosen/edit/internal/log"
	"github.com/zjrosen/edit/internal/terminal"
	"github.com/zjrosen/edit/internal/watcher"
)

// errUsage is returned when the file argument is missing or empty.
var errUsage = errors.New("Usage: edit <filename>") //nolint:staticcheck // ST1005: printed verbatim to the user

var (
	version = "dev"
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:          "edit <filename>",
	Short:        "A small terminal text editor",
	Long:         `edit opens one UTF-8 text file in the terminal. Ctrl-Q or Esc saves and quits.`,
	Version:      version,
	Args:         fileArg,
	SilenceUsage: true,
	RunE:         runEdit,
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&cfgFile, "config", "c", "", "config file (yaml)")
	flags.Int("tab-width", config.Defaults().Editor.TabWidth, "spaces a tab expands to")
	flags.Bool("debug", false, "write a debug log")
	flags.String("log-file", config.Defaults().Log.File, "debug log path")
	flags.Bool("no-watch", false, "do not watch the file for external changes")

	bindFlags()
}

// bindFlags binds flags to viper keys.
func bindFlags() {
	flags := rootCmd.PersistentFlags()
	_ = viper.BindPFlag("editor.tab_width", flags.Lookup("tab-width"))
	_ = viper.BindPFlag("log.debug", flags.Lookup("debug"))
	_ = viper.BindPFlag("log.file", flags.Lookup("log-file"))
}

func initConfig() {
	config.SetDefaults(viper.GetViper())
	viper.SetEnvPrefix("EDIT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
}

// loadConfig reads the explicit config file, if any, and returns the
// validated settings.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	if cfgFile != "" {
		if err := viper.ReadInConfig(); err != nil {
			return config.Config{}, fmt.Errorf("reading config %s: %w", cfgFile, err)
		}
	}
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return config.Config{}, err
	}

	// Handle --no-watch flag (negated logic)
	if noWatch, _ := cmd.Flags().GetBool("no-watch"); noWatch {
		cfg.Watch.Enabled = false
	}
	return cfg, nil
}

func fileArg(_ *cobra.Command, args []string) error {
	if len(args) != 1 || args[0] == "" {
		return errUsage
	}
	return nil
}

func runEdit(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if cfg.Log.Debug {
		cleanup, err := log.Init(cfg.Log.File)
		if err != nil {
			return fmt.Errorf("opening debug log: %w", err)
		}
		defer cleanup()
	}

	path := args[0]
	if info, err := os.Stat(path); err == nil && cfg.Editor.ShouldConfirm(info.Size()) {
		ok, err := confirmLargeFile(cmd.InOrStdin(), cmd.ErrOrStderr(), info.Size())
		if err != nil {
			return err
		}
		if !ok {
			_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "Aborted.")
			return nil
		}
	}

	buf := buffer.New(
		buffer.WithTabWidth(cfg.Editor.TabWidth),
		buffer.WithTempSuffix(cfg.Editor.TempSuffix),
	)
	buf.Load(path)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	term := terminal.New()
	opts := []editor.Option{
		editor.WithVersion(version),
		editor.WithStatusTTL(cfg.Status.MessageTTL),
		editor.WithHint(keys.HelpText(keys.Editor.ShortHelp()...)),
	}

	if cfg.Watch.Enabled {
		w, changes, err := startWatcher(path, cfg.Watch)
		if err != nil {
			// The editor works without it; external changes just go unnoticed.
			log.Warn(log.CatWatcher, "File watcher unavailable", "path", path, "error", err)
		} else {
			defer func() { _ = w.Stop() }()
			notify := make(chan struct{}, 1)
			go forwardChanges(ctx, changes, notify, term.Wake)
			opts = append(opts, editor.WithChangeNotifications(notify))
		}
	}

	runErr := editor.New(buf, term, opts...).Run(ctx)
	if closeErr := term.Close(); closeErr != nil && runErr == nil {
		runErr = fmt.Errorf("restoring terminal: %w", closeErr)
	}
	return runErr
}

func startWatcher(path string, cfg config.WatchConfig) (*watcher.Watcher, <-chan struct{}, error) {
	w, err := watcher.New(watcher.Config{Path: path, Debounce: cfg.Debounce})
	if err != nil {
		return nil, nil, err
	}
	changes, err := w.Start()
	if err != nil {
		return nil, nil, err
	}
	return w, changes, nil
}

// forwardChanges relays watcher notifications to the editor and wakes its
// pending read so the notice is drawn without waiting for a key.
func forwardChanges(ctx context.Context, changes <-chan struct{}, notify chan<- struct{}, wake func()) {
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-changes:
			if !ok {
				return
			}
			select {
			case notify <- struct{}{}:
			default:
			}
			wake()
		}
	}
}

// confirmLargeFile asks on out whether to open a file of size bytes and
// reads the answer from in. Anything but y/yes declines.
func confirmLargeFile(in io.Reader, out io.Writer, size int64) (bool, error) {
	mb := float64(size) / (1024 * 1024)
	if _, err := fmt.Fprintf(out, "Warning: File is %.1f MB. Loading large files may be slow. Continue? [y/N] ", mb); err != nil {
		return false, fmt.Errorf("writing prompt: %w", err)
	}

	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("reading answer: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
