// Package cli wires the basisview command tree.
package cli

import (
	"context"
	"io"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/woozymasta/basisview/internal/config"
	"github.com/woozymasta/basisview/internal/logging"
)

// annotationKey marks a flag with the config key it overrides.
const annotationKey = "basisview_config_key"

// App carries the state shared by all commands of one invocation.
type App struct {
	fs     afero.Fs
	v      *viper.Viper
	out    io.Writer
	errOut io.Writer
	tty    func() bool

	log        *zap.Logger
	presetLog  bool
	cfg        *config.Config
	configFile string
}

// Option configures an App.
type Option func(*App)

// WithFs replaces the filesystem used for config, sources and outputs.
func WithFs(fs afero.Fs) Option {
	return func(a *App) { a.fs = fs }
}

// WithOutput sets the standard and error output streams.
func WithOutput(out, errOut io.Writer) Option {
	return func(a *App) {
		a.out = out
		a.errOut = errOut
	}
}

// WithLogger uses log instead of one built from configuration.
func WithLogger(log *zap.Logger) Option {
	return func(a *App) {
		if log != nil {
			a.log = log
			a.presetLog = true
		}
	}
}

// WithTerminal overrides the interactive terminal check.
func WithTerminal(fn func() bool) Option {
	return func(a *App) { a.tty = fn }
}

// New creates an app over the OS filesystem and standard streams.
func New(opts ...Option) *App {
	a := &App{
		fs:     afero.NewOsFs(),
		v:      config.New(),
		out:    os.Stdout,
		errOut: os.Stderr,
		log:    zap.NewNop(),
	}
	a.tty = func() bool {
		f, ok := a.out.(*os.File)
		return ok && term.IsTerminal(int(f.Fd())) // #nosec G115 -- fd fits int.
	}
	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Command builds the root command.
func (a *App) Command() *cobra.Command {
	root := &cobra.Command{
		Use:   "basisview",
		Short: "Decode and display GPU texture containers",
		Long: `basisview decodes texture containers through a transcoder, uploads the
result to a software GPU and shows it.

The transcoder is the native EDDS backend unless --transcoder-wasm names a
Basis Universal transcoder module. Every flag can also be set in
basisview.yaml or through BASISVIEW_* environment variables.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(*cobra.Command, []string) { _ = a.log.Sync() },
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "config file (default ./basisview.yaml when present)")
	configFlag(flags, "transcoder-wasm", config.KeyTranscoderWasm, "", "Basis Universal transcoder wasm module")
	flags.StringSlice("gpu-extensions", nil, "extensions the software GPU advertises (full names or astc, etc1, etc, s3tc, pvrtc)")
	annotate(flags, "gpu-extensions", config.KeyGPUExtensions)
	flags.Int("fps", 0, "render loop frame rate")
	annotate(flags, "fps", config.KeyRenderFPS)
	flags.Int("width", 0, "output width, 0 keeps the image width")
	annotate(flags, "width", config.KeyRenderWidth)
	flags.Int("height", 0, "output height, 0 keeps the image height")
	annotate(flags, "height", config.KeyRenderHeight)
	flags.Duration("http-timeout", 0, "timeout of remote fetches")
	annotate(flags, "http-timeout", config.KeyHTTPTimeout)
	configFlag(flags, "log-level", config.KeyLogLevel, "", "log level (debug, info, warn, error)")
	configFlag(flags, "log-format", config.KeyLogFormat, "", "log format (console, json)")

	root.AddCommand(
		a.formatsCommand(),
		a.renderCommand(),
		a.viewCommand(),
		a.packCommand(),
	)

	return root
}

// Execute runs the command tree with args and returns the process exit code.
func (a *App) Execute(ctx context.Context, args []string) int {
	root := a.Command()
	root.SetArgs(args)
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	if err := root.ExecuteContext(ctx); err != nil {
		a.log.Debug("command failed", zap.Error(err))
		_, _ = io.WriteString(a.errOut, "Error: "+err.Error()+"\n")
		return 1
	}

	return 0
}

func configFlag(flags *pflag.FlagSet, name, key, value, usage string) {
	flags.String(name, value, usage)
	annotate(flags, name, key)
}

func annotate(flags *pflag.FlagSet, name, key string) {
	_ = flags.SetAnnotation(name, annotationKey, []string{key})
}

// setup binds the invoked command's flags, loads configuration and builds
// the logger.
func (a *App) setup(cmd *cobra.Command, _ []string) error {
	var bindErr error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		keys, ok := f.Annotations[annotationKey]
		if !ok || bindErr != nil {
			return
		}
		bindErr = a.v.BindPFlag(keys[0], f)
	})
	if bindErr != nil {
		return bindErr
	}

	cfg, err := config.Load(a.v, a.fs, a.configFile)
	if err != nil {
		return err
	}
	a.cfg = cfg

	if !a.presetLog {
		log, err := logging.New(cfg.Logging())
		if err != nil {
			return err
		}
		a.log = log
	}

	a.log.Debug("configuration loaded",
		zap.String("command", cmd.Name()),
		zap.String("config_file", a.v.ConfigFileUsed()),
		zap.String("transcoder_wasm", cfg.Transcoder.Wasm),
		zap.Strings("gpu_extensions", cfg.GPU.Extensions))

	return nil
}
