package cli

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/woozymasta/basisview/internal/edds"
	"github.com/woozymasta/basisview/internal/gpu"
	"github.com/woozymasta/basisview/internal/gpu/soft"
	"github.com/woozymasta/basisview/internal/source"
	"github.com/woozymasta/basisview/internal/transcoder"
	"github.com/woozymasta/basisview/internal/view"
	"github.com/woozymasta/basisview/internal/wasmbasis"
)

// Short extension names accepted in gpu.extensions.
var extensionAliases = map[string]string{
	"astc":         gpu.ExtASTC,
	"etc1":         gpu.ExtETC1,
	"etc":          gpu.ExtETC,
	"etc2":         gpu.ExtETC,
	"s3tc":         gpu.ExtS3TC,
	"dxt":          gpu.ExtS3TC,
	"pvrtc":        gpu.ExtPVRTC,
	"webkit-pvrtc": gpu.ExtPVRTCWebKit,
}

func extensionNames(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if full, ok := extensionAliases[strings.ToLower(n)]; ok {
			n = full
		}
		out = append(out, n)
	}

	return out
}

// runtime is the transcoder, fetcher and metrics shared by the views of
// one command.
type runtime struct {
	loader   *transcoder.Loader
	factory  transcoder.Factory
	fetcher  source.Fetcher
	registry *prometheus.Registry
	metrics  *view.Metrics
}

// newRuntime initializes the configured transcoder backend.
func (a *App) newRuntime(ctx context.Context) (*runtime, error) {
	backend, err := a.backend()
	if err != nil {
		return nil, err
	}

	loader := transcoder.NewLoader(backend, a.log.Named("transcoder"))
	factory, err := loader.Initialize(ctx)
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()

	return &runtime{
		loader:  loader,
		factory: factory,
		fetcher: &source.Router{
			HTTP: &source.HTTPFetcher{Client: &http.Client{Timeout: a.cfg.HTTP.Timeout}},
			FS:   &source.FSFetcher{Fs: a.fs},
		},
		registry: reg,
		metrics:  view.NewMetrics(reg),
	}, nil
}

func (a *App) backend() (transcoder.Backend, error) {
	path := a.cfg.Transcoder.Wasm
	if path == "" {
		return edds.NewBackend(a.log.Named("edds")), nil
	}

	wasm, err := afero.ReadFile(a.fs, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrTranscoderModule, path, err)
	}

	return wasmbasis.New(wasm, wasmbasis.WithLogger(a.log.Named("wasm"))), nil
}

// newDevice creates a software device advertising the configured
// extensions.
func (a *App) newDevice() *soft.Device {
	return soft.New(soft.WithExtensions(extensionNames(a.cfg.GPU.Extensions)...))
}

// newView creates an unmounted view on dev.
func (a *App) newView(rt *runtime, dev gpu.Device, src string) *view.View {
	return view.New(dev, rt.loader, rt.fetcher,
		view.WithLogger(a.log.Named("view").With(zap.String("src", src))),
		view.WithMetrics(rt.metrics),
		view.WithFormat(a.cfg.View.Format))
}

// Close releases the transcoder instance when it holds one.
func (rt *runtime) Close(ctx context.Context) error {
	if c, ok := rt.factory.(interface{ Close(context.Context) error }); ok {
		return c.Close(ctx)
	}

	return nil
}
