package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/woozymasta/basisview/internal/config"
	"github.com/woozymasta/basisview/internal/gpu/soft"
	"github.com/woozymasta/basisview/internal/source"
	"github.com/woozymasta/basisview/internal/tui"
	"github.com/woozymasta/basisview/internal/view"
)

// panel is one shown image with its own device.
type panel struct {
	src  string
	dev  *soft.Device
	view *view.View
}

func (a *App) viewCommand() *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "view SRC...",
		Short: "Show images in an interactive terminal view",
		Long: `Load each SRC and keep rendering it at --fps. In a terminal every image
gets a panel with a format selector (left/right), its resolution and the
container and decoded sizes; tab switches images and s saves the current
frame as PNG. Without a terminal a summary line per image is printed.

With --watch local sources are reloaded when they change.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runView(cmd.Context(), args, watch)
		},
	}
	cmd.Flags().String("format", "", "initially selected format (default RGBA32)")
	annotate(cmd.Flags(), "format", config.KeyViewFormat)
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "reload local sources on change")

	return cmd
}

func (a *App) runView(ctx context.Context, srcs []string, watch bool) error {
	rt, err := a.newRuntime(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = rt.Close(ctx) }()

	panels := make([]*panel, len(srcs))
	for i, src := range srcs {
		dev := a.newDevice()
		panels[i] = &panel{src: src, dev: dev, view: a.newView(rt, dev, src)}
	}
	defer func() {
		for _, p := range panels {
			p.view.Dispose()
		}
	}()

	interactive := a.tty()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	var program *tea.Program
	notify := func() {}
	if interactive {
		viewers := make([]tui.Viewer, len(panels))
		for i, p := range panels {
			viewers[i] = p.view
		}
		program = tea.NewProgram(tui.New(viewers, a.snapshotter(panels)),
			tea.WithContext(ctx),
			tea.WithAltScreen(),
			tea.WithOutput(a.out))
		notify = func() { program.Send(tui.RefreshMsg{}) }
	}

	var mounted sync.WaitGroup
	for _, p := range panels {
		mounted.Add(1)
		g.Go(func() error {
			defer mounted.Done()
			if err := p.view.Mount(ctx, p.src); err != nil {
				if !errors.Is(err, view.ErrFetch) && !errors.Is(err, view.ErrSuperseded) {
					return err
				}
				a.log.Warn("failed to load image", zap.String("src", p.src), zap.Error(err))
			}
			notify()
			return nil
		})
	}

	if !interactive && !watch {
		mounted.Wait()
		cancel()
		if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return a.printStates(panels)
	}

	for _, p := range panels {
		g.Go(func() error {
			return ignoreCanceled(p.view.RunAtRate(ctx, a.cfg.Render.FPS))
		})
	}

	if watch {
		if err := a.watch(ctx, g, panels, func() {
			notify()
			if !interactive {
				_ = a.printStates(panels)
			}
		}); err != nil {
			return err
		}
	}

	if interactive {
		g.Go(func() error {
			defer cancel()
			_, err := program.Run()
			if err != nil && ctx.Err() == nil {
				return err
			}
			return nil
		})
	} else {
		g.Go(func() error {
			mounted.Wait()
			return a.printStates(panels)
		})
	}

	return ignoreCanceled(g.Wait())
}

// watch reloads panels whose local source changed and calls changed after
// each reload.
func (a *App) watch(ctx context.Context, g *errgroup.Group, panels []*panel, changed func()) error {
	w, err := source.NewWatcher(source.DefaultDebounce, a.log.Named("watch"))
	if err != nil {
		return err
	}

	byPath := make(map[string][]*panel)
	for _, p := range panels {
		if source.IsRemote(p.src) {
			continue
		}
		path := filepath.Clean(strings.TrimPrefix(p.src, "file://"))
		if err := w.Add(path); err != nil {
			_ = w.Close()
			return err
		}
		byPath[path] = append(byPath[path], p)
	}

	g.Go(func() error {
		defer func() { _ = w.Close() }()
		return ignoreCanceled(w.Run(ctx, func(path string) {
			for _, p := range byPath[path] {
				a.log.Info("source changed, reloading", zap.String("src", p.src))
				if err := p.view.Reload(ctx); err != nil {
					a.log.Warn("reload failed", zap.String("src", p.src), zap.Error(err))
				}
			}
			changed()
		}))
	})

	return nil
}

// snapshotter saves the current frame of a panel next to the working
// directory, named after the source and format.
func (a *App) snapshotter(panels []*panel) tui.SnapshotFunc {
	return func(index int) (string, error) {
		p := panels[index]
		st := p.view.State()

		base := filepath.Base(strings.TrimPrefix(p.src, "file://"))
		name := fmt.Sprintf("%s-%s.png", strings.TrimSuffix(base, filepath.Ext(base)), strings.ToLower(st.Format))

		return a.saveFrame(p.dev.Snapshot(), name)
	}
}

func (a *App) printStates(panels []*panel) error {
	p := message.NewPrinter(language.English)
	for _, pn := range panels {
		st := pn.view.State()
		if _, err := p.Fprintf(a.out, "%s: %s %s %s, container %d bytes, decoded %d bytes\n",
			pn.src, st.Phase, resolution(st), st.Format, st.CompressedSize, st.DecodedSize); err != nil {
			return err
		}
	}

	return nil
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}

	return err
}
