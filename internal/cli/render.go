package cli

import (
	"context"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/woozymasta/basisview/internal/config"
	"github.com/woozymasta/basisview/internal/view"
)

func (a *App) renderCommand() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "render SRC",
		Short: "Decode one image and save a rendered frame as PNG",
		Long: `Fetch SRC (a path or an http(s) URL), decode it into the selected
format, draw a single frame and save it. A summary line with the image and
decoded sizes is printed on success.`,
		Example: `  basisview render textures/stone.edds --format BC1 --out stone.png
  basisview render https://example.com/kodim.basis --transcoder-wasm basis.wasm`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runRender(cmd.Context(), args[0], out)
		},
	}
	cmd.Flags().String("format", "", "format to decode into (default RGBA32)")
	annotate(cmd.Flags(), "format", config.KeyViewFormat)
	cmd.Flags().StringVarP(&out, "out", "o", "frame.png", "output PNG path")

	return cmd
}

func (a *App) runRender(ctx context.Context, src, out string) error {
	rt, err := a.newRuntime(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = rt.Close(ctx) }()

	dev := a.newDevice()
	v := a.newView(rt, dev, src)
	defer v.Dispose()

	if err := v.Mount(ctx, src); err != nil {
		return err
	}

	st := v.State()
	if st.Phase != view.PhaseDecoded {
		return fmt.Errorf("%w: %s as %s (supported: %v)", ErrNotDecoded, src, st.Format, st.Formats)
	}
	if err := v.Frame(); err != nil {
		return err
	}

	path, err := a.saveFrame(dev.Snapshot(), out)
	if err != nil {
		return err
	}

	a.log.Info("frame rendered", zap.String("src", src), zap.String("out", path))

	p := message.NewPrinter(language.English)
	_, err = p.Fprintf(a.out, "%s: %s %s, container %d bytes, decoded %d bytes -> %s\n",
		src, resolution(st), st.Format, st.CompressedSize, st.DecodedSize, path)

	return err
}

func resolution(st view.State) string {
	return fmt.Sprintf("%dx%d", st.Width, st.Height)
}

// saveFrame writes frame as PNG to path, scaled to the configured render
// size when one is set.
func (a *App) saveFrame(frame image.Image, path string) (string, error) {
	w, h := a.cfg.Render.Width, a.cfg.Render.Height
	if w > 0 || h > 0 {
		frame = imaging.Resize(frame, w, h, imaging.Lanczos)
	}

	f, err := a.fs.Create(path)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrWriteImage, path, err)
	}

	if err := imaging.Encode(f, frame, imaging.PNG); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("%w: %q: %v", ErrWriteImage, path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrWriteImage, path, err)
	}

	return path, nil
}
