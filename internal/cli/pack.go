package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/spf13/cobra"
	"github.com/woozymasta/bcn"
	"go.uber.org/zap"

	"github.com/woozymasta/basisview/internal/edds"
)

// packFormats are the storage formats pack can write.
var packFormats = map[string]bcn.Format{
	"bgra8": bcn.FormatBGRA8,
	"dxt1":  bcn.FormatDXT1,
	"dxt5":  bcn.FormatDXT5,
}

type packOptions struct {
	format     string
	mipmaps    int
	noCompress bool
	quality    string
}

func (a *App) packCommand() *cobra.Command {
	opts := packOptions{}

	cmd := &cobra.Command{
		Use:   "pack IN OUT",
		Short: "Encode an image into an EDDS container",
		Long: `Read IN (PNG, JPEG, BMP, TIFF or GIF), build its mip chain and write it as
an EDDS container the native backend can show.`,
		Example: `  basisview pack albedo.png albedo.edds --format dxt5 --mipmaps 4`,
		Args:    cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			return a.runPack(args[0], args[1], opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.format, "format", "bgra8", "storage format: "+strings.Join(packFormatNames(), ", "))
	flags.IntVar(&opts.mipmaps, "mipmaps", 0, "maximum mip levels, 0 writes the full chain")
	flags.BoolVar(&opts.noCompress, "no-compress", false, "store levels uncompressed (COPY blocks)")
	flags.StringVar(&opts.quality, "quality", "fast", "block encoder quality: fast, high")

	return cmd
}

func packFormatNames() []string {
	names := make([]string, 0, len(packFormats))
	for n := range packFormats {
		names = append(names, n)
	}
	sort.Strings(names)

	return names
}

func (a *App) runPack(in, out string, opts packOptions) error {
	format, ok := packFormats[strings.ToLower(opts.format)]
	if !ok {
		return fmt.Errorf("%w: %q (want %s)", ErrPackFormat, opts.format, strings.Join(packFormatNames(), ", "))
	}
	encode, err := encodeOptions(opts.quality)
	if err != nil {
		return err
	}

	src, err := a.fs.Open(in)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrReadImage, in, err)
	}
	img, err := imaging.Decode(src, imaging.AutoOrientation(true))
	_ = src.Close()
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrReadImage, in, err)
	}

	dst, err := a.fs.Create(out)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", edds.ErrWrite, out, err)
	}

	err = edds.Write(dst, img, &edds.WriteOptions{
		Format:        format,
		MaxMipMaps:    opts.mipmaps,
		Compress:      !opts.noCompress,
		EncodeOptions: encode,
	})
	if cerr := dst.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("%w: %q: %v", edds.ErrWrite, out, cerr)
	}
	if err != nil {
		return err
	}

	b := img.Bounds()
	a.log.Info("container written",
		zap.String("in", in),
		zap.String("out", out),
		zap.String("format", opts.format),
		zap.Int("width", b.Dx()),
		zap.Int("height", b.Dy()))

	_, err = fmt.Fprintf(a.out, "%s: %dx%d %s -> %s\n", in, b.Dx(), b.Dy(), strings.ToLower(opts.format), out)

	return err
}

// encodeOptions maps a quality name to block encoder settings.
func encodeOptions(quality string) (*bcn.EncodeOptions, error) {
	opts := &bcn.EncodeOptions{}
	switch strings.ToLower(quality) {
	case "", "fast":
		opts.QualityLevel = bcn.QualityLevelFast
	case "high":
		opts.QualityLevel = 8
	default:
		return nil, fmt.Errorf("%w: quality %q", ErrPackFormat, quality)
	}

	return opts, nil
}
