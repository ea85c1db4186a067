package main

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"golang.org/x/image/tiff"

	"github.com/logicossoftware/go-mda"
)

type exportCmd struct {
	Args struct {
		Input  string `positional-arg-name:"IN" required:"true" description:"Input MDA file"`
		OutDir string `positional-arg-name:"OUTDIR" required:"true" description:"Output directory"`
	} `positional-args:"true"`

	Prefix string `long:"prefix" default:"slice_" description:"Output file name prefix"`
}

// Execute writes one TIFF image per slice of the input file.
func (c *exportCmd) Execute(_ []string) error {
	vol, rng, err := mda.DecodeFile(c.Args.Input, root.readOptions(c.Args.Input)...)
	if err != nil {
		root.log.Error().Err(err).Str("file", c.Args.Input).Msg("decode failed")
		return err
	}
	paths, err := exportSlices(vol, rng, c.Args.OutDir, c.Prefix)
	if err != nil {
		return err
	}
	root.log.Info().Str("file", c.Args.Input).Int("slices", len(paths)).Str("dir", c.Args.OutDir).Msg("exported")
	return nil
}

// exportSlices writes <prefix><z>.tiff for every slice of vol into dir.
func exportSlices(vol *mda.Volume, rng mda.SampleRange, dir, prefix string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	paths := make([]string, 0, vol.Depth)
	for z := range vol.Slices {
		img, err := vol.SliceImage(z, rng)
		if err != nil {
			return paths, err
		}
		p := filepath.Join(dir, fmt.Sprintf("%s%04d.tiff", prefix, z))
		if err := writeTIFF(p, img); err != nil {
			return paths, fmt.Errorf("write %s: %w", p, err)
		}
		paths = append(paths, p)
	}
	return paths, nil
}

func writeTIFF(path string, img image.Image) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()
	return tiff.Encode(f, img, &tiff.Options{Compression: tiff.Deflate})
}
