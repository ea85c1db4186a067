package main

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/logicossoftware/go-mda"
)

type statsCmd struct {
	Args struct {
		Input string `positional-arg-name:"IN" required:"true" description:"Input MDA file"`
	} `positional-args:"true"`

	Format string `short:"f" long:"format" choice:"yaml" choice:"json" description:"Output format (default from config)"`
}

type volumeStats struct {
	File     string          `json:"file"`
	Width    int             `json:"width"`
	Height   int             `json:"height"`
	Depth    int             `json:"depth"`
	Type     mda.ElementType `json:"type"`
	Range    mda.SampleRange `json:"range"`
	Mean     float64         `json:"mean"`
	StdDev   float64         `json:"stddev"`
	Samples  int             `json:"samples"`
	Checksum string          `json:"checksum"`
}

// Execute decodes the input file and prints its statistics.
func (c *statsCmd) Execute(_ []string) error {
	vol, rng, err := mda.DecodeFile(c.Args.Input, root.readOptions(c.Args.Input)...)
	if err != nil {
		root.log.Error().Err(err).Str("file", c.Args.Input).Msg("decode failed")
		return err
	}
	s := computeStats(vol, rng)
	s.File = c.Args.Input

	out, err := encodeOutput(s, root.format(c.Format))
	if err != nil {
		return err
	}
	_, err = stdout.Write(out)
	return err
}

// computeStats summarises vol. Mean and standard deviation cover the finite
// samples only. Each slice is reduced with gonum and the per-slice moments
// are merged, so at most one slice of float64 is held at a time.
func computeStats(vol *mda.Volume, rng mda.SampleRange) volumeStats {
	st := volumeStats{
		Width:    vol.Width,
		Height:   vol.Height,
		Depth:    vol.Depth,
		Type:     vol.Type,
		Range:    rng,
		Checksum: fmt.Sprintf("%016x", vol.Checksum()),
	}
	var acc moments
	x := make([]float64, 0, vol.Width*vol.Height)
	for _, s := range vol.Slices {
		x = x[:0]
		for i := 0; i < s.Len(); i++ {
			if v := s.Float64(i); !math.IsNaN(v) && !math.IsInf(v, 0) {
				x = append(x, v)
			}
		}
		acc.merge(sliceMoments(x))
	}
	st.Samples = acc.n
	st.Mean = acc.mean
	if acc.n > 1 {
		st.StdDev = math.Sqrt(acc.m2 / float64(acc.n-1))
	}
	return st
}

// moments holds a sample count, its mean and the sum of squared deviations
// from that mean.
type moments struct {
	n    int
	mean float64
	m2   float64
}

func sliceMoments(x []float64) moments {
	switch len(x) {
	case 0:
		return moments{}
	case 1:
		return moments{n: 1, mean: x[0]}
	}
	mean, variance := stat.MeanVariance(x, nil)
	return moments{n: len(x), mean: mean, m2: variance * float64(len(x)-1)}
}

// merge folds b into a using the pairwise update of Chan et al.
func (a *moments) merge(b moments) {
	if b.n == 0 {
		return
	}
	if a.n == 0 {
		*a = b
		return
	}
	n := a.n + b.n
	delta := b.mean - a.mean
	a.mean += delta * float64(b.n) / float64(n)
	a.m2 += b.m2 + delta*delta*float64(a.n)*float64(b.n)/float64(n)
	a.n = n
}
