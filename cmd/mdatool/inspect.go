package main

import "github.com/logicossoftware/go-mda"

type inspectCmd struct {
	Args struct {
		Input string `positional-arg-name:"IN" required:"true" description:"Input MDA file"`
	} `positional-args:"true"`

	Format string `short:"f" long:"format" choice:"yaml" choice:"json" description:"Output format (default from config)"`
}

// Execute prints the validated header of the input file.
func (c *inspectCmd) Execute(_ []string) (err error) {
	rc, err := mda.Open(c.Args.Input)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := rc.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()

	h, err := mda.DecodeHeader(rc, root.cfg.ReadOptions()...)
	if err != nil {
		root.log.Error().Err(err).Str("file", c.Args.Input).Msg("invalid header")
		return err
	}
	out, err := encodeOutput(h, root.format(c.Format))
	if err != nil {
		return err
	}
	_, err = stdout.Write(out)
	return err
}
