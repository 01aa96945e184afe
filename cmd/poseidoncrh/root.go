package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/consensys/gnark/logger"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/vocdoni/poseidoncrh/params"
)

var (
	paramsPath string
	width      int
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:           "poseidoncrh",
	Short:         "Poseidon CRH over the BN254 scalar field",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := zerolog.InfoLevel
		if verbose {
			level = zerolog.DebugLevel
		}
		output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
		logger.Set(zerolog.New(output).Level(level).With().Timestamp().Logger())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&paramsPath, "params", "", "parameter file (JSON or CBOR), defaults to the built-in bn254 x5 preset")
	rootCmd.PersistentFlags().IntVar(&width, "width", 3, "state width of the built-in preset")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(hashCmd)
	rootCmd.AddCommand(paramsCmd)
	rootCmd.AddCommand(constraintsCmd)
}

// loadParameters returns the preset for --width, or the contents of
// --params when set. Files starting with '{' are read as JSON.
func loadParameters(cmd *cobra.Command) (*params.Parameters, error) {
	if paramsPath == "" {
		return params.BN254X5(width)
	}
	data, err := os.ReadFile(paramsPath)
	if err != nil {
		return nil, err
	}
	p := new(params.Parameters)
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte("{")) {
		err = p.UnmarshalJSON(data)
	} else {
		err = p.UnmarshalBinary(data)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", paramsPath, err)
	}
	if cmd.Flags().Changed("width") && p.Width != width {
		return nil, fmt.Errorf("%s has width %d, --width is %d", paramsPath, p.Width, width)
	}

	log := logger.Logger()
	log.Debug().Str("file", paramsPath).Int("width", p.Width).Msg("parameters loaded")
	return p, nil
}
