package main

import (
	"github.com/spf13/cobra"
)

var asCBOR bool

func init() {
	paramsCmd.Flags().BoolVar(&asCBOR, "cbor", false, "write the deterministic CBOR encoding instead of JSON")
}

var paramsCmd = &cobra.Command{
	Use:   "params",
	Short: "Print the selected parameter set",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := loadParameters(cmd)
		if err != nil {
			return err
		}
		var out []byte
		if asCBOR {
			out, err = p.MarshalBinary()
		} else {
			out, err = p.MarshalJSON()
			out = append(out, '\n')
		}
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}
