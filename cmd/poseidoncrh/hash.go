package main

import (
	"bufio"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/vocdoni/poseidoncrh"
	"github.com/vocdoni/poseidoncrh/params"
)

const batchChunk = 1024

var batchPath string

func init() {
	hashCmd.Flags().StringVar(&batchPath, "batch", "", "file with one hex input per line")
}

var hashCmd = &cobra.Command{
	Use:   "hash [hex input]...",
	Short: "Evaluate the CRH on little-endian hex encoded inputs",
	RunE: func(cmd *cobra.Command, args []string) error {
		if batchPath == "" && len(args) == 0 {
			return errors.New("no input: pass hex arguments or --batch")
		}
		p, err := loadParameters(cmd)
		if err != nil {
			return err
		}
		c, err := poseidoncrh.NewPoseidonCRH(p.Schedule)
		if err != nil {
			return err
		}

		inputs, err := decodeInputs(args)
		if err != nil {
			return err
		}
		var out []fr.Element
		if batchPath != "" {
			if out, err = hashBatch(cmd, c, p); err != nil {
				return err
			}
		}
		for i, input := range inputs {
			h, err := c.Evaluate(p, input)
			if err != nil {
				return fmt.Errorf("input %d: %w", i, err)
			}
			out = append(out, h)
		}

		w := bufio.NewWriter(cmd.OutOrStdout())
		for i := range out {
			fmt.Fprintf(w, "0x%064x\n", out[i].BigInt(new(big.Int)))
		}
		return w.Flush()
	},
}

func decodeInputs(lines []string) ([][]byte, error) {
	out := make([][]byte, 0, len(lines))
	for i, l := range lines {
		b, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(l), "0x"))
		if err != nil {
			return nil, fmt.Errorf("input %d: %w", i, err)
		}
		out = append(out, b)
	}
	return out, nil
}

func hashBatch(cmd *cobra.Command, c *poseidoncrh.PoseidonCRH, p *params.Parameters) ([]fr.Element, error) {
	f, err := os.Open(batchPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if l := strings.TrimSpace(scanner.Text()); l != "" {
			lines = append(lines, l)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	inputs, err := decodeInputs(lines)
	if err != nil {
		return nil, err
	}

	bar := progressbar.NewOptions(len(inputs),
		progressbar.OptionSetWriter(cmd.ErrOrStderr()),
		progressbar.OptionSetDescription("hashing"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
	out := make([]fr.Element, 0, len(inputs))
	for start := 0; start < len(inputs); start += batchChunk {
		chunk := inputs[start:min(start+batchChunk, len(inputs))]
		h, err := poseidoncrh.EvaluateBatch[*params.Parameters](cmd.Context(), c, p, chunk)
		if err != nil {
			return nil, fmt.Errorf("batch offset %d: %w", start, err)
		}
		out = append(out, h...)
		if err := bar.Add(len(chunk)); err != nil {
			return nil, err
		}
	}
	if err := bar.Finish(); err != nil {
		return nil, err
	}
	return out, nil
}
