package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	jce "github.com/kungfusheep/jce"
)

func newInspectCommand() *cobra.Command {
	var tag int
	var verbose bool

	cmd := &cobra.Command{
		Use:   "inspect [path|-]",
		Short: "Decode a JCE buffer as a dynamic value tree and print it",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd, args, tag, verbose)
		},
	}
	cmd.Flags().IntVar(&tag, "tag", -1, "print only the top-level field at this tag")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "trace decode progress")
	return cmd
}

func runInspect(cmd *cobra.Command, args []string, tag int, verbose bool) error {
	logger := zap.NewNop()
	if verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			return err
		}
		logger = l
		defer logger.Sync() //nolint:errcheck
	}

	data, err := readInput(args)
	if err != nil {
		return err
	}
	logger.Debug("read input", zap.Int("bytes", len(data)))

	v, err := jce.DecodeValue(data)
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}

	if tag >= 0 {
		s, ok := v.Struct()
		if !ok {
			return fmt.Errorf("top-level value is not a struct; --tag requires one")
		}
		fv, ok := s.Get(uint8(tag))
		if !ok {
			return fmt.Errorf("tag %d not present", tag)
		}
		v = fv
	}

	logger.Debug("decoded", zap.String("kind", v.Kind().String()))
	jce.Print(v)
	return nil
}

func readInput(args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(args[0])
}
