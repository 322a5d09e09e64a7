package commands

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/danmuck/wirehdr/internal/config"
	"github.com/danmuck/wirehdr/internal/protocol/frame"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newEncodeCmd() *cobra.Command {
	var (
		cfgPath string
		outPath string
		asHex   bool
	)
	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Write a frame described by a TOML config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}

			var buf bytes.Buffer
			if err := frame.WriteFrame(&buf, cfg.Frame, cfg.Limits); err != nil {
				return fmt.Errorf("encode frame: %w", err)
			}
			out := buf.Bytes()
			if asHex {
				out = []byte(hex.EncodeToString(out) + "\n")
			}

			if outPath == "" {
				_, err = cmd.OutOrStdout().Write(out)
			} else {
				err = os.WriteFile(outPath, out, 0o600)
			}
			if err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			log.Debug().
				Int("bytes", buf.Len()).
				Uint16("opcode", cfg.Frame.Header.Opcode).
				Msg("wirehdr: frame encoded")
			return nil
		},
	}
	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "frame config file (TOML)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&asHex, "hex", false, "write hex text instead of raw bytes")
	_ = cmd.MarkFlagRequired("config")
	return cmd
}
