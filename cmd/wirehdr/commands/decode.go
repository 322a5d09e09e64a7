package commands

import (
	"bufio"
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/danmuck/wirehdr/internal/protocol"
	"github.com/danmuck/wirehdr/internal/protocol/frame"
	"github.com/danmuck/wirehdr/internal/protocol/header"
	"github.com/spf13/cobra"
)

func newDecodeCmd() *cobra.Command {
	var (
		inPath     string
		headerOnly bool
		fromHex    bool
		limits     = frame.DefaultLimits()
	)
	cmd := &cobra.Command{
		Use:   "decode",
		Short: "Decode frames until end of input",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var in io.Reader = cmd.InOrStdin()
			if inPath != "" {
				f, err := os.Open(inPath)
				if err != nil {
					return fmt.Errorf("open input: %w", err)
				}
				defer f.Close()
				in = f
			}
			if fromHex {
				raw, err := io.ReadAll(in)
				if err != nil {
					return fmt.Errorf("read input: %w", err)
				}
				b, err := hex.DecodeString(strings.Join(strings.Fields(string(raw)), ""))
				if err != nil {
					return fmt.Errorf("decode hex input: %w", err)
				}
				in = bytes.NewReader(b)
			}

			r := bufio.NewReader(in)
			out := cmd.OutOrStdout()
			for n := 0; ; n++ {
				// Input may only end on a frame boundary, and must hold at
				// least one frame.
				if n > 0 {
					if _, err := r.Peek(1); errors.Is(err, io.EOF) {
						return nil
					}
				}
				line, err := decodeOne(r, headerOnly, limits)
				if err != nil {
					return fmt.Errorf("frame %d: %w (status %d)", n, err, uint16(protocol.StatusOf(err)))
				}
				fmt.Fprintln(out, line)
			}
		},
	}
	cmd.Flags().StringVarP(&inPath, "in", "i", "", "input file (default: stdin)")
	cmd.Flags().BoolVar(&headerOnly, "header-only", false, "input holds bare header frames")
	cmd.Flags().BoolVar(&fromHex, "hex", false, "input is hex text")
	cmd.Flags().Uint32Var(&limits.MaxBodyBytes, "max-body", limits.MaxBodyBytes, "largest accepted body_len")
	cmd.Flags().Uint16Var(&limits.MaxAuthBytes, "max-auth", limits.MaxAuthBytes, "largest accepted auth_len")
	return cmd
}

func decodeOne(r io.Reader, headerOnly bool, limits frame.Limits) (string, error) {
	if headerOnly {
		h, err := header.Read(r)
		if err != nil {
			return "", err
		}
		return formatHeader(h), nil
	}
	f, err := frame.ReadFrame(r, limits)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s body=%x auth=%x", formatHeader(f.Header), f.Body, f.Auth), nil
}

func formatHeader(h header.Header) string {
	return fmt.Sprintf(
		"provider=%d session=%d content_type=%d accept_type=%d auth_type=%d body_len=%d auth_len=%d opcode=%d status=%d",
		h.Provider, h.Session, h.ContentType, h.AcceptType, h.AuthType, h.BodyLen, h.AuthLen, h.Opcode, h.Status,
	)
}
