/*
   Copyright The Pushflate Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/containerd/log"
	"github.com/opencontainers/go-digest"
	"github.com/sirupsen/logrus"
	"github.com/streamtools/pushflate/flate"
	"github.com/streamtools/pushflate/util/ioutils"
	"github.com/urfave/cli/v3"
)

var DecodeCommand = &cli.Command{
	Name:      "decode",
	Usage:     "decompress a raw DEFLATE stream and report exact consumption",
	ArgsUsage: "[file]",
	Flags: []cli.Flag{
		&cli.Int64Flag{
			Name:  chunkSizeFlag,
			Usage: "feed the decoder in chunks of this many bytes",
			Value: 32 * 1024,
		},
		&cli.StringFlag{
			Name:    outFlag,
			Aliases: []string{"o"},
			Usage:   "write the decompressed payload to a file",
		},
	},
	Action: func(ctx context.Context, cmd *cli.Command) error {
		in, err := openInput(cmd.Args().First())
		if err != nil {
			return err
		}
		defer in.Close()

		var out io.Writer = io.Discard
		if path := cmd.String(outFlag); path != "" {
			f, err := os.Create(path)
			if err != nil {
				return err
			}
			defer f.Close()
			out = f
		}
		digester := digest.SHA256.Digester()
		sink := io.MultiWriter(out, digester.Hash())

		pt := ioutils.NewPositionTrackerReader(in)
		cr, err := ioutils.NewChunkReader(pt, int(cmd.Int64(chunkSizeFlag)))
		if err != nil {
			return err
		}

		d := flate.NewDecompressor()
		var produced int64
		for !d.EOF() {
			chunk, err := cr.Next()
			if err == io.EOF {
				break
			}
			if err != nil {
				return err
			}
			p, derr := d.Decompress(chunk)
			if len(p) > 0 {
				if _, err := sink.Write(p); err != nil {
					return err
				}
				produced += int64(len(p))
			}
			log.G(ctx).WithFields(logrus.Fields{
				"fed":      len(chunk),
				"emitted":  len(p),
				"consumed": d.BytesConsumed(),
				"state":    d.State().String(),
			}).Debug("fed chunk")
			if derr != nil {
				return fmt.Errorf("decode failed at input offset %d: %w", pt.CurrentPos(), derr)
			}
		}
		if !d.EOF() {
			p, err := d.Flush()
			if len(p) > 0 {
				if _, werr := sink.Write(p); werr != nil {
					return werr
				}
				produced += int64(len(p))
			}
			if err != nil {
				return fmt.Errorf("input exhausted before end of stream: %w", err)
			}
		}

		// Bytes we read from the source but never handed to the decoder are
		// trailing data just like the decoder's own unused tail.
		trailing, err := io.Copy(io.Discard, pt)
		if err != nil {
			return err
		}
		unused := int64(len(d.UnusedData())) + trailing

		w := tabwriter.NewWriter(os.Stdout, 8, 8, 4, ' ', 0)
		fmt.Fprintf(w, "BYTES CONSUMED\t%d\n", d.BytesConsumed())
		fmt.Fprintf(w, "BITS CONSUMED\t%d\n", d.BitsConsumed())
		fmt.Fprintf(w, "OUTPUT SIZE\t%d\n", produced)
		fmt.Fprintf(w, "OUTPUT DIGEST\t%s\n", digester.Digest())
		fmt.Fprintf(w, "UNUSED BYTES\t%d\n", unused)
		return w.Flush()
	},
}
