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
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/containerd/log"
	kflate "github.com/klauspost/compress/flate"
	"github.com/montanaflynn/stats"
	"github.com/opencontainers/go-digest"
	"github.com/sirupsen/logrus"
	"github.com/streamtools/pushflate/flate"
	"github.com/streamtools/pushflate/util/ioutils"
	"github.com/urfave/cli/v3"
)

const selfCheckFlag = "self-check"

// feedStats summarizes the distribution of bytes produced per feed.
type feedStats struct {
	Mean   float64
	StdDev float64
	Min    float64
	Pct50  float64
	Pct90  float64
	Max    float64
}

func calculateFeedStats(samples []float64) feedStats {
	var fs feedStats
	var err error
	fs.Mean, err = stats.Mean(samples)
	if err != nil {
		fs.Mean = -1
	}
	fs.StdDev, err = stats.StandardDeviation(samples)
	if err != nil {
		fs.StdDev = -1
	}
	fs.Min, err = stats.Min(samples)
	if err != nil {
		fs.Min = -1
	}
	fs.Pct50, err = stats.Percentile(samples, 50)
	if err != nil {
		fs.Pct50 = -1
	}
	fs.Pct90, err = stats.Percentile(samples, 90)
	if err != nil {
		fs.Pct90 = -1
	}
	fs.Max, err = stats.Max(samples)
	if err != nil {
		fs.Max = -1
	}
	return fs
}

var ProbeCommand = &cli.Command{
	Name:      "probe",
	Usage:     "feed a raw DEFLATE stream in small chunks and trace how it is consumed",
	ArgsUsage: "[file]",
	Flags: []cli.Flag{
		&cli.Int64Flag{
			Name:  chunkSizeFlag,
			Usage: "bytes fed per step",
			Value: 1,
		},
		&cli.BoolFlag{
			Name:  selfCheckFlag,
			Usage: "re-decode the consumed input with a pull-mode decoder and compare digests",
		},
	},
	Action: func(ctx context.Context, cmd *cli.Command) error {
		in, err := openInput(cmd.Args().First())
		if err != nil {
			return err
		}
		defer in.Close()

		cr, err := ioutils.NewChunkReader(in, int(cmd.Int64(chunkSizeFlag)))
		if err != nil {
			return err
		}

		d := flate.NewDecompressor()
		blocks := 0
		d.OnBlockEnd = func(final bool) {
			blocks++
			log.G(ctx).WithFields(logrus.Fields{
				"bits":  d.BitsConsumed(),
				"out":   d.TotalOut(),
				"final": final,
			}).Debug("block boundary")
		}

		selfCheck := cmd.Bool(selfCheckFlag)
		var fed bytes.Buffer
		outDigester := digest.SHA256.Digester()

		var perFeed []float64
		feeds := 0
		for !d.EOF() {
			chunk, err := cr.Next()
			if err == io.EOF {
				break
			}
			if err != nil {
				return err
			}
			if selfCheck {
				fed.Write(chunk)
			}
			p, derr := d.Decompress(chunk)
			outDigester.Hash().Write(p)
			feeds++
			perFeed = append(perFeed, float64(len(p)))
			log.G(ctx).WithFields(logrus.Fields{
				"feed":     feeds,
				"fed":      len(chunk),
				"emitted":  len(p),
				"consumed": d.BytesConsumed(),
				"state":    d.State().String(),
			}).Debug("step")
			if derr != nil {
				return fmt.Errorf("probe failed after %d feeds: %w", feeds, derr)
			}
		}

		if selfCheck && d.EOF() {
			refDigester := digest.SHA256.Digester()
			rc := kflate.NewReader(&fed)
			n, err := io.Copy(refDigester.Hash(), rc)
			rc.Close()
			if err != nil {
				return fmt.Errorf("self-check decode: %w", err)
			}
			if n != d.TotalOut() || refDigester.Digest() != outDigester.Digest() {
				return fmt.Errorf("self-check mismatch: pull decoder produced %d bytes (%s), push decoder %d bytes (%s)",
					n, refDigester.Digest(), d.TotalOut(), outDigester.Digest())
			}
			log.G(ctx).WithField("digest", outDigester.Digest()).Debug("self-check passed")
		}

		fs := calculateFeedStats(perFeed)
		w := tabwriter.NewWriter(os.Stdout, 8, 8, 4, ' ', 0)
		fmt.Fprintf(w, "FEEDS\t%d\n", feeds)
		fmt.Fprintf(w, "BLOCKS\t%d\n", blocks)
		fmt.Fprintf(w, "EOF\t%v\n", d.EOF())
		fmt.Fprintf(w, "STATE\t%s\n", d.State())
		fmt.Fprintf(w, "BYTES CONSUMED\t%d\n", d.BytesConsumed())
		fmt.Fprintf(w, "BITS CONSUMED\t%d\n", d.BitsConsumed())
		fmt.Fprintf(w, "OUTPUT SIZE\t%d\n", d.TotalOut())
		fmt.Fprintf(w, "UNUSED BYTES\t%d\n", len(d.UnusedData()))
		fmt.Fprintf(w, "OUT/FEED MEAN\t%.2f\n", fs.Mean)
		fmt.Fprintf(w, "OUT/FEED STDDEV\t%.2f\n", fs.StdDev)
		fmt.Fprintf(w, "OUT/FEED MIN\t%.0f\n", fs.Min)
		fmt.Fprintf(w, "OUT/FEED P50\t%.0f\n", fs.Pct50)
		fmt.Fprintf(w, "OUT/FEED P90\t%.0f\n", fs.Pct90)
		fmt.Fprintf(w, "OUT/FEED MAX\t%.0f\n", fs.Max)
		return w.Flush()
	},
}
