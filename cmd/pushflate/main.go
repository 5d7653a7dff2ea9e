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

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/streamtools/pushflate/cmd/pushflate/commands"
	"github.com/streamtools/pushflate/cmd/pushflate/commands/global"
	"github.com/streamtools/pushflate/version"
	"github.com/urfave/cli/v3"
)

func main() {
	app := cli.Command{
		Name:    "pushflate",
		Usage:   "inspect and decode raw DEFLATE streams",
		Flags:   global.Flags,
		Version: fmt.Sprintf("%s %s", version.Version, version.Revision),
		Commands: []*cli.Command{
			commands.DecodeCommand,
			commands.ProbeCommand,
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if cmd.Bool(global.DebugFlag) {
				logrus.SetLevel(logrus.DebugLevel)
			}
			return ctx, nil
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	if err := app.Run(ctx, os.Args); err != nil {
		cancel()
		fmt.Fprintf(os.Stderr, "pushflate: %v\n", err)
		os.Exit(1)
	}
	cancel()
}
