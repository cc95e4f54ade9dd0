/*
Copyright (c) Facebook, Inc. and its affiliates.

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

package cmd

import (
	"fmt"
	"strconv"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/facebook/ethercat/master"
)

func init() {
	RootCmd.AddCommand(alStatusCmd)
}

var alStatusCmd = &cobra.Command{
	Use:   "alstatus <code>",
	Short: "Explain an EtherCAT AL status code, like 0x001b",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		ConfigureVerbosity()

		v, err := strconv.ParseUint(args[0], 0, 16)
		if err != nil {
			log.Fatalf("parsing AL status code %q: %v", args[0], err)
		}
		fmt.Printf("0x%04x: %s\n", uint16(v), master.ALStatusString(uint16(v)))
	},
}
