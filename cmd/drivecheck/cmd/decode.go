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

	"github.com/facebook/ethercat/cia402"
)

func decodeStatusword(sw cia402.Statusword) {
	st := sw.State()
	fmt.Printf("statusword: 0x%04x\n", uint16(sw))
	fmt.Printf("state: %s\n", st)
	fmt.Printf("voltage enabled: %v\n", sw.VoltageEnabled())
	fmt.Printf("warning: %v\n", sw.Warning())
	fmt.Printf("remote: %v\n", sw.Remote())
	fmt.Printf("target reached: %v\n", sw.TargetReached())
	fmt.Printf("internal limit active: %v\n", sw.InternalLimitActive())
	if cw, ok := cia402.NextControlword(st); ok {
		fmt.Printf("next controlword towards enabled: 0x%04x\n", uint16(cw))
	} else {
		fmt.Println("next controlword towards enabled: none, terminal state")
	}
}

func init() {
	RootCmd.AddCommand(decodeCmd)
}

var decodeCmd = &cobra.Command{
	Use:   "decode <statusword>",
	Short: "Decode a CiA 402 statusword, like 0x0237",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		ConfigureVerbosity()

		v, err := strconv.ParseUint(args[0], 0, 16)
		if err != nil {
			log.Fatalf("parsing statusword %q: %v", args[0], err)
		}
		decodeStatusword(cia402.Statusword(v))
	},
}
