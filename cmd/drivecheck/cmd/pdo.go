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
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/davecgh/go-spew/spew"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/facebook/ethercat/somanet"
)

// parsePDOHex accepts hex dumps the way people paste them: with or
// without spaces, colons or a leading 0x
func parsePDOHex(args []string) ([]byte, error) {
	s := strings.Join(args, "")
	s = strings.TrimPrefix(s, "0x")
	replacer := strings.NewReplacer(" ", "", ":", "", ",", "", "\n", "", "\t", "")
	return hex.DecodeString(replacer.Replace(s))
}

func dumpPDO(raw []byte) error {
	switch len(raw) {
	case somanet.InputsSize:
		in := &somanet.Inputs{}
		if err := in.UnmarshalBinary(raw); err != nil {
			return err
		}
		fmt.Println("drive inputs (TxPDO):")
		spew.Dump(in)
	case somanet.OutputsSize:
		out := &somanet.Outputs{}
		if err := out.UnmarshalBinary(raw); err != nil {
			return err
		}
		fmt.Println("drive outputs (RxPDO):")
		spew.Dump(out)
	default:
		return fmt.Errorf("%d bytes is neither an input image (%d bytes) nor an output image (%d bytes)",
			len(raw), somanet.InputsSize, somanet.OutputsSize)
	}
	return nil
}

func init() {
	RootCmd.AddCommand(pdoCmd)
}

var pdoCmd = &cobra.Command{
	Use:   "pdo <hex bytes>",
	Short: "Decode a raw process data image of a SOMANET drive",
	Args:  cobra.MinimumNArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		ConfigureVerbosity()

		raw, err := parsePDOHex(args)
		if err != nil {
			log.Fatalf("parsing hex input: %v", err)
		}
		if err := dumpPDO(raw); err != nil {
			log.Fatal(err)
		}
	},
}
