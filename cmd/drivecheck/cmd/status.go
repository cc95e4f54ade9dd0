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
	"io"
	"os"
	"sort"

	"github.com/olekukonko/tablewriter"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/facebook/ethercat/drivectl/stats"
)

func printStatus(w io.Writer, devices stats.Devices) error {
	sort.Sort(devices)
	table := tablewriter.NewTable(w)
	table.Header("pos", "name", "state", "al status", "operational", "lost")
	for _, d := range devices {
		alStatus := fmt.Sprintf("0x%04x", d.ALStatusCode)
		if d.StatusText != "" {
			alStatus = fmt.Sprintf("0x%04x (%s)", d.ALStatusCode, d.StatusText)
		}
		if err := table.Append([]string{
			fmt.Sprintf("%d", d.Position),
			d.Name,
			d.State,
			alStatus,
			fmt.Sprintf("%v", d.Operational),
			fmt.Sprintf("%v", d.Lost),
		}); err != nil {
			return err
		}
	}
	return table.Render()
}

func init() {
	RootCmd.AddCommand(statusCmd)
	statusCmd.Flags().StringVarP(&rootMonitoringFlag, "monitoring", "m", "http://localhost:4280", rootMonitoringFlagDesc)
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the state of every device on the bus of a running commander",
	Run: func(_ *cobra.Command, _ []string) {
		ConfigureVerbosity()

		devices, err := stats.FetchDevices(rootMonitoringFlag)
		if err != nil {
			log.Fatal(err)
		}
		if len(devices) == 0 {
			fmt.Println("no devices reported, bus is healthy or commander just started")
			return
		}
		if err := printStatus(os.Stdout, devices); err != nil {
			log.Fatal(err)
		}
	},
}
