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
	"encoding/json"
	"fmt"
	"sort"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/facebook/ethercat/drivectl/stats"
)

var countersJSONFlag bool

func printCounters(counters stats.Counters) error {
	if countersJSONFlag {
		toPrint, err := json.Marshal(counters)
		if err != nil {
			return err
		}
		fmt.Println(string(toPrint))
		return nil
	}
	keys := make([]string, 0, len(counters))
	for k := range counters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("%s: %d\n", k, counters[k])
	}
	return nil
}

func init() {
	RootCmd.AddCommand(countersCmd)
	countersCmd.Flags().StringVarP(&rootMonitoringFlag, "monitoring", "m", "http://localhost:4280", rootMonitoringFlagDesc)
	countersCmd.Flags().BoolVarP(&countersJSONFlag, "json", "j", false, "print in JSON format")
}

var countersCmd = &cobra.Command{
	Use:   "counters",
	Short: "Print the counters of a running commander",
	Run: func(_ *cobra.Command, _ []string) {
		ConfigureVerbosity()

		counters, err := stats.FetchCounters(rootMonitoringFlag)
		if err != nil {
			log.Fatal(err)
		}
		if err := printCounters(counters); err != nil {
			log.Fatal(err)
		}
	},
}
