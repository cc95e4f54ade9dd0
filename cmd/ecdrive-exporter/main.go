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

package main

import (
	"flag"
	"net/http"
	"time"

	_ "net/http/pprof"

	log "github.com/sirupsen/logrus"

	"github.com/facebook/ethercat/drivectl/stats"
)

func main() {
	var (
		verboseFlag    bool
		exporterPort   int
		monitoringPort int
		intervalFlag   time.Duration
		pprofFlag      string
	)

	flag.BoolVar(&verboseFlag, "verbose", false, "verbose output")
	flag.IntVar(&monitoringPort, "monitoringport", 4280, "port the commander monitoring http server is listening on")
	flag.IntVar(&exporterPort, "exporterport", 6280, "port prometheus metrics exporter is listening on")
	flag.DurationVar(&intervalFlag, "interval", time.Second, "how often to fetch metrics from the commander")
	flag.StringVar(&pprofFlag, "pprof", "", "address to have the profiler listen on, disabled if empty")

	flag.Parse()

	log.SetLevel(log.InfoLevel)
	if verboseFlag {
		log.SetLevel(log.DebugLevel)
	}
	if pprofFlag != "" {
		go func() {
			if err := http.ListenAndServe(pprofFlag, nil); err != nil {
				log.Errorf("failed to start pprof: %v", err)
			}
		}()
	}
	exporter := stats.NewPrometheusExporter(exporterPort, monitoringPort, intervalFlag)
	exporter.Start()
}
