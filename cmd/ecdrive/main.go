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
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/facebook/ethercat/drivectl"

	_ "net/http/pprof"
)

func doWork(cfg *drivectl.Config) error {
	stats := drivectl.NewJSONStats()
	if cfg.MonitoringPort != 0 {
		go stats.Start(cfg.MonitoringPort, time.Second)
	}
	c, err := drivectl.NewCommander(cfg, stats)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigStop := make(chan os.Signal, 1)
	signal.Notify(sigStop, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigStop
		log.Warning("stopping on signal")
		cancel()
	}()
	return c.Run(ctx)
}

func main() {
	var (
		verboseFlag        bool
		configFlag         string
		cyclesFlag         int
		intervalFlag       time.Duration
		monitoringPortFlag int
		emulateFlag        bool
		pprofFlag          string
	)
	defaults := drivectl.DefaultConfig()

	flag.BoolVar(&verboseFlag, "verbose", false, "verbose output")
	flag.StringVar(&configFlag, "config", "", "path to the config")
	flag.IntVar(&cyclesFlag, "cycles", defaults.Cycles, "process data cycles to run before stopping")
	flag.DurationVar(&intervalFlag, "interval", defaults.Interval, "process data cycle interval")
	flag.IntVar(&monitoringPortFlag, "monitoringport", defaults.MonitoringPort, "port to start monitoring http server on, 0 to disable")
	flag.BoolVar(&emulateFlag, "emulate", false, "run against an emulated bus instead of hardware")
	flag.StringVar(&pprofFlag, "pprof", "", "address to have the profiler listen on, disabled if empty")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] <iface>\n", os.Args[0])
		flag.PrintDefaults()
	}

	flag.Parse()
	setFlags := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) {
		setFlags[f.Name] = true
	})

	log.SetLevel(log.InfoLevel)
	if verboseFlag {
		log.SetLevel(log.DebugLevel)
	}

	iface := flag.Arg(0)
	if iface == "" && configFlag == "" {
		flag.Usage()
		return
	}
	cfg, err := drivectl.PrepareConfig(configFlag, iface, cyclesFlag, intervalFlag, monitoringPortFlag, emulateFlag, setFlags)
	if err != nil {
		log.Error(err)
		return
	}
	if pprofFlag != "" {
		go func() {
			if err := http.ListenAndServe(pprofFlag, nil); err != nil {
				log.Errorf("failed to start pprof: %v", err)
			}
		}()
	}
	if err := doWork(cfg); err != nil {
		log.Error(err)
	}
}
