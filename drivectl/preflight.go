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

package drivectl

import (
	"fmt"
	"net"
	"strings"

	"github.com/jsimonetti/rtnetlink/rtnl"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
)

// checkIface verifies the configured NIC exists before handing it to the
// master stack, listing the candidates when it does not
func checkIface(name string) error {
	conn, err := rtnl.Dial(nil)
	if err != nil {
		return fmt.Errorf("establishing netlink connection: %w", err)
	}
	defer conn.Close()

	links, err := conn.Links()
	if err != nil {
		return fmt.Errorf("listing network interfaces: %w", err)
	}
	names := make([]string, 0, len(links))
	for _, l := range links {
		if l.Name == name {
			if l.Flags&net.FlagUp == 0 {
				log.Warningf("interface %s is not up", name)
			}
			return nil
		}
		names = append(names, l.Name)
	}
	return fmt.Errorf("interface %s not found, available: %s", name, strings.Join(names, ", "))
}

// lockMemory pins our pages so the cyclic exchange never stalls on a
// page fault. Failure is logged and tolerated, the loop still runs.
func lockMemory() {
	if err := unix.Mlockall(unix.MCL_CURRENT | unix.MCL_FUTURE); err != nil {
		log.Warningf("locking memory: %v", err)
	}
}
