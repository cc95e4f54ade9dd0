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

import "time"

// pacer waits out the rest of a process data cycle
type pacer interface {
	pace()
}

func newPacer(policy string, interval time.Duration) pacer {
	if policy == pacingDeadline {
		return newDeadlinePacer(interval)
	}
	return &fixedPacer{interval: interval}
}

// fixedPacer sleeps the full period every cycle, so the effective cycle
// time is the period plus however long the exchange took
type fixedPacer struct {
	interval time.Duration
}

func (p *fixedPacer) pace() {
	time.Sleep(p.interval)
}

// deadlinePacer sleeps until the next absolute deadline, absorbing the
// exchange time instead of accumulating it
type deadlinePacer struct {
	interval time.Duration
	next     time.Time
}

func newDeadlinePacer(interval time.Duration) *deadlinePacer {
	return &deadlinePacer{
		interval: interval,
		next:     time.Now().Add(interval),
	}
}

func (p *deadlinePacer) pace() {
	time.Sleep(time.Until(p.next))
	p.next = p.next.Add(p.interval)
	// rebase after an overrun instead of bursting to catch up
	if now := time.Now(); p.next.Before(now) {
		p.next = now.Add(p.interval)
	}
}
