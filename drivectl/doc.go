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

/*
Package drivectl implements the EtherCAT servo drive commander.

The Commander brings a bus of drives up to OPERATIONAL, then runs two
loops against the master stack: a cyclic loop exchanging process data at
a fixed period, stepping the CiA 402 power state machine until the drive
accepts a velocity target, and a coarser supervisor loop that watches the
working counter and recovers drives whose link state degraded. The loops
share nothing but the mutex-guarded linkState.

The fieldbus stack itself lives behind the master.Master interface, so
the commander runs unchanged against real hardware or the emulated bus
from the somanet package.
*/
package drivectl
