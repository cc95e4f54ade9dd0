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
Package cia402 implements the drive profile defined in CiA 402 (IEC 61800-7),
as far as needed to walk a servo drive through its power state machine and
keep it in Operation Enabled.

The package is pure bit arithmetic over two 16-bit words: the statusword the
drive reports (object 0x6041) and the controlword we command (object 0x6040).
Power states are decoded from the statusword with mask/pattern pairs, and
NextControlword gives the controlword that advances the drive one step
towards Operation Enabled. No I/O happens here.
*/
package cia402
