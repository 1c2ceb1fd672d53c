// SPDX-License-Identifier: MPL-2.0

// pydock builds and runs containerized Python services from a declarative
// pydock.cue build description.
package main

func main() {
	Execute()
}
