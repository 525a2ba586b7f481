// Package main is the entry point for the fuelscout CLI tool, which pulls
// scouting telemetry from Firestore and computes per-team fuel metrics.
package main

import "github.com/frcscout/fuelscout/cmd"

func main() {
	cmd.Execute()
}
