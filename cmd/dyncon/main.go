// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "dyncon [command] (flags)",
	Short: "dynamic connectivity benchmarking tool",
	Long:  ``,
}

func main() {
	log.SetFlags(0)

	cobra.EnableCommandSorting = false
	rootCmd.AddCommand(benchCmd)
	rootCmd.PersistentFlags().BoolVarP(
		&verbose, "verbose", "v", false, "enable verbose event logging")

	benchCmd.Flags().IntVarP(
		&benchConfig.vertices, "vertices", "n", 1000, "number of vertices")
	benchCmd.Flags().IntVar(
		&benchConfig.ops, "ops", 100000, "number of operations per worker")
	benchCmd.Flags().IntVar(
		&benchConfig.add, "add", 40, "relative weight of edge insertions")
	benchCmd.Flags().IntVar(
		&benchConfig.remove, "remove", 30, "relative weight of edge removals")
	benchCmd.Flags().IntVar(
		&benchConfig.query, "query", 30, "relative weight of connectivity queries")
	benchCmd.Flags().StringVar(
		&benchConfig.dist, "dist", "uniform", "vertex distribution (uniform or zipf)")
	benchCmd.Flags().Uint64Var(
		&benchConfig.seed, "seed", 0, "workload seed (0 seeds from the clock)")
	benchCmd.Flags().IntVarP(
		&benchConfig.concurrency, "concurrency", "c", 1, "number of concurrent workers, each with its own graph")
	benchCmd.Flags().BoolVar(
		&benchConfig.verify, "verify", false, "check every answer against a union-find oracle")
	benchCmd.Flags().BoolVar(
		&benchConfig.plot, "plot", false, "plot the component count of the first worker")

	if err := rootCmd.Execute(); err != nil {
		// Cobra has already printed the error message.
		os.Exit(1)
	}
}
