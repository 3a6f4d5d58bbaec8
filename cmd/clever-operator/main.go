// Copyright 2025.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCodeFor(err))
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clever-operator",
		Short: "Projects a Clever Cloud add-on catalog into Kubernetes custom resources",
	}

	cmd.AddCommand(newRunCmd())
	cmd.AddCommand(newCustomResourceDefinitionCmd())
	return cmd
}
