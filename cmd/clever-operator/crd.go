// Copyright 2025.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"github.com/clevercloud/clever-operator/internal/registry"
)

func newCustomResourceDefinitionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "custom-resource-definition",
		Short: "Inspect the custom resource definitions this operator owns",
	}
	cmd.AddCommand(newCustomResourceDefinitionViewCmd())
	return cmd
}

func newCustomResourceDefinitionViewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "view [family]",
		Short: "Emit the CustomResourceDefinition manifest for one family, or all families",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := registry.New()

			var families []registry.FamilyDescriptor
			if len(args) == 1 {
				d, ok := reg.Lookup(args[0])
				if !ok {
					return fmt.Errorf("unknown family %q", args[0])
				}
				families = []registry.FamilyDescriptor{d}
			} else {
				families = reg.All()
			}

			for i, family := range families {
				if i > 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "---")
				}
				doc, err := yaml.Marshal(registry.EmitSchema(family))
				if err != nil {
					return fmt.Errorf("marshal %s schema: %w", family.Name(), err)
				}
				fmt.Fprint(cmd.OutOrStdout(), string(doc))
			}
			return nil
		},
	}
}
