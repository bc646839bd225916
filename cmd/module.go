// Copyright 2017 NDP Systèmes. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var moduleCmd = &cobra.Command{
	Use:   "module",
	Short: "Module utilities",
	Long:  `Hexya utilities to inspect the modules compiled into this binary.`,
}

var moduleListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available modules",
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tVERSION\tINSTALLABLE\tAUTO INSTALL\tDEPENDS")
		for _, mod := range AvailableModules {
			fmt.Fprintf(w, "%s\t%s\t%t\t%t\t%s\n", mod.Name, mod.Version, mod.Installable, mod.AutoInstall, strings.Join(mod.Depends, ","))
		}
		return w.Flush()
	},
}

var moduleInfoCmd = &cobra.Command{
	Use:   "info MODULE_NAME",
	Short: "Print the manifest of a module",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mod, ok := AvailableModules.Get(args[0])
		if !ok {
			return fmt.Errorf("unknown module %s", args[0])
		}
		manifest, err := mod.Manifest()
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(manifest)
		return err
	},
}

var moduleResolveCmd = &cobra.Command{
	Use:   "resolve [MODULE_NAME...]",
	Short: "Print the modules that would be loaded, in loading order",
	Long: `Print the modules that would be loaded for the given module names, in loading order.
If no module name is given, the configured modules are used.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			args = viper.GetStringSlice("Modules")
		}
		mods, err := AvailableModules.Resolve(args)
		if err != nil {
			return err
		}
		for _, name := range mods.Names() {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}

func init() {
	HexyaCmd.AddCommand(moduleCmd)
	moduleCmd.AddCommand(moduleListCmd)
	moduleCmd.AddCommand(moduleInfoCmd)
	moduleCmd.AddCommand(moduleResolveCmd)
}
