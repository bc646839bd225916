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
	"github.com/spf13/cobra"
)

var updateDBCmd = &cobra.Command{
	Use:   "updatedb",
	Short: "Update the database schema",
	Long: `Synchronize the database schema with the models definitions of the configured modules.
Tables and columns are only added, never dropped: uninstalling a module keeps its data.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		inst, err := startInstance(cmd.Context())
		if err != nil {
			return err
		}
		log.Info("Database updated successfully", "modules", inst.Modules.Names())
		return inst.DB.Close()
	},
}

func init() {
	HexyaCmd.AddCommand(updateDBCmd)
}
