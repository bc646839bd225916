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
	"context"
	"os/user"
	"path/filepath"
	"runtime"

	"github.com/hexya-erp/saledeliverydate/addons/base"
	"github.com/hexya-erp/saledeliverydate/addons/sale"
	"github.com/hexya-erp/saledeliverydate/addons/saleorderdeliverydate"
	"github.com/hexya-erp/saledeliverydate/addons/salestock"
	"github.com/hexya-erp/saledeliverydate/src/models"
	"github.com/hexya-erp/saledeliverydate/src/server"
	"github.com/hexya-erp/saledeliverydate/src/tools/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var log logging.Logger

// AvailableModules are the modules compiled into this binary
var AvailableModules = server.ModulesList{
	base.Module,
	sale.Module,
	salestock.Module,
	saleorderdeliverydate.Module,
}

// HexyaCmd is the base 'hexya' command of the commander
var HexyaCmd = &cobra.Command{
	Use:   "hexya",
	Short: "Hexya sales server with requested delivery dates",
	Long: `Hexya is an open source modular ERP written in Go.
This build ships the sales modules and the sale_order_delivery_date module,
which lets salespeople record the delivery date requested by the customer.`,
	SilenceUsage: true,
}

func init() {
	log = logging.GetLogger("init")
	cobra.OnInitialize(initConfig)

	HexyaCmd.PersistentFlags().StringP("config", "c", "", "Alternate configuration file to read. Defaults to $HOME/.hexya/")
	viper.BindPFlag("ConfigFileName", HexyaCmd.PersistentFlags().Lookup("config"))

	HexyaCmd.PersistentFlags().StringP("log-level", "L", "info", "Log level. Should be one of 'debug', 'info', 'warn', 'error' or 'panic'")
	viper.BindPFlag("LogLevel", HexyaCmd.PersistentFlags().Lookup("log-level"))
	HexyaCmd.PersistentFlags().String("log-file", "", "File to which the log will be written")
	viper.BindPFlag("LogFile", HexyaCmd.PersistentFlags().Lookup("log-file"))
	HexyaCmd.PersistentFlags().BoolP("log-stdout", "o", false, "Enable stdout logging. Use for development or debugging.")
	viper.BindPFlag("LogStdout", HexyaCmd.PersistentFlags().Lookup("log-stdout"))
	HexyaCmd.PersistentFlags().Bool("debug", false, "Enable server debug mode for development")
	viper.BindPFlag("Debug", HexyaCmd.PersistentFlags().Lookup("debug"))

	HexyaCmd.PersistentFlags().StringSliceP("modules", "m", []string{saleorderdeliverydate.MODULE_NAME},
		"Comma separated list of modules to load. Their dependencies are loaded too.")
	viper.BindPFlag("Modules", HexyaCmd.PersistentFlags().Lookup("modules"))

	HexyaCmd.PersistentFlags().String("db-driver", "postgres", "Database driver to use. Either 'postgres' or 'sqlite3'")
	viper.BindPFlag("DB.Driver", HexyaCmd.PersistentFlags().Lookup("db-driver"))
	HexyaCmd.PersistentFlags().String("db-sslmode", "disable", "Database driver sslmode")
	viper.BindPFlag("DB.SSLMode", HexyaCmd.PersistentFlags().Lookup("db-sslmode"))
	HexyaCmd.PersistentFlags().String("db-host", "/var/run/postgresql",
		"The database host to connect to. Values that start with / are for unix domain sockets directory")
	viper.BindPFlag("DB.Host", HexyaCmd.PersistentFlags().Lookup("db-host"))
	HexyaCmd.PersistentFlags().String("db-port", "5432", "Database port. Value is ignored if db-host is not set")
	viper.BindPFlag("DB.Port", HexyaCmd.PersistentFlags().Lookup("db-port"))
	HexyaCmd.PersistentFlags().String("db-user", "", "Database user. Defaults to current user")
	viper.BindPFlag("DB.User", HexyaCmd.PersistentFlags().Lookup("db-user"))
	HexyaCmd.PersistentFlags().String("db-password", "", "Database password. Leave empty when connecting through socket")
	viper.BindPFlag("DB.Password", HexyaCmd.PersistentFlags().Lookup("db-password"))
	HexyaCmd.PersistentFlags().String("db-name", "hexya", "Database name. With sqlite3, the path of the database file")
	viper.BindPFlag("DB.Name", HexyaCmd.PersistentFlags().Lookup("db-name"))

	viper.SetEnvPrefix("HEXYA")
	viper.AutomaticEnv()
}

func initConfig() {
	cfgFile := viper.GetString("ConfigFileName")
	if runtime.GOOS != "windows" {
		viper.AddConfigPath("/etc/hexya")
	}

	osUser, err := user.Current()
	if err == nil {
		viper.AddConfigPath(filepath.Join(osUser.HomeDir, ".hexya"))
	}
	viper.AddConfigPath(".")

	viper.SetConfigName("hexya")

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}

	logging.Initialize()
	log = logging.GetLogger("init")
	if err := viper.ReadInConfig(); err != nil {
		log.Warn("Error while loading configuration file", "error", err)
	}
}

// connectionParams returns the database connection parameters from the configuration
func connectionParams() models.ConnectionParams {
	return models.ConnectionParams{
		Driver:   viper.GetString("DB.Driver"),
		Host:     viper.GetString("DB.Host"),
		Port:     viper.GetString("DB.Port"),
		User:     viper.GetString("DB.User"),
		Password: viper.GetString("DB.Password"),
		DBName:   viper.GetString("DB.Name"),
		SSLMode:  viper.GetString("DB.SSLMode"),
	}
}

// startInstance loads the configured modules, connects to the database
// and synchronizes its schema.
func startInstance(ctx context.Context) (*server.Instance, error) {
	inst, err := server.PreInit(AvailableModules, viper.GetStringSlice("Modules"))
	if err != nil {
		return nil, err
	}
	db, err := models.Connect(ctx, connectionParams())
	if err != nil {
		return nil, err
	}
	if err := inst.Start(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return inst, nil
}
