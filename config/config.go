package config

import (
	"fmt"

	"github.com/spf13/viper"
)

const (
	DBURL        = "database.mysql"
	DBMigrations = "database.migrations"

	EthereumRPCURL      = "ethereum.rpc_url"
	EthereumChainID     = "ethereum.chain_id"
	EthereumContractBin = "ethereum.contract_bin"

	Port   = "server.port"
	Secret = "server.secret"
)

func init() {
	viper.AutomaticEnv()
	viper.SetDefault(Port, "9000")
	viper.SetDefault(EthereumChainID, 11155111)
	viper.SetDefault(DBMigrations, "file://migrations")
	viper.SetDefault(EthereumContractBin, "./contracts/SmarTicket.bin")
}

// Validate checks that every key the server cannot run without is set.
func Validate() error {
	required := []string{Secret, DBURL, EthereumRPCURL}
	for _, key := range required {
		if viper.GetString(key) == "" {
			return fmt.Errorf("validate: required configuration %q is missing", key)
		}
	}
	return nil
}
