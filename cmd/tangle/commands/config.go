package commands

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// bindFlagsLoadViper registers cmd's flags with viper, unmarshals them
// into appConfig, and then layers in a tangle.toml config file found
// under appConfig.DataDir, if any, grounded on babble's
// bindFlagsLoadViper.
func bindFlagsLoadViper(cmd *cobra.Command) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	if err := viper.Unmarshal(appConfig); err != nil {
		return err
	}

	viper.SetConfigName("tangle")
	viper.AddConfigPath(appConfig.DataDir)

	if err := viper.ReadInConfig(); err == nil {
		appConfig.Logger().Debugf("using config file: %s", viper.ConfigFileUsed())
	} else if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
		return err
	}

	return viper.Unmarshal(appConfig)
}
