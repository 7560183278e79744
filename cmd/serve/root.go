package serve

import (
	"fmt"
	"strings"

	cmdUtil "github.com/ValentinKolb/uKV/cmd/util"
	"github.com/ValentinKolb/uKV/lib/logger"
	"github.com/ValentinKolb/uKV/server"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	serveCmdConfig = &server.Config{}
	ServeCmd       = &cobra.Command{
		Use:     "serve",
		Short:   "Start the uKV HTTP server",
		Long:    `Start the uKV HTTP server with the specified configuration. The configuration can be set via command line flags or environment variables. The format of the environment variables is UKV_<flag> (e.g. UKV_ENDPOINT=0.0.0.0:9090)`,
		PreRunE: processConfig,
		RunE:    run,
	}
)

func init() {
	// initialize viper
	cobra.OnInitialize(initConfig)

	// add flags
	key := "endpoint"
	ServeCmd.PersistentFlags().String(key, "0.0.0.0:8080", cmdUtil.WrapString("The address on which the API will listen (e.g. localhost:8080)"))

	key = "log-level"
	ServeCmd.PersistentFlags().String(key, "info", cmdUtil.WrapString("LogLevel is the level at which logs will be output (debug, info, warn, error)"))
}

// processConfig reads the configuration from the command line flags and environment variables and converts them to the server configuration
func processConfig(cmd *cobra.Command, _ []string) error {
	// bind the flags to viper
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	serveCmdConfig.Endpoint = viper.GetString("endpoint")
	serveCmdConfig.LogLevel = viper.GetString("log-level")
	serveCmdConfig.Serializer = viper.GetString("serializer")
	serveCmdConfig.Mounts = viper.GetStringSlice("mount")

	return logger.SetLevel(serveCmdConfig.LogLevel)
}

// run starts the uKV HTTP server
func run(_ *cobra.Command, _ []string) error {
	// build the storage from the configured drivers
	s, err := cmdUtil.GetStorage()
	if err != nil {
		return err
	}

	fmt.Println(serveCmdConfig.String())

	return server.NewServer(s, *serveCmdConfig).Listen()
}

// initConfig reads in serveCmdConfig file and ENV variables if set.
func initConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvPrefix("ukv")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
}
