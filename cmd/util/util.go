package util

import (
	"fmt"
	"strings"

	"github.com/ValentinKolb/uKV/lib/kv"
	"github.com/ValentinKolb/uKV/lib/kv/engines/fs"
	"github.com/ValentinKolb/uKV/lib/kv/engines/memory"
	"github.com/ValentinKolb/uKV/lib/serializer"
	"github.com/ValentinKolb/uKV/lib/storage"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	// Wrap is the number of characters to Wrap the help text at
	Wrap int = 50
)

// WrapString wraps a string at Wrap characters
func WrapString(text string) string {
	var wrappedLines []string
	var currentLine strings.Builder
	lineWidth := 0

	for _, word := range strings.Fields(text) {
		wordWidth := len(word)

		// Check if we need to wrap
		if lineWidth > 0 && lineWidth+1+wordWidth > Wrap {
			wrappedLines = append(wrappedLines, currentLine.String())
			currentLine.Reset()
			lineWidth = 0
		}

		// Add space before word (if not first word on line)
		if lineWidth > 0 {
			currentLine.WriteString(" ")
			lineWidth++
		}

		// Add the word
		currentLine.WriteString(word)
		lineWidth += wordWidth
	}

	// Add any remaining text
	if currentLine.Len() > 0 {
		wrappedLines = append(wrappedLines, currentLine.String())
	}

	return strings.Join(wrappedLines, "\n")
}

// InitConfig initializes configuration from environment variables
func InitConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvPrefix("ukv")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
}

// BindCommandFlags binds a command's flags to viper
func BindCommandFlags(cmd *cobra.Command) error {
	return viper.BindPFlags(cmd.Flags())
}

// GetSerializer creates a serializer based on configuration
func GetSerializer() (serializer.IValueSerializer, error) {
	switch viper.GetString("serializer") {
	case "json":
		return serializer.NewJSONSerializer(), nil
	case "raw":
		return serializer.NewRawSerializer(), nil
	default:
		return nil, fmt.Errorf("invalid serializer %s", viper.GetString("serializer"))
	}
}

// GetDriver creates a driver from a spec string ("memory" or "fs:<dir>")
func GetDriver(spec string) (kv.Driver, error) {
	name, arg, _ := strings.Cut(spec, ":")
	switch name {
	case "memory":
		return memory.NewMemoryDriver(), nil
	case "fs":
		if arg == "" {
			return nil, fmt.Errorf("fs driver requires a directory (fs:<dir>)")
		}
		return fs.NewFSDriver(arg)
	default:
		return nil, fmt.Errorf("invalid driver %s (expected memory or fs:<dir>)", spec)
	}
}

// GetStorage creates a storage instance based on configuration: the root
// driver from the "root" flag, mounted drivers from the "mount" flags
func GetStorage() (storage.IStorage, error) {
	ser, err := GetSerializer()
	if err != nil {
		return nil, err
	}

	rootDriver, err := GetDriver(viper.GetString("root"))
	if err != nil {
		return nil, err
	}

	s := storage.New(&storage.Options{
		Driver:     rootDriver,
		Serializer: ser,
	})

	for _, mountSpec := range viper.GetStringSlice("mount") {
		base, driverSpec, found := strings.Cut(mountSpec, "=")
		if !found {
			return nil, fmt.Errorf("invalid mount format: %s (expected base=driver)", mountSpec)
		}
		driver, err := GetDriver(strings.TrimSpace(driverSpec))
		if err != nil {
			return nil, err
		}
		if err := s.Mount(strings.TrimSpace(base), driver); err != nil {
			return nil, err
		}
	}

	return s, nil
}
