package cmd

import "ralphloop/internal/service"

// buildService constructs a Service rooted at the configured data
// directory, for use by non-interactive subcommands.
func buildService() (*service.Service, error) {
	return service.New(defaultDataDir(), defaultConfigPath())
}
