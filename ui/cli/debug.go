// Copyright (c) 2026 Fleetmaster Team
// Fleetmaster - vehicle records manager
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/toeirei/fleetmaster/internal/config"
	"github.com/toeirei/fleetmaster/internal/i18n"
	"github.com/toeirei/fleetmaster/internal/logging"
)

const masked = "********"

// redacted returns a copy of c with secrets masked.
func redacted(c config.Config) config.Config {
	mask := func(s *string) {
		if *s != "" {
			*s = masked
		}
	}
	mask(&c.Auth.Token)
	mask(&c.Auth.DevSecret)
	mask(&c.Server.JWTSecret)
	return c
}

func newDebugCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "debug",
		Short: "Dump debug information about config, env, flags and locales",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "--- FLEETMASTER DEBUG ---")
			if path, err := config.GetConfigPath(false); err == nil {
				fmt.Fprintf(out, "User config path: %s\n", path)
			}
			if cfgFile != "" {
				fmt.Fprintf(out, "--config: %s\n", cfgFile)
			}

			c := redacted(appConfig)
			b, err := yaml.Marshal(&c)
			if err != nil {
				logging.Errorf("could not marshal config: %v", err)
			} else {
				fmt.Fprintln(out, "-- effective config --")
				fmt.Fprint(out, string(b))
			}

			fmt.Fprintln(out, "-- flags --")
			cmd.Flags().VisitAll(func(f *pflag.Flag) {
				fmt.Fprintf(out, "%s = %s\n", f.Name, f.Value.String())
			})

			fmt.Fprintln(out, "-- environment (FLEETMASTER_*) --")
			for _, e := range os.Environ() {
				if strings.HasPrefix(e, "FLEETMASTER_") {
					name, _, _ := strings.Cut(e, "=")
					if strings.Contains(name, "TOKEN") || strings.Contains(name, "SECRET") {
						e = name + "=" + masked
					}
					fmt.Fprintln(out, e)
				}
			}

			fmt.Fprintf(out, "locales: %s (active %s)\n", strings.Join(i18n.Codes(), ", "), i18n.GetLang())
			fmt.Fprintln(out, "--- END DEBUG ---")
		},
	}
}
