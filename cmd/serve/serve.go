package serve

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/hsrdle/datagen/internal/conf"
	"github.com/hsrdle/datagen/internal/observability"
	"github.com/hsrdle/datagen/internal/preview"
)

// Command creates the serve command, which exposes the dataset and icons over HTTP.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dataset and icons for local preview",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := observability.NewMetrics()
			if err != nil {
				return err
			}

			server := preview.New(preview.Config{
				Listen:    settings.Serve.Listen,
				DataPath:  settings.Output.Path,
				AssetsDir: filepath.Dir(settings.Assets.CharactersDir),
				Metrics:   m.Handler(),
			})
			return server.Run(cmd.Context())
		},
	}

	flags := cmd.Flags()
	flags.StringP("listen", "l", conf.DefaultListen, "Listen address of the preview server")
	flags.StringP("output", "o", conf.DefaultOutputPath, "Path of the dataset artifact to serve")
	conf.BindFlag(flags, "listen", "serve.listen")
	conf.BindFlag(flags, "output", "output.path")

	return cmd
}
