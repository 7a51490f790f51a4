package build

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hsrdle/datagen/internal/conf"
	"github.com/hsrdle/datagen/internal/dataset"
	"github.com/hsrdle/datagen/internal/feed"
	"github.com/hsrdle/datagen/internal/httpclient"
	"github.com/hsrdle/datagen/internal/imagecache"
	"github.com/hsrdle/datagen/internal/logger"
	"github.com/hsrdle/datagen/internal/observability"
	"github.com/hsrdle/datagen/internal/wiki"
	"github.com/hsrdle/datagen/pkg/spinner"
)

// Command creates the build command, which runs the pipeline once.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the character dataset",
		Long:  "Fetch the metadata feeds, cache icons, scrape wiki attributes and write the dataset artifact.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, settings)
		},
	}

	setupFlags(cmd)
	return cmd
}

func setupFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringP("output", "o", conf.DefaultOutputPath, "Path of the dataset artifact")
	flags.IntP("workers", "w", 1, "Number of characters processed concurrently")
	flags.String("metrics-textfile", "", "Write Prometheus metrics to this file after the run")
	flags.Bool("progress", false, "Show a progress spinner on stderr")

	conf.BindFlag(flags, "output", "output.path")
	conf.BindFlag(flags, "workers", "pipeline.workers")
	conf.BindFlag(flags, "metrics-textfile", "metrics.textfile")
}

func run(cmd *cobra.Command, settings *conf.Settings) error {
	log := logger.Global().Module("main")

	m, err := observability.NewMetrics()
	if err != nil {
		return err
	}

	hc := httpclient.New(&httpclient.Config{
		DefaultTimeout: settings.Upstream.Timeout,
		UserAgent:      settings.HTTP.UserAgent,
	})
	defer hc.Close()
	m.InstrumentClient(hc)

	opts := []dataset.Option{
		dataset.WithDirs(dataset.Dirs{
			Characters: settings.Assets.CharactersDir,
			Paths:      settings.Assets.PathsDir,
			Elements:   settings.Assets.ElementsDir,
		}),
		dataset.WithWorkers(settings.Pipeline.Workers),
		dataset.WithMetrics(m.Dataset),
	}

	if showProgress, _ := cmd.Flags().GetBool("progress"); showProgress {
		s := spinner.New(cmd.ErrOrStderr())
		defer s.Cleanup()
		opts = append(opts, dataset.WithProgress(func(done, total int) {
			s.Update(fmt.Sprintf("%d/%d characters", done, total))
		}))
	}

	pipeline := dataset.NewPipeline(
		feed.NewClient(hc, settings.FeedURL, feed.WithMetrics(m.Feed)),
		imagecache.New(hc, settings.Upstream.BaseURL, imagecache.WithMetrics(m.ImageCache)),
		wiki.New(hc, settings.Wiki.BaseURL,
			wiki.WithTimeout(settings.Wiki.Timeout),
			wiki.WithRateLimit(settings.Wiki.RateLimit, settings.Wiki.Burst),
			wiki.WithMetrics(m.Wiki)),
		opts...,
	)

	records, buildErr := pipeline.Build(cmd.Context())
	if buildErr == nil {
		buildErr = records.Write(settings.Output.Path)
	}
	if buildErr == nil {
		m.Dataset.MarkSuccess()
	}

	// Export metrics for failed runs too.
	if err := m.WriteTextfile(settings.Metrics.Textfile); err != nil {
		log.Warn("failed to write metrics textfile", logger.Error(err))
	}

	if buildErr != nil {
		return buildErr
	}

	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Generated %s with %d characters.\n", settings.Output.Path, len(records))
	return err
}
