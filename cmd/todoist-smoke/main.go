// Command todoist-smoke runs a create, get, update, list and delete pass
// against the projects API configured by API_BASE_URL and API_KEY.
//
// Every exchange is logged, and written as a JSON attachment when
// report.dir (REPORT_DIR) is set. The process exits non-zero on the first
// failed step.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/kbukum/todokit/config"
	"github.com/kbukum/todokit/logger"
	"github.com/kbukum/todokit/observability"
	"github.com/kbukum/todokit/report"
	"github.com/kbukum/todokit/todoist"
	"github.com/kbukum/todokit/util"
	"github.com/kbukum/todokit/version"
)

const shutdownTimeout = 5 * time.Second

func main() {
	configFile := flag.String("config", "", "path to a YAML config file")
	envFile := flag.String("env", "", "path to a .env file")
	prefix := flag.String("prefix", "todokit-smoke", "name prefix for projects created by the run")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.GetShortVersion())
		return
	}

	if err := run(*configFile, *envFile, *prefix); err != nil {
		fmt.Fprintf(os.Stderr, "smoke run failed: %v\n", err)
		os.Exit(1)
	}
}

func run(configFile, envFile, prefix string) error {
	var opts []config.LoaderOption
	if configFile != "" {
		opts = append(opts, config.WithConfigFile(configFile))
	}
	if envFile != "" {
		opts = append(opts, config.WithEnvFile(envFile))
	}
	settings, err := config.Load("todoist-smoke", opts...)
	if err != nil {
		return err
	}
	if err := settings.RequireAPIKey(); err != nil {
		return err
	}

	log := logger.New(&settings.Logging, settings.Name)
	logger.SetGlobalLogger(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdown, metrics, err := setupTelemetry(ctx, settings, log)
	if err != nil {
		return err
	}
	defer shutdown()

	sink, err := buildSink(settings, log)
	if err != nil {
		return err
	}

	svc, err := todoist.NewFromSettings(settings,
		todoist.WithLogger(log),
		todoist.WithMetrics(metrics),
		todoist.WithSink(sink),
	)
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close(context.Background()) }()

	log.Info("starting smoke run", logger.Fields(
		"version", version.GetShortVersion(),
		"base_url", settings.API.BaseURL,
		"api_key", util.MaskSecret(settings.API.Key, 4),
	))

	return smokeRun(ctx, svc, log, prefix)
}

// smokeRun runs the scenario under a name unique to this run. On failure it
// removes only the projects this run created.
func smokeRun(ctx context.Context, svc *todoist.ProjectService, log *logger.Logger, prefix string) error {
	start := time.Now()
	name := prefix + "-" + uuid.NewString()[:8]
	if err := scenario(ctx, svc, name); err != nil {
		if _, cleanupErr := svc.DeleteProjectsByPrefix(context.Background(), name); cleanupErr != nil {
			log.Warn("cleanup failed", logger.MergeWithError(logger.Fields(logger.FieldOperation, "cleanup", "prefix", name), cleanupErr))
		}
		return err
	}
	log.Info("smoke run passed", logger.DurationFields("smoke", time.Since(start)))
	return nil
}

// scenario walks one project through its whole lifecycle.
func scenario(ctx context.Context, svc *todoist.ProjectService, name string) error {
	created, err := svc.CreateProject(ctx, todoist.CreateProjectRequest{Name: name})
	if err := expect(todoist.OpCreateProject, created, err); err != nil {
		return err
	}
	project, _ := created.Value()

	got, err := svc.GetProject(ctx, project.ID)
	if err := expect(todoist.OpGetProject, got, err); err != nil {
		return err
	}
	if p, _ := got.Value(); p != project {
		return fmt.Errorf("%s: got %+v, want %+v", todoist.OpGetProject, p, project)
	}

	updated, err := svc.UpdateProject(ctx, project.ID, todoist.UpdateProjectRequest{
		Name:       util.Some(name + "-updated"),
		Color:      util.Some("red"),
		IsFavorite: util.Some(true),
		ViewStyle:  util.Some(todoist.ViewStyleBoard),
	})
	if err := expect(todoist.OpUpdateProject, updated, err); err != nil {
		return err
	}
	project, _ = updated.Value()

	listed, err := svc.ListProjects(ctx)
	if err := expect(todoist.OpListProjects, listed, err); err != nil {
		return err
	}
	if projects, _ := listed.Value(); !slices.Contains(projects, project) {
		return fmt.Errorf("%s: updated project %s missing from listing", todoist.OpListProjects, project.ID)
	}

	deleted, err := svc.DeleteProject(ctx, project.ID)
	return expect(todoist.OpDeleteProject, deleted, err)
}

func expect(op todoist.Operation, env interface{ IsSuccess() bool }, err error) error {
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !env.IsSuccess() {
		return fmt.Errorf("%s: unsuccessful response %+v", op, env)
	}
	return nil
}

func buildSink(settings *config.Settings, log *logger.Logger) (report.Sink, error) {
	sinks := []report.Sink{}
	if settings.Report.Log {
		sinks = append(sinks, report.NewLogSink(log))
	}
	if settings.Report.Dir != "" {
		fs := afero.NewOsFs()
		if err := fs.MkdirAll(settings.Report.Dir, 0o755); err != nil {
			return nil, fmt.Errorf("create report dir: %w", err)
		}
		sinks = append(sinks, report.NewDirSink(fs, settings.Report.Dir))
	}
	return report.Multi(sinks...), nil
}

func setupTelemetry(ctx context.Context, settings *config.Settings, log *logger.Logger) (func(), *observability.Metrics, error) {
	var closers []func(context.Context) error

	if settings.Tracing.Enabled {
		settings.Tracing.ServiceVersion = version.GetShortVersion()
		tp, err := observability.InitTracer(ctx, settings.Tracing)
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, tp.Shutdown)
	}

	var metrics *observability.Metrics
	if settings.Metrics.Enabled {
		settings.Metrics.ServiceVersion = version.GetShortVersion()
		mp, err := observability.InitMeter(ctx, settings.Metrics)
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, mp.Shutdown)

		metrics, err = observability.NewMetrics(observability.Meter(settings.Name))
		if err != nil {
			return nil, nil, err
		}
	}

	shutdown := func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		for _, c := range closers {
			if err := c(ctx); err != nil {
				log.Warn("telemetry shutdown failed", logger.ErrorFields("shutdown", err))
			}
		}
	}
	return shutdown, metrics, nil
}
