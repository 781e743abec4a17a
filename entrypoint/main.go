package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"

	"text2phenotype.com/nsd/api"
	"text2phenotype.com/nsd/logger"
	"text2phenotype.com/nsd/pipeline"
	"text2phenotype.com/nsd/types"
	"text2phenotype.com/nsd/worker"
)

type Config struct {
	ConfigPath    string `envconfig:"NSD_CONFIG_PATH" required:"true"`
	ResourcePath  string `envconfig:"NSD_RESOURCE_PATH" required:"true"`
	RestAPIActive bool   `envconfig:"NSD_REST_API_ACTIVE" default:"false"`
	RestAPIPort   string `envconfig:"NSD_REST_API_PORT" default:"10000"`
}

const pipelineStartMaxRetries = 5

func main() {
	logger.SetupLogging()
	nsdLogger := logger.NewLogger("Main")
	fatalErrLogger := nsdLogger.Fatal().Caller()

	var config Config
	if err := envconfig.Process("", &config); err != nil {
		fatalErrLogger.Err(err).Msg("Failed to read environment")
		os.Exit(1)
	}

	pipelineChannel := make(chan pipeline.Pipeline)
	go func() {
		for retry := 0; retry < pipelineStartMaxRetries; retry++ {
			cfgs, err := types.LoadConfigurations(config.ConfigPath)
			if err != nil {
				nsdLogger.Err(err).Msg("Failed to load configurations. Retrying in 5 sec")
				time.Sleep(5 * time.Second)
				continue
			}
			nsdLogger.Info().Msgf("Loaded %d configurations", len(cfgs))

			ppln, err := pipeline.New(pipeline.Params{
				ResourceFolder: config.ResourcePath,
				Configurations: cfgs,
			})
			if err != nil {
				nsdLogger.Err(err).Msg("Failed to start negation pipeline. Retrying in 5 sec")
				time.Sleep(5 * time.Second)
				continue
			}
			nsdLogger.Info().Msg("Pipeline loaded")
			pipelineChannel <- ppln
			return
		}
		fatalErrLogger.Msg("Could not start pipeline after 5 retries, exiting")
		os.Exit(1)
	}()

	// block until the pipeline loads
	ppln := <-pipelineChannel

	if config.RestAPIActive {
		go func() {
			nsdLogger.Info().Msg("Starting API service")
			apiRequest := &api.Request{
				Pipeline: ppln,
			}
			http.HandleFunc("/", apiRequest.ProcessData)
			host := fmt.Sprintf(":%s", config.RestAPIPort)
			nsdLogger.Info().Msgf("REST API on %s", host)
			err := http.ListenAndServe(host, nil)
			fatalErrLogger.Err(err).Msg("REST API stopped with error")
		}()
	}

	nsdLogger.Info().Msg("Start NSD Worker")
	for {
		rmqWorker, err := worker.New(ppln)
		if err != nil {
			nsdLogger.Fatal().Err(err).Msg("Could not initialize RMQ worker")
			os.Exit(1)
		}
		if err = rmqWorker.StartWorker(); err != nil {
			nsdLogger.Err(err).Msg("Worker returned with error. Launching new in 5 seconds")
			time.Sleep(5 * time.Second)
		}
	}
}
